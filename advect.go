package flip

import (
	"math"
	"sync"
)

// domainEpsilon is the clamp margin keeping particles strictly inside the
// domain (spec.md 4.12 step 9).
const domainEpsilon = 0.01

// sampleComponent trilinearly interpolates one staggered velocity component
// of field at world position pos. offset is the component's own staggered
// sample offset in grid space (spec.md 4.12 step 2: (0,-1/2,-1/2) for Vx,
// (-1/2,0,-1/2) for Vy, (-1/2,-1/2,0) for Vz), applied before interpolation.
// Integer cell indices are clamped to the valid grid.
func sampleComponent(g gridDims, comp []float64, pos [3]float64, offset [3]float64, dimX, dimY, dimZ int) float64 {
	gp := g.worldToGrid(pos)
	gp[0] += offset[0]
	gp[1] += offset[1]
	gp[2] += offset[2]

	ix, iy, iz := floorInt(gp[0]), floorInt(gp[1]), floorInt(gp[2])
	fx, fy, fz := gp[0]-float64(ix), gp[1]-float64(iy), gp[2]-float64(iz)

	at := func(x, y, z int) float64 {
		x = clampInt(x, 0, dimX-1)
		y = clampInt(y, 0, dimY-1)
		z = clampInt(z, 0, dimZ-1)
		return comp[x+y*dimX+z*dimX*dimY]
	}

	c000 := at(ix, iy, iz)
	c100 := at(ix+1, iy, iz)
	c010 := at(ix, iy+1, iz)
	c110 := at(ix+1, iy+1, iz)
	c001 := at(ix, iy, iz+1)
	c101 := at(ix+1, iy, iz+1)
	c011 := at(ix, iy+1, iz+1)
	c111 := at(ix+1, iy+1, iz+1)

	c00 := lerp64(c000, c100, fx)
	c10 := lerp64(c010, c110, fx)
	c01 := lerp64(c001, c101, fx)
	c11 := lerp64(c011, c111, fx)

	c0 := lerp64(c00, c10, fy)
	c1 := lerp64(c01, c11, fy)

	return lerp64(c0, c1, fz)
}

func lerp64(a, b, t float64) float64 { return a + (b-a)*t }

var (
	offsetVx = [3]float64{0, -0.5, -0.5}
	offsetVy = [3]float64{-0.5, 0, -0.5}
	offsetVz = [3]float64{-0.5, -0.5, 0}
)

// sampleVelocity samples all three staggered components of field at pos.
func (b *CPUBackend) sampleVelocity(field *velocityField, pos [3]float64) [3]float64 {
	g := b.grid
	dimX, dimY, dimZ := g.velDims()
	return [3]float64{
		sampleComponent(g, field.vx, pos, offsetVx, dimX, dimY, dimZ),
		sampleComponent(g, field.vy, pos, offsetVy, dimX, dimY, dimZ),
		sampleComponent(g, field.vz, pos, offsetVz, dimX, dimY, dimZ),
	}
}

// stageAdvectAndG2P is C12: for each particle, blend the PIC and FLIP
// velocity updates, then RK2-advect the position with bounded turbulent
// jitter, clamping strictly inside the domain (spec.md 4.12).
func (b *CPUBackend) stageAdvectAndG2P(dt float64, frame int) {
	ps := b.particles
	g := b.grid
	fluidity := b.cfg.Fluidity
	turbulence := b.cfg.Turbulence

	epsX := domainEpsilon
	epsY := domainEpsilon
	epsZ := domainEpsilon
	maxX, maxY, maxZ := g.Width-epsX, g.Height-epsY, g.Depth-epsZ

	var instability *NumericalInstability
	var instabilityMu sync.Mutex

	parallelRange(ps.count(), func(start, end int) {
		for i := start; i < end; i++ {
			pos := ps.position(i)
			vOld := ps.velocity(i)

			vNew := b.sampleVelocity(b.working, pos)
			vOrig := b.sampleVelocity(b.original, pos)

			vPIC := vNew
			vFLIP := [3]float64{
				vOld[0] + (vNew[0] - vOrig[0]),
				vOld[1] + (vNew[1] - vOrig[1]),
				vOld[2] + (vNew[2] - vOrig[2]),
			}
			blended := [3]float64{
				lerp64(vPIC[0], vFLIP[0], fluidity),
				lerp64(vPIC[1], vFLIP[1], fluidity),
				lerp64(vPIC[2], vFLIP[2], fluidity),
			}
			ps.setVelocity(i, blended)

			// RK2 advection.
			step1 := b.sampleVelocity(b.working, pos)
			mid := [3]float64{pos[0] + step1[0]*dt/2, pos[1] + step1[1]*dt/2, pos[2] + step1[2]*dt/2}
			step2 := b.sampleVelocity(b.working, mid)
			newPos := [3]float64{pos[0] + step2[0]*dt, pos[1] + step2[1]*dt, pos[2] + step2[2]*dt}

			if turbulence > 0 {
				dir := b.randDirs.at(i, frame)
				speed := step2Magnitude(b.sampleVelocity(b.working, newPos))
				scale := turbulence * speed * dt
				newPos[0] += dir[0] * scale
				newPos[1] += dir[1] * scale
				newPos[2] += dir[2] * scale
			}

			clamped, over := clampIntoDomain(newPos, epsX, epsY, epsZ, maxX, maxY, maxZ, g)
			if over != nil {
				over.ParticleIndex = i
				instabilityMu.Lock()
				if instability == nil {
					instability = over
				}
				instabilityMu.Unlock()
			}
			ps.setPosition(i, clamped)
		}
	})

	b.lastInstability = instability
}

func step2Magnitude(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// clampIntoDomain clamps pos componentwise to [eps, extent-eps] and reports
// a NumericalInstability (spec.md 7) if pos was more than 10% of the axis's
// extent outside the domain before clamping.
func clampIntoDomain(pos [3]float64, epsX, epsY, epsZ, maxX, maxY, maxZ float64, g gridDims) ([3]float64, *NumericalInstability) {
	var inst *NumericalInstability
	extents := [3]float64{g.Width, g.Height, g.Depth}
	lo := [3]float64{epsX, epsY, epsZ}
	hi := [3]float64{maxX, maxY, maxZ}

	for axis := 0; axis < 3; axis++ {
		var overshoot float64
		if pos[axis] < lo[axis] {
			overshoot = lo[axis] - pos[axis]
		} else if pos[axis] > hi[axis] {
			overshoot = pos[axis] - hi[axis]
		}
		if overshoot > 0.1*extents[axis] && inst == nil {
			inst = &NumericalInstability{Axis: axis, OvershootFrac: overshoot / extents[axis]}
		}
		pos[axis] = clampF(pos[axis], lo[axis], hi[axis])
	}
	return pos, inst
}
