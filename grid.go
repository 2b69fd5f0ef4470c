package flip

// gridDims holds the resolution and extent of the MAC grid shared by the
// velocity and scalar arrays, plus the precomputed cell sizes and their
// reciprocals used throughout C4-C12.
type gridDims struct {
	NX, NY, NZ int
	Width, Height, Depth float64

	dx, dy, dz       float64
	invDx, invDy, invDz float64
}

func newGridDims(c Config) gridDims {
	g := gridDims{
		NX: c.NX, NY: c.NY, NZ: c.NZ,
		Width: c.Width, Height: c.Height, Depth: c.Depth,
	}
	g.dx = c.Width / float64(c.NX)
	g.dy = c.Height / float64(c.NY)
	g.dz = c.Depth / float64(c.NZ)
	g.invDx = float64(c.NX) / c.Width
	g.invDy = float64(c.NY) / c.Height
	g.invDz = float64(c.NZ) / c.Depth
	return g
}

// velDims/velIndex describe and linearize the (nx+1)x(ny+1)x(nz+1) velocity grid,
// x fastest, with a stride of (nx+1)*(ny+1) between z-slabs (spec.md 4.1).
func (g gridDims) velDims() (int, int, int) { return g.NX + 1, g.NY + 1, g.NZ + 1 }

func (g gridDims) velIndex(x, y, z int) int {
	vx, vy, _ := g.velDims()
	x = clampInt(x, 0, vx-1)
	y = clampInt(y, 0, vy-1)
	z = clampInt(z, 0, g.NZ)
	return x + y*vx + z*vx*vy
}

func (g gridDims) velCount() int {
	vx, vy, vz := g.velDims()
	return vx * vy * vz
}

// scalarIndex linearizes the nx*ny*nz scalar grid the same way.
func (g gridDims) scalarIndex(x, y, z int) int {
	x = clampInt(x, 0, g.NX-1)
	y = clampInt(y, 0, g.NY-1)
	z = clampInt(z, 0, g.NZ-1)
	return x + y*g.NX + z*g.NX*g.NY
}

func (g gridDims) scalarCount() int { return g.NX * g.NY * g.NZ }

func (g gridDims) scalarInBounds(x, y, z int) bool {
	return x >= 0 && x < g.NX && y >= 0 && y < g.NY && z >= 0 && z < g.NZ
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// worldToGrid maps a world-space position to grid space componentwise:
// g = (p - originMin) * (N_axis / extent_axis). originMin is always the
// domain's (0,0,0) corner for this solver (no offset domain origin).
func (g gridDims) worldToGrid(p [3]float64) [3]float64 {
	return [3]float64{
		p[0] * g.invDx,
		p[1] * g.invDy,
		p[2] * g.invDz,
	}
}

// gridToWorld is the inverse mapping, used by C7 to place each staggered
// grid-space sample position back into world space.
func (g gridDims) gridToWorld(p [3]float64) [3]float64 {
	return [3]float64{
		p[0] * g.dx,
		p[1] * g.dy,
		p[2] * g.dz,
	}
}

// tent1D is the 1D hat function h(r) = max(0, 1 - |r|) for the separable
// tent kernel (spec.md 4.1).
func tent1D(r float64) float64 {
	r = absF(r)
	if r >= 1 {
		return 0
	}
	return 1 - r
}

// tent3 is the product of three 1D hat functions, the weight between a
// particle at grid-space position p and a MAC sample at gridPos.
func tent3(p, gridPos [3]float64) float64 {
	return tent1D(p[0]-gridPos[0]) * tent1D(p[1]-gridPos[1]) * tent1D(p[2]-gridPos[2])
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func floorInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}
