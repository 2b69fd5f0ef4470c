package flip

import (
	"math"
	"math/rand"
)

// particleSet is the Lagrangian particle state: an ordered sequence of N
// particles, each with a world-space position and velocity (spec.md 3). N is
// fixed for the lifetime of a run; particles are created at Reset and
// mutated only by C12 thereafter.
//
// Storage is struct-of-arrays, mirroring the teacher engine's particle pool
// convention (a flat []float per component rather than []Particle), which
// keeps the per-stage worker-pool loops (parallel.go) allocation-free.
type particleSet struct {
	posX, posY, posZ []float64
	velX, velY, velZ []float64
}

func newParticleSet(n int) *particleSet {
	return &particleSet{
		posX: make([]float64, n), posY: make([]float64, n), posZ: make([]float64, n),
		velX: make([]float64, n), velY: make([]float64, n), velZ: make([]float64, n),
	}
}

func (p *particleSet) count() int { return len(p.posX) }

func (p *particleSet) position(i int) [3]float64 {
	return [3]float64{p.posX[i], p.posY[i], p.posZ[i]}
}

func (p *particleSet) velocity(i int) [3]float64 {
	return [3]float64{p.velX[i], p.velY[i], p.velZ[i]}
}

func (p *particleSet) setPosition(i int, v [3]float64) {
	p.posX[i], p.posY[i], p.posZ[i] = v[0], v[1], v[2]
}

func (p *particleSet) setVelocity(i int, v [3]float64) {
	p.velX[i], p.velY[i], p.velZ[i] = v[0], v[1], v[2]
}

// spawnParticles samples particle positions on a jittered grid inside each
// SpawnBox at the box's target fill fraction, filling the boxes one after
// another in order and stopping once n particles are placed (spec.md 6
// "initial spawn"). The
// jittered-lattice approach mirrors the teacher's voxel-to-particle bridging
// in its cellular-automaton-to-billboard conversion, which perturbs a
// regular lattice position by a fraction of the cell size to avoid a visibly
// regular grid.
func spawnParticles(n int, boxes []SpawnBox, rng *rand.Rand) *particleSet {
	ps := newParticleSet(n)
	if n == 0 || len(boxes) == 0 {
		return ps
	}

	type lattice struct {
		box            SpawnBox
		nx, ny, nz     int
		cellX, cellY, cellZ float64
	}
	lattices := make([]lattice, len(boxes))
	totalCells := 0
	for i, b := range boxes {
		sx := b.Max[0] - b.Min[0]
		sy := b.Max[1] - b.Min[1]
		sz := b.Max[2] - b.Min[2]
		volume := sx * sy * sz
		if volume <= 0 {
			continue
		}
		// Aim for roughly n*fill/len(boxes) particles per box by choosing a
		// cubic lattice spacing from the target particle count.
		target := float64(n) * b.Fill / float64(len(boxes))
		if target < 1 {
			target = 1
		}
		cell := cubeRoot(volume / target)
		if cell <= 0 {
			cell = 1
		}
		nx := maxInt(1, int(sx/cell))
		ny := maxInt(1, int(sy/cell))
		nz := maxInt(1, int(sz/cell))
		lattices[i] = lattice{box: b, nx: nx, ny: ny, nz: nz, cellX: sx / float64(nx), cellY: sy / float64(ny), cellZ: sz / float64(nz)}
		totalCells += nx * ny * nz
	}

	placed := 0
	for li := range lattices {
		l := lattices[li]
		if l.nx == 0 {
			continue
		}
		for z := 0; z < l.nz && placed < n; z++ {
			for y := 0; y < l.ny && placed < n; y++ {
				for x := 0; x < l.nx && placed < n; x++ {
					if rng.Float64() > l.box.Fill {
						continue
					}
					px := l.box.Min[0] + (float64(x)+0.5)*l.cellX + (rng.Float64()-0.5)*l.cellX*0.8
					py := l.box.Min[1] + (float64(y)+0.5)*l.cellY + (rng.Float64()-0.5)*l.cellY*0.8
					pz := l.box.Min[2] + (float64(z)+0.5)*l.cellZ + (rng.Float64()-0.5)*l.cellZ*0.8
					ps.setPosition(placed, [3]float64{px, py, pz})
					placed++
				}
			}
		}
	}
	// Any remaining slots (rounding, or fill < 1 starving the lattice) are
	// filled by re-sampling uniformly within the first box so particleCount
	// is always honored exactly.
	for placed < n {
		b := lattices[0].box
		px := b.Min[0] + rng.Float64()*(b.Max[0]-b.Min[0])
		py := b.Min[1] + rng.Float64()*(b.Max[1]-b.Min[1])
		pz := b.Min[2] + rng.Float64()*(b.Max[2]-b.Min[2])
		ps.setPosition(placed, [3]float64{px, py, pz})
		placed++
	}
	return ps
}

func cubeRoot(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 1.0/3.0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
