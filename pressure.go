package flip

// stagePressure is C10: run a fixed number of Jacobi or Red-Black
// Gauss-Seidel iterations on the fluid-only cells, with air cells acting as
// a 0-pressure Dirichlet boundary and out-of-domain neighbors contributing 0
// (spec.md 4.10). Scheme and iteration count are per-run config.
//
// Grounded in the teacher's multi-pass compute dispatch idiom
// (voxelrt/rt/gpu/manager_hiz.go's mip-chain generation, where each pass
// reads the previous pass's output and a barrier separates passes): Jacobi's
// double-buffer swap and Red-Black's two half-sweeps are the CPU-side
// equivalent of that GPU inter-dispatch barrier.
func (b *CPUBackend) stagePressure() {
	switch b.cfg.SolverScheme {
	case SchemeRedBlack:
		b.solveRedBlack(b.cfg.SolverIterations)
	default:
		b.solveJacobi(b.cfg.SolverIterations)
	}
}

func (b *CPUBackend) pressureK() float64 {
	g := b.grid
	return 1.0 / (2 * (g.invDx*g.invDx + g.invDy*g.invDy + g.invDz*g.invDz))
}

// neighborPressure returns 0 for an out-of-domain neighbor or an air-cell
// neighbor (Dirichlet boundary), else that cell's current pressure.
func (b *CPUBackend) neighborPressure(x, y, z int) float64 {
	if !b.grid.scalarInBounds(x, y, z) {
		return 0
	}
	idx := b.grid.scalarIndex(x, y, z)
	if b.scalar.marker[idx] == cellAir {
		return 0
	}
	return b.scalar.pressure[idx]
}

func (b *CPUBackend) solveJacobi(iterations int) {
	g := b.grid
	s := b.scalar
	k := b.pressureK()
	n := g.scalarCount()
	next := make([]float64, n)

	for iter := 0; iter < iterations; iter++ {
		parallelRange(g.NZ, func(zStart, zEnd int) {
			for z := zStart; z < zEnd; z++ {
				for y := 0; y < g.NY; y++ {
					for x := 0; x < g.NX; x++ {
						idx := g.scalarIndex(x, y, z)
						if s.marker[idx] == cellAir {
							next[idx] = 0
							continue
						}
						pl := b.neighborPressure(x-1, y, z)
						pr := b.neighborPressure(x+1, y, z)
						pb := b.neighborPressure(x, y-1, z)
						pt := b.neighborPressure(x, y+1, z)
						pn := b.neighborPressure(x, y, z-1)
						pf := b.neighborPressure(x, y, z+1)
						div := s.divergence[idx]
						next[idx] = (g.invDx*g.invDx*(pl+pr) + g.invDy*g.invDy*(pb+pt) + g.invDz*g.invDz*(pn+pf) - div) * k
					}
				}
			}
		})
		s.pressure, next = next, s.pressure
	}
}

func (b *CPUBackend) solveRedBlack(iterations int) {
	g := b.grid
	s := b.scalar
	k := b.pressureK()

	updateParity := func(parity int) {
		parallelRange(g.NZ, func(zStart, zEnd int) {
			for z := zStart; z < zEnd; z++ {
				for y := 0; y < g.NY; y++ {
					for x := 0; x < g.NX; x++ {
						if (x+y+z)%2 != parity {
							continue
						}
						idx := g.scalarIndex(x, y, z)
						if s.marker[idx] == cellAir {
							continue
						}
						pl := b.neighborPressure(x-1, y, z)
						pr := b.neighborPressure(x+1, y, z)
						pb := b.neighborPressure(x, y-1, z)
						pt := b.neighborPressure(x, y+1, z)
						pn := b.neighborPressure(x, y, z-1)
						pf := b.neighborPressure(x, y, z+1)
						div := s.divergence[idx]
						s.pressure[idx] = (g.invDx*g.invDx*(pl+pr) + g.invDy*g.invDy*(pb+pt) + g.invDz*g.invDz*(pn+pf) - div) * k
					}
				}
			}
		})
	}

	for iter := 0; iter < iterations; iter++ {
		// Parity-0 cells' neighbors are all parity-1 and vice versa, so each
		// half-sweep reads a field frozen by the other half (spec.md 4.10).
		updateParity(0)
		updateParity(1)
	}
}
