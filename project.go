package flip

// stageProject is C11: subtract the discrete pressure gradient from each
// staggered velocity component along its own axis. Reads of pressure
// outside the scalar grid (at the i=0/j=0/k=0 faces) are clamped to the
// in-range cell, producing a one-sided gradient at the min boundary
// (spec.md 4.11). C8 runs again immediately after this stage.
func (b *CPUBackend) stageProject() {
	g := b.grid
	w := b.working
	s := b.scalar
	vxN, vyN, vzN := g.velDims()

	pressureAt := func(x, y, z int) float64 {
		x = clampInt(x, 0, g.NX-1)
		y = clampInt(y, 0, g.NY-1)
		z = clampInt(z, 0, g.NZ-1)
		return s.pressure[g.scalarIndex(x, y, z)]
	}

	parallelRange(vzN, func(zStart, zEnd int) {
		for z := zStart; z < zEnd; z++ {
			for y := 0; y < vyN; y++ {
				for x := 0; x < vxN; x++ {
					if y < g.NY && z < g.NZ {
						idx := g.velIndex(x, y, z)
						w.vx[idx] -= g.invDx * (pressureAt(x, y, z) - pressureAt(x-1, y, z))
					}
					if x < g.NX && z < g.NZ {
						idx := g.velIndex(x, y, z)
						w.vy[idx] -= g.invDy * (pressureAt(x, y, z) - pressureAt(x, y-1, z))
					}
					if x < g.NX && y < g.NY {
						idx := g.velIndex(x, y, z)
						w.vz[idx] -= g.invDz * (pressureAt(x, y, z) - pressureAt(x, y, z-1))
					}
				}
			}
		}
	})
}
