package flip

// stageDivergence is C9: compute the discrete divergence of the working
// velocity field in every fluid cell, minus a penalty proportional to the
// amount by which the cell's density weight exceeds the target density. Air
// cells get divergence 0 and act as a Dirichlet pressure boundary in C10
// (spec.md 4.9).
func (b *CPUBackend) stageDivergence() {
	g := b.grid
	w := b.working
	s := b.scalar
	targetDensity := b.cfg.TargetDensity

	parallelRange(g.NZ, func(zStart, zEnd int) {
		for z := zStart; z < zEnd; z++ {
			for y := 0; y < g.NY; y++ {
				for x := 0; x < g.NX; x++ {
					idx := g.scalarIndex(x, y, z)
					if s.marker[idx] == cellAir {
						s.divergence[idx] = 0
						continue
					}

					div := g.invDx*(w.vx[g.velIndex(x+1, y, z)]-w.vx[g.velIndex(x, y, z)]) +
						g.invDy*(w.vy[g.velIndex(x, y+1, z)]-w.vy[g.velIndex(x, y, z)]) +
						g.invDz*(w.vz[g.velIndex(x, y, z+1)]-w.vz[g.velIndex(x, y, z)])

					rho := w.w[g.velIndex(x, y, z)]
					penalty := rho - targetDensity
					if penalty < 0 {
						penalty = 0
					}
					s.divergence[idx] = div - penalty
				}
			}
		}
	})
}
