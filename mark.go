package flip

// stageMark is C5: flag every cell containing at least one particle as
// fluid. Multiple particles may write the same cell; the write value is
// always cellFluid, so the operation is idempotent and a plain (non-atomic)
// write is correct even when particles are partitioned across workers
// (spec.md 4.5).
func (b *CPUBackend) stageMark() {
	ps := b.particles
	g := b.grid
	marker := b.scalar.marker

	parallelRange(ps.count(), func(start, end int) {
		for i := start; i < end; i++ {
			gp := g.worldToGrid(ps.position(i))
			ix := clampInt(floorInt(gp[0]), 0, g.NX-1)
			iy := clampInt(floorInt(gp[1]), 0, g.NY-1)
			iz := clampInt(floorInt(gp[2]), 0, g.NZ-1)
			marker[g.scalarIndex(ix, iy, iz)] = cellFluid
		}
	})
}
