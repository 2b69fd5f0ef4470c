package flip

// stageP2G is C4: splat each particle's velocity to the eight surrounding
// MAC nodes with per-component staggered weights, accumulating into the
// fixed-point scatter buffer. Particles are partitioned across the worker
// pool (parallelRange); concurrent writes to the same node are race-free
// because scatterBuffer.addWeight/addVelocity use integer atomic add
// (spec.md 4.2, 4.4).
func (b *CPUBackend) stageP2G() {
	ps := b.particles
	g := b.grid
	sc := b.weightScatter

	parallelRange(ps.count(), func(start, end int) {
		for i := start; i < end; i++ {
			pos := ps.position(i)
			vel := ps.velocity(i)
			gp := g.worldToGrid(pos)

			ix, iy, iz := floorInt(gp[0]), floorInt(gp[1]), floorInt(gp[2])
			vx, vy, vz := g.velDims()

			for dz := 0; dz <= 1; dz++ {
				for dy := 0; dy <= 1; dy++ {
					for dx := 0; dx <= 1; dx++ {
						nx, ny, nz := ix+dx, iy+dy, iz+dz
						// Nodes may carry one past the fluid-cell range
						// (the velocity grid has one extra node per axis);
						// nodes fully out of range are skipped rather than
						// clamped here, matching the one-sided weighting at
						// walls the spec calls out as intended (4.4).
						if nx < 0 || nx >= vx || ny < 0 || ny >= vy || nz < 0 || nz >= vz {
							continue
						}

						wx := tent3(gp, [3]float64{float64(nx), float64(ny) + 0.5, float64(nz) + 0.5})
						wy := tent3(gp, [3]float64{float64(nx) + 0.5, float64(ny), float64(nz) + 0.5})
						wz := tent3(gp, [3]float64{float64(nx) + 0.5, float64(ny) + 0.5, float64(nz)})
						ws := tent3(gp, [3]float64{float64(nx) + 0.5, float64(ny) + 0.5, float64(nz) + 0.5})

						if wx == 0 && wy == 0 && wz == 0 && ws == 0 {
							continue
						}

						idx := g.velIndex(nx, ny, nz)
						sc.addWeight(idx, wx, wy, wz, ws)
						sc.addVelocity(idx, vel[0], vel[1], vel[2], wx, wy, wz)
					}
				}
			}
		}
	})
}
