package flip

// stageBoundary is C8: enforce free-slip walls on all six faces of the
// working velocity field. The wall-normal component at each wall node is set
// to zero, except on the +y (top) face, where it is clamped to min(v, 0) to
// permit outflow only (spec.md 4.8). Tangential components are untouched.
// This runs twice per step: after C7 and after C11.
//
// Grounded in the teacher's rigid-body wall/collider response idiom
// (physics.go), generalized from discrete collision impulses to a
// continuous per-face velocity clamp on a staggered grid.
func (b *CPUBackend) stageBoundary() {
	g := b.grid
	w := b.working
	vxN, vyN, vzN := g.velDims()

	// Vx lives on x-faces: x in [0, nx], y in [0, ny-1], z in [0, nz-1].
	// The x=0 and x=nx faces are the -x/+x walls. Face area is O(n^2), so a
	// single goroutine is enough; the bulk O(n^3) work lives in C4/C9-C12.
	for z := 0; z < g.NZ; z++ {
		for y := 0; y < g.NY; y++ {
			w.vx[g.velIndex(0, y, z)] = 0
			w.vx[g.velIndex(vxN-1, y, z)] = 0
		}
	}

	// Vy lives on y-faces: y in [0, ny], x/z in cell range. y=0 is the
	// floor (full no-penetration); y=ny is the top (outflow-only).
	for z := 0; z < g.NZ; z++ {
		for x := 0; x < g.NX; x++ {
			w.vy[g.velIndex(x, 0, z)] = 0
			topIdx := g.velIndex(x, vyN-1, z)
			if w.vy[topIdx] > 0 {
				w.vy[topIdx] = 0
			}
		}
	}

	// Vz lives on z-faces: z in [0, nz], x/y in cell range.
	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			w.vz[g.velIndex(x, y, 0)] = 0
			w.vz[g.velIndex(x, y, vzN-1)] = 0
		}
	}
}
