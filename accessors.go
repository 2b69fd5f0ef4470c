package flip

// VelocityFieldView is a read-only view over the working velocity grid,
// returned by Solver.WorkingVelocity for density-based rendering (spec.md
// 6). It exposes the same staggered MAC layout the core uses internally;
// callers should treat it as read-only shared state between Step calls.
type VelocityFieldView struct {
	field            *velocityField
	dimX, dimY, dimZ int
}

// Dims returns the (nx+1, ny+1, nz+1) node counts along each axis.
func (v *VelocityFieldView) Dims() (int, int, int) { return v.dimX, v.dimY, v.dimZ }

// At returns (Vx, Vy, Vz, density-weight) at node (x, y, z), clamped to the
// valid range.
func (v *VelocityFieldView) At(x, y, z int) (vx, vy, vz, w float64) {
	x = clampInt(x, 0, v.dimX-1)
	y = clampInt(y, 0, v.dimY-1)
	z = clampInt(z, 0, v.dimZ-1)
	idx := x + y*v.dimX + z*v.dimX*v.dimY
	return v.field.vx[idx], v.field.vy[idx], v.field.vz[idx], v.field.w[idx]
}

// WorkingVelocity exposes the post-step working velocity field for
// density-based rendering (spec.md 6); read-only between Step calls.
func (s *Solver) WorkingVelocity() *VelocityFieldView {
	dimX, dimY, dimZ := s.backend.VelocityDims()
	return &VelocityFieldView{field: s.backend.WorkingVelocity(), dimX: dimX, dimY: dimY, dimZ: dimZ}
}
