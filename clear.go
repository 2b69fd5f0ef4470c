package flip

// stageClear is C3: zero the atomic accumulators, the working velocity
// field, marker, pressure, and divergence over the full grid. The original
// velocity field is not cleared here; C6 overwrites it with a copy of the
// working field every step. Pressure is reset to
// zero every frame; warm-starting from the previous frame's pressure is a
// valid optimization the spec does not require (spec.md 4.3).
//
// Grounded in the teacher's SpatialHashGrid.Clear (mod_spatialgrid.go),
// generalized from a sparse map clear to a dense-slice clear.
func (b *CPUBackend) stageClear() {
	b.working.clear()
	b.weightScatter.clear()
	b.scalar.clear()
}
