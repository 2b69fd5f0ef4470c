package flip

// Backend drives the twelve-stage FLIP pipeline over one allocation of
// particle and grid buffers. Solver is backend-agnostic: it validates Config
// and Inputs, then delegates the actual stage dispatch to whichever Backend
// Config.Backend selected. This mirrors the teacher's exclusive-renderer
// pattern (renderer_select.go's UseRenderer/ensureSingleRenderer): exactly
// one backend is installed per Solver instance, chosen once at Reset.
type Backend interface {
	// Reset (re)allocates every buffer the backend owns from cfg (already
	// validated and normalized by the caller) and seeds the particle set.
	Reset(cfg Config, ps *particleSet) error

	// Step runs the twelve stages in order for one frame. frame and dt are
	// already validated; mouse/mouseVel are passed through from Inputs.
	// A particle clamped back by more than 10% of an axis extent in C12 does
	// not fail the step and is not returned here; CPUBackend and GPUBackend
	// record it for their LastInstability method instead.
	Step(dt float64, mouse MouseRay, mouseVel [3]float64, frame int) error

	// Particles returns the backend's live particle set for the accessors
	// and for the next Step's v_old in C12.
	Particles() *particleSet

	// WorkingVelocity exposes the post-step working velocity field for the
	// density-rendering accessor (spec.md 6).
	WorkingVelocity() *velocityField

	// VelocityDims reports the (nx+1, ny+1, nz+1) node counts of the
	// velocity grid, needed to interpret WorkingVelocity's flat slices.
	VelocityDims() (int, int, int)

	// Kind reports which BackendKind this value implements.
	Kind() BackendKind
}
