package flip

// MouseRay is a world-space ray used by C7's optional impulse kernel.
// Direction must be unit length; Active distinguishes "no ray this frame"
// from a ray whose origin happens to be the zero vector.
type MouseRay struct {
	Active    bool
	Origin    [3]float64
	Direction [3]float64
}

// Inputs bundles the per-Step external inputs (spec.md 6).
type Inputs struct {
	Mouse        MouseRay
	MouseVelocity [3]float64
	FrameNumber  int
}
