package flip

import "testing"

func TestSampleComponent_ConstantFieldReturnsThatConstant(t *testing.T) {
	cfg := validConfig().normalized()
	g := newGridDims(cfg)
	dimX, dimY, dimZ := g.velDims()
	n := dimX * dimY * dimZ
	comp := make([]float64, n)
	for i := range comp {
		comp[i] = 3.5
	}

	got := sampleComponent(g, comp, [3]float64{0.37, 0.61, 0.12}, offsetVx, dimX, dimY, dimZ)
	if absF(got-3.5) > 1e-9 {
		t.Errorf("expected constant field to interpolate to 3.5 everywhere, got %v", got)
	}
}

func TestSampleComponent_LinearRampInterpolatesExactly(t *testing.T) {
	cfg := validConfig().normalized()
	g := newGridDims(cfg)
	dimX, dimY, dimZ := g.velDims()
	comp := make([]float64, dimX*dimY*dimZ)
	for z := 0; z < dimZ; z++ {
		for y := 0; y < dimY; y++ {
			for x := 0; x < dimX; x++ {
				comp[x+y*dimX+z*dimX*dimY] = float64(x)
			}
		}
	}

	// Sample at a grid-space x of 1.5 (offset zero), which trilinear
	// interpolation of a linear ramp reproduces exactly.
	pos := g.gridToWorld([3]float64{1.5, 1, 1})
	got := sampleComponent(g, comp, pos, [3]float64{0, 0, 0}, dimX, dimY, dimZ)
	if absF(got-1.5) > 1e-9 {
		t.Errorf("expected linear ramp to interpolate to 1.5, got %v", got)
	}
}

func TestClampIntoDomain_NoInstabilityForSmallOvershoot(t *testing.T) {
	cfg := validConfig().normalized()
	g := newGridDims(cfg)
	pos := [3]float64{g.Width + 0.001, 0.5, 0.5}
	_, inst := clampIntoDomain(pos, domainEpsilon, domainEpsilon, domainEpsilon,
		g.Width-domainEpsilon, g.Height-domainEpsilon, g.Depth-domainEpsilon, g)
	if inst != nil {
		t.Errorf("expected no instability report for a tiny overshoot, got %v", inst)
	}
}

func TestClampIntoDomain_ReportsInstabilityForLargeOvershoot(t *testing.T) {
	cfg := validConfig().normalized()
	g := newGridDims(cfg)
	pos := [3]float64{g.Width * 2, 0.5, 0.5}
	clamped, inst := clampIntoDomain(pos, domainEpsilon, domainEpsilon, domainEpsilon,
		g.Width-domainEpsilon, g.Height-domainEpsilon, g.Depth-domainEpsilon, g)
	if inst == nil {
		t.Fatalf("expected an instability report for a large overshoot")
	}
	if inst.Axis != 0 {
		t.Errorf("expected the overshoot to be reported on axis 0, got %d", inst.Axis)
	}
	if clamped[0] != g.Width-domainEpsilon {
		t.Errorf("expected position clamped to the domain edge, got %v", clamped[0])
	}
}
