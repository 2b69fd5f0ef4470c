package flip

import "testing"

func validConfig() Config {
	return Config{
		NX: 4, NY: 4, NZ: 4,
		Width: 1, Height: 1, Depth: 1,
		ParticleCount: 8,
		TargetDensity: 1,
		Spawn:         []SpawnBox{{Max: [3]float64{1, 1, 1}, Fill: 1}},
	}
}

func TestConfig_ValidateRejectsBadGrid(t *testing.T) {
	c := validConfig()
	c.NX = 0
	if err := c.Validate(); err == nil {
		t.Errorf("expected an error for nx=0, got nil")
	}
}

func TestConfig_ValidateRejectsBadFluidity(t *testing.T) {
	c := validConfig()
	c.Fluidity = 1.5
	if err := c.Validate(); err == nil {
		t.Errorf("expected an error for fluidity=1.5, got nil")
	}
}

func TestConfig_ValidateRejectsBadScheme(t *testing.T) {
	c := validConfig()
	c.SolverScheme = "multigrid"
	if err := c.Validate(); err == nil {
		t.Errorf("expected an error for an unknown solver scheme, got nil")
	}
}

func TestConfig_NormalizedFillsDefaults(t *testing.T) {
	c := validConfig()
	n := c.normalized()
	if n.SolverIterations != defaultSolveIter {
		t.Errorf("expected default solver iterations %d, got %d", defaultSolveIter, n.SolverIterations)
	}
	if n.Backend != BackendCPU {
		t.Errorf("expected default backend %q, got %q", BackendCPU, n.Backend)
	}
}

func TestConfig_ValidateAcceptsWellFormedConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("expected no error for a well-formed config, got %v", err)
	}
}
