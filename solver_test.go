package flip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallScenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.NX, cfg.NY, cfg.NZ = 6, 6, 6
	cfg.Width, cfg.Height, cfg.Depth = 1, 1, 1
	cfg.ParticleCount = 200
	cfg.Spawn = []SpawnBox{{Min: [3]float64{0.1, 0.1, 0.1}, Max: [3]float64{0.9, 0.6, 0.9}, Fill: 1}}
	cfg.SolverIterations = 20
	return cfg
}

func TestSolver_ResetThenStepSucceeds(t *testing.T) {
	s := NewSolver()
	require.NoError(t, s.Reset(smallScenarioConfig()))

	err := s.Step(1.0/60.0, Inputs{FrameNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 200, s.ParticleCount())
	assert.Equal(t, BackendCPU, s.Backend())
}

func TestSolver_ParticleCountIsInvariantAcrossSteps(t *testing.T) {
	s := NewSolver()
	require.NoError(t, s.Reset(smallScenarioConfig()))

	for frame := 1; frame <= 5; frame++ {
		require.NoError(t, s.Step(1.0/60.0, Inputs{FrameNumber: frame}))
		assert.Equal(t, 200, len(s.ParticlePositions()))
		assert.Equal(t, 200, len(s.ParticleVelocities()))
	}
}

func TestSolver_StepRejectsNonPositiveDt(t *testing.T) {
	s := NewSolver()
	require.NoError(t, s.Reset(smallScenarioConfig()))

	err := s.Step(0, Inputs{FrameNumber: 1})
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "dt", invalid.Field)
}

func TestSolver_StepRejectsNonIncreasingFrameNumber(t *testing.T) {
	s := NewSolver()
	require.NoError(t, s.Reset(smallScenarioConfig()))
	require.NoError(t, s.Step(1.0/60.0, Inputs{FrameNumber: 5}))

	err := s.Step(1.0/60.0, Inputs{FrameNumber: 5})
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "frame_number", invalid.Field)
}

func TestSolver_StepRejectsNonUnitMouseDirection(t *testing.T) {
	s := NewSolver()
	require.NoError(t, s.Reset(smallScenarioConfig()))

	err := s.Step(1.0/60.0, Inputs{
		FrameNumber: 1,
		Mouse:       MouseRay{Active: true, Direction: [3]float64{2, 0, 0}},
	})
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "mouse.direction", invalid.Field)
}

func TestSolver_ResetRejectsInvalidConfig(t *testing.T) {
	s := NewSolver()
	cfg := smallScenarioConfig()
	cfg.NX = 0

	err := s.Reset(cfg)
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "nx", cerr.Field)
}

func TestSolver_StepBeforeResetIsAConfigurationError(t *testing.T) {
	s := NewSolver()
	err := s.Step(1.0/60.0, Inputs{FrameNumber: 1})
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

// TestSolver_ParticlesSettleUnderGravityWithoutEscapingTheDomain is a
// coarse end-to-end check of Scenario A-style free-fall-into-floor behavior
// (spec.md 8): kinetic energy stays finite and every particle remains
// within the clamped domain bounds over many steps.
func TestSolver_ParticlesSettleUnderGravityWithoutEscapingTheDomain(t *testing.T) {
	s := NewSolver()
	cfg := smallScenarioConfig()
	require.NoError(t, s.Reset(cfg))

	for frame := 1; frame <= 30; frame++ {
		require.NoError(t, s.Step(1.0/60.0, Inputs{FrameNumber: frame}))
	}

	stats := s.Stats()
	assert.False(t, mathIsNaN(stats.MeanKineticEnergy))
	assert.GreaterOrEqual(t, stats.MeanKineticEnergy, 0.0)

	for _, p := range s.ParticlePositions() {
		for axis := 0; axis < 3; axis++ {
			extent := [3]float64{cfg.Width, cfg.Height, cfg.Depth}[axis]
			assert.GreaterOrEqual(t, p[axis], -1e-6)
			assert.LessOrEqual(t, p[axis], extent+1e-6)
		}
	}
}

// TestSolver_WorkingVelocityAccessorReportsConsistentDims exercises the
// WorkingVelocity/VelocityDims accessor pair (spec.md 6).
func TestSolver_WorkingVelocityAccessorReportsConsistentDims(t *testing.T) {
	s := NewSolver()
	cfg := smallScenarioConfig()
	require.NoError(t, s.Reset(cfg))
	require.NoError(t, s.Step(1.0/60.0, Inputs{FrameNumber: 1}))

	view := s.WorkingVelocity()
	dimX, dimY, dimZ := view.Dims()
	assert.Equal(t, cfg.NX+1, dimX)
	assert.Equal(t, cfg.NY+1, dimY)
	assert.Equal(t, cfg.NZ+1, dimZ)

	vx, vy, vz, w := view.At(1, 1, 1)
	assert.False(t, mathIsNaN(vx))
	assert.False(t, mathIsNaN(vy))
	assert.False(t, mathIsNaN(vz))
	assert.False(t, mathIsNaN(w))
}

func mathIsNaN(v float64) bool { return v != v }
