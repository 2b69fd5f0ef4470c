package flip

import (
	"errors"
	"math/rand"
)

// Solver is the public entry point: it owns exactly one Backend and the
// particle set, and exposes Reset/Step/accessors (spec.md 6). Multiple
// independent Solver values may coexist in one process; there is no
// module-level state (spec.md 9).
type Solver struct {
	cfg     Config
	backend Backend
	logger  Logger

	lastFrame int
	haveFrame bool
}

// NewSolver constructs an unreset Solver using the default (nop) logger.
// Call Reset before Step.
func NewSolver() *Solver {
	return &Solver{logger: NewNopLogger()}
}

// SetLogger installs a Logger used for warnings (e.g. NumericalInstability)
// and informational messages (backend selection, particle counts). A nil
// logger is replaced with a no-op logger.
func (s *Solver) SetLogger(l Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	s.logger = l
}

// Reset destroys any existing state and allocates fresh particle and grid
// buffers from cfg. Returns a *ConfigurationError if cfg is invalid, or a
// *ResourceAllocationError if a buffer could not be allocated.
func (s *Solver) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.normalized()

	backend, err := newBackendFor(cfg.Backend)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(0))
	ps := spawnParticles(cfg.ParticleCount, cfg.Spawn, rng)

	if err := backend.Reset(cfg, ps); err != nil {
		return err
	}

	s.cfg = cfg
	s.backend = backend
	s.haveFrame = false
	s.logger.Infof("flip: reset with %d particles on a %dx%dx%d grid (backend=%s)",
		cfg.ParticleCount, cfg.NX, cfg.NY, cfg.NZ, backend.Kind())
	return nil
}

// newBackendFor constructs the Backend for kind, the CPU/GPU exclusivity
// point mirrored on the teacher's ensureSingleRenderer/UseRenderer pattern
// (renderer_select.go, renderer_guard.go): exactly one backend is ever
// installed on a Solver, chosen here.
func newBackendFor(kind BackendKind) (Backend, error) {
	switch kind {
	case BackendGPU:
		b, err := newGPUBackend()
		if err != nil {
			return nil, &ResourceAllocationError{Resource: "gpu device", Err: err}
		}
		return b, nil
	case BackendCPU, "":
		return NewCPUBackend(), nil
	default:
		return nil, &ConfigurationError{Field: "backend", Reason: "unknown backend " + string(kind)}
	}
}

// Step advances the simulation by dt seconds. Returns *InvalidInputError
// without mutating state if dt <= 0, the mouse direction is not unit length,
// or the frame number did not increase from the previous call.
func (s *Solver) Step(dt float64, in Inputs) error {
	if s.backend == nil {
		return &ConfigurationError{Field: "solver", Reason: "Step called before Reset"}
	}
	if dt <= 0 {
		return &InvalidInputError{Field: "dt", Reason: "must be > 0"}
	}
	if in.Mouse.Active && !isUnit(in.Mouse.Direction) {
		return &InvalidInputError{Field: "mouse.direction", Reason: "must be unit length"}
	}
	if s.haveFrame && in.FrameNumber <= s.lastFrame {
		return &InvalidInputError{Field: "frame_number", Reason: "must increase from the previous Step call"}
	}

	if err := s.backend.Step(dt, in.Mouse, in.MouseVelocity, in.FrameNumber); err != nil {
		return err
	}

	s.lastFrame = in.FrameNumber
	s.haveFrame = true

	if ib, ok := s.backend.(instabilityReporter); ok {
		if inst := ib.LastInstability(); inst != nil {
			s.logger.Warnf("%v", inst)
		}
	}
	return nil
}

// instabilityReporter is implemented by both CPUBackend and GPUBackend;
// Solver checks it with a type assertion rather than adding it to Backend
// itself since a future backend might not track this diagnostic.
type instabilityReporter interface {
	LastInstability() *NumericalInstability
}

func isUnit(v [3]float64) bool {
	lenSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	const tol = 1e-3
	return lenSq > (1-tol)*(1-tol) && lenSq < (1+tol)*(1+tol)
}

// ParticlePositions returns the particle positions as (x,y,z) triples. The
// slice is a fresh copy taken at the time of the call, not a reference to
// the solver's own buffer, so later Steps do not update it.
func (s *Solver) ParticlePositions() [][3]float64 { return s.particleTriples(s.backend.Particles().position) }

// ParticleVelocities returns the particle velocities as a fresh copy, in the
// same way as ParticlePositions.
func (s *Solver) ParticleVelocities() [][3]float64 {
	return s.particleTriples(s.backend.Particles().velocity)
}

func (s *Solver) particleTriples(at func(int) [3]float64) [][3]float64 {
	n := s.backend.Particles().count()
	out := make([][3]float64, n)
	for i := 0; i < n; i++ {
		out[i] = at(i)
	}
	return out
}

// ParticleCount returns the current (fixed-for-the-run) particle count.
func (s *Solver) ParticleCount() int { return s.backend.Particles().count() }

// Backend reports which BackendKind is currently driving the solver.
func (s *Solver) Backend() BackendKind {
	if s.backend == nil {
		return ""
	}
	return s.backend.Kind()
}

// errBackendUnavailable is wrapped into the error newGPUBackend returns when
// the optional GPU device stack could not be brought up at all (no
// compatible adapter or device).
var errBackendUnavailable = errors.New("flip: no compatible GPU adapter")
