package flip

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Scheme selects the pressure-solve iteration scheme used by C10.
type Scheme string

const (
	SchemeJacobi    Scheme = "jacobi"
	SchemeRedBlack  Scheme = "red-black"
	defaultScheme          = SchemeJacobi
	defaultSolveIter        = 50
)

// BackendKind selects the execution backend a Solver drives its twelve
// stages on. BackendCPU is the default and needs no GPU device; BackendGPU
// dispatches the same twelve stages as WGSL compute kernels through
// cogentcore/webgpu.
type BackendKind string

const (
	BackendCPU BackendKind = "cpu"
	BackendGPU BackendKind = "gpu"
)

// SpawnBox describes an axis-aligned box, in world coordinates, from which
// particle positions are sampled on a jittered grid at Reset.
type SpawnBox struct {
	Min [3]float64 `toml:"min" yaml:"min"`
	Max [3]float64 `toml:"max" yaml:"max"`
	// Fill is the target fraction (0,1] of the box's jittered lattice cells
	// that receive a particle. 1.0 fills every lattice cell.
	Fill float64 `toml:"fill" yaml:"fill"`
}

// Config is the flat record of all Reset-time options. None of these are
// implicit globals: a process may run many Solvers, each with its own
// Config.
type Config struct {
	// Grid resolution, cell counts along each axis. Must each be >= 1.
	NX int `toml:"nx" yaml:"nx"`
	NY int `toml:"ny" yaml:"ny"`
	NZ int `toml:"nz" yaml:"nz"`

	// Domain extent in world units. Must each be > 0.
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
	Depth  float64 `toml:"depth" yaml:"depth"`

	// Particle count for the run's lifetime. Must be >= 0.
	ParticleCount int `toml:"particle_count" yaml:"particle_count"`

	// Spawn boxes sampled at Reset to seed the initial particle set.
	Spawn []SpawnBox `toml:"spawn" yaml:"spawn"`

	// Pressure solve settings.
	SolverIterations int    `toml:"solver_iterations" yaml:"solver_iterations"`
	SolverScheme     Scheme `toml:"solver_scheme" yaml:"solver_scheme"`

	// PIC/FLIP blend, in [0, 1]. 0 is pure PIC, 1 is pure FLIP.
	Fluidity float64 `toml:"fluidity" yaml:"fluidity"`

	// Target density used by the C9 density-correction penalty.
	TargetDensity float64 `toml:"target_density" yaml:"target_density"`

	// Gravity magnitude, acting along -y.
	Gravity float64 `toml:"gravity" yaml:"gravity"`

	// Turbulence magnitude for the C12 jitter term. 0 disables jitter.
	Turbulence float64 `toml:"turbulence" yaml:"turbulence"`

	// MouseRadius is the falloff radius for the optional C7 mouse impulse.
	MouseRadius float64 `toml:"mouse_radius" yaml:"mouse_radius"`

	// Scale is the fixed-point scatter scale factor used by C2 (spec.md
	// canonical value: 10000).
	Scale float64 `toml:"scale" yaml:"scale"`

	// Backend selects CPU or GPU execution. Zero value resolves to BackendCPU.
	Backend BackendKind `toml:"backend" yaml:"backend"`
}

// DefaultConfig returns a Config with every optional field at its spec-cited
// default (solver iterations 50, Jacobi scheme, scale 10000, CPU backend).
// Grid/domain/particle/spawn fields are left at their zero values and must be
// filled in before Reset.
func DefaultConfig() Config {
	return Config{
		SolverIterations: defaultSolveIter,
		SolverScheme:     defaultScheme,
		Fluidity:         0.95,
		TargetDensity:    1.0,
		Gravity:          9.8,
		MouseRadius:      2.0,
		Scale:            10000,
		Backend:          BackendCPU,
	}
}

// Validate checks the recognized options and returns a *ConfigurationError
// for the first violation found, or nil if the config is well-formed.
func (c *Config) Validate() error {
	if c.NX < 1 {
		return &ConfigurationError{Field: "nx", Reason: "must be >= 1"}
	}
	if c.NY < 1 {
		return &ConfigurationError{Field: "ny", Reason: "must be >= 1"}
	}
	if c.NZ < 1 {
		return &ConfigurationError{Field: "nz", Reason: "must be >= 1"}
	}
	if c.Width <= 0 {
		return &ConfigurationError{Field: "width", Reason: "must be > 0"}
	}
	if c.Height <= 0 {
		return &ConfigurationError{Field: "height", Reason: "must be > 0"}
	}
	if c.Depth <= 0 {
		return &ConfigurationError{Field: "depth", Reason: "must be > 0"}
	}
	if c.ParticleCount < 0 {
		return &ConfigurationError{Field: "particle_count", Reason: "must be >= 0"}
	}
	if c.SolverIterations < 0 {
		return &ConfigurationError{Field: "solver_iterations", Reason: "must be >= 0"}
	}
	if c.SolverScheme != "" && c.SolverScheme != SchemeJacobi && c.SolverScheme != SchemeRedBlack {
		return &ConfigurationError{Field: "solver_scheme", Reason: "must be \"jacobi\" or \"red-black\""}
	}
	if c.Fluidity < 0 || c.Fluidity > 1 {
		return &ConfigurationError{Field: "fluidity", Reason: "must be in [0, 1]"}
	}
	if c.TargetDensity <= 0 {
		return &ConfigurationError{Field: "target_density", Reason: "must be > 0"}
	}
	if c.Turbulence < 0 {
		return &ConfigurationError{Field: "turbulence", Reason: "must be >= 0"}
	}
	for i, box := range c.Spawn {
		if box.Fill <= 0 || box.Fill > 1 {
			return &ConfigurationError{Field: fmt_spawnField(i), Reason: "fill must be in (0, 1]"}
		}
	}
	if c.Backend != "" && c.Backend != BackendCPU && c.Backend != BackendGPU {
		return &ConfigurationError{Field: "backend", Reason: "must be \"cpu\" or \"gpu\""}
	}
	return nil
}

func fmt_spawnField(i int) string {
	return "spawn[" + strconv.Itoa(i) + "].fill"
}

// normalized returns a copy of c with zero-valued optional fields resolved to
// their defaults, without touching required fields (nx/ny/nz/width/height/
// depth/particle_count), which Validate already checked are set.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.SolverIterations == 0 {
		c.SolverIterations = d.SolverIterations
	}
	if c.SolverScheme == "" {
		c.SolverScheme = d.SolverScheme
	}
	if c.Scale == 0 {
		c.Scale = d.Scale
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.MouseRadius == 0 {
		c.MouseRadius = d.MouseRadius
	}
	return c
}

// LoadConfigTOML decodes a TOML scenario file into a Config. This is not used
// by the solver itself (Reset takes a Config value directly, per the
// no-file-I/O Non-goal); it exists for the demo command and for tests that
// load fixture scenarios.
func LoadConfigTOML(path string) (Config, error) {
	var c Config
	_, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfigYAML decodes a YAML scenario file into a Config, for callers that
// prefer YAML scenario fixtures over TOML.
func LoadConfigYAML(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
