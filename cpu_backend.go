package flip

import "math/rand"

// CPUBackend runs the twelve-stage pipeline as Go closures over flat slices,
// parallelized with parallelRange over particles or grid Z-slabs. It needs
// no GPU device and is what the property and scenario tests exercise
// directly (SPEC_FULL.md 2).
type CPUBackend struct {
	cfg  Config
	grid gridDims

	particles *particleSet

	working  *velocityField
	original *velocityField
	scalar   *scalarField

	weightScatter *scatterBuffer

	randDirs *randomDirTable
	rng      *rand.Rand

	lastInstability *NumericalInstability
}

// NewCPUBackend constructs an unallocated backend; call Reset before Step.
func NewCPUBackend() *CPUBackend { return &CPUBackend{} }

func (b *CPUBackend) Kind() BackendKind { return BackendCPU }

func (b *CPUBackend) Reset(cfg Config, ps *particleSet) error {
	b.cfg = cfg
	b.grid = newGridDims(cfg)
	b.particles = ps

	velN := b.grid.velCount()
	scalarN := b.grid.scalarCount()

	b.working = newVelocityField(velN)
	b.original = newVelocityField(velN)
	b.scalar = newScalarField(scalarN)
	b.weightScatter = newScatterBuffer(velN, cfg.Scale)

	b.rng = rand.New(rand.NewSource(1))
	b.randDirs = newRandomDirTable(b.rng)
	b.lastInstability = nil
	return nil
}

func (b *CPUBackend) Particles() *particleSet         { return b.particles }
func (b *CPUBackend) WorkingVelocity() *velocityField { return b.working }
func (b *CPUBackend) VelocityDims() (int, int, int)   { return b.grid.velDims() }

// Step runs C3 through C12 in dependency order, exactly matching the
// twelve-stage pipeline of spec.md 2: clear, P2G, mark, normalize+snapshot,
// forces, boundary, divergence, pressure solve, projection, boundary again,
// G2P+advect. Each data-parallel stage is one parallelRange dispatch (or
// several, for Jacobi/Red-Black's iteration barrier), mirroring one GPU
// compute dispatch per host command-stream entry; clear and boundary
// enforcement run on the calling goroutine.
func (b *CPUBackend) Step(dt float64, mouse MouseRay, mouseVel [3]float64, frame int) error {
	b.lastInstability = nil

	b.stageClear()
	b.stageP2G()
	b.stageMark()
	b.stageNormalizeAndSnapshot()
	b.stageForces(dt, mouse, mouseVel)
	b.stageBoundary()
	b.stageDivergence()
	b.stagePressure()
	b.stageProject()
	b.stageBoundary()
	b.stageAdvectAndG2P(dt, frame)

	return nil
}

// LastInstability returns the NumericalInstability warning recorded by the
// most recent Step, or nil if none occurred.
func (b *CPUBackend) LastInstability() *NumericalInstability { return b.lastInstability }
