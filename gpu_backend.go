package flip

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/gekko3d/flipcore/internal/gpu"
)

// GPUBackend drives the same twelve stages as CPUBackend, but as WGSL
// compute dispatches through a headless cogentcore/webgpu device
// (internal/gpu.Manager), mirroring the teacher's GPU-accelerated
// compute passes (voxelrt/rt/gpu's Hi-Z/voxel-edit pipelines) generalized
// from a sparse-voxel workload to this solver's dense MAC grid.
type GPUBackend struct {
	cfg     Config
	grid    gridDims
	mgr     *gpu.Manager

	particles *particleSet
	working   *velocityField

	lastInstability *NumericalInstability
}

// newGPUBackend brings up the WGPU device. If no adapter or device could be
// obtained, the returned error wraps errBackendUnavailable (the caller wraps
// it once more in a ResourceAllocationError).
func newGPUBackend() (*GPUBackend, error) {
	mgr, err := gpu.NewManager()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBackendUnavailable, err)
	}
	return &GPUBackend{mgr: mgr}, nil
}

func (b *GPUBackend) Kind() BackendKind { return BackendGPU }

func (b *GPUBackend) Reset(cfg Config, ps *particleSet) error {
	b.cfg = cfg
	b.grid = newGridDims(cfg)
	b.particles = ps
	b.working = newVelocityField(b.grid.velCount())
	b.lastInstability = nil

	rng := rand.New(rand.NewSource(2))
	dirs := newRandomDirTable(rng)
	randBytes := make([]byte, len(dirs.dirs)*16)
	for i, d := range dirs.dirs {
		off := i * 16
		binary.LittleEndian.PutUint32(randBytes[off:], math.Float32bits(float32(d[0])))
		binary.LittleEndian.PutUint32(randBytes[off+4:], math.Float32bits(float32(d[1])))
		binary.LittleEndian.PutUint32(randBytes[off+8:], math.Float32bits(float32(d[2])))
	}

	if err := b.mgr.Allocate(uint32(cfg.NX), uint32(cfg.NY), uint32(cfg.NZ), uint32(cfg.ParticleCount), randBytes); err != nil {
		return &ResourceAllocationError{Resource: "gpu buffers", Err: err}
	}

	n := ps.count()
	posBytes := make([]byte, n*16)
	velBytes := make([]byte, n*16)
	for i := 0; i < n; i++ {
		p := ps.position(i)
		v := ps.velocity(i)
		off := i * 16
		binary.LittleEndian.PutUint32(posBytes[off:], math.Float32bits(float32(p[0])))
		binary.LittleEndian.PutUint32(posBytes[off+4:], math.Float32bits(float32(p[1])))
		binary.LittleEndian.PutUint32(posBytes[off+8:], math.Float32bits(float32(p[2])))
		binary.LittleEndian.PutUint32(velBytes[off:], math.Float32bits(float32(v[0])))
		binary.LittleEndian.PutUint32(velBytes[off+4:], math.Float32bits(float32(v[1])))
		binary.LittleEndian.PutUint32(velBytes[off+8:], math.Float32bits(float32(v[2])))
	}
	b.mgr.Queue.WriteBuffer(b.mgr.ParticlePosBuf, 0, posBytes)
	b.mgr.Queue.WriteBuffer(b.mgr.ParticleVelBuf, 0, velBytes)
	return nil
}

func (b *GPUBackend) Particles() *particleSet         { return b.particles }
func (b *GPUBackend) WorkingVelocity() *velocityField { return b.working }
func (b *GPUBackend) VelocityDims() (int, int, int)   { return b.grid.velDims() }

// Step dispatches one frame of GPU compute, then reads the updated particle
// buffers and the instability-detection buffer back to host memory so the
// particle accessors and LastInstability behave as on CPUBackend. The
// working velocity field is not read back: WorkingVelocity on this backend
// returns the host-side field allocated at Reset, which stays zero.
func (b *GPUBackend) Step(dt float64, mouse MouseRay, mouseVel [3]float64, frame int) error {
	b.lastInstability = nil

	params := gpu.StepParams{
		Frame:         uint32(frame),
		DT:            dt,
		H:             b.grid.dx,
		Gravity:       b.cfg.Gravity,
		FlipRatio:     b.cfg.Fluidity,
		Scale:         b.cfg.Scale,
		TargetDensity: b.cfg.TargetDensity,
		JitterAmp:     b.cfg.Turbulence,
		MouseActive:   mouse.Active,
		MouseOrigin:   mouse.Origin,
		MouseDir:      mouse.Direction,
		MouseVel:      mouseVel,
		MouseRadius:   b.cfg.MouseRadius,
	}

	redBlack := b.cfg.SolverScheme == SchemeRedBlack
	if err := b.mgr.Step(params, b.cfg.SolverIterations, redBlack); err != nil {
		return err
	}

	pos, vel, instability, err := b.mgr.ReadParticles()
	if err != nil {
		return &ResourceAllocationError{Resource: "gpu readback", Err: err}
	}

	n := b.particles.count()
	for i := 0; i < n; i++ {
		b.particles.setPosition(i, [3]float64{float64(pos[i*4]), float64(pos[i*4+1]), float64(pos[i*4+2])})
		b.particles.setVelocity(i, [3]float64{float64(vel[i*4]), float64(vel[i*4+1]), float64(vel[i*4+2])})
		if instability[i*4] != 0 && b.lastInstability == nil {
			b.lastInstability = &NumericalInstability{
				ParticleIndex: i,
				Axis:          int(instability[i*4+1]),
				OvershootFrac: float64(instability[i*4+2]),
			}
		}
	}
	return nil
}

// LastInstability returns the NumericalInstability warning recorded by the
// most recent Step, or nil if none occurred.
func (b *GPUBackend) LastInstability() *NumericalInstability { return b.lastInstability }

// Release frees the underlying GPU device and buffers. Solver does not call
// this automatically since a Solver may Reset onto a new backend; callers
// that know they are done with a GPU-backed Solver should call it to avoid
// leaking device resources until process exit.
func (b *GPUBackend) Release() {
	if b.mgr != nil {
		b.mgr.Release()
	}
}
