// Package gpu owns the WGPU device, buffers and compute pipelines backing
// the GPU Backend, adapted from the teacher's voxelrt/rt/gpu.GpuBufferManager
// (manager.go) to a headless compute-only workload: no surface, no render
// pipelines, one storage buffer per simulation array and one compute
// pipeline per stage.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Manager owns the device/queue plus every buffer and pipeline the FLIP
// pipeline stages need. A fresh Manager is built on every Solver.Reset.
type Manager struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	NX, NY, NZ     uint32
	ParticleCount  uint32

	ParamsBuf        *wgpu.Buffer
	ParticlePosBuf   *wgpu.Buffer
	ParticleVelBuf   *wgpu.Buffer
	VelScatterBuf    *wgpu.Buffer
	WorkingVelBuf    *wgpu.Buffer
	OriginalVelBuf   *wgpu.Buffer
	MarkerBuf        *wgpu.Buffer
	DivergenceBuf    *wgpu.Buffer
	PressureABuf     *wgpu.Buffer
	PressureBBuf     *wgpu.Buffer
	RandDirsBuf      *wgpu.Buffer
	InstabilityBuf   *wgpu.Buffer
	ReadbackPosBuf   *wgpu.Buffer
	ReadbackVelBuf   *wgpu.Buffer
	ReadbackInstBuf  *wgpu.Buffer

	posMapped, velMapped, instMapped bool

	Pipelines *Pipelines
}

// NewManager requests a headless (surfaceless) high-performance adapter and
// brings up the device and queue, mirroring createGpuState in the teacher's
// gpu_operations.go minus the GLFW surface it configures around its render
// swapchain.
func NewManager() (*Manager, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "flip compute device"})
	if err != nil {
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	m := &Manager{
		Instance: instance,
		Adapter:  adapter,
		Device:   device,
		Queue:    device.GetQueue(),
	}
	return m, nil
}

// Release frees every buffer and the device, mirroring the teacher's
// SetupHiZ release-before-recreate pattern.
func (m *Manager) Release() {
	buffers := []*wgpu.Buffer{
		m.ParamsBuf, m.ParticlePosBuf, m.ParticleVelBuf, m.VelScatterBuf,
		m.WorkingVelBuf, m.OriginalVelBuf, m.MarkerBuf, m.DivergenceBuf,
		m.PressureABuf, m.PressureBBuf, m.RandDirsBuf, m.InstabilityBuf,
		m.ReadbackPosBuf, m.ReadbackVelBuf, m.ReadbackInstBuf,
	}
	for _, b := range buffers {
		if b != nil {
			b.Release()
		}
	}
	if m.Device != nil {
		m.Device.Release()
	}
}

func (m *Manager) createStorage(label string, size uint64, extra wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc | extra,
	})
}

// Allocate (re)creates every buffer sized for an (nx,ny,nz) grid and a fixed
// particle count, then compiles the pipelines against them.
func (m *Manager) Allocate(nx, ny, nz, particleCount uint32, randDirs []byte) error {
	m.NX, m.NY, m.NZ = nx, ny, nz
	m.ParticleCount = particleCount

	velCount := uint64(nx+1) * uint64(ny+1) * uint64(nz+1)
	cellCount := uint64(nx) * uint64(ny) * uint64(nz)

	var err error
	if m.ParamsBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "params", Size: 112, Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return fmt.Errorf("gpu: params buffer: %w", err)
	}
	if m.ParticlePosBuf, err = m.createStorage("particle_pos", uint64(particleCount)*16, 0); err != nil {
		return err
	}
	if m.ParticleVelBuf, err = m.createStorage("particle_vel", uint64(particleCount)*16, 0); err != nil {
		return err
	}
	if m.VelScatterBuf, err = m.createStorage("vel_scatter", velCount*7*4, 0); err != nil {
		return err
	}
	if m.WorkingVelBuf, err = m.createStorage("working_vel", velCount*16, 0); err != nil {
		return err
	}
	if m.OriginalVelBuf, err = m.createStorage("original_vel", velCount*16, 0); err != nil {
		return err
	}
	if m.MarkerBuf, err = m.createStorage("marker", cellCount*4, 0); err != nil {
		return err
	}
	if m.DivergenceBuf, err = m.createStorage("divergence", cellCount*4, 0); err != nil {
		return err
	}
	if m.PressureABuf, err = m.createStorage("pressure_a", cellCount*4, 0); err != nil {
		return err
	}
	if m.PressureBBuf, err = m.createStorage("pressure_b", cellCount*4, 0); err != nil {
		return err
	}
	if m.RandDirsBuf, err = m.createStorage("rand_dirs", uint64(len(randDirs)), 0); err != nil {
		return err
	}
	m.Queue.WriteBuffer(m.RandDirsBuf, 0, randDirs)
	if m.InstabilityBuf, err = m.createStorage("instability", uint64(particleCount)*16, 0); err != nil {
		return err
	}

	if m.ReadbackPosBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback_pos", Size: uint64(particleCount) * 16,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	}); err != nil {
		return err
	}
	if m.ReadbackVelBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback_vel", Size: uint64(particleCount) * 16,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	}); err != nil {
		return err
	}
	if m.ReadbackInstBuf, err = m.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "readback_inst", Size: uint64(particleCount) * 16,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	}); err != nil {
		return err
	}

	m.Pipelines, err = newPipelines(m)
	if err != nil {
		return fmt.Errorf("gpu: compile pipelines: %w", err)
	}
	return nil
}
