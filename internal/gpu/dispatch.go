package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// StepParams carries the per-frame uniform values the host writes into
// ParamsBuf before dispatching, matching each shader's Params struct layout.
type StepParams struct {
	Frame         uint32
	DT            float64
	H             float64
	Gravity       float64
	FlipRatio     float64
	Scale         float64
	TargetDensity float64
	JitterAmp     float64
	MouseActive   bool
	MouseOrigin   [3]float64
	MouseDir      [3]float64
	MouseVel      [3]float64
	MouseRadius   float64
}

func (m *Manager) writeParams(p StepParams, parity float32) {
	buf := make([]byte, 112)
	binary.LittleEndian.PutUint32(buf[0:4], m.NX)
	binary.LittleEndian.PutUint32(buf[4:8], m.NY)
	binary.LittleEndian.PutUint32(buf[8:12], m.NZ)
	binary.LittleEndian.PutUint32(buf[12:16], p.Frame)
	putF32 := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(v)))
	}
	putF32(16, p.DT)
	putF32(20, p.H)
	putF32(24, p.Gravity)
	putF32(28, p.FlipRatio)
	putF32(32, p.Scale)
	putF32(36, p.TargetDensity)
	putF32(40, p.JitterAmp)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(parity))
	if p.MouseActive {
		binary.LittleEndian.PutUint32(buf[48:52], 1)
	}
	putF32(64, p.MouseOrigin[0])
	putF32(68, p.MouseOrigin[1])
	putF32(72, p.MouseOrigin[2])
	putF32(80, p.MouseDir[0])
	putF32(84, p.MouseDir[1])
	putF32(88, p.MouseDir[2])
	putF32(96, p.MouseVel[0])
	putF32(100, p.MouseVel[1])
	putF32(104, p.MouseVel[2])
	putF32(108, p.MouseRadius)
	m.Queue.WriteBuffer(m.ParamsBuf, 0, buf)
}

func dispatch1D(pass *wgpu.ComputePassEncoder, pipeline *wgpu.ComputePipeline, bg *wgpu.BindGroup, n uint32) {
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.DispatchWorkgroups((n+63)/64, 1, 1)
}

func dispatch3D(pass *wgpu.ComputePassEncoder, pipeline *wgpu.ComputePipeline, bg *wgpu.BindGroup, nx, ny, nz uint32) {
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.DispatchWorkgroups((nx+3)/4, (ny+3)/4, (nz+3)/4)
}

// Step issues all twelve stages' dispatches inside a single CommandEncoder
// before one Submit, mirroring the teacher's FlushEdits pattern (one
// encoder/computePass/Submit per batch of GPU work) applied to a whole
// frame instead of a single edit pass. jacobiIterations selects the
// pressure-solve iteration count; if redBlack is true the Red-Black
// bind group is used instead of Jacobi ping-pong.
func (m *Manager) Step(p StepParams, jacobiIterations int, redBlack bool) error {
	m.writeParams(p, 0)

	encoder, err := m.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	pl := m.Pipelines

	pass := encoder.BeginComputePass(nil)
	velCount := (m.NX + 1) * (m.NY + 1) * (m.NZ + 1)
	dispatch1D(pass, pl.Clear, pl.ClearBG, velCount)
	dispatch1D(pass, pl.P2G, pl.P2GBG, m.ParticleCount)
	dispatch1D(pass, pl.Mark, pl.MarkBG, m.ParticleCount)
	dispatch1D(pass, pl.Normalize, pl.NormBG, velCount)
	dispatch1D(pass, pl.Forces, pl.ForcesBG, velCount)
	dispatch1D(pass, pl.Boundary, pl.BoundaryBG, velCount)
	dispatch3D(pass, pl.Divergence, pl.DivBG, m.NX, m.NY, m.NZ)
	pass.End()

	finalInA := true
	if redBlack {
		for it := 0; it < jacobiIterations; it++ {
			for parity := 0; parity < 2; parity++ {
				m.writeParams(p, float32(parity))
				rbPass := encoder.BeginComputePass(nil)
				dispatch3D(rbPass, pl.RedBlack, pl.RedBlackBG, m.NX, m.NY, m.NZ)
				rbPass.End()
			}
		}
	} else {
		for it := 0; it < jacobiIterations; it++ {
			jPass := encoder.BeginComputePass(nil)
			if finalInA {
				dispatch3D(jPass, pl.Jacobi, pl.JacobiAtoB, m.NX, m.NY, m.NZ)
			} else {
				dispatch3D(jPass, pl.Jacobi, pl.JacobiBtoA, m.NX, m.NY, m.NZ)
			}
			jPass.End()
			finalInA = !finalInA
		}
		if !finalInA {
			cellBytes := uint64(m.NX) * uint64(m.NY) * uint64(m.NZ) * 4
			encoder.CopyBufferToBuffer(m.PressureBBuf, 0, m.PressureABuf, 0, cellBytes)
		}
	}

	m.writeParams(p, 0)
	tailPass := encoder.BeginComputePass(nil)
	dispatch1D(tailPass, pl.Project, pl.ProjectBG, velCount)
	dispatch1D(tailPass, pl.Boundary, pl.BoundaryBG, velCount)
	tailPass.SetPipeline(pl.Advect)
	tailPass.SetBindGroup(0, pl.AdvectBG0, nil)
	tailPass.SetBindGroup(1, pl.AdvectBG1, nil)
	tailPass.DispatchWorkgroups((m.ParticleCount+63)/64, 1, 1)
	tailPass.End()

	encoder.CopyBufferToBuffer(m.ParticlePosBuf, 0, m.ReadbackPosBuf, 0, uint64(m.ParticleCount)*16)
	encoder.CopyBufferToBuffer(m.ParticleVelBuf, 0, m.ReadbackVelBuf, 0, uint64(m.ParticleCount)*16)
	encoder.CopyBufferToBuffer(m.InstabilityBuf, 0, m.ReadbackInstBuf, 0, uint64(m.ParticleCount)*16)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	m.Queue.Submit(cmd)
	return nil
}

// ReadParticles maps ReadbackPosBuf/ReadbackVelBuf and copies the flat
// (x,y,z,_) float32 quads out, following the Hi-Z readback state machine in
// manager_hiz.go (MapAsync -> Device.Poll(true, nil) -> GetMappedRange ->
// copy -> Unmap), applied to particle buffers instead of a depth mip chain.
func (m *Manager) ReadParticles() (pos, vel []float32, instability []float32, err error) {
	pos, err = m.readFloats(m.ReadbackPosBuf, &m.posMapped, int(m.ParticleCount)*4)
	if err != nil {
		return nil, nil, nil, err
	}
	vel, err = m.readFloats(m.ReadbackVelBuf, &m.velMapped, int(m.ParticleCount)*4)
	if err != nil {
		return nil, nil, nil, err
	}
	instability, err = m.readFloats(m.ReadbackInstBuf, &m.instMapped, int(m.ParticleCount)*4)
	if err != nil {
		return nil, nil, nil, err
	}
	return pos, vel, instability, nil
}

func (m *Manager) readFloats(buf *wgpu.Buffer, mapped *bool, count int) ([]float32, error) {
	var mapErr error
	if !*mapped {
		done := false
		buf.MapAsync(wgpu.MapModeRead, 0, buf.GetSize(), func(status wgpu.BufferMapAsyncStatus) {
			if status == wgpu.BufferMapAsyncStatusSuccess {
				*mapped = true
			} else {
				mapErr = errMapFailed(status)
			}
			done = true
		})
		for !done {
			m.Device.Poll(true, nil)
		}
		if mapErr != nil {
			return nil, mapErr
		}
	}

	size := buf.GetSize()
	data := buf.GetMappedRange(0, uint(size))
	out := make([]float32, count)
	for i := 0; i < count && i*4+4 <= len(data); i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}
	buf.Unmap()
	*mapped = false
	return out, nil
}

func errMapFailed(status wgpu.BufferMapAsyncStatus) error {
	return &mapError{status: status}
}

type mapError struct{ status wgpu.BufferMapAsyncStatus }

func (e *mapError) Error() string {
	return "gpu: buffer map failed with status " + itoaStatus(e.status)
}

func itoaStatus(s wgpu.BufferMapAsyncStatus) string {
	return fmt.Sprintf("%d", int(s))
}
