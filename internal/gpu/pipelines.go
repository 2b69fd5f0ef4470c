package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/flipcore/internal/gpu/shaders"
)

// Pipelines holds one ComputePipeline and its bind group(s) per stage,
// mirroring the teacher's per-pass pipeline+bind-group fields on
// GpuBufferManager (manager.go's HiZPipeline/HiZBindGroups and friends), but
// flattened to the twelve FLIP stages instead of the rasterizer's passes.
type Pipelines struct {
	Clear      *wgpu.ComputePipeline
	ClearBG    *wgpu.BindGroup
	P2G        *wgpu.ComputePipeline
	P2GBG      *wgpu.BindGroup
	Mark       *wgpu.ComputePipeline
	MarkBG     *wgpu.BindGroup
	Normalize  *wgpu.ComputePipeline
	NormBG     *wgpu.BindGroup
	Forces     *wgpu.ComputePipeline
	ForcesBG   *wgpu.BindGroup
	Boundary   *wgpu.ComputePipeline
	BoundaryBG *wgpu.BindGroup
	Divergence *wgpu.ComputePipeline
	DivBG      *wgpu.BindGroup
	Jacobi     *wgpu.ComputePipeline
	JacobiAtoB *wgpu.BindGroup
	JacobiBtoA *wgpu.BindGroup
	RedBlack   *wgpu.ComputePipeline
	RedBlackBG *wgpu.BindGroup
	Project    *wgpu.ComputePipeline
	ProjectBG  *wgpu.BindGroup
	Advect     *wgpu.ComputePipeline
	AdvectBG0  *wgpu.BindGroup
	AdvectBG1  *wgpu.BindGroup
}

func buildPipeline(dev *wgpu.Device, label, code, entry string) (*wgpu.ComputePipeline, error) {
	module, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("shader module %s: %w", label, err)
	}
	defer module.Release()

	pipeline, err := dev.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: entry,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compute pipeline %s: %w", label, err)
	}
	return pipeline, nil
}

func bufEntry(binding uint32, buf *wgpu.Buffer) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{Binding: binding, Buffer: buf, Size: buf.GetSize()}
}

// newPipelines compiles every stage's shader and wires its bind group(s)
// against m's already-allocated buffers. Called once per Manager.Allocate.
func newPipelines(m *Manager) (*Pipelines, error) {
	p := &Pipelines{}
	dev := m.Device

	var err error
	if p.Clear, err = buildPipeline(dev, "clear", shaders.Clear, "clear_main"); err != nil {
		return nil, err
	}
	if p.ClearBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Clear.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.VelScatterBuf),
			bufEntry(2, m.MarkerBuf), bufEntry(3, m.DivergenceBuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.P2G, err = buildPipeline(dev, "p2g", shaders.P2G, "p2g_main"); err != nil {
		return nil, err
	}
	if p.P2GBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.P2G.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.ParticlePosBuf),
			bufEntry(2, m.ParticleVelBuf), bufEntry(3, m.VelScatterBuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.Mark, err = buildPipeline(dev, "mark", shaders.Mark, "mark_main"); err != nil {
		return nil, err
	}
	if p.MarkBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Mark.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.ParticlePosBuf), bufEntry(2, m.MarkerBuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.Normalize, err = buildPipeline(dev, "normalize", shaders.Normalize, "normalize_main"); err != nil {
		return nil, err
	}
	if p.NormBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Normalize.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.VelScatterBuf),
			bufEntry(2, m.WorkingVelBuf), bufEntry(3, m.OriginalVelBuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.Forces, err = buildPipeline(dev, "forces", shaders.Forces, "forces_main"); err != nil {
		return nil, err
	}
	if p.ForcesBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  p.Forces.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{bufEntry(0, m.ParamsBuf), bufEntry(1, m.WorkingVelBuf)},
	}); err != nil {
		return nil, err
	}

	if p.Boundary, err = buildPipeline(dev, "boundary", shaders.Boundary, "boundary_main"); err != nil {
		return nil, err
	}
	if p.BoundaryBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  p.Boundary.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{bufEntry(0, m.ParamsBuf), bufEntry(1, m.WorkingVelBuf)},
	}); err != nil {
		return nil, err
	}

	if p.Divergence, err = buildPipeline(dev, "divergence", shaders.Divergence, "divergence_main"); err != nil {
		return nil, err
	}
	if p.DivBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Divergence.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.WorkingVelBuf),
			bufEntry(2, m.MarkerBuf), bufEntry(3, m.DivergenceBuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.Jacobi, err = buildPipeline(dev, "jacobi", shaders.Jacobi, "jacobi_main"); err != nil {
		return nil, err
	}
	if p.JacobiAtoB, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Jacobi.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.MarkerBuf), bufEntry(2, m.DivergenceBuf),
			bufEntry(3, m.PressureABuf), bufEntry(4, m.PressureBBuf),
		},
	}); err != nil {
		return nil, err
	}
	if p.JacobiBtoA, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Jacobi.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.MarkerBuf), bufEntry(2, m.DivergenceBuf),
			bufEntry(3, m.PressureBBuf), bufEntry(4, m.PressureABuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.RedBlack, err = buildPipeline(dev, "redblack", shaders.RedBlack, "redblack_main"); err != nil {
		return nil, err
	}
	if p.RedBlackBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.RedBlack.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.MarkerBuf),
			bufEntry(2, m.DivergenceBuf), bufEntry(3, m.PressureABuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.Project, err = buildPipeline(dev, "project", shaders.Project, "project_main"); err != nil {
		return nil, err
	}
	if p.ProjectBG, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Project.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.MarkerBuf),
			bufEntry(2, m.PressureABuf), bufEntry(3, m.WorkingVelBuf),
		},
	}); err != nil {
		return nil, err
	}

	if p.Advect, err = buildPipeline(dev, "advect", shaders.Advect, "advect_main"); err != nil {
		return nil, err
	}
	if p.AdvectBG0, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Advect.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParamsBuf), bufEntry(1, m.WorkingVelBuf),
			bufEntry(2, m.OriginalVelBuf), bufEntry(3, m.RandDirsBuf),
		},
	}); err != nil {
		return nil, err
	}
	if p.AdvectBG1, err = dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.Advect.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			bufEntry(0, m.ParticlePosBuf), bufEntry(1, m.ParticleVelBuf), bufEntry(2, m.InstabilityBuf),
		},
	}); err != nil {
		return nil, err
	}

	return p, nil
}
