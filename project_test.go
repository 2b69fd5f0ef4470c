package flip

import "testing"

func TestStageProject_UniformPressureLeavesInteriorVelocityUnchanged(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	b.stageClear()
	for i := range b.scalar.pressure {
		b.scalar.pressure[i] = 7
	}
	for i := range b.working.vx {
		b.working.vx[i] = 1.5
	}
	for i := range b.working.vy {
		b.working.vy[i] = -2.5
	}
	for i := range b.working.vz {
		b.working.vz[i] = 0.25
	}

	b.stageProject()

	g := b.grid
	vxN, vyN, vzN := g.velDims()
	// Interior x-faces (not at the i=0/i=NX domain edge) see the same
	// uniform pressure on both sides, so the gradient (and hence the
	// velocity change) is exactly zero there.
	for z := 0; z < g.NZ; z++ {
		for y := 0; y < g.NY; y++ {
			for x := 1; x < vxN-1; x++ {
				if v := b.working.vx[g.velIndex(x, y, z)]; absF(v-1.5) > 1e-9 {
					t.Fatalf("expected unchanged interior vx at (%d,%d,%d), got %v", x, y, z, v)
				}
			}
		}
	}
	_ = vyN
	_ = vzN
}

func TestStageProject_RemovesAGradientAlongX(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	b.stageClear()

	g := b.grid
	for z := 0; z < g.NZ; z++ {
		for y := 0; y < g.NY; y++ {
			for x := 0; x < g.NX; x++ {
				b.scalar.pressure[g.scalarIndex(x, y, z)] = float64(x)
			}
		}
	}

	before := append([]float64(nil), b.working.vx...)
	b.stageProject()

	var changed bool
	for i, v := range b.working.vx {
		if absF(v-before[i]) > 1e-9 {
			changed = true
			break
		}
	}
	if !changed {
		t.Errorf("expected a pressure gradient along x to change at least one vx node")
	}
}
