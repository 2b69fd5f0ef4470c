package flip

import "testing"

func smallCPUBackend(t *testing.T, ps *particleSet) *CPUBackend {
	t.Helper()
	cfg := validConfig()
	cfg = cfg.normalized()
	b := NewCPUBackend()
	if err := b.Reset(cfg, ps); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	return b
}

// TestStageP2G_WsWeightMatchesStaggeredTentKernel checks a single particle's
// ws-lane scatter against the tent kernel at the cell-centre sample of each
// visited node (spec.md 4.1, 4.4). At grid position 1.2 on every axis the
// visited nodes are 1 and 2 per axis; only node 1's sample at 1.5 lies within
// one cell (distance 0.3), so the total is 0.7^3 = 0.343.
func TestStageP2G_WsWeightMatchesStaggeredTentKernel(t *testing.T) {
	ps := newParticleSet(1)
	ps.setPosition(0, [3]float64{0.3, 0.3, 0.3})
	ps.setVelocity(0, [3]float64{1, 2, 3})

	b := smallCPUBackend(t, ps)
	b.stageClear()
	b.stageP2G()

	var totalWs float64
	for i := range b.weightScatter.nodes {
		_, _, _, ws := b.weightScatter.normalized(i)
		totalWs += ws
	}
	if absF(totalWs-0.343) > 1e-3 {
		t.Errorf("expected scattered ws weights to sum to ~0.343, got %v", totalWs)
	}
}

// TestStageP2G_VelocityRecoveredAtCoincidentNode checks that a particle
// placed exactly on a node samples back (after normalization) its own
// velocity at that node, since the tent kernel peaks at 1 there.
func TestStageP2G_VelocityRecoveredAtCoincidentNode(t *testing.T) {
	ps := newParticleSet(1)
	ps.setPosition(0, [3]float64{0.5, 0.5, 0.5})
	ps.setVelocity(0, [3]float64{2, -1, 0.5})

	b := smallCPUBackend(t, ps)
	b.stageClear()
	b.stageP2G()

	gp := b.grid.worldToGrid(ps.position(0))
	ix, iy, iz := floorInt(gp[0]+0.5), floorInt(gp[1]+0.5), floorInt(gp[2]+0.5)
	idx := b.grid.velIndex(ix, iy, iz)

	vx, vy, vz, _ := b.weightScatter.normalized(idx)
	if absF(vx-2) > 0.2 || absF(vy-(-1)) > 0.2 || absF(vz-0.5) > 0.2 {
		t.Errorf("expected recovered velocity near (2,-1,0.5), got (%v,%v,%v)", vx, vy, vz)
	}
}
