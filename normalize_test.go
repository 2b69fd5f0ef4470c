package flip

import "testing"

func TestStageNormalizeAndSnapshot_OriginalMatchesWorkingRightAfter(t *testing.T) {
	ps := newParticleSet(2)
	ps.setPosition(0, [3]float64{0.2, 0.2, 0.2})
	ps.setVelocity(0, [3]float64{1, 0, 0})
	ps.setPosition(1, [3]float64{0.7, 0.3, 0.4})
	ps.setVelocity(1, [3]float64{0, 1, 0})

	b := smallCPUBackend(t, ps)
	b.stageClear()
	b.stageP2G()
	b.stageMark()
	b.stageNormalizeAndSnapshot()

	for i := range b.working.vx {
		if b.working.vx[i] != b.original.vx[i] || b.working.vy[i] != b.original.vy[i] ||
			b.working.vz[i] != b.original.vz[i] || b.working.w[i] != b.original.w[i] {
			t.Fatalf("expected original to be a bitwise snapshot of working at node %d", i)
		}
	}
}

func TestStageNormalizeAndSnapshot_ZeroWeightNodeStaysZero(t *testing.T) {
	ps := newParticleSet(0)
	b := smallCPUBackend(t, ps)
	b.stageClear()
	b.stageP2G()
	b.stageMark()
	b.stageNormalizeAndSnapshot()

	for i, v := range b.working.vx {
		if v != 0 {
			t.Errorf("expected zero velocity with no particles at node %d, got %v", i, v)
		}
	}
}
