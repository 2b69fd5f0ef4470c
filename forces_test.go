package flip

import "testing"

func TestStageForces_GravityLowersEveryVyNode(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	b.stageClear()
	b.cfg.Gravity = 9.8

	dt := 1.0 / 60.0
	b.stageForces(dt, MouseRay{}, [3]float64{0, 0, 0})

	want := -b.cfg.Gravity * dt
	for i, v := range b.working.vy {
		if absF(v-want) > 1e-9 {
			t.Fatalf("expected vy[%d]=%v after one gravity step, got %v", i, want, v)
		}
	}
}

func TestStageForces_InactiveMouseAddsNoImpulse(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	b.stageClear()

	b.stageForces(1.0/60.0, MouseRay{Active: false}, [3]float64{5, 5, 5})

	for i, v := range b.working.vx {
		if v != 0 {
			t.Errorf("expected vx[%d]=0 with inactive mouse, got %v", i, v)
		}
	}
}

func TestStageForces_ActiveMouseNudgesNearbyNodes(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	b.stageClear()

	mouse := MouseRay{Active: true, Origin: [3]float64{0.5, 0.5, 0.5}, Direction: [3]float64{0, 1, 0}}
	b.stageForces(1.0/60.0, mouse, [3]float64{1, 0, 0})

	var sawNonzero bool
	for _, v := range b.working.vx {
		if v != 0 {
			sawNonzero = true
			break
		}
	}
	if !sawNonzero {
		t.Errorf("expected at least one node to receive a nonzero mouse impulse on vx")
	}
}

func TestSmoothstep_EndpointsAndMidpoint(t *testing.T) {
	if v := smoothstep(0, 1, 0); v != 0 {
		t.Errorf("expected smoothstep(0,1,0)=0, got %v", v)
	}
	if v := smoothstep(0, 1, 1); v != 1 {
		t.Errorf("expected smoothstep(0,1,1)=1, got %v", v)
	}
	if v := smoothstep(0, 1, 0.5); v != 0.5 {
		t.Errorf("expected smoothstep(0,1,0.5)=0.5, got %v", v)
	}
}
