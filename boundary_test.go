package flip

import "testing"

func TestStageBoundary_ZeroesNormalComponentAtWalls(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	g := b.grid
	vxN, vyN, vzN := g.velDims()

	for i := range b.working.vx {
		b.working.vx[i] = 5
	}
	for i := range b.working.vy {
		b.working.vy[i] = 5
	}
	for i := range b.working.vz {
		b.working.vz[i] = 5
	}

	b.stageBoundary()

	for z := 0; z < g.NZ; z++ {
		for y := 0; y < g.NY; y++ {
			if b.working.vx[g.velIndex(0, y, z)] != 0 {
				t.Errorf("expected vx=0 at -x wall")
			}
			if b.working.vx[g.velIndex(vxN-1, y, z)] != 0 {
				t.Errorf("expected vx=0 at +x wall")
			}
		}
	}
	for z := 0; z < g.NZ; z++ {
		for x := 0; x < g.NX; x++ {
			if b.working.vy[g.velIndex(x, 0, z)] != 0 {
				t.Errorf("expected vy=0 at floor")
			}
		}
	}
	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			if b.working.vz[g.velIndex(x, y, 0)] != 0 {
				t.Errorf("expected vz=0 at -z wall")
			}
			if b.working.vz[g.velIndex(x, y, vzN-1)] != 0 {
				t.Errorf("expected vz=0 at +z wall")
			}
		}
	}
	_ = vyN
}

func TestStageBoundary_TopFaceAllowsOutflowOnly(t *testing.T) {
	b := smallCPUBackend(t, newParticleSet(0))
	g := b.grid
	_, vyN, _ := g.velDims()

	topIdx := g.velIndex(1, vyN-1, 1)
	b.working.vy[topIdx] = 3
	b.stageBoundary()
	if b.working.vy[topIdx] != 0 {
		t.Errorf("expected positive vy at top face to be clamped to 0, got %v", b.working.vy[topIdx])
	}

	b.working.vy[topIdx] = -3
	b.stageBoundary()
	if b.working.vy[topIdx] != -3 {
		t.Errorf("expected negative vy at top face to be preserved, got %v", b.working.vy[topIdx])
	}
}
