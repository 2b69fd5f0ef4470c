package flip

import (
	"math/rand"
	"testing"
)

func TestSpawnParticles_HonorsExactCount(t *testing.T) {
	boxes := []SpawnBox{{Max: [3]float64{1, 1, 1}, Fill: 1}}
	rng := rand.New(rand.NewSource(7))
	ps := spawnParticles(37, boxes, rng)
	if ps.count() != 37 {
		t.Fatalf("expected exactly 37 particles, got %d", ps.count())
	}
}

func TestSpawnParticles_StaysInsideBox(t *testing.T) {
	box := SpawnBox{Min: [3]float64{0.2, 0.2, 0.2}, Max: [3]float64{0.8, 0.8, 0.8}, Fill: 1}
	rng := rand.New(rand.NewSource(3))
	ps := spawnParticles(200, []SpawnBox{box}, rng)
	for i := 0; i < ps.count(); i++ {
		p := ps.position(i)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < box.Min[axis]-1e-9 || p[axis] > box.Max[axis]+1e-9 {
				t.Fatalf("particle %d axis %d = %v escaped box [%v,%v]", i, axis, p[axis], box.Min[axis], box.Max[axis])
			}
		}
	}
}

func TestSpawnParticles_ZeroCountYieldsEmptySet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ps := spawnParticles(0, []SpawnBox{{Max: [3]float64{1, 1, 1}, Fill: 1}}, rng)
	if ps.count() != 0 {
		t.Errorf("expected 0 particles, got %d", ps.count())
	}
}

func TestParticleSet_SetAndGetRoundTrip(t *testing.T) {
	ps := newParticleSet(3)
	ps.setPosition(1, [3]float64{1, 2, 3})
	ps.setVelocity(1, [3]float64{4, 5, 6})

	if got := ps.position(1); got != [3]float64{1, 2, 3} {
		t.Errorf("expected position (1,2,3), got %v", got)
	}
	if got := ps.velocity(1); got != [3]float64{4, 5, 6} {
		t.Errorf("expected velocity (4,5,6), got %v", got)
	}
}
