package flip

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RunStats summarizes a solver's current state for scenario tests and the
// demo command's CSV export (SPEC_FULL.md 3 expansion). None of it is used
// internally by Step; it exists purely for observability.
type RunStats struct {
	MeanHeight          float64
	MeanKineticEnergy   float64
	MaxDivergenceFluid   float64
	L2DivergenceFluid    float64
}

// Stats computes RunStats from the current particle and grid state. Valid
// only between Step calls.
func (s *Solver) Stats() RunStats {
	ps := s.backend.Particles()
	n := ps.count()

	var rs RunStats
	if n > 0 {
		var sumY, sumKE float64
		for i := 0; i < n; i++ {
			sumY += ps.posY[i]
			v := ps.velocity(i)
			sumKE += 0.5 * (v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		}
		rs.MeanHeight = sumY / float64(n)
		rs.MeanKineticEnergy = sumKE / float64(n)
	}

	if cpu, ok := s.backend.(*CPUBackend); ok {
		rs.MaxDivergenceFluid, rs.L2DivergenceFluid = divergenceNorms(cpu)
	}
	return rs
}

// divergenceNorms computes the L-infinity and L2 norms of the divergence
// field restricted to fluid cells, as reported by Stats. Norms are computed
// with gonum/floats rather than hand-rolled accumulation loops.
func divergenceNorms(b *CPUBackend) (linf, l2 float64) {
	fluid := make([]float64, 0, len(b.scalar.divergence))
	for i, m := range b.scalar.marker {
		if m == cellFluid {
			fluid = append(fluid, b.scalar.divergence[i])
		}
	}
	if len(fluid) == 0 {
		return 0, 0
	}
	linf = floats.Norm(fluid, math.Inf(1))
	l2 = floats.Norm(fluid, 2)
	return linf, l2
}

