package flip

// velocityField is the MAC velocity grid: (nx+1)x(ny+1)x(nz+1) nodes, each
// storing staggered Vx/Vy/Vz components plus a scalar density weight in the
// w lane (spec.md 3). Two instances coexist during a step: working (mutated
// by forces/boundary/projection) and original (frozen after C6, used by the
// FLIP delta in C12).
type velocityField struct {
	vx, vy, vz, w []float64
}

func newVelocityField(n int) *velocityField {
	return &velocityField{
		vx: make([]float64, n), vy: make([]float64, n), vz: make([]float64, n), w: make([]float64, n),
	}
}

func (f *velocityField) clear() {
	for i := range f.vx {
		f.vx[i], f.vy[i], f.vz[i], f.w[i] = 0, 0, 0, 0
	}
}

// copyFrom overwrites f with src's contents, component by component; used by
// C6 to produce the bitwise-identical original-field snapshot.
func (f *velocityField) copyFrom(src *velocityField) {
	copy(f.vx, src.vx)
	copy(f.vy, src.vy)
	copy(f.vz, src.vz)
	copy(f.w, src.w)
}

// marker values for a scalar cell (spec.md 9 "Marker as tagged variant").
// The core only needs the Air/Fluid distinction; the named-constant type
// leaves room for a future Solid variant without colliding with the
// existing 0/1 encoding.
type cellMarker uint8

const (
	cellAir cellMarker = iota
	cellFluid
)

// scalarField is the nx*ny*nz cell-centered grid: marker, pressure,
// divergence per cell (spec.md 3).
type scalarField struct {
	marker     []cellMarker
	pressure   []float64
	divergence []float64
}

func newScalarField(n int) *scalarField {
	return &scalarField{
		marker:     make([]cellMarker, n),
		pressure:   make([]float64, n),
		divergence: make([]float64, n),
	}
}

func (f *scalarField) clear() {
	for i := range f.marker {
		f.marker[i] = cellAir
		f.pressure[i] = 0
		f.divergence[i] = 0
	}
}
