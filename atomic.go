package flip

import "sync/atomic"

// scatterNode is the fixed-point accumulator for one velocity-grid node.
// Values are floats scaled by Config.Scale and truncated to int64 so
// concurrent P2G splats (C4) can use a race-free integer atomic add instead
// of a float atomic, which is not universally available (spec.md 4.2, 9).
// The accumulate order across particles is not observable; only the final
// sum is.
//
// Two logical accumulators share one node: a "weight accumulator" (wx, wy,
// wz, ws) and a "velocity accumulator" (velX, velY, velZ holding vx*wx,
// vy*wy, vz*wz sums), matching the two atomic-add groups C4 describes.
type scatterNode struct {
	velX, velY, velZ int64
	wx, wy, wz, ws   int64
}

// scatterBuffer is a flat array of scatterNode, one per velocity-grid node
// (spec.md 3, "Fixed-point scatter buffer").
type scatterBuffer struct {
	nodes []scatterNode
	scale float64
}

func newScatterBuffer(n int, scale float64) *scatterBuffer {
	return &scatterBuffer{nodes: make([]scatterNode, n), scale: scale}
}

func (b *scatterBuffer) clear() {
	for i := range b.nodes {
		b.nodes[i] = scatterNode{}
	}
}

// addWeight atomically accumulates the per-component weights wx/wy/wz and
// the scalar density weight ws into node idx's weight accumulator.
func (b *scatterBuffer) addWeight(idx int, wx, wy, wz, ws float64) {
	n := &b.nodes[idx]
	atomic.AddInt64(&n.wx, int64(wx*b.scale))
	atomic.AddInt64(&n.wy, int64(wy*b.scale))
	atomic.AddInt64(&n.wz, int64(wz*b.scale))
	atomic.AddInt64(&n.ws, int64(ws*b.scale))
}

// addVelocity atomically accumulates a weighted velocity contribution into
// node idx's velocity accumulator.
func (b *scatterBuffer) addVelocity(idx int, vx, vy, vz, wx, wy, wz float64) {
	n := &b.nodes[idx]
	atomic.AddInt64(&n.velX, int64(vx*wx*b.scale))
	atomic.AddInt64(&n.velY, int64(vy*wy*b.scale))
	atomic.AddInt64(&n.velZ, int64(vz*wz*b.scale))
}

// normalized reverses the fixed-point scaling and divides each weighted
// velocity sum by its matching weight sum, returning zero for any component
// whose weight sum is (numerically) zero.
func (b *scatterBuffer) normalized(idx int) (vx, vy, vz, ws float64) {
	n := b.nodes[idx]
	wx, wy, wz := float64(n.wx)/b.scale, float64(n.wy)/b.scale, float64(n.wz)/b.scale
	ws = float64(n.ws) / b.scale
	if wx != 0 {
		vx = (float64(n.velX) / b.scale) / wx
	}
	if wy != 0 {
		vy = (float64(n.velY) / b.scale) / wy
	}
	if wz != 0 {
		vz = (float64(n.velZ) / b.scale) / wz
	}
	return vx, vy, vz, ws
}
