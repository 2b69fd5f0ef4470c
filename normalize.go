package flip

// stageNormalizeAndSnapshot is C6: for each velocity-grid node, divide the
// weighted velocity sums by their matching weight sums (nodes with zero
// weight retain zero velocity), write the result into the working field,
// and copy the identical tuple into the original-field snapshot that C12's
// FLIP delta reads later in the step (spec.md 4.6).
//
// The original field is frozen here for the rest of the step; this is the
// "dual velocity state" spec.md 9 calls out as required for the FLIP delta.
func (b *CPUBackend) stageNormalizeAndSnapshot() {
	sc := b.weightScatter
	w := b.working

	parallelRange(len(w.vx), func(start, end int) {
		for i := start; i < end; i++ {
			vx, vy, vz, ws := sc.normalized(i)
			w.vx[i], w.vy[i], w.vz[i], w.w[i] = vx, vy, vz, ws
		}
	})

	b.original.copyFrom(w)
}
