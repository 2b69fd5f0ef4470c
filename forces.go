package flip

import "github.com/go-gl/mathgl/mgl64"

// stageForces is C7: apply gravity to every velocity node's y-component, and
// (when a mouse ray is active) an additional radial impulse with smooth
// falloff. Gravity acts along -y, grounded in the teacher's
// NewPhysicsWorld default (Gravity: {0, -9.81, 0}) and ApplyLinearImpulse
// (physics.go); the mouse-ray falloff kernel is grounded in
// zzstoatzz-fluids/simulation/forces.go's external-force application shape,
// generalized to a staggered MAC sample position (spec.md 4.7).
func (b *CPUBackend) stageForces(dt float64, mouse MouseRay, mouseVel [3]float64) {
	g := b.grid
	w := b.working
	gravity := b.cfg.Gravity

	vxN, vyN, vzN := g.velDims()
	mouseActive := mouse.Active
	rateFactor := 3 * smoothstep(0, 1.0/200.0, dt)

	parallelRange(vzN, func(zStart, zEnd int) {
		for z := zStart; z < zEnd; z++ {
			for y := 0; y < vyN; y++ {
				for x := 0; x < vxN; x++ {
					idx := g.velIndex(x, y, z)
					w.vy[idx] -= gravity * dt

					if !mouseActive {
						continue
					}
					// Each component samples the mouse kernel at its own
					// staggered location, matching how it was written to
					// the grid by P2G (spec.md 4.1, 4.7).
					xPos := g.gridToWorld([3]float64{float64(x), float64(y) + 0.5, float64(z) + 0.5})
					yPos := g.gridToWorld([3]float64{float64(x) + 0.5, float64(y), float64(z) + 0.5})
					zPos := g.gridToWorld([3]float64{float64(x) + 0.5, float64(y) + 0.5, float64(z)})

					kx := smoothstep(1, 0.9, pointToRayDistance(xPos, mouse.Origin, mouse.Direction)/b.cfg.MouseRadius)
					ky := smoothstep(1, 0.9, pointToRayDistance(yPos, mouse.Origin, mouse.Direction)/b.cfg.MouseRadius)
					kz := smoothstep(1, 0.9, pointToRayDistance(zPos, mouse.Origin, mouse.Direction)/b.cfg.MouseRadius)

					w.vx[idx] += mouseVel[0] * kx * rateFactor
					w.vy[idx] += mouseVel[1] * ky * rateFactor
					w.vz[idx] += mouseVel[2] * kz * rateFactor
				}
			}
		}
	})
}

// smoothstep is the classic cubic Hermite C1 falloff used by both the mouse
// kernel and the framerate-independence factor (spec.md 4.7).
func smoothstep(edge0, edge1, x float64) float64 {
	t := clampF((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// pointToRayDistance is the perpendicular distance from p to the ray
// (origin, dir), dir assumed unit length. Uses mathgl's Vec3 rather than
// hand-rolled component arithmetic, matching the teacher's vector-math
// convention elsewhere in the engine (camera/transform code built on
// go-gl/mathgl).
func pointToRayDistance(p, origin, dir [3]float64) float64 {
	toPoint := mgl64.Vec3(p).Sub(mgl64.Vec3(origin))
	d := mgl64.Vec3(dir)
	proj := toPoint.Dot(d)
	closest := toPoint.Sub(d.Mul(proj))
	return closest.Len()
}
