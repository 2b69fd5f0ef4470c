// Package shaders embeds the WGSL compute kernels for the GPU backend, one
// file per pipeline stage, following the teacher's embed-one-var-per-file
// convention (voxelrt/rt/shaders/shaders.go).
package shaders

import _ "embed"

//go:embed clear.wgsl
var Clear string

//go:embed p2g.wgsl
var P2G string

//go:embed mark.wgsl
var Mark string

//go:embed normalize.wgsl
var Normalize string

//go:embed forces.wgsl
var Forces string

//go:embed boundary.wgsl
var Boundary string

//go:embed divergence.wgsl
var Divergence string

//go:embed jacobi.wgsl
var Jacobi string

//go:embed redblack.wgsl
var RedBlack string

//go:embed project.wgsl
var Project string

//go:embed advect.wgsl
var Advect string
