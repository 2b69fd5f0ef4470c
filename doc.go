// Package flip implements a real-time 3D FLIP (Fluid-Implicit-Particle) fluid
// solver on a staggered Marker-And-Cell grid, with density-corrected pressure
// projection.
//
// A Solver owns a fixed-size particle set and an Eulerian velocity/scalar
// grid. Reset allocates fresh state from a Config; Step advances the
// simulation by one frame through the twelve-stage pipeline described in the
// package's design notes: clear, particle-to-grid transfer, cell marking,
// normalize+snapshot, external forces, boundary enforcement, divergence,
// pressure solve, projection, boundary enforcement again, and grid-to-
// particle transfer with advection.
//
// The solver has no module-level state: multiple independent Solver values
// may coexist in one process. Rendering, windowing, and input handling are
// external collaborators and are not part of this package.
package flip
