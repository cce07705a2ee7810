// Package sim advances a force-directed layout one discrete tick at a time.
//
// Each tick, every free node feels three forces:
//
//   - gravity toward the canvas center, proportional to distance
//   - repulsion from every other node closer than twice their combined
//     radius scaled by [Params.RepulsionScale]
//   - a spring along each incident edge, pulling toward
//     [Params.IdealDistance] and scaled by the edge weight
//
// Velocity is integrated with a fixed damping factor and applied to position
// at a fixed rate (alpha), then the position is clamped to an inset margin of
// the canvas. Pinned nodes are placed at their pin and skip integration.
//
// # Two-Phase Step
//
// [Engine.Next] is pure: it reads only the committed node positions and
// returns the next state of every node. [Engine.Commit] writes a full set
// of states back at once. No node ever observes a partially updated tick.
// [Engine.Step] does both.
//
// # Settling
//
// With the default [Params] the layout never freezes. Alpha is constant, so
// the system hovers around a dynamic equilibrium and keeps responding to
// drags. Setting [Params.AlphaDecay] above zero enables a settle mode in
// which alpha decays each tick and the layout stops once alpha falls under
// [Params.AlphaMin]. [Engine.Reheat] restarts it.
//
// # Cost
//
// Repulsion is O(n²) per tick. Interactive hosts should keep graphs under
// [SoftNodeLimit] nodes.
package sim
