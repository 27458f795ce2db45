// Package layout derives every coordinate, anchor and style assignment of the
// disc drawing from a [params.Set] and issues them to a [surface.Surface].
//
// The work is split into four planners that run in strict sequence, each
// consuming the geometry of the previous one:
//
//   - [EnsureLayer] defines the GEOM, CENTER and DIM layers.
//   - [PlanPrimitives] computes the plan-view circle, the side-profile bar
//     and the two centerlines.
//   - [PlanDimensions] computes the diameter and thickness dimensions.
//   - [PlanTolerances] and [PlanNote] place the tolerance callouts and the
//     inspection note.
//
// The planners are pure. [Run] drives them against a surface in two phases:
// dimensions are created and styled first, their resolved text positions are
// read back, and only then are the tolerance callouts computed from those
// positions. The host decides where dimension text lands; nothing here
// predicts it.
//
// Style assignment is best-effort. A property the host does not expose is
// recorded as a [Warning] and logged; the run carries on. Failures to create
// entities or to assign a required property abort the run with a
// HOST_UNAVAILABLE error.
package layout
