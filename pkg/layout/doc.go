// Package layout implements the cross-format responsive positioning engine.
//
// A design is kept on several canvas sizes at once. Instances of the same
// logical element share a linkedElementId, one instance per active size. The
// engine infers a constraint pair for an element from its pixel geometry
// ([Engine.AnalyzeConstraints]), re-derives geometry for another size
// ([Engine.Transform]) and pushes edits of one instance to its siblings
// ([Engine.Propagate]).
//
// Transformation takes one of three paths:
//
//   - background elements always cover the whole target canvas;
//   - sizes of the same orientation class project the element through its
//     constraint pair (edge, center or scale anchoring);
//   - portrait<->landscape changes remap the element's quadrant into a target
//     region and resize it by an aspect-preserving rule.
//
// All operations are pure: element collections are immutable snapshots in,
// new snapshots out. An Engine holds only configuration and is safe for
// concurrent use.
package layout
