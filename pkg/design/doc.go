// Package design defines the data model shared by the layout engine, the
// document codec and the renderers: canvas sizes, element instances, their
// pixel/percent geometry and the constraint pair that governs how an element
// moves between sizes.
//
// Values in this package are treated as immutable snapshots. Operations in
// package layout return new values instead of mutating their inputs, and the
// helpers here (Clone, WithGeometry, ...) follow the same rule.
package design
