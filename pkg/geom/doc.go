// Package geom holds the pixel/percent primitives shared by the layout engine:
// grid snapping, percent conversion and a small float rectangle type.
//
// Everything here is a pure function over float64 values.
package geom
