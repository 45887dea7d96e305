// Package chart implements the interactive transform engine of a cartesian
// chart: per-axis affine transforms driven by pan, zoom, pinch and crosshair
// gestures, bound enforcement with elastic overscroll, inertial settle
// animation, and debounced change notification back to the server layer.
//
// The Engine owns a Configuration snapshot supplied by the server plus the
// per-axis transform state. All gesture handlers, animation steps and
// repaint decisions run on a single goroutine per engine; the engine is not
// safe for concurrent use.
package chart
