package chart

import (
	"math"
	"time"
)

// Mode is the engine's current gesture state.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeZoomDragging
	ModeCrosshairTracking
	ModePinchZooming
	ModeCurveManipulating
	ModeAnimating
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeZoomDragging:
		return "zoom-dragging"
	case ModeCrosshairTracking:
		return "crosshair"
	case ModePinchZooming:
		return "pinch-zooming"
	case ModeCurveManipulating:
		return "curve-manipulating"
	case ModeAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// velocitySmoothing is the EWMA weight of the newest sample when tracking
// drag velocity.
const velocitySmoothing = 0.2

// zoomDragPixels converts perpendicular drag distance on an axis strip into
// zoom ticks: one tick per this many pixels.
const zoomDragPixels = 30.0

// wheelPanPixels converts one wheel tick into a pan distance.
const wheelPanPixels = 50.0

type pinchState struct {
	axis  PinchAxis
	match AxisMatch
	p0    Point
	p1    Point
}

type gestureState struct {
	mode     Mode
	match    AxisMatch
	origin   Point
	last     Point
	lastTime time.Time
	velocity Point // axis-space pixels per millisecond
	pinch    *pinchState
}

// Mode returns the current gesture mode.
func (e *Engine) Mode() Mode { return e.gesture.mode }

// PointerDown starts a gesture at the given display point. Any running
// animation is cancelled.
func (e *Engine) PointerDown(p Point, at time.Time) {
	e.cancelAnimation()

	g := &e.gesture
	g.origin = p
	g.last = p
	g.lastTime = at
	g.velocity = Point{}
	g.pinch = nil

	switch {
	case e.cfg.CurveManipulation && e.selectedSeries >= 0:
		g.mode = ModeCurveManipulating
	default:
		g.match = e.MatchAxes(p)
		switch {
		case (g.match.X >= 0 || g.match.Y >= 0) && (e.cfg.Pan || e.cfg.Zoom):
			g.mode = ModeZoomDragging
		case e.cfg.Pan:
			g.mode = ModePanning
		case e.cfg.Crosshair:
			g.mode = ModeCrosshairTracking
		default:
			g.mode = ModeIdle
		}
	}

	if e.cfg.Crosshair && g.mode != ModeIdle {
		e.SetCrosshair(p, 0, 0)
	}
}

// PointerMove advances the active gesture.
func (e *Engine) PointerMove(p Point, at time.Time) {
	g := &e.gesture
	delta := Point{X: p.X - g.last.X, Y: p.Y - g.last.Y}

	switch g.mode {
	case ModePanning:
		mode := PanClamped
		if e.cfg.Rubberband {
			mode = PanDampened
		}
		e.Translate(delta, g.match, mode)
		e.trackVelocity(delta, at)

	case ModeZoomDragging:
		e.dragOnAxis(delta)

	case ModeCrosshairTracking:
		e.SetCrosshair(p, 0, 0)
		e.RequestTooltip(p)

	case ModeCurveManipulating:
		e.TranslateSelectedSeries(e.vectorToAxisSpace(delta).Y)

	default:
		if e.cfg.Crosshair {
			e.SetCrosshair(p, 0, 0)
		}
	}

	if e.cfg.Crosshair && g.mode != ModeIdle && g.mode != ModeCrosshairTracking {
		e.SetCrosshair(p, 0, 0)
	}

	g.last = p
	g.lastTime = at
}

// PointerUp finishes the active gesture. A pan released with residual
// velocity under rubberband bounds hands off to the inertial animation.
func (e *Engine) PointerUp(_ Point, _ time.Time) {
	g := &e.gesture

	switch g.mode {
	case ModePanning:
		if e.cfg.Rubberband && speed(g.velocity) > minAnimationSpeed {
			e.startAnimation(g.velocity, g.match)
			return
		}
		e.EnforceLimits(limitFlagsFor(g.match))
	case ModeZoomDragging, ModePinchZooming:
		e.EnforceLimits(limitFlagsFor(g.match))
	}

	g.mode = ModeIdle
	g.pinch = nil
}

// dragOnAxis handles a drag anchored on a single axis strip: movement along
// the axis pans only that axis, perpendicular movement zooms it around the
// drag origin. The along-axis component is isolated in axis space and mapped
// back to a display delta, so the pan reaches the matched axis family under
// either orientation.
func (e *Engine) dragOnAxis(delta Point) {
	g := &e.gesture
	d := e.vectorToAxisSpace(delta)

	switch {
	case g.match.X >= 0:
		if e.cfg.Pan && d.X != 0 {
			e.Translate(e.vectorToDisplaySpace(Point{X: d.X}), g.match, PanClamped)
		}
		if e.cfg.Zoom && d.Y != 0 {
			e.Zoom(g.origin, -d.Y/zoomDragPixels, 0, g.match)
		}
	case g.match.Y >= 0:
		if e.cfg.Pan && d.Y != 0 {
			e.Translate(e.vectorToDisplaySpace(Point{Y: d.Y}), g.match, PanClamped)
		}
		if e.cfg.Zoom && d.X != 0 {
			e.Zoom(g.origin, 0, -d.X/zoomDragPixels, g.match)
		}
	}
}

func (e *Engine) trackVelocity(delta Point, at time.Time) {
	g := &e.gesture
	dt := at.Sub(g.lastTime).Seconds() * 1000
	if dt <= 0 {
		return
	}
	d := e.vectorToAxisSpace(delta)
	instant := Point{X: d.X / dt, Y: d.Y / dt}
	if !finite(instant.X) || !finite(instant.Y) {
		return
	}
	g.velocity.X = g.velocity.X*(1-velocitySmoothing) + instant.X*velocitySmoothing
	g.velocity.Y = g.velocity.Y*(1-velocitySmoothing) + instant.Y*velocitySmoothing
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func speed(v Point) float64 {
	return math.Hypot(v.X, v.Y)
}

// Wheel applies a wheel event. delta is in ticks; positive zooms in (or
// pans down/right for pan actions).
func (e *Engine) Wheel(p Point, delta float64, mods Modifiers) {
	if !finite(delta) || delta == 0 {
		return
	}
	e.cancelAnimation()

	if e.cfg.CurveManipulation && e.selectedSeries >= 0 {
		e.ScaleSelectedSeries(math.Pow(zoomBase, delta))
		return
	}

	match := e.MatchAxes(p)
	action, ok := e.cfg.WheelActions[mods]
	if !ok {
		action = WheelZoom
	}

	switch action {
	case WheelZoom:
		if e.cfg.Zoom {
			e.Zoom(p, delta, delta, match)
		}
	case WheelZoomX:
		if e.cfg.Zoom {
			e.Zoom(p, delta, 0, match)
		}
	case WheelZoomY:
		if e.cfg.Zoom {
			e.Zoom(p, 0, delta, match)
		}
	case WheelPanMatching:
		if e.cfg.Pan {
			e.Translate(Point{Y: delta * wheelPanPixels}, match, PanClamped)
		}
	case WheelPanX:
		if e.cfg.Pan {
			e.Translate(Point{X: delta * wheelPanPixels}, match, PanClamped)
		}
	case WheelPanY:
		if e.cfg.Pan {
			e.Translate(Point{Y: delta * wheelPanPixels}, match, PanClamped)
		}
	}
}

// TouchStart begins a touch gesture: one point behaves like PointerDown,
// two points arm the pinch-zoom tracker. Touches matching different
// specific axes abort the gesture rather than guessing.
func (e *Engine) TouchStart(points []Point, at time.Time) {
	switch len(points) {
	case 1:
		e.PointerDown(points[0], at)
	case 2:
		e.cancelAnimation()
		e.beginPinch(points[0], points[1])
	default:
		e.gesture.mode = ModeIdle
		e.gesture.pinch = nil
	}
}

func (e *Engine) beginPinch(p0, p1 Point) {
	g := &e.gesture
	if !e.cfg.Zoom {
		g.mode = ModeIdle
		return
	}

	m0 := e.MatchAxes(p0)
	m1 := e.MatchAxes(p1)
	match, ok := mergePinchMatch(m0, m1)
	if !ok {
		// Touches span different axes: abort instead of guessing.
		g.pinch = nil
		g.mode = ModeIdle
		return
	}

	g.pinch = &pinchState{
		axis:  SnapPinchAxis(p0, p1),
		match: match,
		p0:    p0,
		p1:    p1,
	}
	g.mode = ModePinchZooming
}

// mergePinchMatch combines the axis matches of both touch points. Both must
// agree: all-axes with all-axes, or the same specific axis.
func mergePinchMatch(a, b AxisMatch) (AxisMatch, bool) {
	if a == b {
		return a, true
	}
	return AxisMatch{}, false
}

// TouchMove advances a touch gesture.
func (e *Engine) TouchMove(points []Point, at time.Time) {
	g := &e.gesture
	if g.mode == ModePinchZooming && g.pinch != nil && len(points) == 2 {
		e.movePinch(points[0], points[1])
		return
	}
	if len(points) == 1 {
		e.PointerMove(points[0], at)
	}
}

func (e *Engine) movePinch(p0, p1 Point) {
	g := &e.gesture
	pinch := g.pinch

	before := projectedDistance(pinch.p0, pinch.p1, pinch.axis)
	after := projectedDistance(p0, p1, pinch.axis)

	// Equal or degenerate distances force a neutral ratio.
	ratio := 1.0
	if before > 0 && after > 0 {
		ratio = after / before
	}
	if !finite(ratio) || ratio <= 0 {
		ratio = 1
	}

	anchor := Point{X: (p0.X + p1.X) / 2, Y: (p0.Y + p1.Y) / 2}

	if e.cfg.CurveManipulation && e.selectedSeries >= 0 {
		e.ScaleSelectedSeriesAt(ratio, e.toAxisSpace(anchor).Y)
	} else {
		rx, ry := 1.0, 1.0
		switch pinch.axis {
		case PinchHorizontal:
			rx = ratio
		case PinchVertical:
			ry = ratio
		default:
			rx, ry = ratio, ratio
		}
		e.ZoomRatio(anchor, rx, ry, pinch.match)
	}

	pinch.p0 = p0
	pinch.p1 = p1
}

// TouchEnd finishes a touch gesture. Dropping from two touches to one
// restarts a single-point gesture; dropping to zero behaves like PointerUp.
func (e *Engine) TouchEnd(remaining []Point, at time.Time) {
	g := &e.gesture
	switch len(remaining) {
	case 0:
		e.PointerUp(g.last, at)
		g.pinch = nil
	case 1:
		g.pinch = nil
		e.PointerDown(remaining[0], at)
	}
}

// PinchAxis is the snapped direction of a two-touch pinch.
type PinchAxis int

const (
	PinchHorizontal PinchAxis = iota // 0 degrees
	PinchVertical                    // 90 degrees
	PinchDiagonalUp                  // 45 degrees
	PinchDiagonalDown                // -45 degrees
)

// Degrees returns the snapped angle in degrees.
func (a PinchAxis) Degrees() float64 {
	switch a {
	case PinchVertical:
		return 90
	case PinchDiagonalUp:
		return 45
	case PinchDiagonalDown:
		return -45
	default:
		return 0
	}
}

var (
	sin22_5 = math.Sin(22.5 * math.Pi / 180)
	cos67_5 = math.Cos(67.5 * math.Pi / 180)
)

// SnapPinchAxis classifies the segment between two touch points into one of
// the four snapped pinch directions. Near-axis-aligned pinches snap to the
// axis so jitter cannot read as a rotated pinch: |sin| below sin 22.5°
// snaps horizontal, |cos| below cos 67.5° snaps vertical, anything else is
// diagonal by the sign of the tangent.
func SnapPinchAxis(p0, p1 Point) PinchAxis {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	r := math.Hypot(dx, dy)
	if r == 0 {
		return PinchHorizontal
	}
	sin := math.Abs(dy) / r
	cos := math.Abs(dx) / r
	if sin < sin22_5 {
		return PinchHorizontal
	}
	if cos < cos67_5 {
		return PinchVertical
	}
	// Screen y grows downward: a negative dy/dx slope rises on screen.
	if dy/dx < 0 {
		return PinchDiagonalUp
	}
	return PinchDiagonalDown
}

// projectedDistance projects both touch points onto the snapped axis before
// measuring, so the scale ratio reflects movement along that axis only.
func projectedDistance(p0, p1 Point, axis PinchAxis) float64 {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y
	var ux, uy float64
	switch axis {
	case PinchHorizontal:
		ux, uy = 1, 0
	case PinchVertical:
		ux, uy = 0, 1
	case PinchDiagonalUp:
		ux, uy = math.Sqrt2/2, -math.Sqrt2/2
	default:
		ux, uy = math.Sqrt2/2, math.Sqrt2/2
	}
	return math.Abs(dx*ux + dy*uy)
}
