package chart

import (
	"fmt"
	"math"
)

// zoomBase is the per-tick zoom factor: a wheel delta of n scales by
// zoomBase^n.
const zoomBase = 1.2

// PanMode selects how Translate treats the configured bounds.
type PanMode int

const (
	// PanUnrestricted applies the delta as-is. Used by programmatic moves
	// and the animation stepper, which manage bounds themselves.
	PanUnrestricted PanMode = iota
	// PanDampened applies overscroll resistance proportional to how far
	// out of bounds the view already is. Used for live elastic drags.
	PanDampened
	// PanClamped enforces limits immediately after the delta. Used for
	// non-elastic drags.
	PanClamped
)

// LimitFlags selects which axis families EnforceLimits clamps.
type LimitFlags int

const (
	LimitX  LimitFlags = 1 << 0
	LimitY  LimitFlags = 1 << 1
	LimitXY            = LimitX | LimitY
)

// AxisKind tags an axis id as belonging to the X or Y family.
type AxisKind int

const (
	XAxisKind AxisKind = iota
	YAxisKind
)

// AxisID identifies one axis of the configuration.
type AxisID struct {
	Kind  AxisKind
	Index int
}

// AxisMatch is the result of hit-testing a gesture against the axes: a
// specific X axis, a specific Y axis, or -1 meaning every axis of that
// family participates.
type AxisMatch struct {
	X int
	Y int
}

// MatchAll pans or zooms every axis together.
var MatchAll = AxisMatch{X: -1, Y: -1}

type crosshairState struct {
	valid bool
	model Point
	xAxis int
	yAxis int
}

// Engine owns the chart's transform state and applies the gesture
// primitives to it. Construct with NewEngine; the zero value is not usable.
type Engine struct {
	cfg Configuration

	xTransforms []Transform
	yTransforms []Transform

	// seriesTransforms carry per-series curve manipulation state,
	// independent of the axis transforms.
	seriesTransforms []Transform
	selectedSeries   int

	xPens [][]PenLevel
	yPens [][]PenLevel

	crosshair crosshairState

	gesture  gestureState
	anim     animationState
	notifier *Notifier
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier wires the change-notification sink.
func WithNotifier(n *Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// NewEngine validates the configuration and builds an engine with identity
// transforms on every axis.
func NewEngine(cfg Configuration, options ...Option) (*Engine, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:            cfg,
		selectedSeries: -1,
	}
	for _, opt := range options {
		opt(e)
	}
	e.resizeTransforms()
	e.RefreshPenColors()
	return e, nil
}

// UpdateConfig replaces the configuration wholesale. Axis transforms
// persist across updates so pan/zoom state survives a server re-render;
// axes added by the new configuration start at identity.
func (e *Engine) UpdateConfig(cfg Configuration) error {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	e.resizeTransforms()
	e.EnforceLimits(LimitXY)
	e.RefreshPenColors()
	return nil
}

func (e *Engine) resizeTransforms() {
	e.xTransforms = resize(e.xTransforms, len(e.cfg.XAxes))
	e.yTransforms = resize(e.yTransforms, len(e.cfg.YAxes))
	e.seriesTransforms = resize(e.seriesTransforms, len(e.cfg.Series))
	e.xPens = clonePens(e.cfg.XAxes)
	e.yPens = clonePens(e.cfg.YAxes)
}

func resize(ts []Transform, n int) []Transform {
	for len(ts) < n {
		ts = append(ts, Identity())
	}
	return ts[:n]
}

func clonePens(axes []Axis) [][]PenLevel {
	out := make([][]PenLevel, len(axes))
	for i, ax := range axes {
		out[i] = append([]PenLevel(nil), ax.Pens...)
	}
	return out
}

// Config returns the current configuration snapshot.
func (e *Engine) Config() Configuration { return e.cfg }

// XTransform returns the transform of X axis i.
func (e *Engine) XTransform(i int) Transform { return e.xTransforms[i] }

// YTransform returns the transform of Y axis i.
func (e *Engine) YTransform(i int) Transform { return e.yTransforms[i] }

// SetXTransform resets an axis transform, typically when the server pushes
// an explicit view.
func (e *Engine) SetXTransform(i int, t Transform) {
	e.xTransforms[i] = t
	e.noteChanged(AxisID{Kind: XAxisKind, Index: i})
}

// SetYTransform resets a Y axis transform.
func (e *Engine) SetYTransform(i int, t Transform) {
	e.yTransforms[i] = t
	e.noteChanged(AxisID{Kind: YAxisKind, Index: i})
}

// ResetTransforms restores every axis and series transform to identity.
func (e *Engine) ResetTransforms() {
	for i := range e.xTransforms {
		e.xTransforms[i] = Identity()
		e.noteChanged(AxisID{Kind: XAxisKind, Index: i})
	}
	for i := range e.yTransforms {
		e.yTransforms[i] = Identity()
		e.noteChanged(AxisID{Kind: YAxisKind, Index: i})
	}
	for i := range e.seriesTransforms {
		e.seriesTransforms[i] = Identity()
	}
	e.RefreshPenColors()
}

// baseMatrix is the fixed orientation matrix: identity for vertical charts,
// an x/y swap for horizontal ones. It is its own inverse.
func (e *Engine) baseMatrix() Transform {
	if e.cfg.Orientation == Horizontal {
		return Transform{0, 1, 1, 0, 0, 0}
	}
	return Identity()
}

// toAxisSpace maps a display point into axis space. Every orientation swap
// in the engine funnels through this and axisRect; gestures never re-derive
// it.
func (e *Engine) toAxisSpace(p Point) Point {
	return e.baseMatrix().Apply(p)
}

// toDisplaySpace maps an axis-space point back to display space.
func (e *Engine) toDisplaySpace(p Point) Point {
	return e.baseMatrix().Apply(p)
}

// axisRect is the inside area expressed in axis space.
func (e *Engine) axisRect() Rect {
	if e.cfg.Orientation == Horizontal {
		return e.cfg.InsideArea.Transposed()
	}
	return e.cfg.InsideArea
}

// CombinedTransform returns the display-space transform for the given axis
// pair: base ∘ xTransform ∘ yTransform ∘ base⁻¹.
func (e *Engine) CombinedTransform(xAxis, yAxis int) Transform {
	b := e.baseMatrix()
	pair := axisPairTransform(e.xTransforms[xAxis], e.yTransforms[yAxis])
	return b.Multiply(pair).Multiply(b)
}

// ToDisplayCoord maps a model point to its pixel position under the current
// transforms of the given axis pair.
func (e *Engine) ToDisplayCoord(model Point, xAxis, yAxis int) Point {
	a := e.modelToAxisBase(model, xAxis, yAxis)
	pair := axisPairTransform(e.xTransforms[xAxis], e.yTransforms[yAxis])
	return e.toDisplaySpace(pair.Apply(a))
}

// ToModelCoord maps a pixel position back to model coordinates under the
// current transforms of the given axis pair.
func (e *Engine) ToModelCoord(display Point, xAxis, yAxis int) Point {
	pair := axisPairTransform(e.xTransforms[xAxis], e.yTransforms[yAxis])
	a := pair.Inverted().Apply(e.toAxisSpace(display))
	return e.axisBaseToModel(a, xAxis, yAxis)
}

// modelToAxisBase linearly interpolates a model point onto the untransformed
// inside area in axis space. Model Y grows upward, pixels grow downward.
func (e *Engine) modelToAxisBase(model Point, xAxis, yAxis int) Point {
	rect := e.axisRect()
	mx := e.cfg.XAxes[xAxis].Model
	my := e.cfg.YAxes[yAxis].Model
	u := (model.X - mx.Min) / mx.Span()
	v := (model.Y - my.Min) / my.Span()
	return Point{
		X: rect.Left() + u*rect.Width,
		Y: rect.Bottom() - v*rect.Height,
	}
}

func (e *Engine) axisBaseToModel(a Point, xAxis, yAxis int) Point {
	rect := e.axisRect()
	mx := e.cfg.XAxes[xAxis].Model
	my := e.cfg.YAxes[yAxis].Model
	u := (a.X - rect.Left()) / rect.Width
	v := (rect.Bottom() - a.Y) / rect.Height
	return Point{
		X: mx.Min + u*mx.Span(),
		Y: my.Min + v*my.Span(),
	}
}

// Translate pans the matched axes by a display-pixel delta.
func (e *Engine) Translate(delta Point, match AxisMatch, mode PanMode) {
	d := e.vectorToAxisSpace(delta)

	for _, i := range e.matchedX(match) {
		e.translateX(i, d.X, mode)
	}
	for _, j := range e.matchedY(match) {
		e.translateY(j, d.Y, mode)
	}

	if mode == PanClamped {
		e.EnforceLimits(limitFlagsFor(match))
	}
}

// vectorToAxisSpace maps a display-space direction vector into axis space
// (translation components do not apply to vectors).
func (e *Engine) vectorToAxisSpace(v Point) Point {
	if e.cfg.Orientation == Horizontal {
		return Point{X: v.Y, Y: v.X}
	}
	return v
}

// vectorToDisplaySpace maps an axis-space direction vector back to display
// space. The orientation swap is its own inverse.
func (e *Engine) vectorToDisplaySpace(v Point) Point {
	return e.vectorToAxisSpace(v)
}

func (e *Engine) translateX(i int, delta float64, mode PanMode) {
	if delta == 0 {
		return
	}
	t := &e.xTransforms[i]
	if mode == PanDampened {
		lo, hi := translationBounds(t.scaleX(), e.axisRect().Left(), e.axisRect().Right())
		delta = dampenDelta(delta, t[4], lo, hi, e.axisRect().Width)
	}
	t[4] += delta
	e.noteChanged(AxisID{Kind: XAxisKind, Index: i})
}

func (e *Engine) translateY(j int, delta float64, mode PanMode) {
	if delta == 0 {
		return
	}
	t := &e.yTransforms[j]
	if mode == PanDampened {
		lo, hi := translationBounds(t.scaleY(), e.axisRect().Top(), e.axisRect().Bottom())
		delta = dampenDelta(delta, t[5], lo, hi, e.axisRect().Height)
	}
	t[5] += delta
	e.noteChanged(AxisID{Kind: YAxisKind, Index: j})
}

// translationBounds computes the translation interval keeping the scaled
// inside area covering the viewport: for scale s over [left, right], the
// offset must lie in [right*(1-s), left*(1-s)].
func translationBounds(scale, left, right float64) (lo, hi float64) {
	return right * (1 - scale), left * (1 - scale)
}

// overscrollFraction sizes the elastic range: resistance reaches full stop
// once the view is this fraction of the inside area out of bounds.
const overscrollFraction = 0.5

// dampenDelta scales down a delta that pushes the offset further out of
// bounds, proportionally to the existing overshoot.
func dampenDelta(delta, current, lo, hi, span float64) float64 {
	var over float64
	switch {
	case current < lo && delta < 0:
		over = lo - current
	case current > hi && delta > 0:
		over = current - hi
	default:
		return delta
	}
	factor := 1 - over/(span*overscrollFraction)
	if factor < 0 {
		factor = 0
	}
	return delta * factor
}

// Zoom rescales the matched axes around a display-space anchor point.
// deltaX and deltaY are wheel-tick style exponents: the scale factor is
// zoomBase^delta, clamped to the axis zoom range, and the anchor pixel maps
// to the same model point before and after.
func (e *Engine) Zoom(anchor Point, deltaX, deltaY float64, match AxisMatch) {
	a := e.toAxisSpace(anchor)
	fx := math.Pow(zoomBase, deltaX)
	fy := math.Pow(zoomBase, deltaY)

	for _, i := range e.matchedX(match) {
		e.scaleAxis(&e.xTransforms[i], 0, a.X, fx, e.cfg.XAxes[i])
		e.noteChanged(AxisID{Kind: XAxisKind, Index: i})
	}
	for _, j := range e.matchedY(match) {
		e.scaleAxis(&e.yTransforms[j], 3, a.Y, fy, e.cfg.YAxes[j])
		e.noteChanged(AxisID{Kind: YAxisKind, Index: j})
	}

	e.EnforceLimits(limitFlagsFor(match))
	e.RefreshPenColors()
}

// scaleAxis applies an anchor-invariant rescale to one axis transform.
// comp is 0 for the x scale slot, 3 for y; the matching offset slot is
// comp+4 for x (slot 4) and comp+2 for y (slot 5).
func (e *Engine) scaleAxis(t *Transform, comp int, anchor, factor float64, ax Axis) {
	if factor == 1 {
		return
	}
	offset := 4
	if comp == 3 {
		offset = 5
	}
	oldScale := t[comp]
	newScale := clamp(oldScale*factor, ax.MinZoom, ax.MaxZoom)
	if newScale == oldScale {
		return
	}
	ratio := newScale / oldScale
	t[comp] = newScale
	// Keep the anchor's pixel position invariant: scale around the anchor,
	// not the origin.
	t[offset] = anchor - (anchor-t[offset])*ratio
}

func clamp(s, min, max float64) float64 {
	if s < min {
		return min
	}
	if s > max {
		return max
	}
	return s
}

// ZoomRatio rescales the matched axes by explicit per-axis ratios, used by
// the pinch gesture. A ratio of 1 leaves the axis untouched.
func (e *Engine) ZoomRatio(anchor Point, ratioX, ratioY float64, match AxisMatch) {
	a := e.toAxisSpace(anchor)
	if ratioX > 0 && ratioX != 1 {
		for _, i := range e.matchedX(match) {
			e.scaleAxis(&e.xTransforms[i], 0, a.X, ratioX, e.cfg.XAxes[i])
			e.noteChanged(AxisID{Kind: XAxisKind, Index: i})
		}
	}
	if ratioY > 0 && ratioY != 1 {
		for _, j := range e.matchedY(match) {
			e.scaleAxis(&e.yTransforms[j], 3, a.Y, ratioY, e.cfg.YAxes[j])
			e.noteChanged(AxisID{Kind: YAxisKind, Index: j})
		}
	}
	e.EnforceLimits(limitFlagsFor(match))
	e.RefreshPenColors()
}

// EnforceLimits clamps scale to at least 1 and translation so the
// transformed inside area never leaves the configured inside area. The
// orientation swap is already folded into axisRect, so X flags always mean
// "the model X axes" regardless of orientation. Idempotent.
func (e *Engine) EnforceLimits(flags LimitFlags) {
	rect := e.axisRect()
	if flags&LimitX != 0 {
		for i := range e.xTransforms {
			t := &e.xTransforms[i]
			if t[0] < 1 {
				t[0] = 1
			}
			lo, hi := translationBounds(t[0], rect.Left(), rect.Right())
			t[4] = clamp(t[4], lo, hi)
		}
	}
	if flags&LimitY != 0 {
		for j := range e.yTransforms {
			t := &e.yTransforms[j]
			if t[3] < 1 {
				t[3] = 1
			}
			lo, hi := translationBounds(t[3], rect.Top(), rect.Bottom())
			t[5] = clamp(t[5], lo, hi)
		}
	}
}

func limitFlagsFor(match AxisMatch) LimitFlags {
	// A gesture anchored on a specific axis family still clamps only that
	// family; MatchAll clamps both.
	flags := LimitFlags(0)
	if match.Y < 0 || match.X >= 0 {
		flags |= LimitX
	}
	if match.X < 0 || match.Y >= 0 {
		flags |= LimitY
	}
	if flags == 0 {
		flags = LimitXY
	}
	return flags
}

func (e *Engine) matchedX(match AxisMatch) []int {
	if match.X >= 0 {
		return []int{match.X}
	}
	if match.Y >= 0 {
		// Anchored on a Y axis: X axes do not participate.
		return nil
	}
	out := make([]int, len(e.xTransforms))
	for i := range out {
		out[i] = i
	}
	return out
}

func (e *Engine) matchedY(match AxisMatch) []int {
	if match.Y >= 0 {
		return []int{match.Y}
	}
	if match.X >= 0 {
		return nil
	}
	out := make([]int, len(e.yTransforms))
	for i := range out {
		out[i] = i
	}
	return out
}

// MatchAxes hit-tests a display point against the axis strips: a drag
// started on an axis strip addresses that axis alone.
func (e *Engine) MatchAxes(p Point) AxisMatch {
	match := MatchAll
	for i, ax := range e.cfg.XAxes {
		if ax.Strip.Width > 0 && ax.Strip.Contains(p) {
			match.X = i
			return match
		}
	}
	for j, ax := range e.cfg.YAxes {
		if ax.Strip.Width > 0 && ax.Strip.Contains(p) {
			match.Y = j
			return match
		}
	}
	return match
}

// SetCrosshair positions the crosshair from a display point. The crosshair
// is stored in model space, so later pans and zooms re-project it to the
// same model location. With a followed series configured the crosshair
// snaps to that series' curve and the supplied axis pair is ignored in
// favor of the series' own.
func (e *Engine) SetCrosshair(display Point, xAxis, yAxis int) error {
	if fc := e.cfg.FollowCurve; fc != nil {
		s := e.cfg.Series[*fc]
		model := e.ToModelCoord(display, s.XAxis, s.YAxis)
		model.Y = followCurveY(s.Points, model.X)
		e.crosshair = crosshairState{
			valid: true,
			model: model,
			xAxis: s.XAxis,
			yAxis: s.YAxis,
		}
		return nil
	}
	if xAxis < 0 || xAxis >= len(e.cfg.XAxes) || yAxis < 0 || yAxis >= len(e.cfg.YAxes) {
		return fmt.Errorf("chart: crosshair axes (%d, %d) out of range", xAxis, yAxis)
	}
	e.crosshair = crosshairState{
		valid: true,
		model: e.ToModelCoord(display, xAxis, yAxis),
		xAxis: xAxis,
		yAxis: yAxis,
	}
	return nil
}

// followCurveY interpolates the curve samples at model x. Outside the
// sampled range the curve clamps to its end values.
func followCurveY(points []Point, x float64) float64 {
	if x <= points[0].X {
		return points[0].Y
	}
	last := points[len(points)-1]
	if x >= last.X {
		return last.Y
	}
	for i := 1; i < len(points); i++ {
		if x <= points[i].X {
			p0, p1 := points[i-1], points[i]
			if p1.X == p0.X {
				return p1.Y
			}
			u := (x - p0.X) / (p1.X - p0.X)
			return p0.Y + u*(p1.Y-p0.Y)
		}
	}
	return last.Y
}

// ClearCrosshair hides the crosshair.
func (e *Engine) ClearCrosshair() { e.crosshair = crosshairState{} }

// CrosshairPosition returns the crosshair's current pixel position.
func (e *Engine) CrosshairPosition() (Point, bool) {
	if !e.crosshair.valid {
		return Point{}, false
	}
	return e.ToDisplayCoord(e.crosshair.model, e.crosshair.xAxis, e.crosshair.yAxis), true
}

// SelectSeries marks a series as selected for curve manipulation and
// notifies the server with the series' current pixel location.
func (e *Engine) SelectSeries(index int, at Point) error {
	if index < -1 || index >= len(e.cfg.Series) {
		return fmt.Errorf("chart: series %d out of range", index)
	}
	e.selectedSeries = index
	if index >= 0 && e.notifier != nil {
		e.notifier.noteSeriesSelected(index, at)
	}
	return nil
}

// SelectedSeries returns the selected series index, or -1.
func (e *Engine) SelectedSeries() int { return e.selectedSeries }

// SeriesTransform returns the manipulation transform of a series.
func (e *Engine) SeriesTransform(index int) Transform { return e.seriesTransforms[index] }

// ScaleSelectedSeries rescales the selected series' own transform
// vertically around the series midpoint, leaving axis transforms untouched.
func (e *Engine) ScaleSelectedSeries(factor float64) {
	idx := e.selectedSeries
	if idx < 0 || !e.cfg.CurveManipulation || !e.cfg.Series[idx].Manipulable {
		return
	}
	if factor <= 0 {
		return
	}
	t := &e.seriesTransforms[idx]
	mid := e.cfg.Series[idx].MidY
	t[3] *= factor
	t[5] = mid - (mid-t[5])*factor
}

// ScaleSelectedSeriesAt rescales the selected series around an explicit
// pixel anchor, used by pinch gestures whose anchor is the touch midpoint.
func (e *Engine) ScaleSelectedSeriesAt(factor, anchorY float64) {
	idx := e.selectedSeries
	if idx < 0 || !e.cfg.CurveManipulation || !e.cfg.Series[idx].Manipulable {
		return
	}
	if factor <= 0 {
		return
	}
	t := &e.seriesTransforms[idx]
	t[3] *= factor
	t[5] = anchorY - (anchorY-t[5])*factor
}

// TranslateSelectedSeries moves the selected series vertically.
func (e *Engine) TranslateSelectedSeries(deltaY float64) {
	idx := e.selectedSeries
	if idx < 0 || !e.cfg.CurveManipulation || !e.cfg.Series[idx].Manipulable {
		return
	}
	e.seriesTransforms[idx][5] += deltaY
}

// RequestTooltip asks the server layer to load tooltip content for the
// given pixel position.
func (e *Engine) RequestTooltip(at Point) {
	if e.notifier != nil {
		e.notifier.noteTooltip(at)
	}
}

func (e *Engine) noteChanged(id AxisID) {
	if e.notifier != nil {
		e.notifier.noteTransformChanged(id)
	}
}
