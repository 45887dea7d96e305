package render

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/goliatone/go-wtk/pkg/chart"
)

// Format selects the output encoding of a snapshot.
type Format func(width, height int) (gochart.Renderer, error)

// PNG renders a raster snapshot.
var PNG Format = gochart.PNG

// SVG renders a vector snapshot.
var SVG Format = gochart.SVG

// Series is one line of data to draw. Values are in model coordinates; the
// renderer clips them to the engine's visible window.
type Series struct {
	Name    string
	XValues []float64
	YValues []float64
	Color   chart.Color
}

// Renderer draws snapshots of one engine. It is not safe for concurrent use
// with engine mutations; callers snapshot between gestures.
type Renderer struct {
	engine *chart.Engine
	title  string
	xName  string
	yName  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(r *Renderer) { r.title = title }
}

// WithAxisNames labels the model axes. For horizontal charts the labels
// follow the model axes, not the pixel directions.
func WithAxisNames(x, y string) Option {
	return func(r *Renderer) { r.xName = x; r.yName = y }
}

// New creates a renderer bound to an engine.
func New(e *chart.Engine, options ...Option) *Renderer {
	r := &Renderer{engine: e}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// window is the model-space rectangle currently visible through the
// engine's pan/zoom transforms.
type window struct {
	x chart.Range
	y chart.Range
}

func (r *Renderer) visibleWindow() window {
	inside := r.engine.Config().InsideArea
	a := r.engine.ToModelCoord(chart.Point{X: inside.Left(), Y: inside.Top()}, 0, 0)
	b := r.engine.ToModelCoord(chart.Point{X: inside.Right(), Y: inside.Bottom()}, 0, 0)
	return window{
		x: chart.Range{Min: minf(a.X, b.X), Max: maxf(a.X, b.X)},
		y: chart.Range{Min: minf(a.Y, b.Y), Max: maxf(a.Y, b.Y)},
	}
}

// Snapshot draws the given series through the engine's current view into w.
func (r *Renderer) Snapshot(data []Series, format Format, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("render: no series to draw")
	}
	win := r.visibleWindow()
	cfg := r.engine.Config()

	horizontal := cfg.Orientation == chart.Horizontal
	if horizontal {
		win.x, win.y = win.y, win.x
	}

	series := make([]gochart.Series, 0, len(data)+2)
	for _, s := range data {
		if len(s.XValues) != len(s.YValues) {
			return fmt.Errorf("render: series %q has %d x values and %d y values",
				s.Name, len(s.XValues), len(s.YValues))
		}
		xs, ys := s.XValues, s.YValues
		if horizontal {
			xs, ys = ys, xs
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: s.Color.DrawingColor(),
				StrokeWidth: 1.5,
			},
		})
	}
	series = append(series, r.crosshairSeries(win)...)

	xLabel, yLabel := r.xName, r.yName
	if horizontal {
		xLabel, yLabel = yLabel, xLabel
	}

	ch := gochart.Chart{
		Title:      r.title,
		Width:      int(cfg.Area.Width),
		Height:     int(cfg.Area.Height),
		Background: gochart.Style{Padding: gochart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: gochart.XAxis{
			Name:           xLabel,
			Range:          &gochart.ContinuousRange{Min: win.x.Min, Max: win.x.Max},
			GridMajorStyle: r.gridStyle(r.engine.ActiveXPen(0)),
		},
		YAxis: gochart.YAxis{
			Name:           yLabel,
			Range:          &gochart.ContinuousRange{Min: win.y.Min, Max: win.y.Max},
			GridMajorStyle: r.gridStyle(r.engine.ActiveYPen(0)),
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.RendererProvider(format), w); err != nil {
		return fmt.Errorf("render: drawing snapshot: %w", err)
	}
	return nil
}

func (r *Renderer) gridStyle(pen chart.PenLevel, ok bool) gochart.Style {
	if !ok || pen.Grid.A == 0 {
		return gochart.Style{Hidden: true}
	}
	return gochart.Style{
		StrokeColor: pen.Grid.DrawingColor(),
		StrokeWidth: 1.0,
	}
}

// crosshairSeries draws the crosshair as a pair of full-window lines at the
// stored model position, when one is set and visible.
func (r *Renderer) crosshairSeries(win window) []gochart.Series {
	display, ok := r.engine.CrosshairPosition()
	if !ok {
		return nil
	}
	at := r.engine.ToModelCoord(display, 0, 0)
	if r.engine.Config().Orientation == chart.Horizontal {
		at.X, at.Y = at.Y, at.X
	}
	if at.X < win.x.Min || at.X > win.x.Max || at.Y < win.y.Min || at.Y > win.y.Max {
		return nil
	}
	style := gochart.Style{
		StrokeColor:     drawing.Color{R: 0x60, G: 0x60, B: 0x60, A: 0xb0},
		StrokeWidth:     1.0,
		StrokeDashArray: []float64{4, 4},
	}
	return []gochart.Series{
		gochart.ContinuousSeries{
			XValues: []float64{at.X, at.X},
			YValues: []float64{win.y.Min, win.y.Max},
			Style:   style,
		},
		gochart.ContinuousSeries{
			XValues: []float64{win.x.Min, win.x.Max},
			YValues: []float64{at.Y, at.Y},
			Style:   style,
		},
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
