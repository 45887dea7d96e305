package chart

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// toZoomLevel maps an axis scale to a discrete gridline resolution level.
// Level 1 corresponds to the unzoomed view; each doubling of the scale
// advances one level.
func toZoomLevel(scale float64) int {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1
	}
	return int(math.Floor(math.Log2(scale)+0.5)) + 1
}

// RefreshPenColors recomputes the pen ladders: for each axis, the rung
// whose level matches the current zoom level gets its configured alpha
// restored, every other rung turns transparent. Rendering the ladder then
// fades gridlines in and out across zoom levels.
func (e *Engine) RefreshPenColors() {
	for i := range e.xPens {
		applyActiveLevel(e.xPens[i], toZoomLevel(e.xTransforms[i].scaleX()))
	}
	for j := range e.yPens {
		applyActiveLevel(e.yPens[j], toZoomLevel(e.yTransforms[j].scaleY()))
	}
}

func applyActiveLevel(pens []PenLevel, active int) {
	for k := range pens {
		alpha := uint8(0)
		if pens[k].Level == active {
			alpha = pens[k].Alpha
		}
		pens[k].Pen.A = alpha
		pens[k].Text.A = alpha
		pens[k].Grid.A = alpha
	}
}

// XAxisPens returns the current pen ladder of X axis i, alphas reflecting
// the active zoom level.
func (e *Engine) XAxisPens(i int) []PenLevel { return e.xPens[i] }

// YAxisPens returns the current pen ladder of Y axis i.
func (e *Engine) YAxisPens(i int) []PenLevel { return e.yPens[i] }

// ActiveXPen returns the active rung of X axis i, if the ladder has one.
func (e *Engine) ActiveXPen(i int) (PenLevel, bool) {
	return activePen(e.xPens[i], toZoomLevel(e.xTransforms[i].scaleX()))
}

// ActiveYPen returns the active rung of Y axis i, if the ladder has one.
func (e *Engine) ActiveYPen(i int) (PenLevel, bool) {
	return activePen(e.yPens[i], toZoomLevel(e.yTransforms[i].scaleY()))
}

func activePen(pens []PenLevel, level int) (PenLevel, bool) {
	for _, p := range pens {
		if p.Level == level {
			return p, true
		}
	}
	return PenLevel{}, false
}

// DrawingColor converts a pen color to the go-chart drawing color used by
// the server-side renderer.
func (c Color) DrawingColor() drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
