package chart_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-wtk/pkg/chart"
)

// flick drags the view with enough residual velocity for the release to
// hand off to the inertial animation.
func flick(t *testing.T, e *chart.Engine) {
	t.Helper()
	now := time.Now()
	e.PointerDown(chart.Point{X: 400, Y: 300}, now)
	for i := 1; i <= 5; i++ {
		at := now.Add(time.Duration(i) * 16 * time.Millisecond)
		e.PointerMove(chart.Point{X: 400 + float64(i)*12, Y: 300}, at)
	}
	e.PointerUp(chart.Point{X: 460, Y: 300}, now.Add(90*time.Millisecond))
}

func TestFlickStartsAnimation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	e.Zoom(chart.Point{X: 400, Y: 290}, 4, 0, chart.MatchAll)

	flick(t, e)
	if !e.Animating() {
		t.Fatal("fast release did not start the settle animation")
	}
	if e.Mode() != chart.ModeAnimating {
		t.Fatalf("mode = %v, want animating", e.Mode())
	}
}

func TestAnimationSettlesWithinBounds(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	e.Zoom(chart.Point{X: 400, Y: 290}, 4, 0, chart.MatchAll)
	flick(t, e)
	if !e.Animating() {
		t.Fatal("animation not running")
	}

	// Friction alone kills the velocity well inside ten simulated seconds.
	for i := 0; i < 600 && e.Animate(17*time.Millisecond); i++ {
	}
	if e.Animating() {
		t.Fatal("animation never settled")
	}
	if e.Mode() != chart.ModeIdle {
		t.Fatalf("mode after settle = %v, want idle", e.Mode())
	}

	// The settled view is legal: enforcing limits changes nothing.
	x, y := e.XTransform(0), e.YTransform(0)
	e.EnforceLimits(chart.LimitXY)
	if e.XTransform(0) != x || e.YTransform(0) != y {
		t.Fatal("animation settled out of bounds")
	}
}

func TestSlowReleaseSkipsAnimation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	e.Zoom(chart.Point{X: 400, Y: 290}, 4, 0, chart.MatchAll)

	now := time.Now()
	e.PointerDown(chart.Point{X: 400, Y: 300}, now)
	e.PointerMove(chart.Point{X: 410, Y: 300}, now.Add(30*time.Second))
	e.PointerUp(chart.Point{X: 410, Y: 300}, now.Add(31*time.Second))

	if e.Animating() {
		t.Fatal("slow release started an animation")
	}
	if e.Mode() != chart.ModeIdle {
		t.Fatalf("mode = %v, want idle", e.Mode())
	}
}

func TestPointerDownCancelsAnimation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	e.Zoom(chart.Point{X: 400, Y: 290}, 4, 0, chart.MatchAll)
	flick(t, e)
	if !e.Animating() {
		t.Fatal("animation not running")
	}

	e.PointerDown(chart.Point{X: 300, Y: 300}, time.Now())
	if e.Animating() {
		t.Fatal("touch did not cancel the animation")
	}

	// Cancelling snapped the view back inside bounds.
	x, y := e.XTransform(0), e.YTransform(0)
	e.EnforceLimits(chart.LimitXY)
	if e.XTransform(0) != x || e.YTransform(0) != y {
		t.Fatal("cancelled animation left the view out of bounds")
	}
}

func TestAnimateWhenIdleReturnsFalse(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testConfig())
	if e.Animate(17 * time.Millisecond) {
		t.Fatal("Animate reported progress with no animation running")
	}
}
