package chart

import "time"

// Animation physics constants. Velocities are axis-space pixels per
// millisecond; the stepper always advances in fixed animationInterval
// increments so the physics stay stable regardless of frame rate.
const (
	animationInterval = 17 * time.Millisecond

	// frictionFactor is the per-millisecond velocity decay.
	frictionFactor = 0.003
	// springConstant scales the pull-back acceleration per pixel of
	// overshoot.
	springConstant = 0.0002
	// crossingResistance multiplies the velocity when a bound is crossed,
	// near-resetting it so the view does not shoot far past the edge.
	crossingResistance = 0.07
	// boundsSlack is the pixel tolerance inside which the settle stops.
	boundsSlack = 3.0
	// minAnimationSpeed is the speed below which a released drag does not
	// animate and a running animation may stop.
	minAnimationSpeed = 0.001
)

type animationState struct {
	running  bool
	velocity Point
	match    AxisMatch
}

// Animating reports whether the inertial settle animation is running.
func (e *Engine) Animating() bool { return e.anim.running }

func (e *Engine) startAnimation(velocity Point, match AxisMatch) {
	if !finite(velocity.X) {
		velocity.X = 0
	}
	if !finite(velocity.Y) {
		velocity.Y = 0
	}
	e.anim = animationState{running: true, velocity: velocity, match: match}
	e.gesture.mode = ModeAnimating
}

func (e *Engine) cancelAnimation() {
	if !e.anim.running {
		return
	}
	e.anim = animationState{}
	e.EnforceLimits(LimitXY)
	if e.gesture.mode == ModeAnimating {
		e.gesture.mode = ModeIdle
	}
}

// Animate advances the settle animation by the elapsed wall time. Large
// deltas, e.g. from a throttled frame, are subdivided into fixed-size steps.
// It returns whether the animation is still running and wants another
// frame.
func (e *Engine) Animate(elapsed time.Duration) bool {
	if !e.anim.running {
		return false
	}
	steps := int(elapsed / animationInterval)
	if steps < 1 {
		steps = 1
	}
	dt := float64(animationInterval.Milliseconds())
	for s := 0; s < steps; s++ {
		if e.animationStep(dt) {
			return false
		}
	}
	return e.anim.running
}

// animationStep advances one fixed timestep. It returns true when the
// animation finished during this step.
func (e *Engine) animationStep(dt float64) bool {
	a := &e.anim
	rect := e.axisRect()

	// Representative axes carry the spring state; all matched axes receive
	// the same translation so they stay in lockstep.
	xs := e.matchedX(a.match)
	ys := e.matchedY(a.match)

	a.velocity.X *= 1 - frictionFactor*dt
	a.velocity.Y *= 1 - frictionFactor*dt

	if len(xs) > 0 {
		a.velocity.X = e.springAxis(&e.xTransforms[xs[0]], 0, rect.Left(), rect.Right(), a.velocity.X, dt)
	}
	if len(ys) > 0 {
		a.velocity.Y = e.springAxis(&e.yTransforms[ys[0]], 3, rect.Top(), rect.Bottom(), a.velocity.Y, dt)
	}

	delta := Point{X: a.velocity.X * dt, Y: a.velocity.Y * dt}
	display := delta
	if e.cfg.Orientation == Horizontal {
		display = Point{X: delta.Y, Y: delta.X}
	}
	e.Translate(display, a.match, PanUnrestricted)

	if speed(a.velocity) < minAnimationSpeed && e.withinBoundsSlack(xs, ys, rect) {
		a.running = false
		e.EnforceLimits(limitFlagsFor(a.match))
		e.gesture.mode = ModeIdle
		e.gesture.pinch = nil
		return true
	}
	return false
}

// springAxis applies the out-of-bounds spring to one velocity component and
// returns the updated velocity. Crossing a bound this step near-resets the
// velocity and multiplies in the crossing resistance.
func (e *Engine) springAxis(t *Transform, comp int, lo, hi float64, v, dt float64) float64 {
	offset := 4
	if comp == 3 {
		offset = 5
	}
	boundLo, boundHi := translationBounds(t[comp], lo, hi)

	wasInside := t[offset] >= boundLo && t[offset] <= boundHi
	next := t[offset] + v*dt
	nowInside := next >= boundLo && next <= boundHi

	if wasInside && !nowInside {
		v *= crossingResistance
		return v
	}

	var over float64
	switch {
	case t[offset] < boundLo:
		over = boundLo - t[offset]
		v += springConstant * over * dt
	case t[offset] > boundHi:
		over = t[offset] - boundHi
		v -= springConstant * over * dt
	}
	if !finite(v) {
		v = 0
	}
	return v
}

func (e *Engine) withinBoundsSlack(xs, ys []int, rect Rect) bool {
	for _, i := range xs {
		t := e.xTransforms[i]
		lo, hi := translationBounds(t[0], rect.Left(), rect.Right())
		if t[4] < lo-boundsSlack || t[4] > hi+boundsSlack {
			return false
		}
	}
	for _, j := range ys {
		t := e.yTransforms[j]
		lo, hi := translationBounds(t[3], rect.Top(), rect.Bottom())
		if t[5] < lo-boundsSlack || t[5] > hi+boundsSlack {
			return false
		}
	}
	return true
}
