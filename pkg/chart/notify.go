package chart

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after which coalesced notifications
// flush to the server layer.
const DefaultDebounce = 100 * time.Millisecond

// Notifier delivers engine events to the server layer. Transform changes
// are debounced: mutations during a gesture coalesce and flush only after a
// quiet period, bounding the event rate independent of gesture frequency.
// Series selection and tooltip requests are delivered immediately.
type Notifier struct {
	// TransformChanged receives the set of axes whose transforms changed
	// since the previous flush.
	TransformChanged func(axes []AxisID)
	// SeriesSelected receives curve-selection events with the pixel
	// position of the selection.
	SeriesSelected func(series int, at Point)
	// TooltipRequested receives tooltip-load requests with the pixel
	// position to load for.
	TooltipRequested func(at Point)

	debounce time.Duration

	mu      sync.Mutex
	pending map[AxisID]struct{}
	timer   *time.Timer
}

// NewNotifier creates a notifier flushing after the given quiet period.
// A non-positive debounce uses DefaultDebounce.
func NewNotifier(debounce time.Duration) *Notifier {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Notifier{
		debounce: debounce,
		pending:  make(map[AxisID]struct{}),
	}
}

func (n *Notifier) noteTransformChanged(id AxisID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pending[id] = struct{}{}
	if n.timer == nil {
		n.timer = time.AfterFunc(n.debounce, n.flush)
		return
	}
	// Restart the quiet period; only one timer is ever outstanding.
	n.timer.Reset(n.debounce)
}

func (n *Notifier) flush() {
	n.mu.Lock()
	pending := n.pending
	n.pending = make(map[AxisID]struct{})
	n.timer = nil
	n.mu.Unlock()

	if len(pending) == 0 || n.TransformChanged == nil {
		return
	}
	axes := make([]AxisID, 0, len(pending))
	for id := range pending {
		axes = append(axes, id)
	}
	n.TransformChanged(axes)
}

// Flush delivers any pending transform changes immediately, cancelling the
// debounce timer. Useful on teardown.
func (n *Notifier) Flush() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.mu.Unlock()
	n.flush()
}

func (n *Notifier) noteSeriesSelected(series int, at Point) {
	if n.SeriesSelected != nil {
		n.SeriesSelected(series, at)
	}
}

func (n *Notifier) noteTooltip(at Point) {
	if n.TooltipRequested != nil {
		n.TooltipRequested(at)
	}
}
