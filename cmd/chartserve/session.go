package main

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-wtk/pkg/chart"
)

// clientEvent is one gesture event from the browser.
type clientEvent struct {
	Type   string        `json:"type"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Delta  float64       `json:"delta,omitempty"`
	Mods   int           `json:"mods,omitempty"`
	Points []chart.Point `json:"points,omitempty"`
}

// serverMessage notifies the browser that transforms changed, carrying the
// affected axes and their current matrices.
type serverMessage struct {
	Type string            `json:"type"`
	Axes []axisUpdate      `json:"axes,omitempty"`
	X    []chart.Transform `json:"x,omitempty"`
	Y    []chart.Transform `json:"y,omitempty"`
}

type axisUpdate struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

type session struct {
	conn *websocket.Conn
	srv  *server
	out  chan serverMessage
	done chan struct{}
}

func newSession(conn *websocket.Conn, srv *server) *session {
	return &session{
		conn: conn,
		srv:  srv,
		out:  make(chan serverMessage, 8),
		done: make(chan struct{}),
	}
}

func (s *session) notifyChanged(axes []chart.AxisID) {
	msg := serverMessage{Type: "transforms"}
	for _, id := range axes {
		kind := "x"
		if id.Kind == chart.YAxisKind {
			kind = "y"
		}
		msg.Axes = append(msg.Axes, axisUpdate{Kind: kind, Index: id.Index})
	}

	s.srv.engineMu.Lock()
	e := s.srv.engine
	for i := range e.Config().XAxes {
		msg.X = append(msg.X, e.XTransform(i))
	}
	for i := range e.Config().YAxes {
		msg.Y = append(msg.Y, e.YTransform(i))
	}
	s.srv.engineMu.Unlock()

	select {
	case s.out <- msg:
	case <-s.done:
	default:
		// Slow client; drop the update, the next flush supersedes it.
	}
}

func (s *session) run() {
	defer s.conn.Close()
	defer close(s.done)

	go s.writeLoop()
	s.readLoop()
}

func (s *session) writeLoop() {
	for {
		select {
		case msg := <-s.out:
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *session) readLoop() {
	for {
		var ev clientEvent
		if err := s.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("session read: %v", err)
			}
			return
		}
		s.apply(ev)
	}
}

func (s *session) apply(ev clientEvent) {
	now := time.Now()
	p := chart.Point{X: ev.X, Y: ev.Y}

	s.srv.engineMu.Lock()
	e := s.srv.engine
	switch ev.Type {
	case "wheel":
		e.Wheel(p, ev.Delta, modifiers(ev.Mods))
	case "pointerdown":
		e.PointerDown(p, now)
	case "pointermove":
		e.PointerMove(p, now)
	case "pointerup":
		e.PointerUp(p, now)
		if e.Animating() {
			go s.animate()
		}
	case "touchstart":
		e.TouchStart(ev.Points, now)
	case "touchmove":
		e.TouchMove(ev.Points, now)
	case "touchend":
		e.TouchEnd(ev.Points, now)
		if e.Animating() {
			go s.animate()
		}
	}
	s.srv.engineMu.Unlock()
}

// animate drives the inertial settle server-side until it finishes or the
// session ends.
func (s *session) animate() {
	ticker := time.NewTicker(17 * time.Millisecond)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.srv.engineMu.Lock()
			running := s.srv.engine.Animate(now.Sub(last))
			s.srv.engineMu.Unlock()
			last = now
			if !running {
				return
			}
		}
	}
}

// modifiers maps the wire bitmask onto engine modifiers. The page script
// packs shift, ctrl and alt into bits 0..2.
func modifiers(mask int) chart.Modifiers {
	var mods chart.Modifiers
	if mask&1 != 0 {
		mods |= chart.ModShift
	}
	if mask&2 != 0 {
		mods |= chart.ModCtrl
	}
	if mask&4 != 0 {
		mods |= chart.ModAlt
	}
	return mods
}
