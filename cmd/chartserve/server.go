package main

import (
	"fmt"
	"math"
	"net/http"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-wtk/pkg/chart"
	"github.com/goliatone/go-wtk/pkg/chart/render"
	"github.com/goliatone/go-wtk/pkg/widget"
	"github.com/goliatone/go-wtk/pkg/wtemplate"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<title>${title}</title>
<style>
${theme-style}
body.wtk-page { background: var(--surface); color: var(--ink); font-family: sans-serif; }
</style>
</head>
<body class="${body-class}">
<h1>${title}</h1>
${<has-snapshot>}
<img id="chart" src="/chart.png" width="${width}" height="${height}" alt="${title}">
${</has-snapshot>}
${hint}
<script>
(function () {
  var ws = new WebSocket("ws://" + location.host + "/ws");
  var img = document.getElementById("chart");
  ws.onmessage = function () { img.src = "/chart.png?t=" + Date.now(); };
  img.addEventListener("wheel", function (ev) {
    ev.preventDefault();
    ws.send(JSON.stringify({type: "wheel", x: ev.offsetX, y: ev.offsetY,
      delta: -ev.deltaY / 53, mods: (ev.shiftKey ? 1 : 0) | (ev.ctrlKey ? 2 : 0) | (ev.altKey ? 4 : 0)}));
  });
})();
</script>
</body>
</html>`

type server struct {
	cfg      chart.Configuration
	title    string
	chrome   widget.ThemeChrome
	upgrader websocket.Upgrader
	data     []render.Series

	// engineMu guards the shared engine; the engine itself is not safe for
	// concurrent use.
	engineMu sync.Mutex
	engine   *chart.Engine
	renderer *render.Renderer

	sessMu   sync.Mutex
	sessions map[*session]struct{}
}

func newServer(cfg chart.Configuration, title string, themeCfg *theme.RendererConfig) (*server, error) {
	s := &server{
		cfg:    cfg,
		title:  title,
		chrome: widget.BuildThemeChrome(themeCfg),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		data:     demoSeries(cfg),
		sessions: make(map[*session]struct{}),
	}

	notifier := chart.NewNotifier(chart.DefaultDebounce)
	notifier.TransformChanged = s.broadcastChanged

	engine, err := chart.NewEngine(cfg, chart.WithNotifier(notifier))
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.renderer = render.New(engine, render.WithTitle(title), render.WithAxisNames("t", "value"))
	return s, nil
}

func (s *server) addSession(sess *session) {
	s.sessMu.Lock()
	s.sessions[sess] = struct{}{}
	s.sessMu.Unlock()
}

func (s *server) removeSession(sess *session) {
	s.sessMu.Lock()
	delete(s.sessions, sess)
	s.sessMu.Unlock()
}

// broadcastChanged fans a debounced transform-change flush out to every
// connected session.
func (s *server) broadcastChanged(axes []chart.AxisID) {
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	for sess := range s.sessions {
		sess.notifyChanged(axes)
	}
}

// demoSeries samples a damped sine across the model X range.
func demoSeries(cfg chart.Configuration) []render.Series {
	span := cfg.XAxes[0].Model
	const samples = 400
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := range xs {
		x := span.Min + span.Span()*float64(i)/float64(samples-1)
		xs[i] = x
		ys[i] = math.Sin(x/4) * math.Exp(-x/120)
	}
	return []render.Series{{
		Name:    "signal",
		XValues: xs,
		YValues: ys,
		Color:   chart.Color{R: 30, G: 90, B: 200, A: 255},
	}}
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	// The page shell is trusted server markup and carries a script block,
	// so it skips the XHTML check.
	tpl := wtemplate.New()
	tpl.SetTemplateText(pageTemplate, widget.FormatUnsafeXHTML)
	tpl.BindString("title", s.title, widget.FormatPlain)
	tpl.BindString("theme-style", s.chrome.CSSVarsStyle, widget.FormatUnsafeXHTML)
	tpl.BindString("body-class", s.chrome.Tokens["page"], widget.FormatPlain)
	tpl.BindString("hint",
		"<p>Scroll to zoom. Shift scrolls pan, Ctrl zooms X only, Alt zooms Y only.</p>",
		widget.FormatXHTML)
	tpl.BindInt("width", int(s.cfg.Area.Width))
	tpl.BindInt("height", int(s.cfg.Area.Height))
	tpl.SetCondition("has-snapshot", true)

	markup, errText, ok := tpl.RenderTemplateText(tpl.TemplateText())
	if !ok {
		http.Error(w, errText, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, markup)
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	if err := s.renderer.Snapshot(s.data, render.PNG, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	sess := newSession(conn, s)
	s.addSession(sess)
	defer s.removeSession(sess)
	sess.run()
}
