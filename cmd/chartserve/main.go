// Command chartserve serves an interactive chart demo. The page is rendered
// with the toolkit's template engine; pan/zoom gestures stream over a
// websocket to a per-connection chart engine, and debounced transform
// updates flow back to the client.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-wtk/pkg/chart"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	config := flag.String("config", "", "chart configuration YAML (built-in demo config if empty)")
	title := flag.String("title", "Chart demo", "page title")
	flag.Parse()

	cfg, err := loadConfig(*config)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := newServer(cfg, *title, demoTheme())
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handlePage)
	mux.HandleFunc("/chart.png", srv.handleSnapshot)
	mux.HandleFunc("/ws", srv.handleSocket)

	fmt.Printf("Serving chart demo on %s\n", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func loadConfig(path string) (chart.Configuration, error) {
	if path == "" {
		return demoConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return chart.Configuration{}, err
	}
	return chart.LoadConfigurationFile(path)
}

// demoTheme is the built-in page theme: CSS variables for the page chrome
// plus the body token class.
func demoTheme() *theme.RendererConfig {
	return &theme.RendererConfig{
		Theme:   "wtk",
		Variant: "light",
		Tokens: map[string]string{
			"page": "wtk-page",
		},
		CSSVars: map[string]string{
			"--surface": "#fdfdfb",
			"--ink":     "#1c1c28",
			"--accent":  "#1e5ac8",
			"--grid":    "#787878",
		},
	}
}

func demoConfig() chart.Configuration {
	return chart.Configuration{
		Area:       chart.Rect{X: 0, Y: 0, Width: 800, Height: 600},
		InsideArea: chart.Rect{X: 48, Y: 24, Width: 704, Height: 528},
		XAxes: []chart.Axis{{
			Model:   chart.Range{Min: 0, Max: 100},
			MinZoom: 1,
			MaxZoom: 64,
			Pens: []chart.PenLevel{
				{Level: 1, Alpha: 64, Grid: chart.Color{R: 120, G: 120, B: 120, A: 64}},
				{Level: 3, Alpha: 96, Grid: chart.Color{R: 120, G: 120, B: 120, A: 96}},
				{Level: 5, Alpha: 128, Grid: chart.Color{R: 120, G: 120, B: 120, A: 128}},
			},
		}},
		YAxes: []chart.Axis{{
			Model:   chart.Range{Min: -1.2, Max: 1.2},
			MinZoom: 1,
			MaxZoom: 32,
		}},
		Pan:        true,
		Zoom:       true,
		Crosshair:  true,
		Rubberband: true,
	}
}
