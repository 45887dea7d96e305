// Package wtk is a server-side widget toolkit: a placeholder template
// renderer and an interactive chart transform engine, with server-side
// snapshot rendering. The root package re-exports the common entry points;
// the packages under pkg/ carry the full APIs.
package wtk

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-wtk/pkg/chart"
	"github.com/goliatone/go-wtk/pkg/widget"
	"github.com/goliatone/go-wtk/pkg/wtemplate"
)

// Template resolves ${...} placeholder text against bound strings, widgets,
// functions and conditions.
type Template = wtemplate.Template

// TemplateOption configures a Template at construction.
type TemplateOption = wtemplate.Option

// Widget is the contract template placeholders bind to.
type Widget = widget.Widget

// TextFormat controls escaping and sanitization of bound string values.
type TextFormat = widget.TextFormat

// Text format values, re-exported for call sites that only import the root
// package.
const (
	FormatPlain       = widget.FormatPlain
	FormatXHTML       = widget.FormatXHTML
	FormatUnsafeXHTML = widget.FormatUnsafeXHTML
)

// Engine holds the pan/zoom/crosshair state of one interactive chart.
type Engine = chart.Engine

// ChartConfiguration is the server-supplied chart snapshot an Engine
// operates on.
type ChartConfiguration = chart.Configuration

// NewTemplate creates an empty template with the builtin tr, block, while
// and id functions registered.
func NewTemplate(options ...wtemplate.Option) *wtemplate.Template {
	return wtemplate.New(options...)
}

// WithTemplateText sets the initial template text.
func WithTemplateText(text string) wtemplate.Option {
	return wtemplate.WithText(text)
}

// WithWidgetRegistry installs a registry consulted for placeholders with no
// explicit widget binding.
func WithWidgetRegistry(reg *widget.Registry) wtemplate.Option {
	return wtemplate.WithRegistry(reg)
}

// NewWidgetRegistry creates an empty lazy widget registry.
func NewWidgetRegistry() *widget.Registry {
	return widget.NewRegistry()
}

// NewChartEngine validates the configuration and builds an engine with
// identity transforms on every axis.
func NewChartEngine(cfg chart.Configuration, options ...chart.Option) (*chart.Engine, error) {
	return chart.NewEngine(cfg, options...)
}

// LoadChartConfigurationFile reads a chart configuration YAML document from
// disk.
func LoadChartConfigurationFile(path string) (chart.Configuration, error) {
	return chart.LoadConfigurationFile(path)
}

// BuildThemeChrome flattens a go-theme renderer configuration into the
// token classes and CSS variable block widgets consume.
func BuildThemeChrome(cfg *theme.RendererConfig) widget.ThemeChrome {
	return widget.BuildThemeChrome(cfg)
}
