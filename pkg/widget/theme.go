package widget

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeChrome is the page-level theming context derived from a go-theme
// renderer configuration: token classes applied to widget chrome plus a
// :root CSS variable block.
type ThemeChrome struct {
	Name         string
	Variant      string
	Tokens       map[string]string
	CSSVars      map[string]string
	CSSVarsStyle string
}

// BuildThemeChrome flattens a go-theme RendererConfig into the pieces the
// toolkit consumes. A nil config yields a zero chrome.
func BuildThemeChrome(cfg *theme.RendererConfig) ThemeChrome {
	if cfg == nil {
		return ThemeChrome{}
	}
	chrome := ThemeChrome{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	chrome.CSSVarsStyle = cssVarsStyle(chrome.CSSVars)
	return chrome
}

// Apply adds the token class registered under key (if any) to the widget.
func (c ThemeChrome) Apply(w Widget, key string) {
	if w == nil || len(c.Tokens) == 0 {
		return
	}
	if class := strings.TrimSpace(c.Tokens[key]); class != "" {
		w.AddStyleClass(class)
	}
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
