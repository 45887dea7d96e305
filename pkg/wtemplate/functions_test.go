package wtemplate_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-wtk/pkg/widget"
	"github.com/goliatone/go-wtk/pkg/wtemplate"
)

func mapTranslator(messages map[string]string) wtemplate.TranslatorFunc {
	return func(key string) (string, bool) {
		msg, ok := messages[key]
		return msg, ok
	}
}

func TestTrSubstitutesParameters(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New(wtemplate.WithTranslator(mapTranslator(map[string]string{
		"welcome": "Welcome {1}, you have {2} messages",
	})))

	markup, errText, ok := tpl.RenderTemplateText("${tr:welcome Ada 3}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "Welcome Ada, you have 3 messages" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestTrMissingKeyFails(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New(wtemplate.WithTranslator(mapTranslator(nil)))
	_, errText, ok := tpl.RenderTemplateText("${tr:nope}")
	if ok {
		t.Fatal("expected a diagnostic for missing message key")
	}
	if !strings.Contains(errText, "tr") {
		t.Fatalf("errText = %q", errText)
	}
}

func TestBlockExpandsNestedTemplateText(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New(wtemplate.WithTranslator(mapTranslator(map[string]string{
		"row": "<li>${item} ({1})</li>",
	})))
	tpl.BindString("item", "milk", widget.FormatPlain)

	markup, errText, ok := tpl.RenderTemplateText("<ul>${block:row dairy}</ul>")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "<ul><li>milk (dairy)</li></ul>" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestWhileDrivenByConditionResolver(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New(wtemplate.WithTranslator(mapTranslator(map[string]string{
		"item": "<li>${name}</li>",
	})))

	items := []string{"a", "b", "c"}
	i := 0
	tpl.ConditionResolver = func(name string) bool {
		return name == "more-items" && i < len(items)
	}
	tpl.StringResolver = func(varName string, args []string) (string, bool) {
		if varName != "name" {
			return "", false
		}
		value := items[i]
		i++
		return value, true
	}

	markup, errText, ok := tpl.RenderTemplateText("<ul>${while:more-items item}</ul>")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "<ul><li>a</li><li>b</li><li>c</li></ul>" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestWhileIterationCap(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New(wtemplate.WithTranslator(mapTranslator(map[string]string{
		"item": "x",
	})))
	tpl.ConditionResolver = func(string) bool { return true }

	_, errText, ok := tpl.RenderTemplateText("${while:forever item}")
	if ok {
		t.Fatal("expected the iteration cap to trip")
	}
	if !strings.Contains(errText, "iterations") {
		t.Fatalf("errText = %q", errText)
	}
}

func TestIDWritesWidgetID(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	label := widget.NewText("Name")
	field := widget.NewText("")
	field.SetID("field-name")
	if err := tpl.BindWidget("label", label); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}
	if err := tpl.BindWidget("field", field); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}

	markup, errText, ok := tpl.RenderTemplateText(`<label for="${id:field}">${label}</label>${field}`)
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if !strings.Contains(markup, `for="field-name"`) {
		t.Fatalf("id builtin did not resolve: %q", markup)
	}
}

func TestWidgetIDModes(t *testing.T) {
	t.Parallel()

	t.Run("object name", func(t *testing.T) {
		t.Parallel()
		tpl := wtemplate.New()
		tpl.SetWidgetIDMode(wtemplate.IDModeObjectName)
		if err := tpl.BindWidget("price", widget.NewText("10")); err != nil {
			t.Fatalf("BindWidget: %v", err)
		}
		markup, _, _ := tpl.RenderTemplateText("${price}")
		if !strings.Contains(markup, `data-object-name="price"`) {
			t.Fatalf("object name mode not applied: %q", markup)
		}
	})

	t.Run("set id", func(t *testing.T) {
		t.Parallel()
		tpl := wtemplate.New()
		tpl.SetWidgetIDMode(wtemplate.IDModeSetID)
		if err := tpl.BindWidget("price", widget.NewText("10")); err != nil {
			t.Fatalf("BindWidget: %v", err)
		}
		markup, _, _ := tpl.RenderTemplateText("${price}")
		if !strings.Contains(markup, ` id="price"`) {
			t.Fatalf("set id mode not applied: %q", markup)
		}
	})
}

func TestInternalPathEncoding(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.SetInternalPathEncoding(true)
	if err := tpl.BindWidget("nav", widget.NewAnchor("/orders", "Orders")); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}

	markup, errText, ok := tpl.RenderTemplateText("${nav}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if !strings.Contains(markup, `href="#/orders"`) {
		t.Fatalf("internal path prefix missing: %q", markup)
	}
}

func TestTemplateTextDiagnostic(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.SetTemplateText(`<script>x()</script>${x}`, widget.FormatXHTML)
	tpl.BindString("x", "v", widget.FormatPlain)

	_, errText, ok := tpl.RenderTemplateText(tpl.TemplateText())
	if ok {
		t.Fatal("expected active content diagnostic")
	}
	if !strings.Contains(errText, "active content") {
		t.Fatalf("errText = %q", errText)
	}
}
