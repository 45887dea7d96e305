package wtemplate_test

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wtk/pkg/widget"
	"github.com/goliatone/go-wtk/pkg/wtemplate"
)

func TestRenderBoundString(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.BindString("x", "x", widget.FormatPlain)

	markup, errText, ok := tpl.RenderTemplateText("${x}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "x" {
		t.Fatalf("markup = %q, want %q", markup, "x")
	}
}

func TestUnresolvedVariableMarker(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	markup, _, _ := tpl.RenderTemplateText("before ${missing} after")
	if markup != "before ??missing?? after" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestDollarEscape(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	markup, errText, ok := tpl.RenderTemplateText("cost: $${amount}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "cost: ${amount}" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestPlainFormatEscapesMarkup(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.BindString("v", `<b onclick="x()">hi</b>`, widget.FormatPlain)
	markup, _, _ := tpl.RenderTemplateText("${v}")
	if strings.Contains(markup, "<b") {
		t.Fatalf("plain format leaked markup: %q", markup)
	}
}

func TestXHTMLFormatStripsActiveContent(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.BindString("v", `<em>ok</em><script>alert(1)</script>`, widget.FormatXHTML)
	markup, _, _ := tpl.RenderTemplateText("${v}")
	if !strings.Contains(markup, "<em>ok</em>") {
		t.Fatalf("xhtml format dropped safe markup: %q", markup)
	}
	if strings.Contains(markup, "script") {
		t.Fatalf("xhtml format kept active content: %q", markup)
	}
}

func TestUnsafeXHTMLPassesThrough(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.BindString("v", `<script>x</script>`, widget.FormatUnsafeXHTML)
	markup, _, _ := tpl.RenderTemplateText("${v}")
	if markup != `<script>x</script>` {
		t.Fatalf("unsafe format altered value: %q", markup)
	}
}

func TestConditionBlocks(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.SetCondition("show", true)

	markup, errText, ok := tpl.RenderTemplateText("a${<show>}b${</show>}c")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "abc" {
		t.Fatalf("markup = %q", markup)
	}

	tpl.SetCondition("show", false)
	markup, _, _ = tpl.RenderTemplateText("a${<show>}b${</show>}c")
	if markup != "ac" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestFalseOuterConditionSkipsInnerEvaluation(t *testing.T) {
	t.Parallel()

	calls := 0
	tpl := wtemplate.New()
	tpl.AddFunction("spy", func(_ *wtemplate.Template, _ []string, _ io.Writer) bool {
		calls++
		return true
	})
	tpl.SetCondition("inner", true)
	// outer stays false

	text := "${<outer>}${<inner>}${spy:x}${</inner>}${</outer>}done"
	markup, errText, ok := tpl.RenderTemplateText(text)
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "done" {
		t.Fatalf("markup = %q", markup)
	}
	if calls != 0 {
		t.Fatalf("side-effecting function ran %d times inside skipped block", calls)
	}
}

func TestConditionNestingBalancesByName(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.SetCondition("a", false)
	tpl.SetCondition("b", true)

	// The inner ${<a>} inside the skipped region must pair with its own
	// close, not steal the outer one.
	markup, errText, ok := tpl.RenderTemplateText("x${<a>}skip${<a>}deep${</a>}skip${</a>}y")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "xy" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestUnbalancedConditionReportsError(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.SetCondition("open", true)
	_, errText, ok := tpl.RenderTemplateText("${<open>}never closed")
	if ok || errText == "" {
		t.Fatalf("expected diagnostic for unbalanced condition, got ok=%v err=%q", ok, errText)
	}

	_, errText, ok = tpl.RenderTemplateText("stray ${</open>} close")
	if ok || errText == "" {
		t.Fatalf("expected diagnostic for stray close, got ok=%v err=%q", ok, errText)
	}
}

func TestUnterminatedPlaceholderBestEffort(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	markup, errText, ok := tpl.RenderTemplateText("ok ${broken")
	if ok {
		t.Fatal("expected failure diagnostic")
	}
	if errText == "" {
		t.Fatal("expected error text")
	}
	if markup != "ok ${broken" {
		t.Fatalf("best-effort markup = %q", markup)
	}
}

func TestWidgetRendering(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	if err := tpl.BindWidget("name", widget.NewText("Ada")); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}

	markup, errText, ok := tpl.RenderTemplateText("hello ${name}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if !strings.Contains(markup, ">Ada</span>") {
		t.Fatalf("markup = %q", markup)
	}
}

func TestWidgetArgumentsApplyStyleClasses(t *testing.T) {
	t.Parallel()

	w := widget.NewText("v")
	tpl := wtemplate.New()
	if err := tpl.BindWidget("field", w); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}

	_, errText, ok := tpl.RenderTemplateText(`${field class="wide primary"}`)
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	want := []string{"wide", "primary"}
	if diff := cmp.Diff(want, w.StyleClasses()); diff != "" {
		t.Fatalf("style classes mismatch (-want +got):\n%s", diff)
	}
}

func TestWidgetAtMostOncePerPass(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	if err := tpl.BindWidget("w", widget.NewText("once")); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}

	markup, errText, ok := tpl.RenderTemplateText("${w}${w}")
	if ok {
		t.Fatal("expected diagnostic for duplicate widget reference")
	}
	if errText == "" {
		t.Fatal("expected error text")
	}
	if strings.Count(markup, "once") != 1 {
		t.Fatalf("widget rendered more than once: %q", markup)
	}
	if !strings.Contains(markup, "??w??") {
		t.Fatalf("second occurrence should degrade to marker: %q", markup)
	}
}

func TestBindWidgetTwiceDifferentNamesRejected(t *testing.T) {
	t.Parallel()

	w := widget.NewText("v")
	tpl := wtemplate.New()
	if err := tpl.BindWidget("a", w); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}
	if err := tpl.BindWidget("b", w); err == nil {
		t.Fatal("expected binding conflict")
	}
}

type destroyableText struct {
	*widget.Text
	destroyed int
}

func (d *destroyableText) Destroy() { d.destroyed++ }

func TestRebindDestroysPreviousWidget(t *testing.T) {
	t.Parallel()

	old := &destroyableText{Text: widget.NewText("old")}
	tpl := wtemplate.New()
	if err := tpl.BindWidget("v", old); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}
	if err := tpl.BindWidget("v", widget.NewText("new")); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if old.destroyed != 1 {
		t.Fatalf("previous widget destroyed %d times, want 1", old.destroyed)
	}

	markup, errText, ok := tpl.RenderTemplateText("${v}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if strings.Contains(markup, "old") {
		t.Fatalf("destroyed widget still renders: %q", markup)
	}
}

func TestRemoveWidgetDoesNotDestroy(t *testing.T) {
	t.Parallel()

	w := &destroyableText{Text: widget.NewText("keep")}
	tpl := wtemplate.New()
	if err := tpl.BindWidget("v", w); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}
	got := tpl.RemoveWidget("v")
	if got != widget.Widget(w) {
		t.Fatal("RemoveWidget returned wrong widget")
	}
	if w.destroyed != 0 {
		t.Fatal("RemoveWidget must not destroy")
	}
	if tpl.RemoveWidget("v") != nil {
		t.Fatal("second remove should return nil")
	}
}

func TestWidgetDetachTracking(t *testing.T) {
	t.Parallel()

	var detached, attached []string
	tpl := wtemplate.New()
	tpl.Detached = func(w widget.Widget) { detached = append(detached, tpl.VarName(w)) }
	tpl.Attached = func(w widget.Widget) { attached = append(attached, tpl.VarName(w)) }

	if err := tpl.BindWidget("a", widget.NewText("A")); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}
	if err := tpl.BindWidget("b", widget.NewText("B")); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}

	tpl.RenderTemplateText("${a}${b}")
	if diff := cmp.Diff([]string{"a", "b"}, sorted(attached)); diff != "" {
		t.Fatalf("attached mismatch (-want +got):\n%s", diff)
	}

	attached = nil
	tpl.RenderTemplateText("${b}")
	if diff := cmp.Diff([]string{"a"}, detached); diff != "" {
		t.Fatalf("detached mismatch (-want +got):\n%s", diff)
	}
	if len(attached) != 0 {
		t.Fatalf("unexpected attach events: %v", attached)
	}

	// Re-referencing re-attaches without recreating the widget.
	tpl.RenderTemplateText("${a}${b}")
	if diff := cmp.Diff([]string{"a"}, attached); diff != "" {
		t.Fatalf("re-attach mismatch (-want +got):\n%s", diff)
	}
}

func TestOnDemandWidgetResolution(t *testing.T) {
	t.Parallel()

	reg := widget.NewRegistry()
	reg.Register("lazy", 10, func(varName string) widget.Widget {
		if varName != "lazy-field" {
			return nil
		}
		return widget.NewText("made on demand")
	})

	tpl := wtemplate.New(wtemplate.WithRegistry(reg))
	markup, errText, ok := tpl.RenderTemplateText("${lazy-field}")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if !strings.Contains(markup, "made on demand") {
		t.Fatalf("markup = %q", markup)
	}
	// The resolved widget is now owned: a second render reuses it.
	if len(tpl.Widgets()) != 1 {
		t.Fatalf("expected 1 owned widget, got %d", len(tpl.Widgets()))
	}
}

func TestClearDestroysWidgetsAndResetsConditions(t *testing.T) {
	t.Parallel()

	w := &destroyableText{Text: widget.NewText("x")}
	tpl := wtemplate.New()
	if err := tpl.BindWidget("v", w); err != nil {
		t.Fatalf("BindWidget: %v", err)
	}
	tpl.SetCondition("c", true)
	tpl.Clear()

	if w.destroyed != 1 {
		t.Fatalf("widget destroyed %d times, want 1", w.destroyed)
	}
	if tpl.ConditionValue("c") {
		t.Fatal("conditions should reset on Clear")
	}
	markup, _, _ := tpl.RenderTemplateText("${v}")
	if markup != "??v??" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestBindIntAndBindEmpty(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.BindInt("n", 42)
	tpl.BindEmpty("e")
	markup, errText, ok := tpl.RenderTemplateText("[${n}][${e}]")
	if !ok {
		t.Fatalf("render failed: %s", errText)
	}
	if markup != "[42][]" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestStringResolverHook(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.StringResolver = func(varName string, _ []string) (string, bool) {
		if varName == "dynamic" {
			return "resolved", true
		}
		return "", false
	}
	markup, _, _ := tpl.RenderTemplateText("${dynamic} ${other}")
	if markup != "resolved ??other??" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestStringResolverEmitsMarkupVerbatim(t *testing.T) {
	t.Parallel()

	// Resolved values carry no TextFormat: they are final markup, so the
	// resolver owns escaping.
	tpl := wtemplate.New()
	tpl.StringResolver = func(string, []string) (string, bool) {
		return "<em>pre-formatted</em>", true
	}
	markup, _, _ := tpl.RenderTemplateText("${v}")
	if markup != "<em>pre-formatted</em>" {
		t.Fatalf("markup = %q", markup)
	}
}

func TestUnresolvedHandlerOverride(t *testing.T) {
	t.Parallel()

	tpl := wtemplate.New()
	tpl.UnresolvedHandler = func(varName string, _ []string, w io.Writer) {
		io.WriteString(w, "<"+varName+"?>")
	}
	markup, _, _ := tpl.RenderTemplateText("${gone}")
	if markup != "<gone?>" {
		t.Fatalf("markup = %q", markup)
	}
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
