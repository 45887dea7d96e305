package widget_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wtk/pkg/widget"
)

func render(t *testing.T, w widget.Widget) string {
	t.Helper()
	var sb strings.Builder
	if err := w.RenderMarkup(&sb); err != nil {
		t.Fatalf("RenderMarkup: %v", err)
	}
	return sb.String()
}

func TestTextRendersSanitizedSpan(t *testing.T) {
	t.Parallel()

	txt := widget.NewText(`hello <script>x()</script>`)
	markup := render(t, txt)

	if !strings.HasPrefix(markup, "<span") || !strings.HasSuffix(markup, "</span>") {
		t.Fatalf("markup = %q, want a span", markup)
	}
	if strings.Contains(markup, "<script") {
		t.Fatalf("markup kept active content: %q", markup)
	}
	if !strings.Contains(markup, ` id="w`) {
		t.Fatalf("markup missing generated id: %q", markup)
	}
}

func TestTextPlainFormatEscapes(t *testing.T) {
	t.Parallel()

	txt := widget.NewText(`<b>raw</b>`)
	txt.SetTextFormat(widget.FormatPlain)
	if markup := render(t, txt); !strings.Contains(markup, "&lt;b&gt;raw&lt;/b&gt;") {
		t.Fatalf("plain text not escaped: %q", markup)
	}
}

func TestWidgetIdentity(t *testing.T) {
	t.Parallel()

	a := widget.NewText("a")
	b := widget.NewText("b")
	if a.ID() == b.ID() {
		t.Fatalf("ids collide: %q", a.ID())
	}

	a.SetID("custom-id")
	if a.ID() != "custom-id" {
		t.Fatalf("ID = %q after SetID", a.ID())
	}
	if markup := render(t, a); !strings.Contains(markup, ` id="custom-id"`) {
		t.Fatalf("custom id not rendered: %q", markup)
	}

	a.SetObjectName("price")
	if markup := render(t, a); !strings.Contains(markup, ` data-object-name="price"`) {
		t.Fatalf("object name not rendered: %q", markup)
	}
}

func TestStyleClassesDeduplicate(t *testing.T) {
	t.Parallel()

	txt := widget.NewText("x")
	txt.AddStyleClass("alert alert-info")
	txt.AddStyleClass("alert")
	txt.AddStyleClass("  extra  ")

	want := []string{"alert", "alert-info", "extra"}
	if diff := cmp.Diff(want, txt.StyleClasses()); diff != "" {
		t.Fatalf("classes (-want +got):\n%s", diff)
	}
	if markup := render(t, txt); !strings.Contains(markup, ` class="alert alert-info extra"`) {
		t.Fatalf("class attribute wrong: %q", markup)
	}
}

func TestContainerRendersChildrenInOrder(t *testing.T) {
	t.Parallel()

	first := widget.NewText("first")
	second := widget.NewText("second")
	box := widget.NewContainer(first)
	box.Add(second)

	markup := render(t, box)
	if !strings.HasPrefix(markup, "<div") || !strings.HasSuffix(markup, "</div>") {
		t.Fatalf("markup = %q, want a div", markup)
	}
	if strings.Index(markup, "first") > strings.Index(markup, "second") {
		t.Fatalf("children out of order: %q", markup)
	}

	if !box.Remove(first) {
		t.Fatal("Remove did not find the child")
	}
	if box.Remove(first) {
		t.Fatal("Remove found an already removed child")
	}
	if markup := render(t, box); strings.Contains(markup, "first") {
		t.Fatalf("removed child still rendered: %q", markup)
	}
}

func TestAnchorInternalPath(t *testing.T) {
	t.Parallel()

	a := widget.NewAnchor("/orders/42", "Orders")
	if markup := render(t, a); !strings.Contains(markup, ` href="/orders/42"`) {
		t.Fatalf("plain href mangled: %q", markup)
	}

	a.SetInternalPath(true)
	if markup := render(t, a); !strings.Contains(markup, ` href="#/orders/42"`) {
		t.Fatalf("internal href missing prefix: %q", markup)
	}
}

func TestRegistryPriorityAndOrder(t *testing.T) {
	t.Parallel()

	reg := widget.NewRegistry()
	reg.Register("fallback", 0, func(name string) widget.Widget {
		return widget.NewText("fallback:" + name)
	})
	reg.Register("specific", 10, func(name string) widget.Widget {
		if name != "price" {
			return nil
		}
		return widget.NewText("specific:" + name)
	})

	w, ok := reg.Resolve("price")
	if !ok {
		t.Fatal("Resolve failed")
	}
	if got := w.(*widget.Text).Text(); got != "specific:price" {
		t.Fatalf("resolved %q, want the high priority factory", got)
	}

	w, ok = reg.Resolve("other")
	if !ok {
		t.Fatal("Resolve failed for fallback")
	}
	if got := w.(*widget.Text).Text(); got != "fallback:other" {
		t.Fatalf("resolved %q, want the fallback factory", got)
	}

	if diff := cmp.Diff([]string{"fallback", "specific"}, reg.Names()); diff != "" {
		t.Fatalf("names (-want +got):\n%s", diff)
	}
}

func TestRegistryEmptyAndNil(t *testing.T) {
	t.Parallel()

	if _, ok := widget.NewRegistry().Resolve("anything"); ok {
		t.Fatal("empty registry resolved a widget")
	}

	var reg *widget.Registry
	reg.Register("x", 0, func(string) widget.Widget { return nil })
	if _, ok := reg.Resolve("x"); ok {
		t.Fatal("nil registry resolved a widget")
	}
}

func TestThemeChrome(t *testing.T) {
	t.Parallel()

	chrome := widget.BuildThemeChrome(nil)
	if chrome.Name != "" || chrome.CSSVarsStyle != "" {
		t.Fatalf("nil config produced chrome: %+v", chrome)
	}
}
