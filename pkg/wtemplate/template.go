package wtemplate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-wtk/pkg/widget"
)

// WidgetIDMode controls how a bound widget reflects its variable name.
type WidgetIDMode int

const (
	// IDModeNone leaves bound widgets untouched.
	IDModeNone WidgetIDMode = iota
	// IDModeObjectName sets the widget object name to the variable name,
	// surfacing it as a data-object-name attribute.
	IDModeObjectName
	// IDModeSetID sets the widget ID to the variable name. Callers must
	// keep variable names unique across the page.
	IDModeSetID
)

// Function resolves a ${fn:...} placeholder. It writes the substitution to
// w and reports whether the function applied.
type Function func(t *Template, args []string, w io.Writer) bool

// Translator resolves message keys for the tr, block and while builtins.
type Translator interface {
	Translate(key string) (string, bool)
}

// TranslatorFunc adapts a plain function to the Translator interface.
type TranslatorFunc func(key string) (string, bool)

func (f TranslatorFunc) Translate(key string) (string, bool) { return f(key) }

// Destroyable is implemented by widgets that hold resources needing explicit
// teardown when a binding replaces or clears them.
type Destroyable interface {
	Destroy()
}

type stringBinding struct {
	value  string
	format widget.TextFormat
}

// Template resolves placeholder text against bound strings, widgets,
// functions and conditions. A Template owns its bound widgets: rebinding or
// clearing destroys the previous widget.
//
// A Template is not safe for concurrent use; bindings must not be mutated
// during a render pass.
type Template struct {
	text       string
	textFormat widget.TextFormat

	functions  map[string]Function
	strings    map[string]stringBinding
	widgets    map[string]widget.Widget
	widgetVars map[widget.Widget]string
	conditions map[string]bool

	widgetIDMode        WidgetIDMode
	encodeInternalPaths bool
	changed             bool

	registry   *widget.Registry
	translator Translator

	// StringResolver, when set, is consulted before bound strings,
	// supporting on-demand value resolution. The returned value is written
	// verbatim, with no TextFormat handling: resolvers produce final
	// markup and must escape or sanitize untrusted input themselves.
	StringResolver func(varName string, args []string) (string, bool)
	// WidgetResolver, when set, is consulted before bound widgets and the
	// registry.
	WidgetResolver func(varName string) widget.Widget
	// ConditionResolver, when set, overrides condition lookup. The while
	// builtin re-evaluates it between iterations.
	ConditionResolver func(name string) bool
	// UnresolvedHandler renders variables with no binding. The default
	// writes "??name??".
	UnresolvedHandler func(varName string, args []string, w io.Writer)
	// Detached is notified when a previously rendered widget is no longer
	// referenced by the latest pass.
	Detached func(w widget.Widget)
	// Attached is notified when a widget is rendered for the first time
	// since the last pass that omitted it.
	Attached func(w widget.Widget)

	previouslyRendered map[widget.Widget]struct{}
	// rendering is the widget set of the in-flight pass, shared with
	// nested renders triggered by the block and while builtins.
	rendering map[widget.Widget]struct{}

	textErr string
	errs    []string
}

// Option configures a Template.
type Option func(*Template)

// WithTranslator installs the message key resolver used by the tr, block
// and while builtins.
func WithTranslator(tr Translator) Option {
	return func(t *Template) { t.translator = tr }
}

// WithRegistry installs a widget registry consulted for variables with no
// explicit binding.
func WithRegistry(reg *widget.Registry) Option {
	return func(t *Template) { t.registry = reg }
}

// WithText sets the initial template text.
func WithText(text string) Option {
	return func(t *Template) { t.SetTemplateText(text, widget.FormatXHTML) }
}

// New creates an empty template with the builtin tr, block, while and id
// functions registered.
func New(options ...Option) *Template {
	t := &Template{
		functions:  make(map[string]Function),
		strings:    make(map[string]stringBinding),
		widgets:    make(map[string]widget.Widget),
		widgetVars: make(map[widget.Widget]string),
		conditions: make(map[string]bool),
		textFormat: widget.FormatXHTML,
	}
	t.AddFunction("tr", Tr)
	t.AddFunction("block", Block)
	t.AddFunction("while", While)
	t.AddFunction("id", ID)
	for _, opt := range options {
		opt(t)
	}
	return t
}

// TemplateText returns the current template text.
func (t *Template) TemplateText() string { return t.text }

// SetTemplateText replaces the template text. Bound widgets and values are
// kept; only the text changes. With FormatXHTML the text is checked for
// active content and a diagnostic is recorded when it fails.
func (t *Template) SetTemplateText(text string, format widget.TextFormat) {
	t.textErr = ""
	if format == widget.FormatXHTML && !widget.ValidXHTML(text) {
		t.textErr = "wtemplate: template text contains active content"
	}
	t.text = text
	t.textFormat = format
	t.changed = true
}

// SetWidgetIDMode controls how variable names are reflected on bound
// widgets. The default is IDModeNone.
func (t *Template) SetWidgetIDMode(mode WidgetIDMode) { t.widgetIDMode = mode }

func (t *Template) WidgetIDMode() WidgetIDMode { return t.widgetIDMode }

// SetInternalPathEncoding enables rewriting of internal-path anchors on
// bound anchors during rendering.
func (t *Template) SetInternalPathEncoding(on bool) { t.encodeInternalPaths = on }

// BindString binds a string value to a variable, replacing any previous
// binding. A widget previously bound to the variable is destroyed.
func (t *Template) BindString(varName, value string, format widget.TextFormat) {
	if prev, ok := t.widgets[varName]; ok {
		t.destroyWidget(prev)
		delete(t.widgets, varName)
		delete(t.widgetVars, prev)
	}
	existing, had := t.strings[varName]
	next := stringBinding{value: value, format: format}
	if had && existing == next {
		return
	}
	t.strings[varName] = next
	t.changed = true
}

// BindInt binds an integer value to a variable.
func (t *Template) BindInt(varName string, value int) {
	t.BindString(varName, strconv.Itoa(value), widget.FormatUnsafeXHTML)
}

// BindEmpty binds an empty string to a variable, destroying any widget
// previously bound to it.
func (t *Template) BindEmpty(varName string) {
	t.BindString(varName, "", widget.FormatUnsafeXHTML)
}

// BindWidget binds a widget to a variable. The template takes ownership:
// the widget is destroyed when rebound, removed with Clear, or replaced.
// Binding a widget that is already bound to a different variable fails with
// ErrWidgetBound. Binding nil resolves the variable to an empty string.
func (t *Template) BindWidget(varName string, w widget.Widget) error {
	if w != nil {
		if bound, ok := t.widgetVars[w]; ok && bound != varName {
			return fmt.Errorf("%w: %q already bound as %q", ErrWidgetBound, varName, bound)
		}
	}
	if prev, ok := t.widgets[varName]; ok {
		if prev == w {
			return nil
		}
		t.destroyWidget(prev)
		delete(t.widgetVars, prev)
	}
	delete(t.strings, varName)

	if w == nil {
		delete(t.widgets, varName)
		t.strings[varName] = stringBinding{}
		t.changed = true
		return nil
	}

	t.widgets[varName] = w
	t.widgetVars[w] = varName

	switch t.widgetIDMode {
	case IDModeObjectName:
		w.SetObjectName(varName)
	case IDModeSetID:
		if setter, ok := w.(interface{ SetID(string) }); ok {
			setter.SetID(varName)
		}
	}
	t.changed = true
	return nil
}

// RemoveWidget unbinds and returns the widget bound to varName without
// destroying it. It returns nil when no widget is bound.
func (t *Template) RemoveWidget(varName string) widget.Widget {
	w, ok := t.widgets[varName]
	if !ok {
		return nil
	}
	delete(t.widgets, varName)
	delete(t.widgetVars, w)
	delete(t.previouslyRendered, w)
	t.changed = true
	return w
}

// RemoveWidgetByInstance unbinds a widget found by identity. It returns
// ErrNotFound when the widget is not bound to this template.
func (t *Template) RemoveWidgetByInstance(w widget.Widget) error {
	varName, ok := t.widgetVars[w]
	if !ok {
		return ErrNotFound
	}
	t.RemoveWidget(varName)
	return nil
}

// Widgets returns all currently bound widgets.
func (t *Template) Widgets() []widget.Widget {
	out := make([]widget.Widget, 0, len(t.widgets))
	for _, w := range t.widgets {
		out = append(out, w)
	}
	return out
}

// VarName returns the variable a widget is bound to, or "".
func (t *Template) VarName(w widget.Widget) string { return t.widgetVars[w] }

// ResolveWidget returns the widget bound to varName, consulting the
// WidgetResolver hook and the registry for delayed bindings.
func (t *Template) ResolveWidget(varName string) widget.Widget {
	if t.WidgetResolver != nil {
		if w := t.WidgetResolver(varName); w != nil {
			if _, bound := t.widgetVars[w]; !bound {
				// Late-resolved widgets become owned like explicit binds.
				if err := t.BindWidget(varName, w); err != nil {
					t.recordError(err)
					return nil
				}
			}
			return w
		}
	}
	if w, ok := t.widgets[varName]; ok {
		return w
	}
	if t.registry != nil {
		if w, ok := t.registry.Resolve(varName); ok {
			if err := t.BindWidget(varName, w); err != nil {
				t.recordError(err)
				return nil
			}
			return w
		}
	}
	return nil
}

// SetCondition enables or disables a conditional block. All conditions
// default to false.
func (t *Template) SetCondition(name string, value bool) {
	if t.conditions[name] == value {
		return
	}
	if value {
		t.conditions[name] = true
	} else {
		delete(t.conditions, name)
	}
	t.changed = true
}

// ConditionValue returns a condition's value, honouring the
// ConditionResolver hook.
func (t *Template) ConditionValue(name string) bool {
	if t.ConditionResolver != nil {
		return t.ConditionResolver(name)
	}
	return t.conditions[name]
}

// AddFunction registers a function under a name, replacing any previous
// registration.
func (t *Template) AddFunction(name string, fn Function) {
	t.functions[name] = fn
	t.changed = true
}

// Clear erases all bindings and conditions, destroying bound widgets.
// Registered functions are kept.
func (t *Template) Clear() {
	for _, w := range t.widgets {
		t.destroyWidget(w)
	}
	t.widgets = make(map[string]widget.Widget)
	t.widgetVars = make(map[widget.Widget]string)
	t.strings = make(map[string]stringBinding)
	t.conditions = make(map[string]bool)
	t.previouslyRendered = nil
	t.changed = true
}

// Refresh marks the template as needing a re-render, for callers that
// mutate state through the resolver hooks.
func (t *Template) Refresh() { t.changed = true }

// Changed reports whether the template mutated since the last render.
func (t *Template) Changed() bool { return t.changed }

// ErrorText returns the diagnostics accumulated by the last render pass.
func (t *Template) ErrorText() string { return strings.Join(t.errs, "; ") }

// Render renders the current template text into w. Resolution problems are
// collected into ErrorText; only writer failures are returned.
func (t *Template) Render(w io.Writer) error {
	markup, _, _ := t.RenderTemplateText(t.text)
	_, err := io.WriteString(w, markup)
	return err
}

// RenderMarkup implements widget.Widget-style rendering so templates nest
// inside other templates.
func (t *Template) RenderMarkup(w io.Writer) error { return t.Render(w) }

// RenderTemplateText parses and resolves text, returning the best-effort
// markup, the accumulated diagnostic text, and whether rendering completed
// without diagnostics.
func (t *Template) RenderTemplateText(text string) (markup, errorText string, ok bool) {
	t.errs = nil
	if t.textErr != "" && text == t.text {
		t.errs = append(t.errs, t.textErr)
	}

	nodes, parseErrs := parseTemplate(text)
	for _, err := range parseErrs {
		t.recordError(err)
	}

	rendered := make(map[widget.Widget]struct{})
	t.rendering = rendered
	var out strings.Builder
	t.renderNodes(nodes, &out, rendered)
	t.rendering = nil

	t.trackWidgets(rendered)
	t.changed = false

	return out.String(), t.ErrorText(), len(t.errs) == 0
}

// renderNodes resolves a node list in document order, honouring condition
// blocks. Skipped regions are never evaluated, including any functions they
// contain.
func (t *Template) renderNodes(nodes []node, out *strings.Builder, rendered map[widget.Widget]struct{}) {
	var condStack []string

	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		switch n.kind {
		case nodeText:
			out.WriteString(n.text)

		case nodeCondOpen:
			if t.ConditionValue(n.name) {
				condStack = append(condStack, n.name)
				continue
			}
			skip, found := skipToClose(nodes, i, n.name)
			if !found {
				t.recordError(fmt.Errorf("wtemplate: unbalanced condition %q", n.name))
				i = len(nodes)
				continue
			}
			i = skip

		case nodeCondClose:
			if len(condStack) == 0 || condStack[len(condStack)-1] != n.name {
				t.recordError(fmt.Errorf("wtemplate: unexpected ${</%s>}", n.name))
				continue
			}
			condStack = condStack[:len(condStack)-1]

		case nodeVariable:
			t.resolveVariable(n, out, rendered)

		case nodeFunction:
			t.resolveFunction(n, out)
		}
	}

	for _, open := range condStack {
		t.recordError(fmt.Errorf("wtemplate: condition %q not closed", open))
	}
}

// skipToClose returns the index of the close node matching the open at
// openIdx, balancing by name equality.
func skipToClose(nodes []node, openIdx int, name string) (int, bool) {
	depth := 1
	for i := openIdx + 1; i < len(nodes); i++ {
		switch {
		case nodes[i].kind == nodeCondOpen && nodes[i].name == name:
			depth++
		case nodes[i].kind == nodeCondClose && nodes[i].name == name:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (t *Template) resolveVariable(n node, out *strings.Builder, rendered map[widget.Widget]struct{}) {
	if t.StringResolver != nil {
		if value, ok := t.StringResolver(n.name, n.args); ok {
			out.WriteString(value)
			return
		}
	}

	if binding, ok := t.strings[n.name]; ok {
		out.WriteString(widget.FormatText(binding.value, binding.format))
		return
	}

	if w := t.ResolveWidget(n.name); w != nil {
		if _, again := rendered[w]; again {
			t.recordError(fmt.Errorf("wtemplate: widget %q rendered more than once", n.name))
			t.unresolved(n.name, n.args, out)
			return
		}
		t.applyArguments(w, n.args)
		if t.encodeInternalPaths {
			if a, ok := w.(interface{ SetInternalPath(bool) }); ok {
				a.SetInternalPath(true)
			}
		}
		if err := w.RenderMarkup(out); err != nil {
			t.recordError(fmt.Errorf("wtemplate: rendering %q: %w", n.name, err))
		}
		rendered[w] = struct{}{}
		return
	}

	t.unresolved(n.name, n.args, out)
}

func (t *Template) resolveFunction(n node, out *strings.Builder) {
	fn, ok := t.functions[n.name]
	if !ok {
		t.recordError(fmt.Errorf("wtemplate: function %q not registered", n.name))
		t.unresolved(n.name, n.args, out)
		return
	}
	if !fn(t, n.args, out) {
		t.recordError(fmt.Errorf("wtemplate: function %q failed", n.name))
	}
}

func (t *Template) unresolved(varName string, args []string, out *strings.Builder) {
	if t.UnresolvedHandler != nil {
		t.UnresolvedHandler(varName, args, out)
		return
	}
	out.WriteString("??")
	out.WriteString(varName)
	out.WriteString("??")
}

// applyArguments applies key=value placeholder arguments to a resolved
// widget. Only class is handled; each value appends style classes.
func (t *Template) applyArguments(w widget.Widget, args []string) {
	for _, arg := range args {
		eq := strings.IndexByte(arg, '=')
		if eq <= 0 {
			continue
		}
		key, value := arg[:eq], arg[eq+1:]
		if key == "class" {
			w.AddStyleClass(value)
		}
	}
}

// trackWidgets diffs the widgets rendered by this pass against the previous
// one, firing detach/attach notifications so unreferenced widgets leave the
// visible tree without being destroyed.
func (t *Template) trackWidgets(rendered map[widget.Widget]struct{}) {
	for w := range t.previouslyRendered {
		if _, still := rendered[w]; !still && t.Detached != nil {
			t.Detached(w)
		}
	}
	for w := range rendered {
		if _, was := t.previouslyRendered[w]; !was && t.Attached != nil {
			t.Attached(w)
		}
	}
	t.previouslyRendered = rendered
}

func (t *Template) destroyWidget(w widget.Widget) {
	if d, ok := w.(Destroyable); ok {
		d.Destroy()
	}
	delete(t.previouslyRendered, w)
}

// renderNested renders template text produced by a builtin (block, while)
// inside the current pass, sharing the pass's widget tracking so the
// once-per-pass widget contract holds across macro expansion.
func (t *Template) renderNested(text string, w io.Writer) bool {
	nodes, parseErrs := parseTemplate(text)
	for _, err := range parseErrs {
		t.recordError(err)
	}
	rendered := t.rendering
	if rendered == nil {
		rendered = make(map[widget.Widget]struct{})
	}
	var out strings.Builder
	before := len(t.errs)
	t.renderNodes(nodes, &out, rendered)
	if _, err := io.WriteString(w, out.String()); err != nil {
		t.recordError(err)
		return false
	}
	return len(t.errs) == before && len(parseErrs) == 0
}

func (t *Template) recordError(err error) {
	t.errs = append(t.errs, err.Error())
}

func (t *Template) translate(key string) (string, bool) {
	if t.translator == nil {
		return "", false
	}
	return t.translator.Translate(key)
}
