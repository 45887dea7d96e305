package widget

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// Widget is the contract the template renderer needs from anything it can
// bind to a placeholder: a stable identifier, optional object name, style
// class chrome, and markup rendering.
type Widget interface {
	ID() string
	ObjectName() string
	SetObjectName(name string)
	StyleClasses() []string
	AddStyleClass(class string)
	RenderMarkup(w io.Writer) error
}

var widgetSerial atomic.Uint64

func nextID() string {
	return fmt.Sprintf("w%d", widgetSerial.Add(1))
}

// Base implements the identity and style-class parts of Widget. Concrete
// widgets embed it and provide RenderMarkup.
type Base struct {
	id         string
	objectName string
	classes    []string
}

// NewBase allocates a Base with a fresh process-unique identifier.
func NewBase() Base {
	return Base{id: nextID()}
}

func (b *Base) ID() string {
	if b.id == "" {
		b.id = nextID()
	}
	return b.id
}

// SetID overrides the generated identifier. Callers are responsible for
// keeping identifiers unique within a page.
func (b *Base) SetID(id string) { b.id = id }

func (b *Base) ObjectName() string        { return b.objectName }
func (b *Base) SetObjectName(name string) { b.objectName = name }

func (b *Base) StyleClasses() []string { return b.classes }

// AddStyleClass appends one or more space-separated classes, skipping
// duplicates.
func (b *Base) AddStyleClass(class string) {
	for _, c := range strings.Fields(class) {
		if b.hasClass(c) {
			continue
		}
		b.classes = append(b.classes, c)
	}
}

func (b *Base) hasClass(class string) bool {
	for _, c := range b.classes {
		if c == class {
			return true
		}
	}
	return false
}

// attrs renders the shared id/object-name/class attribute chrome.
func (b *Base) attrs() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ` id="%s"`, b.ID())
	if b.objectName != "" {
		fmt.Fprintf(&sb, ` data-object-name="%s"`, b.objectName)
	}
	if len(b.classes) > 0 {
		fmt.Fprintf(&sb, ` class="%s"`, strings.Join(b.classes, " "))
	}
	return sb.String()
}

// Text is a widget rendering a string value inside a span, honouring the
// configured text format.
type Text struct {
	Base
	value  string
	format TextFormat
}

// NewText creates a text widget. The default format is FormatXHTML, matching
// the common case of trusted-but-sanitized fragments.
func NewText(value string) *Text {
	return &Text{Base: NewBase(), value: value, format: FormatXHTML}
}

func (t *Text) SetText(value string)            { t.value = value }
func (t *Text) Text() string                    { return t.value }
func (t *Text) SetTextFormat(format TextFormat) { t.format = format }
func (t *Text) TextFormat() TextFormat          { return t.format }

func (t *Text) RenderMarkup(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<span%s>%s</span>", t.attrs(), FormatText(t.value, t.format))
	return err
}

// Container holds an ordered list of child widgets and renders them inside a
// div.
type Container struct {
	Base
	children []Widget
}

func NewContainer(children ...Widget) *Container {
	return &Container{Base: NewBase(), children: children}
}

func (c *Container) Add(child Widget) { c.children = append(c.children, child) }

func (c *Container) Children() []Widget { return c.children }

// Remove detaches a child without destroying it. It returns whether the
// child was found.
func (c *Container) Remove(child Widget) bool {
	for i, w := range c.children {
		if w == child {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Container) RenderMarkup(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "<div%s>", c.attrs()); err != nil {
		return err
	}
	for _, child := range c.children {
		if err := child.RenderMarkup(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</div>")
	return err
}

// Anchor renders a link. When Internal is set the href is emitted with the
// internal-path prefix so client-side routing can intercept it.
type Anchor struct {
	Base
	href     string
	text     string
	internal bool
}

func NewAnchor(href, text string) *Anchor {
	return &Anchor{Base: NewBase(), href: href, text: text}
}

func (a *Anchor) SetInternalPath(on bool) { a.internal = on }

func (a *Anchor) RenderMarkup(w io.Writer) error {
	href := a.href
	if a.internal && !strings.HasPrefix(href, "#/") {
		href = "#/" + strings.TrimPrefix(href, "/")
	}
	_, err := fmt.Fprintf(w, `<a%s href="%s">%s</a>`, a.attrs(),
		FormatText(href, FormatPlain), FormatText(a.text, FormatPlain))
	return err
}
