package widget

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// TextFormat controls how a string value is treated when rendered into
// markup.
type TextFormat int

const (
	// FormatPlain escapes all markup so the value renders as literal text.
	FormatPlain TextFormat = iota
	// FormatXHTML keeps markup but strips active content (scripts, event
	// handler attributes, javascript: URLs).
	FormatXHTML
	// FormatUnsafeXHTML passes the value through unmodified. Only use this
	// for trusted, server-generated markup.
	FormatUnsafeXHTML
)

func (f TextFormat) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatXHTML:
		return "xhtml"
	case FormatUnsafeXHTML:
		return "unsafe-xhtml"
	default:
		return "unknown"
	}
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// markupSanitizer returns the shared policy used for FormatXHTML values. It
// allows regular document markup but rejects active content.
func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class", "id", "title", "lang", "dir").Globally()
		policy.AllowAttrs("style").Globally()
		policy.AllowElements("span", "div", "label", "button", "fieldset", "legend")
		policy.AllowAttrs("type", "name", "value", "placeholder", "disabled",
			"readonly", "checked", "for").OnElements("input", "label", "button")
		policy.RequireNoFollowOnLinks(false)
		markupPolicy = policy
	})
	return markupPolicy
}

// FormatText renders value according to the given format.
func FormatText(value string, format TextFormat) string {
	switch format {
	case FormatPlain:
		return html.EscapeString(value)
	case FormatXHTML:
		return markupSanitizer().Sanitize(value)
	case FormatUnsafeXHTML:
		return value
	default:
		return html.EscapeString(value)
	}
}

// ValidXHTML reports whether value survives sanitization unchanged apart from
// whitespace, meaning it carries no active content.
func ValidXHTML(value string) bool {
	cleaned := markupSanitizer().Sanitize(value)
	return strings.TrimSpace(cleaned) == strings.TrimSpace(value)
}
