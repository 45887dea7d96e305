package wtemplate

import (
	"fmt"
	"io"
	"strings"
)

// Builtin functions registered on every new Template. They mirror the
// toolkit's stock template macros: localized strings, macro blocks,
// repeated blocks and widget id lookup.

// whileIterationCap bounds the while builtin so a condition resolver that
// never flips cannot hang a render pass.
const whileIterationCap = 10000

// Tr resolves args[0] as a message key through the template's translator
// and substitutes positional {1}..{n} parameters from the remaining
// arguments.
func Tr(t *Template, args []string, w io.Writer) bool {
	if len(args) == 0 {
		return false
	}
	msg, ok := t.translate(args[0])
	if !ok {
		return false
	}
	io.WriteString(w, substituteParams(msg, args[1:]))
	return true
}

// Block treats args[0] as the message key of a macro block, substitutes
// positional parameters, and renders the result as nested template text.
func Block(t *Template, args []string, w io.Writer) bool {
	if len(args) == 0 {
		return false
	}
	body, ok := t.translate(args[0])
	if !ok {
		return false
	}
	return t.renderNested(substituteParams(body, args[1:]), w)
}

// While renders the macro block args[1] for as long as the condition
// args[0] holds. The condition is re-evaluated through ConditionValue
// between iterations, so a stateful ConditionResolver drives the loop.
func While(t *Template, args []string, w io.Writer) bool {
	if len(args) < 2 {
		return false
	}
	cond, key := args[0], args[1]
	body, ok := t.translate(key)
	if !ok {
		return false
	}
	expanded := substituteParams(body, args[2:])

	for i := 0; t.ConditionValue(cond); i++ {
		if i >= whileIterationCap {
			t.recordError(fmt.Errorf("wtemplate: while %q exceeded %d iterations", cond, whileIterationCap))
			return false
		}
		if !t.renderNested(expanded, w) {
			return false
		}
	}
	return true
}

// ID writes the id of the widget bound to args[0], resolving it on demand
// like a variable placeholder would.
func ID(t *Template, args []string, w io.Writer) bool {
	if len(args) == 0 {
		return false
	}
	widget := t.ResolveWidget(args[0])
	if widget == nil {
		return false
	}
	io.WriteString(w, widget.ID())
	return true
}

// substituteParams replaces {1}..{n} markers with positional parameters.
func substituteParams(text string, params []string) string {
	for i, p := range params {
		text = strings.ReplaceAll(text, fmt.Sprintf("{%d}", i+1), p)
	}
	return text
}
