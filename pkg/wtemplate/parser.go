package wtemplate

import (
	"fmt"
	"strings"
)

// nodeKind distinguishes the parsed units of a template. The kind is
// resolved once at parse time so rendering dispatches on a tag, not on
// string shape.
type nodeKind int

const (
	nodeText nodeKind = iota
	nodeVariable
	nodeFunction
	nodeCondOpen
	nodeCondClose
)

type node struct {
	kind nodeKind
	// text holds the literal content for nodeText.
	text string
	// name is the variable, function or condition name.
	name string
	// args are the parsed trailing arguments. For functions the first
	// entry is the ":"-separated head argument.
	args []string
}

// parseTemplate scans text left to right into a node list. Parsing is
// best-effort: malformed spans are recorded as errors and emitted as
// literal text so a broken template still produces output.
func parseTemplate(text string) ([]node, []error) {
	var (
		nodes []node
		errs  []error
		lit   strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			nodes = append(nodes, node{kind: nodeText, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '$' {
			lit.WriteByte(ch)
			i++
			continue
		}
		// "$$" escapes a literal dollar.
		if i+1 < len(text) && text[i+1] == '$' {
			lit.WriteByte('$')
			i += 2
			continue
		}
		if i+1 >= len(text) || text[i+1] != '{' {
			lit.WriteByte(ch)
			i++
			continue
		}

		end := placeholderEnd(text, i+2)
		if end < 0 {
			errs = append(errs, fmt.Errorf("wtemplate: unterminated placeholder at offset %d", i))
			lit.WriteString(text[i:])
			i = len(text)
			break
		}

		body := text[i+2 : end]
		parsed, err := parsePlaceholder(body)
		if err != nil {
			errs = append(errs, err)
			lit.WriteString(text[i : end+1])
		} else {
			flush()
			nodes = append(nodes, parsed)
		}
		i = end + 1
	}
	flush()
	return nodes, errs
}

// placeholderEnd finds the index of the '}' closing a placeholder whose body
// starts at from. Quoted argument values may contain '}'.
func placeholderEnd(text string, from int) int {
	var quote byte
	for i := from; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == '\\' && i+1 < len(text) {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '}':
			return i
		}
	}
	return -1
}

func parsePlaceholder(body string) (node, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return node{}, fmt.Errorf("wtemplate: empty placeholder")
	}

	head, rest := splitHead(trimmed)

	// ${<cond>} opens, ${</cond>} closes a conditional block.
	if strings.HasPrefix(head, "<") {
		if !strings.HasSuffix(head, ">") || len(head) < 3 {
			return node{}, fmt.Errorf("wtemplate: malformed condition placeholder %q", head)
		}
		inner := head[1 : len(head)-1]
		if strings.HasPrefix(inner, "/") {
			name := inner[1:]
			if name == "" {
				return node{}, fmt.Errorf("wtemplate: malformed condition placeholder %q", head)
			}
			return node{kind: nodeCondClose, name: name}, nil
		}
		return node{kind: nodeCondOpen, name: inner}, nil
	}

	args, err := parseArgs(rest)
	if err != nil {
		return node{}, err
	}

	if colon := strings.IndexByte(head, ':'); colon >= 0 {
		name := head[:colon]
		if name == "" {
			return node{}, fmt.Errorf("wtemplate: malformed function placeholder %q", head)
		}
		// The text after ':' is the function's first argument.
		args = append([]string{head[colon+1:]}, args...)
		return node{kind: nodeFunction, name: name, args: args}, nil
	}

	return node{kind: nodeVariable, name: head, args: args}, nil
}

func splitHead(body string) (head, rest string) {
	for i := 0; i < len(body); i++ {
		if body[i] == ' ' || body[i] == '\t' {
			return body[:i], body[i+1:]
		}
	}
	return body, ""
}

// parseArgs splits space-separated arguments. An argument is a bare word or
// key=value pair whose value may be single or double quoted; a backslash
// escapes the quote character inside a quoted value.
func parseArgs(text string) ([]string, error) {
	var args []string
	i := 0
	for i < len(text) {
		for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
			i++
		}
		if i >= len(text) {
			break
		}

		var arg strings.Builder
		for i < len(text) && text[i] != ' ' && text[i] != '\t' {
			ch := text[i]
			if ch == '\'' || ch == '"' {
				quoted, next, err := scanQuoted(text, i)
				if err != nil {
					return nil, err
				}
				arg.WriteString(quoted)
				i = next
				continue
			}
			arg.WriteByte(ch)
			i++
		}
		args = append(args, arg.String())
	}
	return args, nil
}

// scanQuoted consumes a quoted run starting at the opening quote, returning
// its unquoted content and the index after the closing quote.
func scanQuoted(text string, start int) (string, int, error) {
	quote := text[start]
	var out strings.Builder
	for i := start + 1; i < len(text); i++ {
		ch := text[i]
		if ch == '\\' && i+1 < len(text) && (text[i+1] == quote || text[i+1] == '\\') {
			out.WriteByte(text[i+1])
			i++
			continue
		}
		if ch == quote {
			return out.String(), i + 1, nil
		}
		out.WriteByte(ch)
	}
	return "", 0, fmt.Errorf("wtemplate: unbalanced quote in arguments %q", text[start:])
}
