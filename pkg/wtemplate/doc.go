// Package wtemplate implements the placeholder template renderer: a
// micro-templating language embedded in markup where ${...} spans denote
// variable substitutions, function calls and conditional blocks, resolved
// against bindings owned by a Template.
//
// Placeholders are delimited by ${...}; a literal "${" is written "$${".
// Three constructs exist:
//
//   - ${var} substitutes a bound string or widget. Extra arguments
//     (${var class="wide"}) are applied to resolved widgets as style
//     classes.
//   - ${fn:arg} applies a registered function. tr, block, while and id are
//     registered by default.
//   - ${<cond>} ... ${</cond>} includes the enclosed content only when the
//     condition is set. Pairs must balance by name.
//
// Rendering never panics past its boundary: parse and resolution problems
// are collected into a diagnostic string retrievable after the call, and
// unresolved variables degrade to a ??name?? marker in the output.
package wtemplate
