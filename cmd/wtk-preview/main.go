// Command wtk-preview renders a placeholder template interactively. It
// discovers the template's unresolved variables and conditions, prompts for
// values, and prints the resolved markup.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-wtk/pkg/widget"
	"github.com/goliatone/go-wtk/pkg/wtemplate"
)

func main() {
	templatePath := flag.String("template", "", "template file (prompts for text if empty)")
	output := flag.String("output", "", "output file (stdout if empty)")
	plain := flag.Bool("plain", false, "bind values as escaped plain text instead of sanitized markup")
	flag.Parse()

	text, err := templateText(*templatePath)
	if err != nil {
		log.Fatalf("Failed to load template: %v", err)
	}

	tpl := wtemplate.New(wtemplate.WithText(text))

	format := widget.FormatXHTML
	if *plain {
		format = widget.FormatPlain
	}

	if err := fillBindings(tpl, format); err != nil {
		log.Fatalf("Prompting failed: %v", err)
	}

	markup, errText, ok := tpl.RenderTemplateText(tpl.TemplateText())
	if !ok {
		fmt.Fprintf(os.Stderr, "Rendered with diagnostics: %s\n", errText)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(markup), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Markup written to %s\n", *output)
		return
	}
	fmt.Println(markup)
}

func templateText(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var text string
	prompt := &survey.Multiline{
		Message: "Template text",
		Help:    "Placeholders: ${var}, ${fn:arg}, ${<cond>}...${</cond>}",
	}
	if err := survey.AskOne(prompt, &text, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return text, nil
}

// fillBindings repeatedly dry-renders the template, prompting for every
// name that comes back unresolved. Conditions revealed by a binding round
// surface in the next round, so the loop runs until a pass resolves clean.
func fillBindings(tpl *wtemplate.Template, format widget.TextFormat) error {
	asked := make(map[string]bool)
	condValues := make(map[string]bool)

	for round := 0; round < 20; round++ {
		vars, conds := discover(tpl, condValues)

		pending := false
		for _, name := range vars {
			if asked[name] {
				continue
			}
			asked[name] = true
			pending = true

			var value string
			prompt := &survey.Input{Message: fmt.Sprintf("Value for ${%s}", name)}
			if err := survey.AskOne(prompt, &value); err != nil {
				return err
			}
			tpl.BindString(name, value, format)
		}
		for _, name := range conds {
			if asked["<"+name] {
				continue
			}
			asked["<"+name] = true
			pending = true

			var on bool
			prompt := &survey.Confirm{Message: fmt.Sprintf("Enable section ${<%s>}?", name)}
			if err := survey.AskOne(prompt, &on); err != nil {
				return err
			}
			condValues[name] = on
			tpl.SetCondition(name, on)
		}

		if !pending {
			return nil
		}
	}
	return fmt.Errorf("too many discovery rounds; template may be self-referential")
}

// discover dry-renders the template and collects unresolved variable names
// and every condition name the pass consults. Known condition values come
// from the caller so an enabled section reveals its nested placeholders.
func discover(tpl *wtemplate.Template, condValues map[string]bool) (vars, conds []string) {
	varSet := make(map[string]struct{})
	condSet := make(map[string]struct{})

	prevUnresolved := tpl.UnresolvedHandler
	prevConditions := tpl.ConditionResolver
	tpl.UnresolvedHandler = func(name string, args []string, w io.Writer) {
		varSet[name] = struct{}{}
	}
	tpl.ConditionResolver = func(name string) bool {
		condSet[name] = struct{}{}
		return condValues[name]
	}
	tpl.RenderTemplateText(tpl.TemplateText())
	tpl.UnresolvedHandler = prevUnresolved
	tpl.ConditionResolver = prevConditions

	for name := range varSet {
		vars = append(vars, name)
	}
	for name := range condSet {
		conds = append(conds, name)
	}
	sort.Strings(vars)
	sort.Strings(conds)
	return vars, conds
}
