package widget

import (
	"sort"
	"strings"
	"sync"
)

// Factory produces a widget on demand for a variable name. Returning nil
// means the factory does not handle that name.
type Factory func(varName string) Widget

type factoryRule struct {
	name     string
	priority int
	make     Factory
	order    int
}

// Registry resolves widgets lazily by variable name. Templates consult a
// registry when a placeholder references a variable with no explicit
// binding, enabling delayed widget construction. Higher priority wins; ties
// fall back to registration order. An empty registry never resolves a
// widget.
type Registry struct {
	mu    sync.RWMutex
	rules []factoryRule
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a factory under a name with the provided priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, factoryRule{
		name:     trimmed,
		priority: priority,
		make:     factory,
		order:    len(r.rules),
	})
}

// Resolve asks registered factories, in priority order, to produce a widget
// for varName. The first non-nil result wins.
func (r *Registry) Resolve(varName string) (Widget, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return nil, false
	}
	rules := append([]factoryRule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, rule := range rules {
		if w := rule.make(varName); w != nil {
			return w, true
		}
	}
	return nil, false
}

// Names returns the sorted factory names, mainly for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.rules))
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		if _, ok := seen[rule.name]; ok {
			continue
		}
		seen[rule.name] = struct{}{}
		names = append(names, rule.name)
	}
	sort.Strings(names)
	return names
}
