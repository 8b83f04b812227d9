package template

import (
	"fmt"
	"sort"
	"strings"

	"order-gateway/internal/order/workflow"
	id "order-gateway/pkg/domain"
	dErrors "order-gateway/pkg/domain-errors"
)

// foldKey normalizes a submitted key for case-insensitive matching.
func foldKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

// Registry is the process-wide read-only template registry, populated at
// startup and never mutated after init.
type Registry struct {
	byID map[id.TemplateID]Definition
}

// NewRegistry builds a registry from a set of definitions, validating
// referential integrity: duplicate template ids, duplicate field or document
// keys within a template, and references to unregistered transition tables
// are boot errors, not runtime surprises.
func NewRegistry(defs []Definition) (*Registry, error) {
	byID := make(map[id.TemplateID]Definition, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("template with empty id (title %q)", def.Title)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", def.ID)
		}
		if _, ok := workflow.TableByID(def.Table); !ok {
			return nil, fmt.Errorf("template %q references unknown transition table %q", def.ID, def.Table)
		}
		if err := checkKeys(def); err != nil {
			return nil, fmt.Errorf("template %q: %w", def.ID, err)
		}
		byID[def.ID] = def
	}
	return &Registry{byID: byID}, nil
}

func checkKeys(def Definition) error {
	seen := make(map[string]bool)
	for _, f := range def.Fields {
		k := foldKey(f.Key)
		if k == "" {
			return fmt.Errorf("field with empty key")
		}
		if seen[k] {
			return fmt.Errorf("duplicate field key %q", f.Key)
		}
		seen[k] = true
	}
	docs := make(map[string]bool)
	for _, s := range def.Documents {
		k := foldKey(s.Key)
		if k == "" {
			return fmt.Errorf("document slot with empty key")
		}
		if docs[k] {
			return fmt.Errorf("duplicate document slot key %q", s.Key)
		}
		docs[k] = true
	}
	return nil
}

// Get resolves a template definition.
func (r *Registry) Get(tid id.TemplateID) (Definition, error) {
	def, ok := r.byID[tid]
	if !ok {
		return Definition{}, dErrors.New(dErrors.CodeNotFound,
			fmt.Sprintf("template %q is not registered", tid))
	}
	return def, nil
}

// Table resolves the transition table governing a template's orders.
func (r *Registry) Table(tid id.TemplateID) (workflow.Table, error) {
	def, err := r.Get(tid)
	if err != nil {
		return workflow.Table{}, err
	}
	table, ok := workflow.TableByID(def.Table)
	if !ok {
		// NewRegistry verified the reference; reaching this is a bug.
		return workflow.Table{}, dErrors.New(dErrors.CodeInternal,
			fmt.Sprintf("template %q references unregistered table %q", tid, def.Table))
	}
	return table, nil
}

// List returns all definitions in stable (id-sorted) order for the portal's
// form renderer.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.byID))
	for _, def := range r.byID {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
