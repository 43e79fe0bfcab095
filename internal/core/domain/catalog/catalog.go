package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
	"exportflow/internal/pkg/errs"
)

// ErrCatalogIsInvalid is wrapped by every catalog validation failure.
var ErrCatalogIsInvalid = errors.New("catalog is invalid")

// Catalog is the validated, ordered set of milestone templates together with
// the required-document table. It is built once and never changes.
type Catalog struct {
	templates    []Template
	index        map[milestone.StepKey]int
	requirements Requirements
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	reqs, err := DefaultRequirements()
	if err != nil {
		panic(err)
	}
	c, err := New(defaultTemplates(), reqs)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the garment-export catalog compiled into the binary.
func Default() *Catalog {
	return defaultCatalog()
}

// New validates templates and requirements and builds a catalog.
//
// Checks:
//   - every template definition is valid and its key is unique
//   - predecessors and derived-from references name templates in the catalog
//   - the predecessor graph is acyclic, and so is the derived-from graph
//   - requirement keys name templates that require evidence
func New(templates []Template, requirements Requirements) (*Catalog, error) {
	c := &Catalog{
		templates:    make([]Template, 0, len(templates)),
		index:        make(map[milestone.StepKey]int, len(templates)),
		requirements: make(Requirements, len(requirements)),
	}

	var problems []error
	for _, t := range templates {
		if err := t.Definition.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("template %q: %w", t.Step, err))
			continue
		}
		if err := t.Offset.Anchor.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("template %q: %w", t.Step, err))
		}
		if _, dup := c.index[t.Step]; dup {
			problems = append(problems, fmt.Errorf("template %q is declared twice", t.Step))
			continue
		}
		c.index[t.Step] = len(c.templates)
		c.templates = append(c.templates, cloneTemplate(t))
	}

	for _, t := range c.templates {
		for _, p := range t.Predecessors {
			if p == t.Step {
				problems = append(problems, fmt.Errorf("template %q lists itself as predecessor", t.Step))
			} else if _, ok := c.index[p]; !ok {
				problems = append(problems, fmt.Errorf("template %q references unknown predecessor %q", t.Step, p))
			}
		}
		if t.Offset.DerivedFrom != nil {
			if _, ok := c.index[*t.Offset.DerivedFrom]; !ok {
				problems = append(problems, fmt.Errorf("template %q derives from unknown step %q", t.Step, *t.Offset.DerivedFrom))
			}
		}
	}

	if len(problems) == 0 {
		problems = append(problems,
			c.checkAcyclic("predecessor", func(t Template) []milestone.StepKey { return t.Predecessors }),
			c.checkAcyclic("derived-from", func(t Template) []milestone.StepKey {
				if t.Offset.DerivedFrom == nil {
					return nil
				}
				return []milestone.StepKey{*t.Offset.DerivedFrom}
			}),
		)
	}

	for step, docs := range requirements {
		i, ok := c.index[step]
		switch {
		case !ok:
			problems = append(problems, fmt.Errorf("requirements reference unknown step %q", step))
		case !c.templates[i].EvidenceRequired:
			problems = append(problems, fmt.Errorf("requirements list documents for %q, which requires no evidence", step))
		default:
			c.requirements[step] = slices.Clone(docs)
		}
	}

	if err := errors.Join(problems...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogIsInvalid, err)
	}
	return c, nil
}

// Templates returns every template in catalog order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = cloneTemplate(t)
	}
	return out
}

// Template looks up a template by key.
func (c *Catalog) Template(step milestone.StepKey) (Template, bool) {
	i, ok := c.index[step]
	if !ok {
		return Template{}, false
	}
	return cloneTemplate(c.templates[i]), true
}

// Position returns the catalog order of step, used to break ties. Unknown
// steps sort last.
func (c *Catalog) Position(step milestone.StepKey) int {
	if i, ok := c.index[step]; ok {
		return i
	}
	return len(c.templates)
}

// RequiredDocuments returns the document types needed to complete step.
// An empty result for an evidence-requiring step means any attachment counts.
func (c *Catalog) RequiredDocuments(step milestone.StepKey) []string {
	return slices.Clone(c.requirements[step])
}

// Requirements returns a copy of the whole document table.
func (c *Catalog) Requirements() Requirements {
	out := make(Requirements, len(c.requirements))
	for k, v := range c.requirements {
		out[k] = slices.Clone(v)
	}
	return out
}

// TemplatesFor returns the templates that apply to an order, in catalog
// order. Predecessors excluded for the order are dropped, so they never gate
// the remaining milestones.
//
// Example:
//
//	attrs := o.Attributes()          // RequiresPPSample == false
//	ts := catalog.Default().TemplatesFor(attrs)
//	// production_start now only waits for materials_received
func (c *Catalog) TemplatesFor(attrs order.Attributes) []Template {
	included := make(map[milestone.StepKey]bool, len(c.templates))
	for _, t := range c.templates {
		if t.AppliesTo(attrs) {
			included[t.Step] = true
		}
	}

	out := make([]Template, 0, len(included))
	for _, t := range c.templates {
		if !included[t.Step] {
			continue
		}
		t = cloneTemplate(t)
		t.Predecessors = slices.DeleteFunc(t.Predecessors, func(p milestone.StepKey) bool {
			return !included[p]
		})
		out = append(out, t)
	}
	return out
}

// checkAcyclic runs a depth-first search over the edges returned by deps and
// reports the first cycle found as "a -> b -> a".
func (c *Catalog) checkAcyclic(relation string, deps func(Template) []milestone.StepKey) error {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[milestone.StepKey]int, len(c.templates))
	var path []milestone.StepKey

	var visit func(step milestone.StepKey) error
	visit = func(step milestone.StepKey) error {
		switch state[step] {
		case done:
			return nil
		case onStack:
			start := slices.Index(path, step)
			cycle := append(slices.Clone(path[start:]), step)
			names := make([]string, len(cycle))
			for i, s := range cycle {
				names[i] = string(s)
			}
			return errs.NewValueIsInvalidErrorWithCause(relation+" graph",
				fmt.Errorf("cycle %s", strings.Join(names, " -> ")))
		}

		state[step] = onStack
		path = append(path, step)
		for _, next := range deps(c.templates[c.index[step]]) {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[step] = done
		return nil
	}

	for _, t := range c.templates {
		if err := visit(t.Step); err != nil {
			return err
		}
	}
	return nil
}

func cloneTemplate(t Template) Template {
	t.Predecessors = slices.Clone(t.Predecessors)
	if t.Offset.DerivedFrom != nil {
		t.Offset.DerivedFrom = derivedFrom(*t.Offset.DerivedFrom)
	}
	t.Offset.TradeTermLeads = maps.Clone(t.Offset.TradeTermLeads)
	return t
}
