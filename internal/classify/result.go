package classify

import (
	"slices"

	"github.com/agusespa/javatutor/internal/knowledge"
)

// Result is a set of categories iterated in registry definition order.
type Result struct {
	categories []knowledge.Category
}

// NewResult builds a result from categories in any order, collapsing
// duplicates and sorting by the registry.
func NewResult(registry *knowledge.Registry, categories ...knowledge.Category) Result {
	var out []knowledge.Category
	for _, c := range categories {
		if !registry.Has(c) {
			panic("BUG: category '" + string(c) + "' is not part of the registry")
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b knowledge.Category) int {
		return registry.Position(a) - registry.Position(b)
	})
	return Result{categories: out}
}

// Categories returns the members in registry order.
func (r Result) Categories() []knowledge.Category {
	return slices.Clone(r.categories)
}

func (r Result) Contains(c knowledge.Category) bool {
	return slices.Contains(r.categories, c)
}

func (r Result) Len() int {
	return len(r.categories)
}

func (r Result) Empty() bool {
	return len(r.categories) == 0
}

// Strings returns the member ids.
func (r Result) Strings() []string {
	out := make([]string, len(r.categories))
	for i, c := range r.categories {
		out[i] = string(c)
	}
	return out
}
