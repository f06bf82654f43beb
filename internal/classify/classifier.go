// Package classify maps free-text diagnostics onto knowledge categories by
// keyword containment.
//
// Matching is raw, case-sensitive substring containment with no word
// boundaries: a short keyword such as "i++" also fires inside unrelated text.
// Categories are independent of each other; the result is a set.
package classify

import (
	"strings"

	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/types"
)

type Classifier struct {
	registry *knowledge.Registry
}

func New(registry *knowledge.Registry) *Classifier {
	return &Classifier{registry: registry}
}

func (c *Classifier) Registry() *knowledge.Registry {
	return c.registry
}

// Classify returns every category with at least one keyword contained in the
// diagnostics. Texts that are empty or the sentinel are ignored; when none
// remain the scan is skipped.
func (c *Classifier) Classify(texts ...string) Result {
	text, ok := normalize(texts)
	if !ok {
		return Result{}
	}

	var matched []knowledge.Category
	for _, e := range c.registry.Entries() {
		if containsAny(text, e.Keywords) {
			matched = append(matched, e.ID)
		}
	}
	return NewResult(c.registry, matched...)
}

// Match is one category together with the keywords that fired for it.
type Match struct {
	Category knowledge.Category
	Keywords []string
}

// Matches is Classify with the triggering keywords of each category.
func (c *Classifier) Matches(texts ...string) []Match {
	text, ok := normalize(texts)
	if !ok {
		return nil
	}

	var matches []Match
	for _, e := range c.registry.Entries() {
		var fired []string
		for _, kw := range e.Keywords {
			if strings.Contains(text, kw) {
				fired = append(fired, kw)
			}
		}
		if len(fired) > 0 {
			matches = append(matches, Match{Category: e.ID, Keywords: fired})
		}
	}
	return matches
}

func normalize(texts []string) (string, bool) {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if types.IsSentinel(t) {
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " "), true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
