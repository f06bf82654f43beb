// Package knowledge holds the static error taxonomy: every category with its
// trigger keywords and the explanation shown to the student.
package knowledge

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/agusespa/javatutor/internal/types"
)

//go:embed data/*.yaml
var tables embed.FS

//go:embed samples/*
var samples embed.FS

// Category identifies one class of recognised mistake.
type Category string

// Entry binds a category to its keywords and explanation.
type Entry struct {
	ID       Category `yaml:"id"`
	Name     string   `yaml:"name"`
	Title    string   `yaml:"title"`
	Keywords []string `yaml:"keywords"`
	Body     string   `yaml:"body"`
}

// Messages are shown when no category matched.
type Messages struct {
	// Clean is used when the diagnostics reported nothing.
	Clean string `yaml:"clean"`
	// Unmatched is used when the diagnostics had content but no keyword fired.
	Unmatched string `yaml:"unmatched"`
	// Passed heads the diagnosis section of a clean report. Optional.
	Passed string `yaml:"passed"`
}

type table struct {
	Variant    types.Variant `yaml:"variant"`
	Messages   Messages      `yaml:"messages"`
	Categories []Entry       `yaml:"categories"`
}

// Registry is the read-only, ordered set of categories of one variant.
type Registry struct {
	variant  types.Variant
	messages Messages
	entries  []Entry
	index    map[Category]int
}

// Load returns the built-in registry of v.
func Load(v types.Variant) (*Registry, error) {
	data, err := tables.ReadFile("data/" + string(v) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no knowledge table for variant %s: %w", v, err)
	}
	return Parse(data)
}

// MustLoad is Load for the built-in tables, which are validated by tests.
func MustLoad(v types.Variant) *Registry {
	r, err := Load(v)
	if err != nil {
		panic(err)
	}
	return r
}

// Sample returns the demo submission of v, which contains several of the
// variant's categorised mistakes.
func Sample(v types.Variant) string {
	data, err := samples.ReadFile("samples/" + string(v) + ".java")
	if err != nil {
		return ""
	}
	return string(data)
}

// Parse builds a registry from a YAML table.
func Parse(data []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge table: %w", err)
	}
	return New(t.Variant, t.Messages, t.Categories)
}

// New validates entries and builds a registry keeping their order.
func New(v types.Variant, messages Messages, entries []Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge table for %s has no categories", v)
	}

	r := &Registry{
		variant:  v,
		messages: messages,
		entries:  make([]Entry, 0, len(entries)),
		index:    make(map[Category]int, len(entries)),
	}

	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("category %q has no id", e.Name)
		}
		if _, dup := r.index[e.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %s", e.ID)
		}
		if e.Title == "" {
			return nil, fmt.Errorf("category %s has no title", e.ID)
		}
		if len(e.Keywords) == 0 {
			return nil, fmt.Errorf("category %s has no keywords", e.ID)
		}
		for _, kw := range e.Keywords {
			if kw == "" {
				return nil, fmt.Errorf("category %s has an empty keyword", e.ID)
			}
		}

		e.Keywords = append([]string(nil), e.Keywords...)
		r.index[e.ID] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

func (r *Registry) Variant() types.Variant {
	return r.variant
}

func (r *Registry) Messages() Messages {
	return r.messages
}

// Entries returns the categories in definition order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		e.Keywords = append([]string(nil), e.Keywords...)
		entries[i] = e
	}
	return entries
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Lookup returns the entry of c. The classifier only produces ids taken from
// the same table, so a miss is a bug.
func (r *Registry) Lookup(c Category) Entry {
	i, ok := r.index[c]
	if !ok {
		panic(fmt.Sprintf("BUG: category '%s' not found in %s knowledge registry", c, r.variant))
	}
	return r.entries[i]
}

func (r *Registry) Has(c Category) bool {
	_, ok := r.index[c]
	return ok
}

// Position returns the definition index of c, or -1.
func (r *Registry) Position(c Category) int {
	i, ok := r.index[c]
	if !ok {
		return -1
	}
	return i
}
