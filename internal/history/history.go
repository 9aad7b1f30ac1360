// Package history keeps the previously entered item names and preparation
// notes that drive autocomplete.
package history

import (
	"context"
	"strings"

	"github.com/idilsaglam/grocery/internal/store"
)

// Set is an append-only collection of strings deduplicated by exact
// equality. Values come back in first-insertion order.
type Set struct {
	entries []string
	seen    map[string]struct{}
}

// NewSet returns a set seeded with values (duplicates dropped).
func NewSet(values ...string) *Set {
	s := &Set{seen: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add records v. Blank values are ignored. Reports whether v was new.
func (s *Set) Add(v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.entries = append(s.entries, v)
	return true
}

// Contains reports whether v was recorded.
func (s *Set) Contains(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of distinct values.
func (s *Set) Len() int { return len(s.entries) }

// Values returns a copy of the entries in insertion order.
func (s *Set) Values() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

// Sets bundles the two histories persisted next to the saved lists.
type Sets struct {
	Items        *Set
	Preparations *Set
}

// NewSets returns empty histories.
func NewSets() *Sets {
	return &Sets{Items: NewSet(), Preparations: NewSet()}
}

// Clone returns an independent copy of both histories.
func (h *Sets) Clone() *Sets {
	return &Sets{Items: NewSet(h.Items.entries...), Preparations: NewSet(h.Preparations.entries...)}
}

// Record adds an item name and, when non-empty, its preparation.
// Reports whether anything new was recorded.
func (h *Sets) Record(name, preparation string) bool {
	added := h.Items.Add(name)
	if preparation != "" && h.Preparations.Add(preparation) {
		added = true
	}
	return added
}

// Load reads both histories. Missing keys yield empty sets.
func Load(ctx context.Context, s store.Store) (*Sets, error) {
	var items, preps []string
	if _, err := store.LoadJSON(ctx, s, store.KeyPreviousItems, &items); err != nil {
		return nil, err
	}
	if _, err := store.LoadJSON(ctx, s, store.KeyPreviousPreparations, &preps); err != nil {
		return nil, err
	}
	return &Sets{Items: NewSet(items...), Preparations: NewSet(preps...)}, nil
}

// Save writes both histories as JSON arrays.
func (h *Sets) Save(ctx context.Context, s store.Store) error {
	if err := store.SaveJSON(ctx, s, store.KeyPreviousItems, h.Items.Values()); err != nil {
		return err
	}
	return store.SaveJSON(ctx, s, store.KeyPreviousPreparations, h.Preparations.Values())
}
