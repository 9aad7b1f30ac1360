// Package repository holds the saved grocery lists, newest first.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
)

// Outcome tells callers whether Save created or replaced a record.
type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "saved"
	case Updated:
		return "updated"
	}
	return "unknown"
}

// Repository is the ordered collection of saved lists. Records never leave
// or enter it without being cloned.
type Repository struct {
	lists []model.List
	store store.Store
	ids   *model.IDs
	now   func() time.Time
}

// Option tunes a Repository.
type Option func(*Repository)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDs shares an id generator with other components.
func WithIDs(ids *model.IDs) Option {
	return func(r *Repository) { r.ids = ids }
}

// New returns an empty repository flushing to s.
func New(s store.Store, opts ...Option) *Repository {
	r := &Repository{store: s, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	if r.ids == nil {
		r.ids = model.NewIDs(r.now)
	}
	return r
}

// Load replaces the in-memory records with the persisted ones.
func (r *Repository) Load(ctx context.Context) error {
	var lists []model.List
	if _, err := store.LoadJSON(ctx, r.store, store.KeySavedLists, &lists); err != nil {
		return err
	}
	for i := range lists {
		if lists[i].Items == nil {
			lists[i].Items = []model.Item{}
		}
		r.ids.Observe(lists[i].ID)
		for _, it := range lists[i].Items {
			r.ids.Observe(it.ID)
		}
	}
	r.lists = lists
	return nil
}

// Flush writes every record.
func (r *Repository) Flush(ctx context.Context) error {
	lists := r.lists
	if lists == nil {
		lists = []model.List{}
	}
	return store.SaveJSON(ctx, r.store, store.KeySavedLists, lists)
}

// Len returns the number of saved lists.
func (r *Repository) Len() int { return len(r.lists) }

// All returns copies of every record, newest first.
func (r *Repository) All() []model.List {
	return model.CloneLists(r.lists)
}

// Get returns a copy of the record with id.
func (r *Repository) Get(id int64) (model.List, error) {
	i := r.index(id)
	if i < 0 {
		return model.List{}, apperr.NotFound("list", id)
	}
	return r.lists[i].Clone(), nil
}

// Contains reports whether a record with id exists.
func (r *Repository) Contains(id int64) bool { return r.index(id) >= 0 }

// Save upserts a snapshot of draft. An existing record keeps its position;
// a new one goes to the front. The returned list is the stored snapshot
// (cloned) so callers can pick up the id and timestamps.
func (r *Repository) Save(ctx context.Context, draft model.List) (model.List, Outcome, error) {
	if len(draft.Items) == 0 {
		return model.List{}, 0, apperr.Invalid("items", "cannot save an empty list")
	}
	if strings.TrimSpace(draft.Name) == "" {
		return model.List{}, 0, apperr.Invalid("name", "must not be empty")
	}

	snap := draft.Clone()
	now := r.now()
	if !snap.HasID() {
		snap.ID = r.ids.Next()
	}
	if snap.CreatedAt == nil {
		snap.CreatedAt = model.Stamp(now)
	}
	snap.UpdatedAt = model.Stamp(now)

	prev := r.lists
	outcome := Inserted
	if i := r.index(snap.ID); i >= 0 {
		next := append([]model.List(nil), r.lists...)
		next[i] = snap
		r.lists = next
		outcome = Updated
	} else {
		r.lists = append([]model.List{snap}, r.lists...)
	}

	if err := r.Flush(ctx); err != nil {
		r.lists = prev
		return model.List{}, 0, err
	}
	return snap.Clone(), outcome, nil
}

// Duplicate copies record id under newName with a fresh id and timestamps,
// inserting the copy at the front.
func (r *Repository) Duplicate(ctx context.Context, id int64, newName string) (model.List, error) {
	i := r.index(id)
	if i < 0 {
		return model.List{}, apperr.NotFound("list", id)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.List{}, apperr.Invalid("name", "must not be empty")
	}

	now := r.now()
	dup := r.lists[i].Clone()
	dup.ID = r.ids.Next()
	dup.Name = newName
	dup.CreatedAt = model.Stamp(now)
	dup.UpdatedAt = model.Stamp(now)

	prev := r.lists
	r.lists = append([]model.List{dup}, r.lists...)
	if err := r.Flush(ctx); err != nil {
		r.lists = prev
		return model.List{}, err
	}
	return dup.Clone(), nil
}

// Rename changes the name of record id in place. Renaming to the current
// name is rejected.
func (r *Repository) Rename(ctx context.Context, id int64, newName string) (model.List, error) {
	i := r.index(id)
	if i < 0 {
		return model.List{}, apperr.NotFound("list", id)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.List{}, apperr.Invalid("name", "must not be empty")
	}
	if newName == r.lists[i].Name {
		return model.List{}, apperr.Invalid("name", "unchanged")
	}

	prev := r.lists[i]
	r.lists[i].Name = newName
	r.lists[i].UpdatedAt = model.Stamp(r.now())
	if err := r.Flush(ctx); err != nil {
		r.lists[i] = prev
		return model.List{}, err
	}
	return r.lists[i].Clone(), nil
}

// SyncName copies a name and update time from the draft into record id,
// without touching its items. Missing ids are ignored.
func (r *Repository) SyncName(ctx context.Context, id int64, name string, updatedAt *time.Time) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	prev := r.lists[i]
	r.lists[i].Name = name
	if updatedAt != nil {
		r.lists[i].UpdatedAt = model.Stamp(*updatedAt)
	}
	if err := r.Flush(ctx); err != nil {
		r.lists[i] = prev
		return false, err
	}
	return true, nil
}

// Delete removes record id. Deleting a missing id is a no-op and reports
// false.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	prev := r.lists
	next := make([]model.List, 0, len(r.lists)-1)
	next = append(next, r.lists[:i]...)
	next = append(next, r.lists[i+1:]...)
	r.lists = next
	if err := r.Flush(ctx); err != nil {
		r.lists = prev
		return false, err
	}
	return true, nil
}

func (r *Repository) index(id int64) int {
	if id == 0 {
		return -1
	}
	for i, l := range r.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}
