// Package draft is the single working list the user edits before saving.
package draft

import (
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/model"
)

// ItemInput is what the add form carries. Quantity is kept as text because
// anything that is not a positive integer falls back to 1.
type ItemInput struct {
	Name        string
	Quantity    string
	Unit        string
	Preparation string
}

// InputOf turns an item back into form values.
func InputOf(it model.Item) ItemInput {
	return ItemInput{
		Name:        it.Name,
		Quantity:    strconv.Itoa(it.Quantity),
		Unit:        string(it.Unit),
		Preparation: it.Preparation,
	}
}

// Editor owns the draft list. Reads hand out clones.
type Editor struct {
	list        model.List
	ids         *model.IDs
	now         func() time.Time
	defaultUnit model.Unit
}

// Option tunes an Editor.
type Option func(*Editor)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(e *Editor) { e.now = now } }

// WithIDs shares an id generator.
func WithIDs(ids *model.IDs) Option { return func(e *Editor) { e.ids = ids } }

// WithDefaultUnit sets the unit used when the form leaves it blank.
func WithDefaultUnit(u model.Unit) Option { return func(e *Editor) { e.defaultUnit = u } }

// New returns an editor holding the untitled default list.
func New(opts ...Option) *Editor {
	e := &Editor{list: model.Untitled(), now: time.Now, defaultUnit: model.DefaultUnit}
	for _, o := range opts {
		o(e)
	}
	if e.ids == nil {
		e.ids = model.NewIDs(e.now)
	}
	return e
}

// Current returns a copy of the draft.
func (e *Editor) Current() model.List { return e.list.Clone() }

// ID returns the draft id (zero when untitled).
func (e *Editor) ID() int64 { return e.list.ID }

// Name returns the draft name.
func (e *Editor) Name() string { return e.list.Name }

// Len returns the number of items.
func (e *Editor) Len() int { return len(e.list.Items) }

// NewList replaces the draft with a fresh, stamped, empty list.
func (e *Editor) NewList(name string) (model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.List{}, apperr.Invalid("name", "please enter a name for your list")
	}
	now := e.now()
	e.list = model.List{
		ID:        e.ids.Next(),
		Name:      name,
		Items:     []model.Item{},
		CreatedAt: model.Stamp(now),
		UpdatedAt: model.Stamp(now),
	}
	return e.list.Clone(), nil
}

// AddItem appends a new item built from in.
func (e *Editor) AddItem(in ItemInput) (model.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Item{}, apperr.Invalid("name", "please enter an ingredient name")
	}
	unit, err := model.ParseUnit(in.Unit, e.defaultUnit)
	if err != nil {
		return model.Item{}, apperr.Invalid("unit", err.Error())
	}
	it := model.Item{
		ID:          e.ids.Next(),
		Name:        name,
		Quantity:    ParseQuantity(in.Quantity),
		Unit:        unit,
		Preparation: strings.TrimSpace(in.Preparation),
	}
	e.list.Items = append(e.list.Items, it)
	return it, nil
}

// ParseQuantity reads a positive integer, defaulting to 1.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// RemoveItem deletes item id, keeping the order of the rest. Reports
// whether anything was removed.
func (e *Editor) RemoveItem(id int64) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	items := make([]model.Item, 0, len(e.list.Items)-1)
	items = append(items, e.list.Items[:i]...)
	items = append(items, e.list.Items[i+1:]...)
	e.list.Items = items
	return true
}

// EditItem removes item id and returns its values so they can be put back
// into the form. The change is committed only by a later AddItem; if the
// caller never re-adds, the item stays removed.
func (e *Editor) EditItem(id int64) (ItemInput, bool) {
	i := e.index(id)
	if i < 0 {
		return ItemInput{}, false
	}
	in := InputOf(e.list.Items[i])
	e.RemoveItem(id)
	return in, true
}

// Clear empties the items, keeping name, id and timestamps. Reports false
// when there was nothing to clear.
func (e *Editor) Clear() bool {
	if len(e.list.Items) == 0 {
		return false
	}
	e.list.Items = []model.Item{}
	return true
}

// Close discards the draft and returns to the untitled default.
func (e *Editor) Close() {
	e.list = model.Untitled()
}

// Rename sets a new name and bumps the update time.
func (e *Editor) Rename(newName string) (model.List, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.List{}, apperr.Invalid("name", "must not be empty")
	}
	if newName == e.list.Name {
		return model.List{}, apperr.Invalid("name", "unchanged")
	}
	e.list.Name = newName
	e.list.UpdatedAt = model.Stamp(e.now())
	return e.list.Clone(), nil
}

// SetName mirrors a rename that happened on the saved record.
func (e *Editor) SetName(name string) {
	e.list.Name = name
}

// Load replaces the draft with a copy of l.
func (e *Editor) Load(l model.List) {
	e.list = l.Clone()
	if e.list.Items == nil {
		e.list.Items = []model.Item{}
	}
	e.ids.Observe(e.list.ID)
	for _, it := range e.list.Items {
		e.ids.Observe(it.ID)
	}
}

// Adopt records the id and timestamps a save assigned, without touching
// the items.
func (e *Editor) Adopt(saved model.List) {
	e.list.ID = saved.ID
	e.list.CreatedAt = model.Stamp(*saved.CreatedAt)
	e.list.UpdatedAt = model.Stamp(*saved.UpdatedAt)
}

func (e *Editor) index(id int64) int {
	for i, it := range e.list.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
