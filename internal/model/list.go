package model

import "time"

// UntitledName is the name of the default, never-saved draft.
const UntitledName = "Untitled List"

// List is a named, ordered collection of items. ID is zero only for a list
// that has never been given an identity.
type List struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Items     []Item     `json:"items"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Untitled returns the empty default list.
func Untitled() List {
	return List{Name: UntitledName, Items: []Item{}}
}

// HasID reports whether the list has been stamped with an identity.
func (l List) HasID() bool { return l.ID != 0 }

// Clone returns a copy that shares no memory with l. Every crossing between
// the draft and the saved lists goes through Clone.
func (l List) Clone() List {
	out := l
	out.Items = CloneItems(l.Items)
	out.CreatedAt = cloneTime(l.CreatedAt)
	out.UpdatedAt = cloneTime(l.UpdatedAt)
	return out
}

// CloneItems copies a slice of items. Item holds only value fields so a
// shallow element copy is a deep copy.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// CloneLists deep-copies every list in ls.
func CloneLists(ls []List) []List {
	out := make([]List, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}

// Stamp is a convenience for taking the address of a timestamp.
func Stamp(t time.Time) *time.Time { return &t }

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
