package export

import (
	"strings"
	"time"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/script"
)

// Footer is printed at the bottom of every export.
const Footer = "Generated by Grocery List Manager"

// Document is the immutable snapshot an export renders. A page chunk
// carries a slice of the items; First is the zero-based position of its
// first item in the whole list and Total the size of the whole list.
type Document struct {
	Title     string
	Items     []model.Item
	Created   time.Time
	Generated time.Time
	First     int
	Total     int
}

// NewDocument snapshots l. Created falls back to now for lists that carry
// no creation time.
func NewDocument(l model.List, now time.Time) Document {
	created := now
	if l.CreatedAt != nil {
		created = *l.CreatedAt
	}
	return Document{
		Title:     l.Name,
		Items:     model.CloneItems(l.Items),
		Created:   created,
		Generated: now,
		Total:     len(l.Items),
	}
}

// ItemCount is the number of items in the whole list, not just this chunk.
func (d Document) ItemCount() int {
	if d.Total > 0 {
		return d.Total
	}
	return len(d.Items)
}

// Chunks splits d into documents of at most n items each.
func (d Document) Chunks(n int) []Document {
	if n <= 0 || len(d.Items) <= n {
		return []Document{d}
	}
	out := make([]Document, 0, (len(d.Items)+n-1)/n)
	for start := 0; start < len(d.Items); start += n {
		c := d
		c.Items = d.Items[start:min(start+n, len(d.Items))]
		c.First = d.First + start
		c.Total = d.ItemCount()
		out = append(out, c)
	}
	return out
}

// HasNonLatinScript reports whether the title or any item field contains
// Devanagari.
func (d Document) HasNonLatinScript() bool {
	if script.HasDevanagari(d.Title) {
		return true
	}
	for _, it := range d.Items {
		if script.AnyDevanagari(it.Name, string(it.Unit), it.Preparation) {
			return true
		}
	}
	return false
}

// CreatedLabel is the date shown in headers.
func (d Document) CreatedLabel() string { return d.Created.Format("02 Jan 2006") }

// Artifact is one rendered output file.
type Artifact struct {
	FileName  string
	MediaType string
	Strategy  string
	Data      []byte
}

const (
	mediaPDF  = "application/pdf"
	mediaHTML = "text/html; charset=utf-8"
)

// FileName builds Grocery_List_<sanitized name>.<ext>.
func FileName(listName, ext string) string {
	return "Grocery_List_" + SanitizeName(listName) + "." + ext
}

// SanitizeName replaces every character outside [A-Za-z0-9] with an
// underscore. Runs are not collapsed. The mapping is per rune, so a
// character outside the Basic Multilingual Plane (an emoji, say) becomes
// one underscore where a UTF-16 based sanitizer would emit two.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
