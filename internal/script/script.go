// Package script detects text written in scripts the PDF core fonts cannot
// draw and where letter case has no meaning.
package script

// Devanagari block bounds.
const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097F'
)

// IsDevanagari reports whether r falls in the Devanagari block.
func IsDevanagari(r rune) bool {
	return r >= devanagariFirst && r <= devanagariLast
}

// HasDevanagari reports whether any rune of s is Devanagari.
func HasDevanagari(s string) bool {
	for _, r := range s {
		if IsDevanagari(r) {
			return true
		}
	}
	return false
}

// AnyDevanagari reports whether any of the given strings contains Devanagari.
func AnyDevanagari(ss ...string) bool {
	for _, s := range ss {
		if HasDevanagari(s) {
			return true
		}
	}
	return false
}
