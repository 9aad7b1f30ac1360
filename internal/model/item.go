package model

import (
	"fmt"
	"strings"
)

// Unit is the measure an item quantity is expressed in.
type Unit string

const (
	UnitKg     Unit = "kg"
	UnitG      Unit = "g"
	UnitL      Unit = "l"
	UnitML     Unit = "ml"
	UnitPcs    Unit = "pcs"
	UnitDozen  Unit = "dozen"
	UnitPacket Unit = "packet"
	UnitBunch  Unit = "bunch"
	UnitNag    Unit = "नग"
	UnitJudi   Unit = "जुडी"
)

// DefaultUnit is what the add form starts with.
const DefaultUnit = UnitKg

// Units lists every accepted unit in display order.
func Units() []Unit {
	return []Unit{UnitKg, UnitG, UnitL, UnitML, UnitPcs, UnitDozen, UnitPacket, UnitBunch, UnitNag, UnitJudi}
}

// ParseUnit matches s against the known units. Latin units match
// case-insensitively; an empty string yields def.
func ParseUnit(s string, def Unit) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	for _, u := range Units() {
		if strings.EqualFold(string(u), s) {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Item is a single line of a grocery list.
// Items are replaced whole, never patched field by field.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Unit        Unit   `json:"unit"`
	Preparation string `json:"preparation,omitempty"`
}

// PreparationOrDash is the display form used by tables and exports.
func (it Item) PreparationOrDash() string {
	if it.Preparation == "" {
		return "-"
	}
	return it.Preparation
}
