// Package attachment keeps the files a citizen attaches to an accident report and
// previews them through short-lived temporary copies.
package attachment

import (
	"fmt"
	"strings"
)

// Category is one of the attachment collections of a report.
type Category int

const (
	CategoryMedical Category = iota
	CategoryAdditional
	CategoryLegalNotice
	CategoryWitnessStatement
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMedical,
	CategoryAdditional,
	CategoryLegalNotice,
	CategoryWitnessStatement,
}

// String returns the wire name of the category.
func (c Category) String() string {
	switch c {
	case CategoryMedical:
		return "medical"
	case CategoryAdditional:
		return "additional"
	case CategoryLegalNotice:
		return "legal-notice"
	case CategoryWitnessStatement:
		return "witness-statement"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns the Polish heading shown above the collection.
func (c Category) Label() string {
	switch c {
	case CategoryMedical:
		return "Dokumentacja medyczna"
	case CategoryAdditional:
		return "Dodatkowe dokumenty"
	case CategoryLegalNotice:
		return "Zawiadomienie o wypadku"
	case CategoryWitnessStatement:
		return "Oświadczenia świadków"
	default:
		return c.String()
	}
}

// ParseCategory parses a category wire name.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medical":
		return CategoryMedical, nil
	case "additional":
		return CategoryAdditional, nil
	case "legal-notice":
		return CategoryLegalNotice, nil
	case "witness-statement":
		return CategoryWitnessStatement, nil
	default:
		return CategoryMedical, fmt.Errorf("invalid category: %s (valid: medical, additional, legal-notice, witness-statement)", s)
	}
}
