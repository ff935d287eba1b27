// Package dataset holds the joined turnout table and the rules that build it.
//
// Two source tables feed a run: per-state turnout percentages and per-state
// voter ID law codes. [Join] left-joins the turnout rows onto the law rows by
// exact state name and maps every raw law code onto one of three display
// categories, so each turnout row survives with exactly one [Category].
//
// The resulting [Table] is built once and then only read; chart renderers
// consume it through [Table.Groups].
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is the display classification of a state's voter ID requirement.
type Category string

// The three law categories. NoID also stands in for states without a law row.
const (
	PhotoID    Category = "Photo ID"
	NonPhotoID Category = "Non-Photo ID"
	NoID       Category = "No ID"
)

// Categories lists every valid category.
var Categories = []Category{PhotoID, NonPhotoID, NoID}

// Raw law codes as they appear in the law table.
const (
	CodePhoto    = "photo"
	CodeNonPhoto = "nonphoto"
)

var lawCategories = map[string]Category{
	CodePhoto:    PhotoID,
	CodeNonPhoto: NonPhotoID,
	"":           NoID,
}

// Valid reports whether c is one of the three categories.
func (c Category) Valid() bool {
	switch c {
	case PhotoID, NonPhotoID, NoID:
		return true
	}
	return false
}

// TurnoutRecord is one row of the turnout table.
type TurnoutRecord struct {
	State   string
	Turnout float64 // fraction, nominally in [0, 1]
}

// LawRecord is one row of the law table. Law is empty for a blank cell.
type LawRecord struct {
	State string
	Law   string
}

// Record is one joined row.
type Record struct {
	State    string   `json:"state"`
	Turnout  float64  `json:"turnout"`
	Category Category `json:"law"`
}

// Group is the turnout distribution of one category.
type Group struct {
	Category Category
	States   []string
	Values   []float64
}

// Table is the result of [Join]. It must not be modified after construction.
type Table struct {
	Records []Record

	// Unrecognized lists raw law codes outside the known set, in first-seen
	// order. Rows carrying them were classified as NoID.
	Unrecognized []string
}

// ParsePercent parses a percentage string such as "58.3%" into a fraction.
// Surrounding whitespace and percent signs are ignored; a bare number is
// still read as a percentage. NaN, infinities and digit separators are
// rejected.
func ParsePercent(s string) (float64, error) {
	v := strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "%"))
	if v == "" {
		return 0, fmt.Errorf("parse percentage %q: empty value", s)
	}
	if strings.Contains(v, "_") {
		return 0, fmt.Errorf("parse percentage %q: invalid number", s)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse percentage %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse percentage %q: not a finite number", s)
	}
	return f / 100, nil
}

// MapLaw maps a raw law code onto its category. Codes are case-sensitive.
// An empty code is NoID. Any other unknown code is also NoID, with ok false.
func MapLaw(code string) (c Category, ok bool) {
	c, ok = lawCategories[code]
	if !ok {
		return NoID, false
	}
	return c, true
}

// Join left-joins turnout rows onto law rows by exact state name.
// Every turnout row yields exactly one record, in input order. States missing
// from laws get NoID. When laws repeats a state, the last row wins.
func Join(turnout []TurnoutRecord, laws []LawRecord) *Table {
	byState := make(map[string]string, len(laws))
	for _, l := range laws {
		byState[l.State] = l.Law
	}

	t := &Table{Records: make([]Record, len(turnout))}
	seen := make(map[string]bool)
	for i, r := range turnout {
		cat, ok := MapLaw(byState[r.State])
		if !ok {
			code := byState[r.State]
			if !seen[code] {
				seen[code] = true
				t.Unrecognized = append(t.Unrecognized, code)
			}
		}
		t.Records[i] = Record{State: r.State, Turnout: r.Turnout, Category: cat}
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Groups partitions the table by category. Groups appear in the order their
// category is first seen in the table, so every chart drawn from the same
// table shares one category order. Categories with no rows are omitted.
func (t *Table) Groups() []Group {
	index := make(map[Category]int)
	var groups []Group
	for _, r := range t.Records {
		i, ok := index[r.Category]
		if !ok {
			i = len(groups)
			index[r.Category] = i
			groups = append(groups, Group{Category: r.Category})
		}
		groups[i].States = append(groups[i].States, r.State)
		groups[i].Values = append(groups[i].Values, r.Turnout)
	}
	return groups
}

// Labels returns the category labels of groups in order.
func Labels(groups []Group) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = string(g.Category)
	}
	return labels
}
