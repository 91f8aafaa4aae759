package domain

import (
	"strings"
)

// All is the filter value that disables a categorical restriction.
const All = "All"

// Filters is the set of user-selected restrictions for one view. Category
// and Zone equal to All (or empty) do not restrict. DateStart and DateEnd are
// inclusive bounds; a reversed range matches nothing.
type Filters struct {
	Category  string `json:"category"`
	Zone      string `json:"zone"`
	DateStart Date   `json:"date_start"`
	DateEnd   Date   `json:"date_end"`
}

// Predicate reports whether a record passes one restriction.
type Predicate func(Record) bool

// CategoryIs matches the dataset's category field. Sensor disasters compare
// case-insensitively; social labels and facility labels compare exactly.
// It returns nil when value does not restrict.
func CategoryIs(kind Kind, value string) Predicate {
	if !restricts(value) {
		return nil
	}
	value = strings.TrimSpace(value)
	if kind == KindSensor {
		return func(r Record) bool { return strings.EqualFold(r.Disaster, value) }
	}
	return func(r Record) bool { return r.Category() == value }
}

// ZoneIs matches records in the given zone. It returns nil when zone does not
// restrict.
func ZoneIs(zone string) Predicate {
	if !restricts(zone) {
		return nil
	}
	zone = strings.TrimSpace(zone)
	return func(r Record) bool { return string(r.Zone) == zone }
}

// DateWithin matches records whose date lies in [start, end].
func DateWithin(start, end Date) Predicate {
	return func(r Record) bool {
		return !r.Date.Before(start) && !r.Date.After(end)
	}
}

// Predicates expands f into the restrictions it imposes on a table of the
// given kind. Non-restricting options contribute nothing.
func (f Filters) Predicates(kind Kind) []Predicate {
	preds := make([]Predicate, 0, 3)
	for _, p := range []Predicate{
		CategoryIs(kind, f.Category),
		ZoneIs(f.Zone),
		DateWithin(f.DateStart, f.DateEnd),
	} {
		if p != nil {
			preds = append(preds, p)
		}
	}
	return preds
}

// Apply returns a new table holding the records of t that pass every
// predicate, in their original order. Nil predicates are ignored. t is not
// modified.
func Apply(t Table, preds ...Predicate) Table {
	out := Table{kind: t.kind, records: make([]Record, 0, len(t.records))}
	for _, r := range t.records {
		if matchesAll(r, preds) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// ApplyFilters applies f to t. See Filters for the semantics of each option.
func ApplyFilters(t Table, f Filters) Table {
	return Apply(t, f.Predicates(t.kind)...)
}

func matchesAll(r Record, preds []Predicate) bool {
	for _, p := range preds {
		if p != nil && !p(r) {
			return false
		}
	}
	return true
}

func restricts(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && value != All
}

// CategoryOptions lists the category filter choices offered for a dataset,
// excluding All.
func CategoryOptions(kind Kind) []string {
	switch kind {
	case KindSocial:
		return []string{LabelLikelyReal, LabelPossiblyFake}
	case KindSensor:
		return []string{"Flood", "Fire", "Earthquake", "Hurricane"}
	case KindFacility:
		return []string{FacilityHospital, FacilityShelter, FacilityFireStation}
	default:
		return nil
	}
}
