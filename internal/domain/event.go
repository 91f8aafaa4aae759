package domain

import (
	"slices"
	"time"
)

// Raw column names shared across the CSV exports.
const (
	ColTimestamp          = "timestamp"
	ColZone               = "zone"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
	ColText               = "text"
	ColTemporalScore      = "temporal_score"
	ColDisaster           = "disaster"
	ColSeverity           = "severity"
	ColInfraLatitude      = "infra_latitude"
	ColInfraLongitude     = "infra_longitude"
	ColInfrastructureType = "infrastructure_type"
	ColName               = "name"
	ColPredictedImpact    = "predicted_impact"
)

// RawRow is one row of a raw table keyed by column name. A column missing
// from the map and an empty cell are treated the same.
type RawRow map[string]string

// RawTable is tabular input as handed over by the loading collaborator.
type RawTable struct {
	Columns []string
	Rows    []RawRow
}

// HasColumn reports whether the table header declares the named column.
func (t RawTable) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Record is a normalized event from any of the three datasets. Common fields
// are always populated; variant fields are set only for their own kind.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Date      Date      `json:"date"`
	Zone      Zone      `json:"zone"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	// Social reports.
	Text          string  `json:"text,omitempty"`
	TemporalScore float64 `json:"temporal_score,omitempty"`
	Label         string  `json:"label,omitempty"`

	// Sensor readings.
	Disaster string `json:"disaster,omitempty"`
	Severity string `json:"severity,omitempty"`

	// Facility records.
	InfrastructureType string `json:"infrastructure_type,omitempty"`
	Facility           string `json:"facility,omitempty"`
	Name               string `json:"name,omitempty"`
	PredictedImpact    string `json:"predicted_impact,omitempty"`
}

// Category returns the field the category filter applies to: label for
// social reports, disaster for sensor readings, facility for facilities.
func (r Record) Category() string {
	switch r.Kind {
	case KindSocial:
		return r.Label
	case KindSensor:
		return r.Disaster
	case KindFacility:
		return r.Facility
	default:
		return ""
	}
}

// Hover returns the display text shown for the record on the map.
func (r Record) Hover() string {
	switch r.Kind {
	case KindSocial:
		return r.Text
	case KindSensor:
		return r.Disaster
	case KindFacility:
		return r.Name
	default:
		return ""
	}
}

// Table is an immutable, ordered set of normalized records of one kind.
// The zero value is an empty table with no kind.
type Table struct {
	kind    Kind
	records []Record
	dropped int
}

// NewTable builds a table from already normalized records. The slice is
// copied, so later changes to it do not affect the table.
func NewTable(kind Kind, records []Record) Table {
	return Table{kind: kind, records: slices.Clone(records)}
}

// Kind returns the dataset the table holds.
func (t Table) Kind() Kind { return t.kind }

// Len returns the number of records.
func (t Table) Len() int { return len(t.records) }

// Dropped returns how many raw rows were discarded during normalization.
// Tables derived by filtering report zero.
func (t Table) Dropped() int { return t.dropped }

// Records returns a copy of the records in table order.
func (t Table) Records() []Record {
	return slices.Clone(t.records)
}

// Record returns the i-th record.
func (t Table) Record(i int) Record { return t.records[i] }

// DateRange returns the earliest and latest record dates. ok is false for an
// empty table.
func (t Table) DateRange() (first, last Date, ok bool) {
	for i, r := range t.records {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, len(t.records) > 0
}
