package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Derived category labels.
const (
	LabelLikelyReal   = "Likely Real"
	LabelPossiblyFake = "Possibly Fake"

	FacilityHospital    = "Hospital"
	FacilityShelter     = "Shelter"
	FacilityFireStation = "Fire Station"

	// Unknown is the fallback for any categorical value that cannot be
	// resolved: zones, facility codes, severities and predicted impacts.
	Unknown = "Unknown"
)

// facilityCodes maps lower-cased infrastructure_type codes to display labels.
var facilityCodes = map[string]string{
	"fire_station": FacilityFireStation,
	"hospital":     FacilityHospital,
	"shelter":      FacilityShelter,
}

// zoneStrategy describes how a table's schema lets us resolve zones.
type zoneStrategy int

const (
	// zoneFromColumn uses the zone column, then the text field, then Unknown.
	zoneFromColumn zoneStrategy = iota
	// zoneFromText is used when the export has no zone column at all.
	zoneFromText
)

// schema is the per-table layout detected once before any row is read.
type schema struct {
	kind      Kind
	zone      zoneStrategy
	textField string // column searched for "Zone X"; empty disables extraction
	latField  string
	lonField  string
}

func detectSchema(raw RawTable, kind Kind) schema {
	s := schema{kind: kind, latField: ColLatitude, lonField: ColLongitude}
	switch kind {
	case KindSocial:
		s.textField = ColText
	case KindSensor:
		s.textField = ColDisaster
	case KindFacility:
		s.latField = ColInfraLatitude
		s.lonField = ColInfraLongitude
	}
	if !raw.HasColumn(ColZone) {
		s.zone = zoneFromText
	}
	return s
}

// Normalize converts a raw table of the given kind into a normalized Table.
// Rows whose timestamp cannot be parsed are dropped and counted; every other
// malformed field degrades to a default. The input is not modified.
//
// Normalize never fails. An invalid kind yields an empty table with every row
// counted as dropped.
func Normalize(raw RawTable, kind Kind) Table {
	t := Table{kind: kind}
	if !kind.Valid() {
		t.dropped = len(raw.Rows)
		return t
	}

	s := detectSchema(raw, kind)
	t.records = make([]Record, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		rec, ok := s.normalizeRow(row)
		if !ok {
			t.dropped++
			continue
		}
		t.records = append(t.records, rec)
	}
	return t
}

func (s schema) normalizeRow(row RawRow) (Record, bool) {
	ts, ok := parseTimestamp(row[ColTimestamp])
	if !ok {
		return Record{}, false
	}

	rec := Record{
		Kind:      s.kind,
		Timestamp: ts,
		Date:      DateOf(ts),
		Latitude:  parseFloatOrZero(row[s.latField]),
		Longitude: parseFloatOrZero(row[s.lonField]),
	}
	rec.Zone = s.resolveZone(row)

	switch s.kind {
	case KindSocial:
		rec.Text = row[ColText]
		rec.TemporalScore = parseFloatOrZero(row[ColTemporalScore])
		rec.Label = deriveLabel(rec.TemporalScore)
	case KindSensor:
		rec.Disaster = strings.TrimSpace(row[ColDisaster])
		rec.Severity = valueOrUnknown(row[ColSeverity])
	case KindFacility:
		rec.InfrastructureType = strings.TrimSpace(row[ColInfrastructureType])
		rec.Facility = deriveFacility(rec.InfrastructureType)
		rec.Name = strings.TrimSpace(row[ColName])
		rec.PredictedImpact = valueOrUnknown(row[ColPredictedImpact])
	}

	rec.ID = generateID(rec)
	return rec, true
}

func (s schema) resolveZone(row RawRow) Zone {
	if s.zone == zoneFromColumn {
		if z, ok := ParseZone(row[ColZone]); ok {
			return z
		}
	}
	if s.textField != "" {
		if z, ok := ExtractZone(row[s.textField]); ok {
			return z
		}
	}
	return ZoneUnknown
}

// parseTimestamp accepts RFC 3339 first, then any layout dateparse detects.
// Naive timestamps are interpreted as UTC wall-clock time. dateparse leaves
// the year at 0 for inputs like "April 26"; those are rejected. A bare year
// such as "2024" parses as January 1 of that year.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}
	return t, true
}

// parseFloatOrZero parses a string as float64, returning 0 on failure or for
// non-finite values.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// deriveLabel maps a temporal consistency score to a credibility label.
func deriveLabel(score float64) string {
	if score == 1 {
		return LabelLikelyReal
	}
	return LabelPossiblyFake
}

// deriveFacility maps an infrastructure_type code to a display label,
// ignoring case. Unmapped codes become Unknown.
func deriveFacility(code string) string {
	if label, ok := facilityCodes[strings.ToLower(strings.TrimSpace(code))]; ok {
		return label
	}
	return Unknown
}

func valueOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return Unknown
	}
	return s
}

// isMissing reports whether a cell holds no value. Exports produced by
// dataframe tooling write NaN or null for empty cells.
func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "nat", "null", "none":
		return true
	default:
		return false
	}
}

// generateID produces a deterministic ID from the record's identifying fields
// so that re-normalizing or re-exporting the same row yields the same ID.
func generateID(r Record) string {
	input := fmt.Sprintf("%s|%s|%.6f|%.6f|%s|%s",
		r.Kind, r.Timestamp.UTC().Format(time.RFC3339Nano), r.Latitude, r.Longitude, r.Category(), r.Hover())
	hash := sha256.Sum256([]byte(input))
	return string(r.Kind) + "-" + hex.EncodeToString(hash[:8])
}

// Raw re-expresses the table in its dataset's raw column layout. Normalizing
// the result with the same kind reproduces the table.
func (t Table) Raw() RawTable {
	raw := RawTable{Columns: rawColumns(t.kind), Rows: make([]RawRow, 0, len(t.records))}
	for _, r := range t.records {
		row := RawRow{
			ColTimestamp: r.Timestamp.Format(time.RFC3339Nano),
			ColZone:      string(r.Zone),
		}
		lat := strconv.FormatFloat(r.Latitude, 'g', -1, 64)
		lon := strconv.FormatFloat(r.Longitude, 'g', -1, 64)
		switch t.kind {
		case KindSocial:
			row[ColLatitude], row[ColLongitude] = lat, lon
			row[ColText] = r.Text
			row[ColTemporalScore] = strconv.FormatFloat(r.TemporalScore, 'g', -1, 64)
		case KindSensor:
			row[ColLatitude], row[ColLongitude] = lat, lon
			row[ColDisaster] = r.Disaster
			row[ColSeverity] = r.Severity
		case KindFacility:
			row[ColInfraLatitude], row[ColInfraLongitude] = lat, lon
			row[ColInfrastructureType] = r.InfrastructureType
			row[ColName] = r.Name
			row[ColPredictedImpact] = r.PredictedImpact
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw
}

func rawColumns(kind Kind) []string {
	switch kind {
	case KindSocial:
		return []string{ColTimestamp, ColZone, ColLatitude, ColLongitude, ColText, ColTemporalScore}
	case KindSensor:
		return []string{ColTimestamp, ColZone, ColLatitude, ColLongitude, ColDisaster, ColSeverity}
	case KindFacility:
		return []string{ColTimestamp, ColZone, ColInfraLatitude, ColInfraLongitude, ColInfrastructureType, ColName, ColPredictedImpact}
	default:
		return nil
	}
}
