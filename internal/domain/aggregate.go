package domain

import (
	"cmp"
	"maps"
	"slices"
)

// Count is the number of records carrying one category label.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary holds the scalar figures shown on summary cards.
type Summary struct {
	Total int `json:"total"`
	// CountsBy names the field Counts is grouped by: label, severity or
	// facility.
	CountsBy string  `json:"counts_by"`
	Counts   []Count `json:"counts"`
}

// CrossTab is a two-dimensional count table. Every row has a cell for every
// column; combinations that never occur hold 0.
type CrossTab struct {
	RowKey    string                    `json:"row_key"`
	ColumnKey string                    `json:"column_key"`
	Rows      []string                  `json:"rows"`
	Columns   []string                  `json:"columns"`
	Cells     map[string]map[string]int `json:"cells"`
}

// SummaryBundle is everything derived from one filtered table.
type SummaryBundle struct {
	Summary  Summary   `json:"summary"`
	CrossTab *CrossTab `json:"cross_tab,omitempty"`
}

// Summarize computes the summary figures for a filtered table:
//   - social: counts per label, both labels always present
//   - sensor: counts per severity, zone x severity cross-tab
//   - facility: counts per facility, facility x predicted_impact cross-tab
//
// Counts are ordered by count descending, ties broken by label. Cross-tab rows
// and columns are sorted. An empty table yields Total 0 and an empty cross-tab.
func Summarize(t Table) SummaryBundle {
	var b SummaryBundle
	b.Summary.Total = len(t.records)

	switch t.kind {
	case KindSocial:
		b.Summary.CountsBy = ColLabel
		b.Summary.Counts = countBy(t.records, func(r Record) string { return r.Label },
			LabelLikelyReal, LabelPossiblyFake)
	case KindSensor:
		b.Summary.CountsBy = ColSeverity
		b.Summary.Counts = countBy(t.records, func(r Record) string { return r.Severity })
		b.CrossTab = crossTabulate(t.records, ColZone, ColSeverity,
			func(r Record) string { return string(r.Zone) },
			func(r Record) string { return r.Severity })
	case KindFacility:
		b.Summary.CountsBy = ColFacility
		b.Summary.Counts = countBy(t.records, func(r Record) string { return r.Facility })
		b.CrossTab = crossTabulate(t.records, ColFacility, ColPredictedImpact,
			func(r Record) string { return r.Facility },
			func(r Record) string { return r.PredictedImpact })
	}
	return b
}

// Derived column names used as summary keys.
const (
	ColLabel    = "label"
	ColFacility = "facility"
)

// countBy tallies records by key. Labels listed in always are reported even
// when absent from the data.
func countBy(records []Record, key func(Record) string, always ...string) []Count {
	tally := make(map[string]int, len(always))
	for _, label := range always {
		tally[label] = 0
	}
	for _, r := range records {
		tally[key(r)]++
	}

	counts := make([]Count, 0, len(tally))
	for label, n := range tally {
		counts = append(counts, Count{Label: label, Count: n})
	}
	slices.SortFunc(counts, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return counts
}

func crossTabulate(records []Record, rowKey, colKey string, row, col func(Record) string) *CrossTab {
	ct := &CrossTab{
		RowKey:    rowKey,
		ColumnKey: colKey,
		Cells:     make(map[string]map[string]int),
	}

	columns := make(map[string]struct{})
	for _, r := range records {
		rv, cv := row(r), col(r)
		if ct.Cells[rv] == nil {
			ct.Cells[rv] = make(map[string]int)
		}
		ct.Cells[rv][cv]++
		columns[cv] = struct{}{}
	}

	ct.Rows = append([]string{}, slices.Sorted(maps.Keys(ct.Cells))...)
	ct.Columns = append([]string{}, slices.Sorted(maps.Keys(columns))...)
	for _, rv := range ct.Rows {
		for _, cv := range ct.Columns {
			if _, ok := ct.Cells[rv][cv]; !ok {
				ct.Cells[rv][cv] = 0
			}
		}
	}
	return ct
}

// Get returns the count for one cell, 0 when the row or column is absent.
func (c *CrossTab) Get(row, col string) int {
	if c == nil {
		return 0
	}
	return c.Cells[row][col]
}

// Total returns the sum of all cells.
func (c *CrossTab) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, cols := range c.Cells {
		for _, n := range cols {
			total += n
		}
	}
	return total
}
