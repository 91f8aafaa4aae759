// Package view assembles filtered map/summary views over the base tables.
package view

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/observability"
)

// TableSource supplies base tables. *domain.Store implements it.
type TableSource interface {
	Table(kind domain.Kind) (domain.Table, error)
	DateRange() (first, last domain.Date)
}

// Builder builds one view per request.
type Builder interface {
	BuildView(kind domain.Kind, f domain.Filters) (Bundle, error)
}

// Marker is one point for the map layer.
type Marker struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hover     string  `json:"hover"`
	// Group is the value markers are coloured by: label, disaster or facility.
	Group string `json:"group"`
}

// Bundle is the complete response to one filtered query.
type Bundle struct {
	Dataset  domain.Kind      `json:"dataset"`
	Filters  domain.Filters   `json:"filters"`
	Records  []domain.Record  `json:"records"`
	Markers  []Marker         `json:"markers"`
	Summary  domain.Summary   `json:"summary"`
	CrossTab *domain.CrossTab `json:"cross_tab,omitempty"`
}

// Assembler runs filter and summarize against a TableSource. It holds no
// mutable state, so one Assembler serves concurrent requests.
type Assembler struct {
	tables  TableSource
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAssembler creates an Assembler over the given tables.
func NewAssembler(tables TableSource, logger *slog.Logger, metrics *observability.Metrics) *Assembler {
	return &Assembler{tables: tables, logger: logger, metrics: metrics}
}

// BuildView selects the base table for kind, applies f and summarizes the
// result. Zero date bounds are replaced by the earliest and latest dates across
// all tables. An unknown kind returns an error wrapping
// domain.ErrUnknownDataset; there is no fallback dataset.
func (a *Assembler) BuildView(kind domain.Kind, f domain.Filters) (Bundle, error) {
	start := time.Now()

	base, err := a.tables.Table(kind)
	if err != nil {
		a.metrics.ViewErrors.Inc()
		return Bundle{}, err
	}

	f = a.withDefaultDates(f)
	filtered := domain.ApplyFilters(base, f)
	summary := domain.Summarize(filtered)

	records := filtered.Records()
	bundle := Bundle{
		Dataset:  kind,
		Filters:  f,
		Records:  records,
		Markers:  markersFor(records),
		Summary:  summary.Summary,
		CrossTab: summary.CrossTab,
	}

	a.metrics.ViewsBuilt.WithLabelValues(kind.String()).Inc()
	a.metrics.ViewRecords.WithLabelValues(kind.String()).Observe(float64(len(records)))
	a.metrics.ViewBuildDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	a.logger.Debug("view built",
		"dataset", kind,
		"category", f.Category,
		"zone", f.Zone,
		"date_start", f.DateStart,
		"date_end", f.DateEnd,
		"records", len(records),
	)
	return bundle, nil
}

func (a *Assembler) withDefaultDates(f domain.Filters) domain.Filters {
	if !f.DateStart.IsZero() && !f.DateEnd.IsZero() {
		return f
	}
	first, last := a.tables.DateRange()
	if f.DateStart.IsZero() {
		f.DateStart = first
	}
	if f.DateEnd.IsZero() {
		f.DateEnd = last
	}
	return f
}

func markersFor(records []domain.Record) []Marker {
	markers := make([]Marker, len(records))
	for i, r := range records {
		markers[i] = Marker{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Hover:     r.Hover(),
			Group:     r.Category(),
		}
	}
	return markers
}
