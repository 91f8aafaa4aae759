// Package csvsource reads the dataset CSV exports into raw tables.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
)

// Paths names the CSV file for each dataset.
type Paths struct {
	Social   string
	Sensor   string
	Facility string
}

func (p Paths) forKind(kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindSocial:
		return p.Social, nil
	case domain.KindSensor:
		return p.Sensor, nil
	case domain.KindFacility:
		return p.Facility, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownDataset, kind)
	}
}

// Source extracts raw tables from CSV files on disk.
// It implements pipeline.Source.
type Source struct {
	paths  Paths
	logger *slog.Logger
}

// New creates a Source reading the given files.
func New(paths Paths, logger *slog.Logger) *Source {
	return &Source{paths: paths, logger: logger}
}

func (s *Source) Extract(ctx context.Context, kind domain.Kind) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}
	path, err := s.paths.forKind(kind)
	if err != nil {
		return domain.RawTable{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s csv: %w", kind, err)
	}
	defer f.Close()

	table, err := ReadTable(f)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Debug("csv read", "dataset", kind, "path", path, "rows", len(table.Rows))
	return table, nil
}

// ReadTable parses CSV with a header row. Rows may be shorter or longer than
// the header; missing cells are absent from the row and extra cells are
// ignored. Header names are trimmed and a leading byte order mark is removed.
func ReadTable(r io.Reader) (domain.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, nil
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	table := domain.RawTable{Columns: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("read row: %w", err)
		}
		row := make(domain.RawRow, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
