package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/observability"
	"github.com/couchcryptid/crisis-data-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	tables map[domain.Kind]domain.RawTable
	err    error
}

func (m *mockSource) Extract(_ context.Context, kind domain.Kind) (domain.RawTable, error) {
	if m.err != nil {
		return domain.RawTable{}, m.err
	}
	return m.tables[kind], nil
}

type mockLoader struct {
	failures int
	calls    int
	loaded   []domain.Record
}

func (m *mockLoader) LoadBatch(_ context.Context, records []domain.Record) error {
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, records...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSource() *mockSource {
	return &mockSource{tables: map[domain.Kind]domain.RawTable{
		domain.KindSocial: {
			Columns: []string{"timestamp", "zone", "text", "temporal_score"},
			Rows: []domain.RawRow{
				{"timestamp": "2024-04-26 10:00:00", "text": "Zone A flooding", "temporal_score": "1"},
				{"timestamp": "garbage", "text": "dropped"},
			},
		},
		domain.KindSensor: {
			Columns: []string{"timestamp", "disaster", "severity"},
			Rows: []domain.RawRow{
				{"timestamp": "2024-04-25 10:00:00", "disaster": "Fire", "severity": "High"},
				{"timestamp": "2024-04-26 10:00:00", "disaster": "Flood", "severity": "Low"},
				{"timestamp": "2024-04-27 10:00:00", "disaster": "Flood", "severity": "Low"},
			},
		},
		domain.KindFacility: {
			Columns: []string{"timestamp", "zone", "infrastructure_type", "name"},
			Rows: []domain.RawRow{
				{"timestamp": "2024-04-28 10:00:00", "zone": "Zone D", "infrastructure_type": "shelter", "name": "Gym"},
			},
		},
	}}
}

// --- tests ---

func TestPipeline_Run_BuildsStore(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(newSource(), nil, discardLogger(), metrics, 10)

	require.ErrorIs(t, p.CheckReadiness(context.Background()), pipeline.ErrNotLoaded)

	store, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[domain.Kind]int{domain.KindSocial: 1, domain.KindSensor: 3, domain.KindFacility: 1}, store.Counts())
	first, last := store.DateRange()
	assert.Equal(t, "2024-04-25", first.String())
	assert.Equal(t, "2024-04-28", last.String())

	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RowsDropped.WithLabelValues("social")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsLoaded.WithLabelValues("sensor")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StoreReady), 0)
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	src := &mockSource{err: errors.New("file not found")}
	p := pipeline.New(src, nil, discardLogger(), observability.NewMetricsForTesting(), 10)

	_, err := p.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract")
	assert.Contains(t, err.Error(), "file not found")
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ExportsInBatches(t *testing.T) {
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(newSource(), ldr, discardLogger(), metrics, 2)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	// sensor 3 records -> 2 batches, facility 1, social 1.
	assert.Equal(t, 4, ldr.calls)
	assert.Len(t, ldr.loaded, 5)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsExported.WithLabelValues("sensor")), 0)
}

func TestPipeline_Run_RetriesFailedBatch(t *testing.T) {
	ldr := &mockLoader{failures: 1}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(newSource(), ldr, discardLogger(), metrics, 50)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, ldr.loaded, 5)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ExportErrors), 0)
}

func TestPipeline_Run_ExportStopsOnCancel(t *testing.T) {
	ldr := &mockLoader{failures: 100}
	p := pipeline.New(newSource(), ldr, discardLogger(), observability.NewMetricsForTesting(), 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, ldr.calls)
}
