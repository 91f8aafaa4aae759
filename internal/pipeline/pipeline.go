package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// ErrNotLoaded is reported by CheckReadiness until Run has built the store.
var ErrNotLoaded = errors.New("base tables have not been loaded yet")

// Source reads the raw table for one dataset.
type Source interface {
	Extract(ctx context.Context, kind domain.Kind) (domain.RawTable, error)
}

// BatchLoader writes normalized records to an export destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.Record) error
}

// Pipeline loads the three base tables once: extract, normalize, optionally
// export, then build the Store.
type Pipeline struct {
	source      Source
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
	maxAttempts int
	backoff     time.Duration
	maxBackoff  time.Duration
}

// New creates a Pipeline. Pass a nil loader to skip exporting.
func New(s Source, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Pipeline{
		source:      s,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
		maxAttempts: 5,
		backoff:     200 * time.Millisecond,
		maxBackoff:  5 * time.Second,
	}
}

// CheckReadiness returns nil once the store has been built.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return ErrNotLoaded
	}
	return nil
}

// Run loads every dataset and returns the resulting Store. Any extract or
// export failure aborts the load; malformed rows do not.
func (p *Pipeline) Run(ctx context.Context) (*domain.Store, error) {
	p.logger.Info("load started", "export", p.loader != nil)

	tables := make([]domain.Table, 0, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		table, err := p.loadTable(ctx, kind)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	store, err := domain.NewStore(tables...)
	if err != nil {
		return nil, err
	}

	p.ready.Store(true)
	p.metrics.StoreReady.Set(1)
	first, last := store.DateRange()
	p.logger.Info("load complete", "date_start", first, "date_end", last, "loaded_at", store.LoadedAt())
	return store, nil
}

func (p *Pipeline) loadTable(ctx context.Context, kind domain.Kind) (domain.Table, error) {
	raw, err := p.source.Extract(ctx, kind)
	if err != nil {
		return domain.Table{}, fmt.Errorf("extract %s: %w", kind, err)
	}

	table := domain.Normalize(raw, kind)
	p.metrics.RowsLoaded.WithLabelValues(kind.String()).Set(float64(table.Len()))
	p.metrics.RowsDropped.WithLabelValues(kind.String()).Add(float64(table.Dropped()))
	if table.Dropped() > 0 {
		p.logger.Warn("dropped rows with unparseable timestamps",
			"dataset", kind,
			"dropped", table.Dropped(),
		)
	}
	p.logger.Info("table loaded", "dataset", kind, "rows", table.Len())

	if p.loader != nil {
		if err := p.export(ctx, kind, table.Records()); err != nil {
			return domain.Table{}, fmt.Errorf("export %s: %w", kind, err)
		}
	}
	return table, nil
}

// export publishes records in batches, retrying each batch with
// exponential backoff: 200ms doubling per attempt, capped at 5s.
func (p *Pipeline) export(ctx context.Context, kind domain.Kind, records []domain.Record) error {
	for start := 0; start < len(records); start += p.batchSize {
		end := min(start+p.batchSize, len(records))
		if err := p.loadWithRetry(ctx, records[start:end]); err != nil {
			return err
		}
		p.metrics.RecordsExported.WithLabelValues(kind.String()).Add(float64(end - start))
	}
	return nil
}

func (p *Pipeline) loadWithRetry(ctx context.Context, batch []domain.Record) error {
	backoff := p.backoff
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err = p.loader.LoadBatch(ctx, batch); err == nil {
			return nil
		}
		p.metrics.ExportErrors.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "attempt", attempt)
		if attempt == p.maxAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, p.maxBackoff)
	}
	return fmt.Errorf("load batch after %d attempts: %w", p.maxAttempts, err)
}
