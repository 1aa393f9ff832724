package aggregation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/clock"
	"github.com/MichalMitros/market-tracker/internal/platform/metrics"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Store --filename store.go
//go:generate mockery --name Publisher --filename publisher.go

// Store provides records and snapshot history and keeps computed metrics.
type Store interface {
	GetRecord(ctx context.Context, productID string) (*models.ProductRecord, error)
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.ProductRecord, error)
	// History returns product snapshots ordered by capture time and insertion order.
	History(ctx context.Context, query models.SnapshotQuery) ([]models.Snapshot, error)
	// CategoryHistory returns snapshots of category products captured at or before asOf
	// ordered by product id, capture time and insertion order.
	CategoryHistory(
		ctx context.Context,
		categoryID string,
		kind models.SnapshotKind,
		asOf time.Time,
	) ([]models.Snapshot, error)
	AppendSnapshot(ctx context.Context, snapshot *models.Snapshot) error
	AppendCategoryMetrics(ctx context.Context, metrics *models.CategoryMetrics) error
}

// Publisher announces freshly computed product metrics.
type Publisher interface {
	PublishDerived(ctx context.Context, metrics *models.DerivedMetrics) error
}

// Report holds statistics of single aggregation pass.
type Report struct {
	Computed     int32
	Insufficient int32
	Failed       int32
	Categories   int32
}

// Option is custom configuration of Engine.
type Option func(e *Engine)

// Engine derives product and category metrics from raw snapshot history.
type Engine struct {
	store       Store
	cfg         Config
	publisher   Publisher
	parallelism int
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      *zerolog.Logger
}

// NewEngine returns new Engine.
func NewEngine(store Store, cfg Config, ops ...Option) *Engine {
	nop := zerolog.Nop()
	e := &Engine{
		store:       store,
		cfg:         cfg,
		parallelism: 4,
		clock:       clock.System{},
		logger:      &nop,
	}

	for _, op := range ops {
		op(e)
	}

	return e
}

// Recompute derives metrics of product from raw snapshots captured at or before asOf
// and stores them as derived snapshot captured at asOf. Zero asOf means now.
// Returns platform.ErrInsufficientData when product has no raw snapshots.
func (e *Engine) Recompute(ctx context.Context, productID string, asOf time.Time) (*models.DerivedMetrics, error) {
	if asOf.IsZero() {
		asOf = e.clock.Now()
	}

	record, err := e.store.GetRecord(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("can't get record %q: %w", productID, err)
	}

	history, err := e.store.History(ctx, models.SnapshotQuery{
		ProductID: productID,
		Kind:      models.SnapshotRaw,
		To:        &asOf,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get history of %q: %w", productID, err)
	}

	category, err := e.categorySeries(ctx, record.CategoryID, asOf)
	if err != nil {
		return nil, err
	}
	category[productID] = e.decodeSeries(history)

	return e.recompute(ctx, record, category, asOf)
}

// RecomputeCategory aggregates latest snapshot of every category product captured at or before asOf.
// Returns platform.ErrInsufficientData when no category product has raw snapshots.
func (e *Engine) RecomputeCategory(
	ctx context.Context,
	categoryID string,
	asOf time.Time,
) (*models.CategoryMetrics, error) {
	if asOf.IsZero() {
		asOf = e.clock.Now()
	}

	records, err := e.store.ListRecords(ctx, models.RecordFilter{CategoryID: categoryID, IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("can't list records of category %q: %w", categoryID, err)
	}

	category, err := e.categorySeries(ctx, categoryID, asOf)
	if err != nil {
		return nil, err
	}

	return e.recomputeCategory(ctx, categoryID, categoryName(records), category, asOf)
}

// RecomputeAll recomputes every product matching filter and aggregates of their categories.
// Category history is loaded once per category. Failures of single products don't stop the pass.
func (e *Engine) RecomputeAll(ctx context.Context, asOf time.Time, filter models.RecordFilter) (Report, error) {
	if asOf.IsZero() {
		asOf = e.clock.Now()
	}

	records, err := e.store.ListRecords(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("can't list records: %w", err)
	}

	computed := int32(0)
	insufficient := int32(0)
	failed := int32(0)
	categories := int32(0)

	byCategory := lo.GroupBy(records, func(r models.ProductRecord) string { return r.CategoryID })

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(max(e.parallelism, 1))

	for categoryID, categoryRecords := range byCategory {
		errGroup.Go(func() error {
			category, err := e.categorySeries(egCtx, categoryID, asOf)
			if err != nil {
				_ = atomic.AddInt32(&failed, int32(len(categoryRecords)))
				e.logger.Error().Err(err).Str("categoryId", categoryID).Msg("can't load category history")
				return nil
			}

			for ix := range categoryRecords {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}

				_, err := e.recompute(egCtx, &categoryRecords[ix], category, asOf)
				switch {
				case errors.Is(err, platform.ErrInsufficientData):
					_ = atomic.AddInt32(&insufficient, 1)
				case err != nil:
					_ = atomic.AddInt32(&failed, 1)
					e.logger.Warn().
						Err(err).
						Str("productId", categoryRecords[ix].ProductID).
						Msg("can't recompute product metrics")
				default:
					_ = atomic.AddInt32(&computed, 1)
				}
			}

			_, err = e.recomputeCategory(egCtx, categoryID, categoryName(categoryRecords), category, asOf)
			switch {
			case errors.Is(err, platform.ErrInsufficientData):
			case err != nil:
				e.logger.Warn().Err(err).Str("categoryId", categoryID).Msg("can't recompute category metrics")
			default:
				_ = atomic.AddInt32(&categories, 1)
			}

			return nil
		})
	}

	err = errGroup.Wait()

	report := Report{
		Computed:     computed,
		Insufficient: insufficient,
		Failed:       failed,
		Categories:   categories,
	}

	e.logger.Info().
		Time("asOf", asOf).
		Int32("computed", report.Computed).
		Int32("insufficient", report.Insufficient).
		Int32("failed", report.Failed).
		Int32("categories", report.Categories).
		Msg("aggregation pass finished")

	return report, err
}

func (e *Engine) recompute(
	ctx context.Context,
	record *models.ProductRecord,
	category map[string][]observation,
	asOf time.Time,
) (*models.DerivedMetrics, error) {
	series := category[record.ProductID]
	if len(series) == 0 {
		e.metrics.Aggregation("insufficient")
		return nil, fmt.Errorf("no snapshots of %q: %w", record.ProductID, platform.ErrInsufficientData)
	}

	peers := lo.FilterMap(lo.Values(category), func(s []observation, _ int) (observation, bool) {
		if len(s) == 0 {
			return observation{}, false
		}
		return s[len(s)-1], true
	})

	derived := derive(record, series, peers, asOf, e.cfg)

	err := e.store.AppendSnapshot(ctx, &models.Snapshot{
		ProductID:  record.ProductID,
		CapturedAt: asOf,
		Kind:       models.SnapshotDerived,
		Fields:     derived.Fields(),
	})
	if err != nil {
		e.metrics.Aggregation("failed")
		return nil, fmt.Errorf("can't store metrics of %q: %w", record.ProductID, err)
	}
	e.metrics.Aggregation("computed")

	if e.publisher != nil {
		if err := e.publisher.PublishDerived(ctx, derived); err != nil {
			e.logger.Warn().Err(err).Str("productId", record.ProductID).Msg("can't publish product metrics")
		}
	}

	return derived, nil
}

func (e *Engine) recomputeCategory(
	ctx context.Context,
	categoryID, name string,
	category map[string][]observation,
	asOf time.Time,
) (*models.CategoryMetrics, error) {
	latest := lo.FilterMap(lo.Keys(category), func(productID string, _ int) (observation, bool) {
		series := category[productID]
		if len(series) == 0 {
			return observation{}, false
		}
		return series[len(series)-1], true
	})
	if len(latest) == 0 {
		return nil, fmt.Errorf("no snapshots in category %q: %w", categoryID, platform.ErrInsufficientData)
	}

	result := categoryMetrics(categoryID, name, latest, asOf)
	if err := e.store.AppendCategoryMetrics(ctx, result); err != nil {
		return nil, fmt.Errorf("can't store metrics of category %q: %w", categoryID, err)
	}

	return result, nil
}

// categorySeries loads raw history of category grouped by product id.
func (e *Engine) categorySeries(ctx context.Context, categoryID string, asOf time.Time) (map[string][]observation, error) {
	history, err := e.store.CategoryHistory(ctx, categoryID, models.SnapshotRaw, asOf)
	if err != nil {
		return nil, fmt.Errorf("can't get history of category %q: %w", categoryID, err)
	}

	grouped := lo.GroupBy(history, func(s models.Snapshot) string { return s.ProductID })

	return lo.MapValues(grouped, func(snapshots []models.Snapshot, _ string) []observation {
		return e.decodeSeries(snapshots)
	}), nil
}

// decodeSeries decodes snapshots keeping their order. Undecodable snapshots are skipped.
func (e *Engine) decodeSeries(snapshots []models.Snapshot) []observation {
	series := make([]observation, 0, len(snapshots))
	for ix := range snapshots {
		obs, err := decodeObservation(&snapshots[ix])
		if err != nil {
			e.logger.Warn().Err(err).Str("productId", snapshots[ix].ProductID).Msg("skipping snapshot")
			continue
		}
		series = append(series, obs)
	}
	return series
}

func categoryName(records []models.ProductRecord) string {
	for _, record := range records {
		if record.CategoryName != "" {
			return record.CategoryName
		}
	}
	return ""
}

// WithPublisher sets Engine's metrics publisher.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithParallelism sets number of categories recomputed at once.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// WithClock sets Engine's custom Clock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithMetrics sets Engine's metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets Engine's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}
