package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/clock"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Store --filename store.go

// UpdateFunc mutates record in place. Returned error aborts the update.
type UpdateFunc func(record *models.ProductRecord) error

// Store is durable product records storage.
type Store interface {
	// UpsertRecords inserts unseen records and updates category metadata of existing ones.
	// Returns number of created and updated records.
	UpsertRecords(
		ctx context.Context,
		discoveries []models.Discovery,
		defaultPriority int,
	) (created int32, updated int32, err error)
	// GetRecord returns record by product id or platform.ErrNotFound.
	GetRecord(ctx context.Context, productID string) (*models.ProductRecord, error)
	// ListRecords returns records matching filter ordered by product id.
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.ProductRecord, error)
	// UpdateRecord applies fn to record while no other writer can modify it and stores the result.
	UpdateRecord(ctx context.Context, productID string, fn UpdateFunc) (*models.ProductRecord, error)
}

// Option is custom configuration of Registry.
type Option func(r *Registry)

// Registry keeps track of every discovered product id.
type Registry struct {
	store           Store
	defaultPriority int
	clock           clock.Clock
	logger          *zerolog.Logger
}

// NewRegistry returns new Registry.
func NewRegistry(store Store, ops ...Option) *Registry {
	nop := zerolog.Nop()
	reg := &Registry{
		store:           store,
		defaultPriority: models.DefaultPriority,
		clock:           clock.System{},
		logger:          &nop,
	}

	for _, op := range ops {
		op(reg)
	}

	return reg
}

// Upsert registers single discovered product id. Returns true when new record was created.
func (r *Registry) Upsert(ctx context.Context, discovery models.Discovery) (bool, error) {
	created, _, err := r.UpsertBatch(ctx, []models.Discovery{discovery})
	if err != nil {
		return false, err
	}

	return created == 1, nil
}

// UpsertBatch registers discovered product ids.
// Status, priority and error count of existing records are never touched.
func (r *Registry) UpsertBatch(ctx context.Context, discoveries []models.Discovery) (int32, int32, error) {
	if !models.ValidPriority(r.defaultPriority) {
		return 0, 0, fmt.Errorf("can't assign default priority %d: %w", r.defaultPriority, platform.ErrInvalidPriority)
	}

	normalized := make([]models.Discovery, 0, len(discoveries))
	positions := make(map[string]int, len(discoveries))

	for _, discovery := range discoveries {
		discovery, err := r.normalize(discovery)
		if err != nil {
			return 0, 0, err
		}

		// later duplicates override earlier ones within a batch
		if ix, ok := positions[discovery.ProductID]; ok {
			normalized[ix] = mergeDiscovery(normalized[ix], discovery)
			continue
		}
		positions[discovery.ProductID] = len(normalized)
		normalized = append(normalized, discovery)
	}

	if len(normalized) == 0 {
		return 0, 0, nil
	}

	created, updated, err := r.store.UpsertRecords(ctx, normalized, r.defaultPriority)
	if err != nil {
		return 0, 0, fmt.Errorf("can't upsert records: %w", err)
	}

	return created, updated, nil
}

// Get returns record by product id.
func (r *Registry) Get(ctx context.Context, productID string) (*models.ProductRecord, error) {
	record, err := r.store.GetRecord(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("can't get record %q: %w", productID, err)
	}

	return record, nil
}

// ListActive returns active records matching filter.
// Skipped records are left out unless filter asks for them explicitly.
func (r *Registry) ListActive(ctx context.Context, filter models.RecordFilter) ([]models.ProductRecord, error) {
	filter.IncludeInactive = false
	if len(filter.Statuses) == 0 {
		filter.Statuses = []models.Status{models.StatusPending, models.StatusScraped, models.StatusFailed}
	}

	return r.List(ctx, filter)
}

// List returns records matching filter.
func (r *Registry) List(ctx context.Context, filter models.RecordFilter) ([]models.ProductRecord, error) {
	records, err := r.store.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("can't list records: %w", err)
	}

	return records, nil
}

// Update applies fn to a single record under per-record serialization.
func (r *Registry) Update(ctx context.Context, productID string, fn UpdateFunc) (*models.ProductRecord, error) {
	return r.store.UpdateRecord(ctx, productID, fn)
}

// Deactivate excludes record from scheduling. Status is kept.
func (r *Registry) Deactivate(ctx context.Context, productID string) (*models.ProductRecord, error) {
	record, err := r.store.UpdateRecord(ctx, productID, func(record *models.ProductRecord) error {
		record.Active = false
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't deactivate record %q: %w", productID, err)
	}

	r.logger.Info().
		Str("productId", productID).
		Msg("record deactivated")

	return record, nil
}

// Reactivate brings record back to scheduling.
// Skipped record starts over as pending with cleared error count.
func (r *Registry) Reactivate(ctx context.Context, productID string) (*models.ProductRecord, error) {
	record, err := r.store.UpdateRecord(ctx, productID, func(record *models.ProductRecord) error {
		record.Active = true
		if record.Status == models.StatusSkipped {
			record.Status = models.StatusPending
			record.ErrorCount = 0
			record.LastError = nil
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't reactivate record %q: %w", productID, err)
	}

	r.logger.Info().
		Str("productId", productID).
		Str("status", string(record.Status)).
		Msg("record reactivated")

	return record, nil
}

// SetPriority overrides record priority.
func (r *Registry) SetPriority(ctx context.Context, productID string, priority int) (*models.ProductRecord, error) {
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("can't set priority %d: %w", priority, platform.ErrInvalidPriority)
	}

	record, err := r.store.UpdateRecord(ctx, productID, func(record *models.ProductRecord) error {
		record.Priority = priority
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can't set priority of record %q: %w", productID, err)
	}

	return record, nil
}

// BoostCategory raises priority of active pending records in category by amount.
// Returns number of boosted records.
func (r *Registry) BoostCategory(ctx context.Context, categoryID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}

	records, err := r.store.ListRecords(ctx, models.RecordFilter{
		CategoryID: categoryID,
		Statuses:   []models.Status{models.StatusPending},
	})
	if err != nil {
		return 0, fmt.Errorf("can't list category records: %w", err)
	}

	boosted := 0
	for ix := range records {
		if records[ix].Priority == models.MinPriority {
			continue
		}

		changed := false
		_, err := r.store.UpdateRecord(ctx, records[ix].ProductID, func(record *models.ProductRecord) error {
			// status could change since listing
			if !record.Active || record.Status != models.StatusPending || record.Priority == models.MinPriority {
				return nil
			}
			record.Priority = max(record.Priority-amount, models.MinPriority)
			changed = true
			return nil
		})
		if err != nil {
			return boosted, fmt.Errorf("can't boost record %q: %w", records[ix].ProductID, err)
		}
		if changed {
			boosted++
		}
	}

	r.logger.Info().
		Str("categoryId", categoryID).
		Int("amount", amount).
		Int("boosted", boosted).
		Msg("category priority boosted")

	return boosted, nil
}

func (r *Registry) normalize(discovery models.Discovery) (models.Discovery, error) {
	discovery.ProductID = strings.TrimSpace(discovery.ProductID)
	discovery.CategoryID = strings.TrimSpace(discovery.CategoryID)
	discovery.CategoryName = strings.TrimSpace(discovery.CategoryName)

	if discovery.ProductID == "" {
		return discovery, fmt.Errorf("empty product id: %w", platform.ErrInvalidRecord)
	}

	if discovery.DiscoveredAt.IsZero() {
		discovery.DiscoveredAt = r.clock.Now()
	}
	discovery.DiscoveredAt = discovery.DiscoveredAt.UTC()

	return discovery, nil
}

func mergeDiscovery(previous, next models.Discovery) models.Discovery {
	return models.Discovery{
		ProductID:    previous.ProductID,
		CategoryID:   lo.Ternary(next.CategoryID != "", next.CategoryID, previous.CategoryID),
		CategoryName: lo.Ternary(next.CategoryName != "", next.CategoryName, previous.CategoryName),
		DiscoveredAt: lo.Ternary(next.DiscoveredAt.Before(previous.DiscoveredAt), next.DiscoveredAt, previous.DiscoveredAt),
	}
}

// WithDefaultPriority sets priority of newly created records.
// Upserts fail with platform.ErrInvalidPriority when priority is out of range.
func WithDefaultPriority(priority int) Option {
	return func(r *Registry) {
		r.defaultPriority = priority
	}
}

// WithClock sets Registry's custom Clock.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		r.clock = c
	}
}

// WithLogger sets Registry's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}
