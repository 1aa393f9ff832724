package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/registry"
	"github.com/samber/lo"
)

// Memory is in-process storage for product records, snapshots and category metrics.
// Record mutations are serialized per product id.
type Memory struct {
	mu              sync.RWMutex
	records         map[string]*models.ProductRecord
	locks           map[string]*sync.Mutex
	snapshots       []models.Snapshot
	categoryMetrics []models.CategoryMetrics
	lastSnapshotID  int64
	lastMetricsID   int64
}

// NewMemory returns new empty Memory.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]*models.ProductRecord),
		locks:   make(map[string]*sync.Mutex),
	}
}

// UpsertRecords inserts unseen records and updates non-empty category metadata of existing ones.
func (m *Memory) UpsertRecords(
	ctx context.Context,
	discoveries []models.Discovery,
	defaultPriority int,
) (int32, int32, error) {
	created, updated := int32(0), int32(0)

	for _, discovery := range discoveries {
		if err := ctx.Err(); err != nil {
			return created, updated, err
		}

		unlock := m.lock(discovery.ProductID)

		m.mu.Lock()
		if record, ok := m.records[discovery.ProductID]; ok {
			if discovery.CategoryID != "" {
				record.CategoryID = discovery.CategoryID
			}
			if discovery.CategoryName != "" {
				record.CategoryName = discovery.CategoryName
			}
			updated++
		} else {
			m.records[discovery.ProductID] = &models.ProductRecord{
				ProductID:    discovery.ProductID,
				CategoryID:   discovery.CategoryID,
				CategoryName: discovery.CategoryName,
				DiscoveredAt: discovery.DiscoveredAt,
				Status:       models.StatusPending,
				Priority:     defaultPriority,
				Active:       true,
			}
			created++
		}
		m.mu.Unlock()

		unlock()
	}

	return created, updated, nil
}

// GetRecord returns copy of stored record.
func (m *Memory) GetRecord(_ context.Context, productID string) (*models.ProductRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[productID]
	if !ok {
		return nil, platform.ErrNotFound
	}

	return copyRecord(record), nil
}

// ListRecords returns copies of records matching filter ordered by product id.
func (m *Memory) ListRecords(_ context.Context, filter models.RecordFilter) ([]models.ProductRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]models.ProductRecord, 0, len(m.records))
	for _, record := range m.records {
		if !filter.IncludeInactive && !record.Active {
			continue
		}
		if filter.CategoryID != "" && record.CategoryID != filter.CategoryID {
			continue
		}
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, record.Status) {
			continue
		}
		records = append(records, *copyRecord(record))
	}

	slices.SortFunc(records, func(a, b models.ProductRecord) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	return records, nil
}

// UpdateRecord applies fn to copy of record holding record's lock and stores the copy if fn succeeds.
func (m *Memory) UpdateRecord(
	ctx context.Context,
	productID string,
	fn registry.UpdateFunc,
) (*models.ProductRecord, error) {
	unlock := m.lock(productID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	stored, ok := m.records[productID]
	if ok {
		stored = copyRecord(stored)
	}
	m.mu.RUnlock()

	if !ok {
		return nil, platform.ErrNotFound
	}

	if err := fn(stored); err != nil {
		return nil, err
	}

	stored.ProductID = productID

	m.mu.Lock()
	discoveredAt := m.records[productID].DiscoveredAt
	stored.DiscoveredAt = discoveredAt
	m.records[productID] = copyRecord(stored)
	m.mu.Unlock()

	return stored, nil
}

// AppendSnapshot stores snapshot and sets its ID.
func (m *Memory) AppendSnapshot(_ context.Context, snapshot *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSnapshotID++
	snapshot.ID = m.lastSnapshotID

	stored := *snapshot
	stored.CapturedAt = stored.CapturedAt.UTC()
	stored.Fields = maps.Clone(snapshot.Fields)
	m.snapshots = append(m.snapshots, stored)

	return nil
}

// History returns product snapshots matching query ordered by capture time and insertion order.
func (m *Memory) History(_ context.Context, query models.SnapshotQuery) ([]models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := lo.Filter(m.snapshots, func(snapshot models.Snapshot, _ int) bool {
		return snapshot.ProductID == query.ProductID &&
			(query.Kind == "" || snapshot.Kind == query.Kind) &&
			(query.From == nil || !snapshot.CapturedAt.Before(*query.From)) &&
			(query.To == nil || !snapshot.CapturedAt.After(*query.To))
	})

	return sortSnapshots(copySnapshots(result)), nil
}

// CategoryHistory returns snapshots of all category products captured at or before asOf
// ordered by product id, capture time and insertion order.
func (m *Memory) CategoryHistory(
	_ context.Context,
	categoryID string,
	kind models.SnapshotKind,
	asOf time.Time,
) ([]models.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := lo.Filter(m.snapshots, func(snapshot models.Snapshot, _ int) bool {
		record, ok := m.records[snapshot.ProductID]
		return ok && record.CategoryID == categoryID &&
			snapshot.Kind == kind &&
			!snapshot.CapturedAt.After(asOf)
	})

	result = sortSnapshots(copySnapshots(result))
	slices.SortStableFunc(result, func(a, b models.Snapshot) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	return result, nil
}

// AppendCategoryMetrics stores category aggregate and sets its ID.
func (m *Memory) AppendCategoryMetrics(_ context.Context, metrics *models.CategoryMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastMetricsID++
	metrics.ID = m.lastMetricsID
	m.categoryMetrics = append(m.categoryMetrics, *metrics)

	return nil
}

// CategoryMetrics returns stored aggregates of category in insertion order.
func (m *Memory) CategoryMetrics(_ context.Context, categoryID string) ([]models.CategoryMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return lo.Filter(m.categoryMetrics, func(metrics models.CategoryMetrics, _ int) bool {
		return metrics.CategoryID == categoryID
	}), nil
}

// lock locks product id mutex and returns function unlocking it.
func (m *Memory) lock(productID string) func() {
	m.mu.Lock()
	idLock, ok := m.locks[productID]
	if !ok {
		idLock = &sync.Mutex{}
		m.locks[productID] = idLock
	}
	m.mu.Unlock()

	idLock.Lock()

	return idLock.Unlock
}

func copyRecord(record *models.ProductRecord) *models.ProductRecord {
	cp := *record
	if record.LastAttemptAt != nil {
		cp.LastAttemptAt = lo.ToPtr(*record.LastAttemptAt)
	}
	if record.LastError != nil {
		cp.LastError = lo.ToPtr(*record.LastError)
	}
	return &cp
}

func copySnapshots(snapshots []models.Snapshot) []models.Snapshot {
	return lo.Map(snapshots, func(snapshot models.Snapshot, _ int) models.Snapshot {
		snapshot.Fields = maps.Clone(snapshot.Fields)
		return snapshot
	})
}

func sortSnapshots(snapshots []models.Snapshot) []models.Snapshot {
	slices.SortFunc(snapshots, func(a, b models.Snapshot) int {
		return cmp.Or(a.CapturedAt.Compare(b.CapturedAt), cmp.Compare(a.ID, b.ID))
	})
	return snapshots
}
