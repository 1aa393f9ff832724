package storage_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/platform/models/modelstesting"
	"github.com/MichalMitros/market-tracker/internal/platform/storage"
	pgmodels "github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/market-tracker/internal/platform/storage/storagetesting"
	_ "github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB *sql.DB
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *PostgresTestSuite) TestIntegrationUpsertRecords() {
	storagetesting.CleanupData(s.T(), s.DB)

	tests := map[string]struct {
		stored      []pgmodels.ProductRecord
		discoveries []models.Discovery
		wantCreated int32
		wantUpdated int32
		want        []pgmodels.ProductRecord
	}{
		"new records": {
			discoveries: []models.Discovery{
				{ProductID: "P1", CategoryID: "c1", CategoryName: "Toys", DiscoveredAt: now},
				{ProductID: "P2", DiscoveredAt: now},
			},
			wantCreated: 2,
			want: []pgmodels.ProductRecord{
				{ProductID: "P1", CategoryID: "c1", CategoryName: "Toys", DiscoveredAt: now, Status: "pending", Priority: 4, Active: true},
				{ProductID: "P2", DiscoveredAt: now, Status: "pending", Priority: 4, Active: true},
			},
		},
		"rediscovery updates category only": {
			stored: []pgmodels.ProductRecord{
				{
					ProductID:     "P1",
					CategoryID:    "c1",
					CategoryName:  "Toys",
					DiscoveredAt:  now,
					LastAttemptAt: lo.ToPtr(now.Add(time.Hour)),
					Status:        "failed",
					Priority:      2,
					ErrorCount:    3,
					Active:        false,
					LastError:     lo.ToPtr("timeout"),
					UpdatedAt:     now,
				},
			},
			discoveries: []models.Discovery{
				{ProductID: "P1", CategoryID: "c2", DiscoveredAt: now.Add(24 * time.Hour)},
				{ProductID: "P3", CategoryID: "c2", CategoryName: "Games", DiscoveredAt: now},
			},
			wantCreated: 1,
			wantUpdated: 1,
			want: []pgmodels.ProductRecord{
				{
					ProductID:     "P1",
					CategoryID:    "c2",
					CategoryName:  "Toys",
					DiscoveredAt:  now,
					LastAttemptAt: lo.ToPtr(now.Add(time.Hour)),
					Status:        "failed",
					Priority:      2,
					ErrorCount:    3,
					Active:        false,
					LastError:     lo.ToPtr("timeout"),
				},
				{ProductID: "P3", CategoryID: "c2", CategoryName: "Games", DiscoveredAt: now, Status: "pending", Priority: 4, Active: true},
			},
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			defer storagetesting.CleanupData(s.T(), s.DB)

			storagetesting.InsertRecords(s.T(), s.DB, tt.stored...)

			created, updated, err := storage.NewPostgres(s.DB).UpsertRecords(context.TODO(), tt.discoveries, 4)

			s.Require().NoError(err, "shouldn't return any error")
			s.Equal(tt.wantCreated, created, "should return number of created records")
			s.Equal(tt.wantUpdated, updated, "should return number of updated records")
			assertRecords(s, tt.want, storagetesting.GetRecords(s.T(), s.DB))
		})
	}
}

func (s *PostgresTestSuite) TestIntegrationUpdateRecord() {
	storagetesting.CleanupData(s.T(), s.DB)
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	_, _, err := post.UpsertRecords(context.TODO(), []models.Discovery{{ProductID: "P1", DiscoveredAt: now}}, 5)
	s.Require().NoError(err, "shouldn't return any error")

	_, err = post.UpdateRecord(context.TODO(), "missing", func(*models.ProductRecord) error { return nil })
	s.Require().ErrorIs(err, platform.ErrNotFound, "should return not found error")

	_, err = post.UpdateRecord(context.TODO(), "P1", func(r *models.ProductRecord) error {
		r.Priority = 1
		return assert.AnError
	})
	s.Require().ErrorIs(err, assert.AnError, "should return update function error")

	// concurrent updates of the same record must not be lost
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := post.UpdateRecord(context.TODO(), "P1", func(r *models.ProductRecord) error {
				r.ErrorCount++
				r.Status = models.StatusFailed
				r.LastAttemptAt = lo.ToPtr(now)
				return nil
			})
			s.NoError(err, "shouldn't return any error")
		}()
	}
	wg.Wait()

	record, err := post.GetRecord(context.TODO(), "P1")
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(&models.ProductRecord{
		ProductID:     "P1",
		DiscoveredAt:  now,
		LastAttemptAt: lo.ToPtr(now),
		Status:        models.StatusFailed,
		Priority:      5,
		ErrorCount:    20,
		Active:        true,
	}, record, "should apply every update")
}

func (s *PostgresTestSuite) TestIntegrationListRecords() {
	storagetesting.CleanupData(s.T(), s.DB)
	defer storagetesting.CleanupData(s.T(), s.DB)

	storagetesting.InsertRecords(s.T(), s.DB,
		pgmodels.ProductRecord{ProductID: "P3", CategoryID: "c1", DiscoveredAt: now, Status: "pending", Priority: 5, Active: true, UpdatedAt: now},
		pgmodels.ProductRecord{ProductID: "P1", CategoryID: "c1", DiscoveredAt: now, Status: "skipped", Priority: 5, Active: true, UpdatedAt: now},
		pgmodels.ProductRecord{ProductID: "P2", CategoryID: "c2", DiscoveredAt: now, Status: "failed", Priority: 5, Active: true, UpdatedAt: now},
		pgmodels.ProductRecord{ProductID: "P4", CategoryID: "c1", DiscoveredAt: now, Status: "pending", Priority: 5, Active: false, UpdatedAt: now},
	)

	tests := map[string]struct {
		filter  models.RecordFilter
		wantIDs []string
	}{
		"active":               {wantIDs: []string{"P1", "P2", "P3"}},
		"including inactive":   {filter: models.RecordFilter{IncludeInactive: true}, wantIDs: []string{"P1", "P2", "P3", "P4"}},
		"category":             {filter: models.RecordFilter{CategoryID: "c1"}, wantIDs: []string{"P1", "P3"}},
		"statuses":             {filter: models.RecordFilter{Statuses: []models.Status{models.StatusFailed, models.StatusPending}}, wantIDs: []string{"P2", "P3"}},
		"no matching category": {filter: models.RecordFilter{CategoryID: "c9"}, wantIDs: []string{}},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			records, err := storage.NewPostgres(s.DB).ListRecords(context.TODO(), tt.filter)

			s.Require().NoError(err, "shouldn't return any error")
			s.Equal(tt.wantIDs, lo.Map(records, func(r models.ProductRecord, _ int) string { return r.ProductID }),
				"should return matching records ordered by id",
			)
		})
	}
}

func (s *PostgresTestSuite) TestIntegrationSnapshots() {
	storagetesting.CleanupData(s.T(), s.DB)
	defer storagetesting.CleanupData(s.T(), s.DB)

	post := storage.NewPostgres(s.DB)
	_, _, err := post.UpsertRecords(context.TODO(), []models.Discovery{
		{ProductID: "P1", CategoryID: "c1", DiscoveredAt: now},
		{ProductID: "P2", CategoryID: "c1", DiscoveredAt: now},
		{ProductID: "P3", CategoryID: "c2", DiscoveredAt: now},
	}, 5)
	s.Require().NoError(err, "shouldn't return any error")

	snapshots := []models.Snapshot{
		modelstesting.FakeSnapshot(func(sn *models.Snapshot) { sn.ProductID = "P1"; sn.CapturedAt = now.Add(time.Hour) }),
		modelstesting.FakeSnapshot(func(sn *models.Snapshot) { sn.ProductID = "P1"; sn.CapturedAt = now }),
		modelstesting.FakeSnapshot(func(sn *models.Snapshot) { sn.ProductID = "P1"; sn.CapturedAt = now }),
		modelstesting.FakeSnapshot(func(sn *models.Snapshot) { sn.ProductID = "P2"; sn.CapturedAt = now }),
		modelstesting.FakeSnapshot(func(sn *models.Snapshot) { sn.ProductID = "P3"; sn.CapturedAt = now }),
		modelstesting.FakeSnapshot(func(sn *models.Snapshot) {
			sn.ProductID = "P1"
			sn.CapturedAt = now
			sn.Kind = models.SnapshotDerived
		}),
	}
	for ix := range snapshots {
		s.Require().NoError(post.AppendSnapshot(context.TODO(), &snapshots[ix]), "shouldn't return any error")
		s.NotZero(snapshots[ix].ID, "should set snapshot ID")
	}

	history, err := post.History(context.TODO(), models.SnapshotQuery{ProductID: "P1", Kind: models.SnapshotRaw})
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(
		[]int64{snapshots[1].ID, snapshots[2].ID, snapshots[0].ID},
		lo.Map(history, func(sn models.Snapshot, _ int) int64 { return sn.ID }),
		"should order history by capture time and insertion",
	)
	s.InDelta(snapshots[1].Fields[models.FieldPrice], history[0].Fields[models.FieldPrice], 1e-9,
		"should store snapshot fields",
	)

	bounded, err := post.History(context.TODO(), models.SnapshotQuery{ProductID: "P1", To: lo.ToPtr(now)})
	s.Require().NoError(err, "shouldn't return any error")
	s.Len(bounded, 3, "should include snapshots captured exactly at upper bound")

	category, err := post.CategoryHistory(context.TODO(), "c1", models.SnapshotRaw, now)
	s.Require().NoError(err, "shouldn't return any error")
	s.Equal(
		[]int64{snapshots[1].ID, snapshots[2].ID, snapshots[3].ID},
		lo.Map(category, func(sn models.Snapshot, _ int) int64 { return sn.ID }),
		"should return category snapshots up to as of",
	)
}

func (s *PostgresTestSuite) TestIntegrationAppendCategoryMetrics() {
	storagetesting.CleanupData(s.T(), s.DB)
	defer storagetesting.CleanupData(s.T(), s.DB)

	metrics := models.CategoryMetrics{
		CategoryID:   "c1",
		CategoryName: "Toys",
		AsOf:         now,
		ProductCount: 2,
		AveragePrice: lo.ToPtr(12.5),
		TotalSales:   30,
		Sellers: []models.SellerMetrics{
			{Seller: "acme", ProductCount: 2, AveragePrice: lo.ToPtr(12.5), TotalSales: 30, MarketShare: lo.ToPtr(1.0)},
		},
	}

	later := metrics
	later.AsOf = now.Add(time.Hour)
	later.ProductCount = 3
	other := metrics
	other.CategoryID = "c2"
	postgres := storage.NewPostgres(s.DB)

	for _, m := range []*models.CategoryMetrics{&metrics, &other, &later} {
		s.Require().NoError(postgres.AppendCategoryMetrics(context.TODO(), m), "shouldn't return any error")
	}
	s.NotZero(metrics.ID, "should set metrics ID")

	stored, err := postgres.CategoryMetrics(context.TODO(), "c1")

	s.Require().NoError(err, "shouldn't return any error")
	s.Equal([]models.CategoryMetrics{metrics, later}, stored, "should return category metrics in insertion order")

	missing, err := postgres.CategoryMetrics(context.TODO(), "missing")

	s.Require().NoError(err, "shouldn't return any error")
	s.Empty(missing, "shouldn't return metrics of other categories")
}

// assertRecords compares records ignoring update timestamps.
func assertRecords(s *PostgresTestSuite, expected, actual []pgmodels.ProductRecord) {
	s.T().Helper()

	s.Require().Len(actual, len(expected), "incorrect number of records")

	for ix := range actual {
		actual[ix].UpdatedAt = time.Time{}
		actual[ix].DiscoveredAt = actual[ix].DiscoveredAt.UTC()
		if actual[ix].LastAttemptAt != nil {
			actual[ix].LastAttemptAt = lo.ToPtr(actual[ix].LastAttemptAt.UTC())
		}
		s.Equalf(expected[ix], actual[ix], "record at index %d has incorrect value", ix)
	}
}
