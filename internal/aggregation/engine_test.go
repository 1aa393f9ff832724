package aggregation_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/MichalMitros/market-tracker/internal/aggregation"
	"github.com/MichalMitros/market-tracker/internal/aggregation/mocks"
	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/clock"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/platform/storage/memory"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type seededSnapshot struct {
	productID string
	at        time.Time
	fields    models.Fields
}

func seed(t *testing.T, mem *memory.Memory, discoveries []models.Discovery, snapshots ...seededSnapshot) {
	t.Helper()

	_, _, err := mem.UpsertRecords(context.TODO(), discoveries, models.DefaultPriority)
	require.NoError(t, err, "can't seed records")

	for _, s := range snapshots {
		err := mem.AppendSnapshot(context.TODO(), &models.Snapshot{
			ProductID:  s.productID,
			CapturedAt: s.at,
			Kind:       models.SnapshotRaw,
			Fields:     s.fields,
		})
		require.NoError(t, err, "can't seed snapshot")
	}
}

func TestUnitRecompute(t *testing.T) {
	mem := memory.NewMemory()
	seed(t, mem,
		[]models.Discovery{
			{ProductID: "P1", CategoryID: "c1", CategoryName: "Halloween decorations", DiscoveredAt: now},
			{ProductID: "P2", CategoryID: "c1", DiscoveredAt: now},
			{ProductID: "P3", CategoryID: "c1", DiscoveredAt: now},
		},
		seededSnapshot{"P1", now.Add(-48 * time.Hour), models.Fields{"price": 10.0, "sales": 100, "rating": 4.0}},
		seededSnapshot{"P1", now.Add(-24 * time.Hour), models.Fields{"price": 20.0, "sales": 200, "rating": 5.0}},
		seededSnapshot{"P1", now, models.Fields{"price": 15.0, "sales": 300, "rating": 4.5, "review_count": 10}},
		seededSnapshot{"P1", now.Add(time.Hour), models.Fields{"price": 1000.0}},
		seededSnapshot{"P2", now, models.Fields{"price": 30.0, "sales": 50, "rating": 3.0, "review_count": 5}},
	)
	engine := aggregation.NewEngine(mem, aggregation.DefaultConfig())

	t.Run("series", func(t *testing.T) {
		got, err := engine.Recompute(context.TODO(), "P1", now)
		require.NoError(t, err, "shouldn't return any error")

		assert.Equal(t, 3, got.Observations, "should ignore snapshots after as of")
		require.NotNil(t, got.PriceVolatility, "should compute volatility")
		assert.InDelta(t, math.Sqrt(50.0/3)/15, *got.PriceVolatility, 1e-9, "should compute coefficient of variation")
		require.NotNil(t, got.SalesVelocity, "should compute sales velocity")
		assert.InDelta(t, 100, *got.SalesVelocity, 1e-9, "should compute sales per day")
		require.NotNil(t, got.TrendScore, "should compute trend score")
		assert.True(t, *got.TrendScore > 0.5 && *got.TrendScore <= 1, "growing sales should score above neutral")
		require.NotNil(t, got.MarginScore, "should compute margin score")
		assert.InDelta(t, 1.0, *got.MarginScore, 1e-9, "should outscore only peer on every criterion")
		assert.InDelta(t, 50, *got.PriceChangePct, 1e-9, "should compute price change")
		assert.Equal(t, []string{"halloween"}, got.SeasonalTags, "should tag by category name")
		assert.Empty(t, got.Insufficient, "shouldn't miss any metric")

		derived, err := mem.History(context.TODO(), models.SnapshotQuery{ProductID: "P1", Kind: models.SnapshotDerived})
		require.NoError(t, err, "shouldn't return any error")
		require.Len(t, derived, 1, "should store derived snapshot")
		assert.Equal(t, now, derived[0].CapturedAt, "should capture derived snapshot at as of")
		assert.Equal(t, got.Fields(), derived[0].Fields, "should store derived fields")
	})

	t.Run("single observation", func(t *testing.T) {
		got, err := engine.Recompute(context.TODO(), "P2", now)
		require.NoError(t, err, "shouldn't return any error")

		assert.Equal(t, 1, got.Observations, "should count observation")
		assert.Nil(t, got.PriceVolatility, "volatility should be absent, not zero")
		assert.Nil(t, got.TrendScore, "trend should be absent")
		assert.Contains(t, got.Insufficient, models.FieldPriceVolatility, "should report missing volatility")
		assert.NotContains(t, got.Fields(), models.FieldPriceVolatility, "shouldn't store missing volatility")
	})

	t.Run("no observations", func(t *testing.T) {
		got, err := engine.Recompute(context.TODO(), "P3", now)

		assert.ErrorIs(t, err, platform.ErrInsufficientData, "should report insufficient data")
		assert.Nil(t, got, "shouldn't return metrics")

		derived, err := mem.History(context.TODO(), models.SnapshotQuery{ProductID: "P3"})
		require.NoError(t, err, "shouldn't return any error")
		assert.Empty(t, derived, "shouldn't store derived snapshot")
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := engine.Recompute(context.TODO(), "missing", now)

		assert.ErrorIs(t, err, platform.ErrNotFound, "should return not found error")
	})
}

func TestUnitRecomputeCategory(t *testing.T) {
	mem := memory.NewMemory()
	seed(t, mem,
		[]models.Discovery{
			{ProductID: "P1", CategoryID: "c1", CategoryName: "Toys", DiscoveredAt: now},
			{ProductID: "P2", CategoryID: "c1", DiscoveredAt: now},
			{ProductID: "P3", CategoryID: "c2", DiscoveredAt: now},
		},
		seededSnapshot{"P1", now.Add(-time.Hour), models.Fields{"price": 10.0, "sales": 5, "seller": "acme"}},
		seededSnapshot{"P1", now, models.Fields{"price": 20.0, "sales": 7, "seller": "acme"}},
		seededSnapshot{"P2", now.Add(-time.Hour), models.Fields{"price": 30.0, "sales": 3, "seller": "zeta"}},
		seededSnapshot{"P3", now, models.Fields{"price": 99.0, "sales": 99, "seller": "acme"}},
	)
	engine := aggregation.NewEngine(mem, aggregation.DefaultConfig())

	got, err := engine.RecomputeCategory(context.TODO(), "c1", now)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "Toys", got.CategoryName, "should use category name")
	assert.Equal(t, 2, got.ProductCount, "should count every product once")
	assert.InDelta(t, 25, *got.AveragePrice, 1e-9, "should use latest snapshot of every product")
	assert.InDelta(t, 10, got.TotalSales, 1e-9, "shouldn't double count sales")
	assert.Nil(t, got.AverageRating, "should report missing rating")
	require.Len(t, got.Sellers, 2, "should aggregate sellers")
	assert.Equal(t, "acme", got.Sellers[0].Seller, "should order sellers by sales")
	assert.InDelta(t, 0.7, *got.Sellers[0].MarketShare, 1e-9, "should compute market share")

	stored, err := mem.CategoryMetrics(context.TODO(), "c1")
	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, []models.CategoryMetrics{*got}, stored, "should store category metrics")

	_, err = engine.RecomputeCategory(context.TODO(), "c1", now.Add(-2*time.Hour))
	assert.ErrorIs(t, err, platform.ErrInsufficientData, "should report empty category")
}

func TestUnitRecomputeAll(t *testing.T) {
	mem := memory.NewMemory()
	seed(t, mem,
		[]models.Discovery{
			{ProductID: "P1", CategoryID: "c1", DiscoveredAt: now},
			{ProductID: "P2", CategoryID: "c1", DiscoveredAt: now},
			{ProductID: "P3", CategoryID: "c2", DiscoveredAt: now},
			{ProductID: "P4", CategoryID: "c3", DiscoveredAt: now},
		},
		seededSnapshot{"P1", now.Add(-time.Hour), models.Fields{"price": 10.0}},
		seededSnapshot{"P1", now, models.Fields{"price": 12.0}},
		seededSnapshot{"P2", now, models.Fields{"price": 30.0}},
		seededSnapshot{"P3", now, models.Fields{"price": 5.0}},
	)
	publisher := mocks.NewPublisher(t)
	publisher.On("PublishDerived", mock.Anything, mock.MatchedBy(func(m *models.DerivedMetrics) bool {
		return m.ProductID == "P1" || m.ProductID == "P2"
	})).Return(nil).Twice()
	publisher.On("PublishDerived", mock.Anything, mock.MatchedBy(func(m *models.DerivedMetrics) bool {
		return m.ProductID == "P3"
	})).Return(assert.AnError).Once()

	engine := aggregation.NewEngine(mem, aggregation.DefaultConfig(),
		aggregation.WithPublisher(publisher),
		aggregation.WithParallelism(2),
		aggregation.WithClock(clock.Fixed(now)),
	)

	report, err := engine.RecomputeAll(context.TODO(), time.Time{}, models.RecordFilter{})

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, aggregation.Report{Computed: 3, Insufficient: 1, Categories: 2}, report,
		"should recompute every product and category",
	)

	for _, productID := range []string{"P1", "P2", "P3"} {
		derived, err := mem.History(context.TODO(), models.SnapshotQuery{
			ProductID: productID,
			Kind:      models.SnapshotDerived,
			From:      lo.ToPtr(now),
		})
		require.NoError(t, err, "shouldn't return any error")
		assert.Lenf(t, derived, 1, "should store derived snapshot of %s", productID)
	}
}

func TestUnitRecomputeAllIsolatesFailures(t *testing.T) {
	records := []models.ProductRecord{
		{ProductID: "P1", CategoryID: "c1", Active: true},
		{ProductID: "P2", CategoryID: "c1", Active: true},
		{ProductID: "P3", CategoryID: "c2", Active: true},
	}
	store := mocks.NewStore(t)
	store.On("ListRecords", mock.Anything, models.RecordFilter{}).Return(records, nil).Once()
	store.On("CategoryHistory", mock.Anything, "c1", models.SnapshotRaw, now).Return([]models.Snapshot{
		{ID: 1, ProductID: "P1", CapturedAt: now, Kind: models.SnapshotRaw, Fields: models.Fields{"price": 1.0}},
		{ID: 2, ProductID: "P2", CapturedAt: now, Kind: models.SnapshotRaw, Fields: models.Fields{"price": 2.0}},
	}, nil).Once()
	store.On("CategoryHistory", mock.Anything, "c2", models.SnapshotRaw, now).Return(nil, assert.AnError).Once()
	store.On("AppendSnapshot", mock.Anything, mock.MatchedBy(func(s *models.Snapshot) bool {
		return s.ProductID == "P1"
	})).Return(assert.AnError).Once()
	store.On("AppendSnapshot", mock.Anything, mock.MatchedBy(func(s *models.Snapshot) bool {
		return s.ProductID == "P2" && s.Kind == models.SnapshotDerived && s.CapturedAt.Equal(now)
	})).Return(nil).Once()
	store.On("AppendCategoryMetrics", mock.Anything, mock.MatchedBy(func(m *models.CategoryMetrics) bool {
		return m.CategoryID == "c1" && m.ProductCount == 2
	})).Return(nil).Once()

	report, err := aggregation.NewEngine(store, aggregation.DefaultConfig()).
		RecomputeAll(context.TODO(), now, models.RecordFilter{})

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, aggregation.Report{Computed: 1, Failed: 2, Categories: 1}, report,
		"should count failures without stopping the pass",
	)
}

func TestUnitRecomputeAllListError(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("ListRecords", mock.Anything, models.RecordFilter{}).Return(nil, assert.AnError).Once()

	_, err := aggregation.NewEngine(store, aggregation.DefaultConfig()).
		RecomputeAll(context.TODO(), now, models.RecordFilter{})

	assert.ErrorIs(t, err, assert.AnError, "should return store error")
}
