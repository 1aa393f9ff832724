package modelstesting

import (
	"math/rand"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/go-faker/faker/v4"
)

// FakeDiscovery returns models.Discovery with fake data.
func FakeDiscovery(ops ...func(d *models.Discovery)) models.Discovery {
	discovery := models.Discovery{
		ProductID:    faker.UUIDDigit(),
		CategoryID:   faker.Word(),
		CategoryName: faker.Word(),
		DiscoveredAt: time.Unix(faker.UnixTime(), 0).UTC(),
	}

	for _, op := range ops {
		op(&discovery)
	}

	return discovery
}

// FakeRecord returns pending, active models.ProductRecord with fake data.
func FakeRecord(ops ...func(r *models.ProductRecord)) models.ProductRecord {
	record := models.ProductRecord{
		ProductID:    faker.UUIDDigit(),
		CategoryID:   faker.Word(),
		CategoryName: faker.Word(),
		DiscoveredAt: time.Unix(faker.UnixTime(), 0).UTC(),
		Status:       models.StatusPending,
		Priority:     models.MinPriority + rand.Intn(models.MaxPriority),
		Active:       true,
	}

	for _, op := range ops {
		op(&record)
	}

	return record
}

// FakeRawFields returns raw snapshot fields with fake data.
func FakeRawFields(ops ...func(f models.Fields)) models.Fields {
	fields := models.Fields{
		models.FieldPrice:       1 + rand.Float64()*100,
		models.FieldRating:      rand.Float64() * 5,
		models.FieldReviewCount: rand.Intn(1000),
		models.FieldSales:       rand.Intn(10000),
		models.FieldTitle:       faker.Sentence(),
		models.FieldSeller:      faker.Word(),
	}

	for _, op := range ops {
		op(fields)
	}

	return fields
}

// FakeSnapshot returns raw models.Snapshot with fake data.
func FakeSnapshot(ops ...func(s *models.Snapshot)) models.Snapshot {
	snapshot := models.Snapshot{
		ProductID:  faker.UUIDDigit(),
		CapturedAt: time.Unix(faker.UnixTime(), 0).UTC(),
		Kind:       models.SnapshotRaw,
		Fields:     FakeRawFields(),
	}

	for _, op := range ops {
		op(&snapshot)
	}

	return snapshot
}
