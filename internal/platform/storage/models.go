package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform/models"

	pgmodels "github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

func toDBNewRecord(discovery *models.Discovery, priority int, now time.Time) *pgmodels.ProductRecord {
	return &pgmodels.ProductRecord{
		ProductID:    discovery.ProductID,
		CategoryID:   discovery.CategoryID,
		CategoryName: discovery.CategoryName,
		DiscoveredAt: discovery.DiscoveredAt,
		Status:       string(models.StatusPending),
		Priority:     int32(priority),
		Active:       true,
		UpdatedAt:    now,
	}
}

// toDBRecord converts models.ProductRecord into postgres product record model.
func toDBRecord(record *models.ProductRecord, updatedAt time.Time) *pgmodels.ProductRecord {
	return &pgmodels.ProductRecord{
		ProductID:     record.ProductID,
		CategoryID:    record.CategoryID,
		CategoryName:  record.CategoryName,
		DiscoveredAt:  record.DiscoveredAt,
		LastAttemptAt: record.LastAttemptAt,
		Status:        string(record.Status),
		Priority:      int32(record.Priority),
		ErrorCount:    int32(record.ErrorCount),
		Active:        record.Active,
		LastError:     record.LastError,
		UpdatedAt:     updatedAt,
	}
}

func fromDBRecord(record *pgmodels.ProductRecord) *models.ProductRecord {
	result := &models.ProductRecord{
		ProductID:    record.ProductID,
		CategoryID:   record.CategoryID,
		CategoryName: record.CategoryName,
		DiscoveredAt: record.DiscoveredAt.UTC(),
		Status:       models.Status(record.Status),
		Priority:     int(record.Priority),
		ErrorCount:   int(record.ErrorCount),
		Active:       record.Active,
		LastError:    record.LastError,
	}

	if record.LastAttemptAt != nil {
		lastAttempt := record.LastAttemptAt.UTC()
		result.LastAttemptAt = &lastAttempt
	}

	return result
}

func toDBSnapshot(snapshot *models.Snapshot) (*pgmodels.Snapshot, error) {
	fields, err := json.Marshal(snapshot.Fields)
	if err != nil {
		return nil, fmt.Errorf("can't encode snapshot fields: %w", err)
	}

	return &pgmodels.Snapshot{
		ProductID:  snapshot.ProductID,
		CapturedAt: snapshot.CapturedAt,
		Kind:       string(snapshot.Kind),
		Fields:     string(fields),
	}, nil
}

func fromDBSnapshots(rows []pgmodels.Snapshot) ([]models.Snapshot, error) {
	snapshots := make([]models.Snapshot, 0, len(rows))
	for ix := range rows {
		var fields models.Fields
		if err := json.Unmarshal([]byte(rows[ix].Fields), &fields); err != nil {
			return nil, fmt.Errorf("can't decode fields of snapshot %d: %w", rows[ix].ID, err)
		}

		snapshots = append(snapshots, models.Snapshot{
			ID:         rows[ix].ID,
			ProductID:  rows[ix].ProductID,
			CapturedAt: rows[ix].CapturedAt.UTC(),
			Kind:       models.SnapshotKind(rows[ix].Kind),
			Fields:     fields,
		})
	}

	return snapshots, nil
}

func toDBCategoryMetric(metrics *models.CategoryMetrics, computedAt time.Time) (*pgmodels.CategoryMetric, error) {
	fields, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("can't encode category metrics: %w", err)
	}

	return &pgmodels.CategoryMetric{
		CategoryID: metrics.CategoryID,
		AsOf:       metrics.AsOf,
		ComputedAt: computedAt,
		Fields:     string(fields),
	}, nil
}

// fromDBCategoryMetric converts postgres category metric model into models.CategoryMetrics.
func fromDBCategoryMetric(row *pgmodels.CategoryMetric) (*models.CategoryMetrics, error) {
	var metrics models.CategoryMetrics
	if err := json.Unmarshal([]byte(row.Fields), &metrics); err != nil {
		return nil, fmt.Errorf("can't decode category metrics %d: %w", row.ID, err)
	}
	metrics.ID = row.ID
	metrics.AsOf = metrics.AsOf.UTC()

	return &metrics, nil
}
