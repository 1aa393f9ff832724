package storage

import (
	"cmp"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/table"
	"github.com/MichalMitros/market-tracker/internal/registry"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

//go:embed schema.sql
var schema string

// Postgres is storage for product records, snapshots and category metrics.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{
		db: db,
	}
}

// Migrate creates missing tables and indexes.
func (p Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't apply schema: %w", err)
	}

	return nil
}

// UpsertRecords inserts unseen records and updates non-empty category metadata of existing ones.
// Existing rows are locked, so upsert never interleaves with UpdateRecord of the same id.
func (p Postgres) UpsertRecords(
	ctx context.Context,
	discoveries []models.Discovery,
	defaultPriority int,
) (int32, int32, error) {
	if len(discoveries) == 0 {
		return 0, 0, nil
	}

	// rows are locked and inserted in product id order, so concurrent batches can't deadlock
	discoveries = lo.UniqBy(discoveries, func(d models.Discovery) string { return d.ProductID })
	slices.SortFunc(discoveries, func(a, b models.Discovery) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	created, updated := int32(0), int32(0)

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		existing, err := lockRecords(ctx, tx, lo.Map(discoveries, func(d models.Discovery, _ int) string {
			return d.ProductID
		}))
		if err != nil {
			return fmt.Errorf("can't lock existing records: %w", err)
		}

		now := time.Now().UTC()
		rows := lo.Map(discoveries, func(d models.Discovery, _ int) pgmodels.ProductRecord {
			return *toDBNewRecord(&d, defaultPriority, now)
		})

		_, err = table.ProductRecord.INSERT(
			table.ProductRecord.ProductID,
			table.ProductRecord.CategoryID,
			table.ProductRecord.CategoryName,
			table.ProductRecord.DiscoveredAt,
			table.ProductRecord.Status,
			table.ProductRecord.Priority,
			table.ProductRecord.ErrorCount,
			table.ProductRecord.Active,
			table.ProductRecord.UpdatedAt,
		).
			MODELS(rows).
			ON_CONFLICT(table.ProductRecord.ProductID).
			DO_UPDATE(
				pg.SET(
					table.ProductRecord.CategoryID.SET(
						keepIfEmpty(table.ProductRecord.EXCLUDED.CategoryID, table.ProductRecord.CategoryID),
					),
					table.ProductRecord.CategoryName.SET(
						keepIfEmpty(table.ProductRecord.EXCLUDED.CategoryName, table.ProductRecord.CategoryName),
					),
					table.ProductRecord.UpdatedAt.SET(table.ProductRecord.EXCLUDED.UpdatedAt),
				),
			).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't upsert records into database: %w", err)
		}

		updated = int32(len(existing))
		created = int32(len(discoveries)) - updated

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return created, updated, nil
}

// GetRecord returns record by product id or platform.ErrNotFound.
func (p Postgres) GetRecord(ctx context.Context, productID string) (*models.ProductRecord, error) {
	var record pgmodels.ProductRecord
	err := table.ProductRecord.SELECT(table.ProductRecord.AllColumns).
		WHERE(table.ProductRecord.ProductID.EQ(pg.String(productID))).
		QueryContext(ctx, p.db, &record)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, platform.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't get record from database: %w", err)
	}

	return fromDBRecord(&record), nil
}

// ListRecords returns records matching filter ordered by product id.
func (p Postgres) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.ProductRecord, error) {
	conditions := []pg.BoolExpression{pg.Bool(true)}

	if !filter.IncludeInactive {
		conditions = append(conditions, table.ProductRecord.Active.IS_TRUE())
	}

	if filter.CategoryID != "" {
		conditions = append(conditions, table.ProductRecord.CategoryID.EQ(pg.String(filter.CategoryID)))
	}

	if len(filter.Statuses) > 0 {
		statuses := lo.Map(filter.Statuses, func(s models.Status, _ int) pg.Expression {
			return pg.String(string(s))
		})
		conditions = append(conditions, table.ProductRecord.Status.IN(statuses...))
	}

	records := []pgmodels.ProductRecord{}
	err := table.ProductRecord.SELECT(table.ProductRecord.AllColumns).
		WHERE(pg.AND(conditions...)).
		ORDER_BY(table.ProductRecord.ProductID.ASC()).
		QueryContext(ctx, p.db, &records)
	if err != nil {
		return nil, fmt.Errorf("can't list records from database: %w", err)
	}

	return lo.Map(records, func(_ pgmodels.ProductRecord, ix int) models.ProductRecord {
		return *fromDBRecord(&records[ix])
	}), nil
}

// UpdateRecord locks record row, applies fn to it and stores the result in the same transaction.
func (p Postgres) UpdateRecord(
	ctx context.Context,
	productID string,
	fn registry.UpdateFunc,
) (*models.ProductRecord, error) {
	var record *models.ProductRecord

	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		var stored pgmodels.ProductRecord
		err := table.ProductRecord.SELECT(table.ProductRecord.AllColumns).
			WHERE(table.ProductRecord.ProductID.EQ(pg.String(productID))).
			FOR(pg.UPDATE()).
			QueryContext(ctx, tx, &stored)
		if errors.Is(err, qrm.ErrNoRows) {
			return platform.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("can't lock record: %w", err)
		}

		record = fromDBRecord(&stored)
		if err := fn(record); err != nil {
			return err
		}
		record.ProductID = stored.ProductID
		record.DiscoveredAt = stored.DiscoveredAt

		_, err = table.ProductRecord.UPDATE(
			table.ProductRecord.MutableColumns.Except(table.ProductRecord.DiscoveredAt),
		).
			MODEL(toDBRecord(record, time.Now().UTC())).
			WHERE(table.ProductRecord.ProductID.EQ(pg.String(productID))).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't update record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// AppendSnapshot inserts snapshot and sets its ID.
func (p Postgres) AppendSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	row, err := toDBSnapshot(snapshot)
	if err != nil {
		return err
	}

	err = table.Snapshot.INSERT(table.Snapshot.MutableColumns).
		MODEL(row).
		RETURNING(table.Snapshot.ID).
		QueryContext(ctx, p.db, row)
	if err != nil {
		return fmt.Errorf("can't insert snapshot into database: %w", err)
	}

	snapshot.ID = row.ID

	return nil
}

// History returns product snapshots matching query ordered by capture time and insertion order.
func (p Postgres) History(ctx context.Context, query models.SnapshotQuery) ([]models.Snapshot, error) {
	conditions := []pg.BoolExpression{table.Snapshot.ProductID.EQ(pg.String(query.ProductID))}

	if query.Kind != "" {
		conditions = append(conditions, table.Snapshot.Kind.EQ(pg.String(string(query.Kind))))
	}

	if query.From != nil {
		conditions = append(conditions, table.Snapshot.CapturedAt.GT_EQ(pg.TimestampzT(*query.From)))
	}

	if query.To != nil {
		conditions = append(conditions, table.Snapshot.CapturedAt.LT_EQ(pg.TimestampzT(*query.To)))
	}

	rows := []pgmodels.Snapshot{}
	err := table.Snapshot.SELECT(table.Snapshot.AllColumns).
		WHERE(pg.AND(conditions...)).
		ORDER_BY(table.Snapshot.CapturedAt.ASC(), table.Snapshot.ID.ASC()).
		QueryContext(ctx, p.db, &rows)
	if err != nil {
		return nil, fmt.Errorf("can't get snapshots from database: %w", err)
	}

	return fromDBSnapshots(rows)
}

// CategoryHistory returns snapshots of all category products captured at or before asOf
// ordered by product id, capture time and insertion order.
func (p Postgres) CategoryHistory(
	ctx context.Context,
	categoryID string,
	kind models.SnapshotKind,
	asOf time.Time,
) ([]models.Snapshot, error) {
	rows := []pgmodels.Snapshot{}
	err := pg.SELECT(table.Snapshot.AllColumns).
		FROM(
			table.Snapshot.INNER_JOIN(
				table.ProductRecord,
				table.ProductRecord.ProductID.EQ(table.Snapshot.ProductID),
			),
		).
		WHERE(pg.AND(
			table.ProductRecord.CategoryID.EQ(pg.String(categoryID)),
			table.Snapshot.Kind.EQ(pg.String(string(kind))),
			table.Snapshot.CapturedAt.LT_EQ(pg.TimestampzT(asOf)),
		)).
		ORDER_BY(
			table.Snapshot.ProductID.ASC(),
			table.Snapshot.CapturedAt.ASC(),
			table.Snapshot.ID.ASC(),
		).
		QueryContext(ctx, p.db, &rows)
	if err != nil {
		return nil, fmt.Errorf("can't get category snapshots from database: %w", err)
	}

	return fromDBSnapshots(rows)
}

// AppendCategoryMetrics inserts category aggregate and sets its ID.
func (p Postgres) AppendCategoryMetrics(ctx context.Context, metrics *models.CategoryMetrics) error {
	row, err := toDBCategoryMetric(metrics, time.Now().UTC())
	if err != nil {
		return err
	}

	err = table.CategoryMetric.INSERT(table.CategoryMetric.MutableColumns).
		MODEL(row).
		RETURNING(table.CategoryMetric.ID).
		QueryContext(ctx, p.db, row)
	if err != nil {
		return fmt.Errorf("can't insert category metrics into database: %w", err)
	}

	metrics.ID = row.ID

	return nil
}

// CategoryMetrics returns category aggregates in insertion order.
func (p Postgres) CategoryMetrics(ctx context.Context, categoryID string) ([]models.CategoryMetrics, error) {
	rows := []pgmodels.CategoryMetric{}
	err := table.CategoryMetric.SELECT(table.CategoryMetric.AllColumns).
		WHERE(table.CategoryMetric.CategoryID.EQ(pg.String(categoryID))).
		ORDER_BY(table.CategoryMetric.ID.ASC()).
		QueryContext(ctx, p.db, &rows)
	if err != nil {
		return nil, fmt.Errorf("can't get category metrics from database: %w", err)
	}

	result := make([]models.CategoryMetrics, 0, len(rows))
	for ix := range rows {
		metrics, err := fromDBCategoryMetric(&rows[ix])
		if err != nil {
			return nil, err
		}
		result = append(result, *metrics)
	}

	return result, nil
}

func lockRecords(ctx context.Context, db qrm.DB, productIDs []string) ([]pgmodels.ProductRecord, error) {
	ids := lo.Map(productIDs, func(id string, _ int) pg.Expression { return pg.String(id) })

	existing := []pgmodels.ProductRecord{}
	err := table.ProductRecord.SELECT(table.ProductRecord.ProductID).
		WHERE(table.ProductRecord.ProductID.IN(ids...)).
		ORDER_BY(table.ProductRecord.ProductID.ASC()).
		FOR(pg.UPDATE()).
		QueryContext(ctx, db, &existing)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

// keepIfEmpty returns current column value when excluded value is empty.
func keepIfEmpty(excluded, current pg.StringExpression) pg.StringExpression {
	return pg.StringExp(pg.COALESCE(pg.NULLIF(excluded, pg.String("")), current))
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
