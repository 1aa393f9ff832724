package storagetesting

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/MichalMitros/market-tracker/internal/platform/storage"
	pgmodels "github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/market-tracker/internal/platform/storage/gen/postgres/public/table"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

// Open opens connection to DB and applies schema.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	if err := storage.NewPostgres(db).Migrate(context.Background()); err != nil {
		t.Fatal("can't migrate database", err)
	}

	return db
}

// InsertRecords is a helper test function to insert product records.
func InsertRecords(t *testing.T, exc qrm.Executable, records ...pgmodels.ProductRecord) {
	t.Helper()

	if len(records) == 0 {
		return
	}

	_, err := table.ProductRecord.INSERT(table.ProductRecord.AllColumns).MODELS(records).Exec(exc)
	if err != nil {
		t.Fatal("can't insert product records", err)
	}
}

// GetRecords is a helper test function to get all product records ordered by product id.
func GetRecords(t *testing.T, queryable qrm.Queryable) []pgmodels.ProductRecord {
	t.Helper()

	records := []pgmodels.ProductRecord{}
	err := table.ProductRecord.SELECT(table.ProductRecord.AllColumns).
		WHERE(table.ProductRecord.ProductID.IS_NOT_NULL()).
		ORDER_BY(table.ProductRecord.ProductID.ASC()).
		Query(queryable, &records)
	if err != nil {
		t.Fatal("can't get product records", err)
	}

	return records
}

// GetSnapshots is a helper test function to get all snapshots of product in insertion order.
func GetSnapshots(t *testing.T, queryable qrm.Queryable, productID string) []pgmodels.Snapshot {
	t.Helper()

	snapshots := []pgmodels.Snapshot{}
	err := table.Snapshot.SELECT(table.Snapshot.AllColumns).
		WHERE(table.Snapshot.ProductID.EQ(pg.String(productID))).
		ORDER_BY(table.Snapshot.ID.ASC()).
		Query(queryable, &snapshots)
	if err != nil {
		t.Fatal("can't get snapshots", err)
	}

	return snapshots
}

// CleanupData is a helper test function to delete all stored data.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.Snapshot.DELETE().WHERE(table.Snapshot.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete snapshots data", err)
	}

	_, err = table.CategoryMetric.DELETE().WHERE(table.CategoryMetric.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete category metrics data", err)
	}

	_, err = table.ProductRecord.DELETE().WHERE(table.ProductRecord.ProductID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete product records data", err)
	}
}
