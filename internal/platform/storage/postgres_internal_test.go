package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{
	"product_record.product_id",
	"product_record.category_id",
	"product_record.category_name",
	"product_record.discovered_at",
	"product_record.last_attempt_at",
	"product_record.status",
	"product_record.priority",
	"product_record.error_count",
	"product_record.active",
	"product_record.last_error",
	"product_record.updated_at",
}

func TestUnitRunInTransaction(t *testing.T) {
	tests := map[string]struct {
		setup   func(mock sqlmock.Sqlmock)
		fnErr   error
		wantErr string
	}{
		"commit": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		"begin fails": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(assert.AnError)
			},
			wantErr: "can't begin transaction",
		},
		"fn fails": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fnErr:   assert.AnError,
			wantErr: assert.AnError.Error(),
		},
		"rollback fails": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(sql.ErrTxDone)
			},
			fnErr:   assert.AnError,
			wantErr: "can't rollback transaction",
		},
		"commit fails": {
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(assert.AnError)
			},
			wantErr: "can't commit transaction",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err, "can't create sqlmock")
			defer db.Close()

			tt.setup(mock)

			err = runInTransaction(context.TODO(), db, func(*sql.Tx) error { return tt.fnErr })

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr, "should return transaction error")
			} else {
				assert.NoError(t, err, "shouldn't return any error")
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "should meet all expectations")
		})
	}
}

func TestUnitUpdateRecordRollback(t *testing.T) {
	discoveredAt := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err, "can't create sqlmock")
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM public.product_record (.+) FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(recordColumns))
		mock.ExpectRollback()

		_, err = NewPostgres(db).UpdateRecord(context.TODO(), "P1", func(*models.ProductRecord) error {
			t.Fatal("update function shouldn't be called")
			return nil
		})

		assert.ErrorIs(t, err, platform.ErrNotFound, "should return not found error")
		assert.NoError(t, mock.ExpectationsWereMet(), "should meet all expectations")
	})

	t.Run("aborted update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err, "can't create sqlmock")
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM public.product_record (.+) FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
				"P1", "c1", "Toys", discoveredAt, nil, "pending", 5, 0, true, nil, discoveredAt,
			))
		mock.ExpectRollback()

		var seen models.ProductRecord
		_, err = NewPostgres(db).UpdateRecord(context.TODO(), "P1", func(r *models.ProductRecord) error {
			seen = *r
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError, "should return update function error")
		assert.Equal(t, models.ProductRecord{
			ProductID:    "P1",
			CategoryID:   "c1",
			CategoryName: "Toys",
			DiscoveredAt: discoveredAt,
			Status:       models.StatusPending,
			Priority:     5,
			Active:       true,
		}, seen, "should pass locked record to update function")
		assert.NoError(t, mock.ExpectationsWereMet(), "should meet all expectations")
	})

	t.Run("stored update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err, "can't create sqlmock")
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM public.product_record (.+) FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
				"P1", "c1", "Toys", discoveredAt, nil, "pending", 5, 0, true, nil, discoveredAt,
			))
		mock.ExpectExec("UPDATE public.product_record").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		record, err := NewPostgres(db).UpdateRecord(context.TODO(), "P1", func(r *models.ProductRecord) error {
			r.Status = models.StatusScraped
			return nil
		})

		require.NoError(t, err, "shouldn't return any error")
		assert.Equal(t, models.StatusScraped, record.Status, "should return updated record")
		assert.NoError(t, mock.ExpectationsWereMet(), "should meet all expectations")
	})
}

func TestUnitUpsertRecordsOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "can't create sqlmock")
	defer db.Close()

	discoveries := []models.Discovery{
		{ProductID: "P3", CategoryID: "c1"},
		{ProductID: "P1", CategoryID: "c1"},
		{ProductID: "P2", CategoryID: "c2"},
		{ProductID: "P1", CategoryID: "c3"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM public.product_record (.+) FOR UPDATE").
		WithArgs("P1", "P2", "P3").
		WillReturnRows(sqlmock.NewRows([]string{"product_record.product_id"}).AddRow("P2"))
	mock.ExpectExec("INSERT INTO public.product_record").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	created, updated, err := NewPostgres(db).UpsertRecords(context.TODO(), discoveries, 5)

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, int32(2), created, "should count created records")
	assert.Equal(t, int32(1), updated, "should count updated records")
	assert.Equal(t, "P3", discoveries[0].ProductID, "shouldn't reorder caller's discoveries")
	assert.NoError(t, mock.ExpectationsWereMet(), "should lock records in product id order")
}

func TestUnitCategoryMetrics(t *testing.T) {
	asOf := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	columns := []string{
		"category_metric.id",
		"category_metric.category_id",
		"category_metric.as_of",
		"category_metric.computed_at",
		"category_metric.fields",
	}

	tests := map[string]struct {
		rows    *sqlmock.Rows
		want    []models.CategoryMetrics
		wantErr string
	}{
		"decoded": {
			rows: sqlmock.NewRows(columns).
				AddRow(int64(3), "c1", asOf, asOf, `{"categoryId":"c1","asOf":"2024-03-10T13:00:00+01:00","productCount":2}`),
			want: []models.CategoryMetrics{{ID: 3, CategoryID: "c1", AsOf: asOf, ProductCount: 2}},
		},
		"empty": {
			rows: sqlmock.NewRows(columns),
			want: []models.CategoryMetrics{},
		},
		"malformed fields": {
			rows:    sqlmock.NewRows(columns).AddRow(int64(4), "c1", asOf, asOf, `{`),
			wantErr: "can't decode category metrics 4",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err, "can't create sqlmock")
			defer db.Close()

			mock.ExpectQuery("SELECT (.+) FROM public.category_metric").
				WithArgs("c1").
				WillReturnRows(tt.rows)

			got, err := NewPostgres(db).CategoryMetrics(context.TODO(), "c1")

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr, "should return decode error")
			} else {
				require.NoError(t, err, "shouldn't return any error")
				assert.Equal(t, tt.want, got, "should return category metrics")
			}
			assert.NoError(t, mock.ExpectationsWereMet(), "should meet all expectations")
		})
	}
}
