package scheduler_test

import (
	"testing"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/platform/models/modelstesting"
	"github.com/MichalMitros/market-tracker/internal/scheduler"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitTransition(t *testing.T) {
	earlier := now.Add(-time.Hour)

	tests := map[string]struct {
		record    models.ProductRecord
		outcome   models.Outcome
		threshold int
		want      models.ProductRecord
		wantErr   error
	}{
		"pending success": {
			record:  models.ProductRecord{Status: models.StatusPending, Priority: 3, Active: true},
			outcome: models.Success(models.Fields{}),
			want: models.ProductRecord{
				Status:        models.StatusScraped,
				Priority:      3,
				Active:        true,
				LastAttemptAt: lo.ToPtr(now),
			},
		},
		"failed success resets error count": {
			record: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    3,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
			outcome: models.Success(models.Fields{}),
			want: models.ProductRecord{
				Status:        models.StatusScraped,
				LastAttemptAt: lo.ToPtr(now),
				Active:        true,
			},
		},
		"pending failure": {
			record:    models.ProductRecord{Status: models.StatusPending, Active: true},
			outcome:   models.Failure("timeout"),
			threshold: 3,
			want: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    1,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
		},
		"failure below threshold": {
			record:    models.ProductRecord{Status: models.StatusFailed, ErrorCount: 1, Active: true},
			outcome:   models.Failure("timeout"),
			threshold: 3,
			want: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    2,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
		},
		"failure reaching threshold": {
			record:    models.ProductRecord{Status: models.StatusFailed, ErrorCount: 2, Active: true},
			outcome:   models.Failure("timeout"),
			threshold: 3,
			want: models.ProductRecord{
				Status:        models.StatusSkipped,
				ErrorCount:    3,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
		},
		"failure without threshold": {
			record:  models.ProductRecord{Status: models.StatusFailed, ErrorCount: 99, Active: true},
			outcome: models.Failure("timeout"),
			want: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    100,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
		},
		"scraped refresh failure": {
			record:    models.ProductRecord{Status: models.StatusScraped, LastAttemptAt: &earlier, Active: true},
			outcome:   models.Failure("rate limited"),
			threshold: 5,
			want: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    1,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("rate limited"),
				Active:        true,
			},
		},
		"permanent reject bypasses threshold": {
			record:    models.ProductRecord{Status: models.StatusPending, Active: true},
			outcome:   models.PermanentReject("gone"),
			threshold: 5,
			want: models.ProductRecord{
				Status:        models.StatusSkipped,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("gone"),
				Active:        true,
			},
		},
		"permanent reject keeps active flag": {
			record:  models.ProductRecord{Status: models.StatusFailed, ErrorCount: 2, Active: false},
			outcome: models.PermanentReject("gone"),
			want: models.ProductRecord{
				Status:        models.StatusSkipped,
				ErrorCount:    2,
				LastAttemptAt: lo.ToPtr(now),
				LastError:     lo.ToPtr("gone"),
			},
		},
		"repeated permanent reject is a no-op": {
			record:  models.ProductRecord{Status: models.StatusSkipped, LastAttemptAt: &earlier, Active: true},
			outcome: models.PermanentReject("gone"),
			want:    models.ProductRecord{Status: models.StatusSkipped, LastAttemptAt: &earlier, Active: true},
		},
		"redelivered failure of applied attempt": {
			record: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    1,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
			outcome:   models.Failure("timeout").At(earlier),
			threshold: 2,
			want: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    1,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
		},
		"failure of older attempt": {
			record:  models.ProductRecord{Status: models.StatusScraped, LastAttemptAt: lo.ToPtr(now), Active: true},
			outcome: models.Failure("timeout").At(earlier),
			want:    models.ProductRecord{Status: models.StatusScraped, LastAttemptAt: lo.ToPtr(now), Active: true},
		},
		"failure of later attempt": {
			record: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    1,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
			outcome:   models.Failure("rate limited").At(earlier.Add(time.Minute)),
			threshold: 5,
			want: models.ProductRecord{
				Status:        models.StatusFailed,
				ErrorCount:    2,
				LastAttemptAt: lo.ToPtr(earlier.Add(time.Minute)),
				LastError:     lo.ToPtr("rate limited"),
				Active:        true,
			},
		},
		"attempt time is stored in utc": {
			record:  models.ProductRecord{Status: models.StatusPending, Active: true},
			outcome: models.Success(models.Fields{}).At(earlier.In(time.FixedZone("CET", 3600))),
			want:    models.ProductRecord{Status: models.StatusScraped, LastAttemptAt: &earlier, Active: true},
		},
		"redelivered failure after record got skipped": {
			record: models.ProductRecord{
				Status:        models.StatusSkipped,
				ErrorCount:    2,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
			outcome:   models.Failure("timeout").At(earlier),
			threshold: 2,
			want: models.ProductRecord{
				Status:        models.StatusSkipped,
				ErrorCount:    2,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("timeout"),
				Active:        true,
			},
		},
		"redelivered permanent reject": {
			record: models.ProductRecord{
				Status:        models.StatusSkipped,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("gone"),
				Active:        true,
			},
			outcome: models.PermanentReject("gone").At(earlier),
			want: models.ProductRecord{
				Status:        models.StatusSkipped,
				LastAttemptAt: &earlier,
				LastError:     lo.ToPtr("gone"),
				Active:        true,
			},
		},
		"skipped is terminal": {
			record:  models.ProductRecord{Status: models.StatusSkipped, Active: true},
			outcome: models.Success(models.Fields{}),
			want:    models.ProductRecord{Status: models.StatusSkipped, Active: true},
			wantErr: platform.ErrTerminalStatus,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			record := tt.record

			err := scheduler.Transition(&record, tt.outcome, now, tt.threshold)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr, "should return error")
			} else {
				require.NoError(t, err, "shouldn't return any error")
			}
			assert.Equal(t, tt.want, record, "should transition record")
		})
	}
}

func TestUnitTransitionUnknownOutcome(t *testing.T) {
	record := modelstesting.FakeRecord()

	err := scheduler.Transition(&record, models.Outcome{Kind: "lost"}, now, 5)

	assert.ErrorContains(t, err, "unknown outcome kind", "should reject unknown outcome")
	assert.Equal(t, models.StatusPending, record.Status, "shouldn't change record")
}

func TestUnitValidateTransition(t *testing.T) {
	tests := map[string]struct {
		from, to models.Status
		wantErr  bool
	}{
		"pending to scraped": {from: models.StatusPending, to: models.StatusScraped},
		"failed to failed":   {from: models.StatusFailed, to: models.StatusFailed},
		"scraped to scraped": {from: models.StatusScraped, to: models.StatusScraped},
		"scraped to pending": {from: models.StatusScraped, to: models.StatusPending, wantErr: true},
		"skipped to pending": {from: models.StatusSkipped, to: models.StatusPending, wantErr: true},
		"unknown source":     {from: "archived", to: models.StatusScraped, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := scheduler.ValidateTransition(tt.from, tt.to)

			if tt.wantErr {
				assert.Error(t, err, "should reject transition")
			} else {
				assert.NoError(t, err, "should allow transition")
			}
		})
	}
}
