package crawler

import (
	"context"
	"fmt"
	"testing"

	"github.com/MichalMitros/market-tracker/internal/fetcher"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/stretchr/testify/assert"
)

func TestUnitToOutcome(t *testing.T) {
	fields := models.Fields{"title": "Lamp"}
	gone := fmt.Errorf("%w: P1", fetcher.ErrProductGone)

	tests := map[string]struct {
		fields models.Fields
		err    error
		want   models.Outcome
	}{
		"success": {
			fields: fields,
			want:   models.Success(fields),
		},
		"product gone": {
			err:  gone,
			want: models.PermanentReject(gone.Error()),
		},
		"timeout": {
			err:  fmt.Errorf("can't fetch product: %w", context.DeadlineExceeded),
			want: models.Failure("timeout"),
		},
		"rate limited": {
			err:  fetcher.ErrRateLimited,
			want: models.Failure(fetcher.ErrRateLimited.Error()),
		},
		"other error": {
			err:  assert.AnError,
			want: models.Failure(assert.AnError.Error()),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, toOutcome(tt.fields, tt.err), "should map fetch result to outcome")
		})
	}
}
