package backoff

import (
	"math"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
)

// Reason tells why record became eligible.
type Reason string

const (
	ReasonNew     Reason = "new"
	ReasonRetry   Reason = "retry"
	ReasonRefresh Reason = "refresh"
)

// Decision is eligible record scheduling sort key.
type Decision struct {
	ProductID     string
	Priority      int
	LastAttemptAt *time.Time
	Reason        Reason
}

// Policy decides when records can be fetched again.
type Policy struct {
	Base            time.Duration
	Cap             time.Duration
	RefreshInterval time.Duration
}

// Delay returns min(Base * 2^n, Cap).
func (p Policy) Delay(errorCount int) time.Duration {
	if p.Base <= 0 {
		return 0
	}

	delay := p.Base
	for range max(errorCount, 0) {
		if p.Cap > 0 && delay >= p.Cap {
			break
		}
		if delay > math.MaxInt64/2 {
			delay = math.MaxInt64
			break
		}
		delay *= 2
	}

	if p.Cap > 0 && delay > p.Cap {
		return p.Cap
	}

	return delay
}

// NextEligible returns scheduling decision if record can be fetched at now.
func (p Policy) NextEligible(record *models.ProductRecord, now time.Time) (Decision, bool) {
	if !record.Active {
		return Decision{}, false
	}

	var reason Reason
	switch record.Status {
	case models.StatusPending:
		reason = ReasonNew
	case models.StatusFailed:
		if !elapsed(record.LastAttemptAt, now, p.Delay(record.ErrorCount)) {
			return Decision{}, false
		}
		reason = ReasonRetry
	case models.StatusScraped:
		if !elapsed(record.LastAttemptAt, now, p.RefreshInterval) {
			return Decision{}, false
		}
		reason = ReasonRefresh
	default:
		return Decision{}, false
	}

	return Decision{
		ProductID:     record.ProductID,
		Priority:      record.Priority,
		LastAttemptAt: record.LastAttemptAt,
		Reason:        reason,
	}, true
}

// elapsed reports whether wait passed since last attempt. Never attempted records are always ready.
func elapsed(lastAttempt *time.Time, now time.Time, wait time.Duration) bool {
	if lastAttempt == nil {
		return true
	}
	return now.Sub(*lastAttempt) >= wait
}
