package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
)

// validTransitions lists statuses reachable from each status by a fetch outcome.
// Skipped is left only through operator reactivation.
var validTransitions = map[models.Status][]models.Status{
	models.StatusPending: {models.StatusScraped, models.StatusFailed, models.StatusSkipped},
	models.StatusFailed:  {models.StatusScraped, models.StatusFailed, models.StatusSkipped},
	models.StatusScraped: {models.StatusScraped, models.StatusFailed, models.StatusSkipped},
	models.StatusSkipped: {},
}

// ValidateTransition checks if record can move between statuses.
func ValidateTransition(from, to models.Status) error {
	allowed, ok := validTransitions[from]
	if !ok {
		return fmt.Errorf("unknown source status %q", from)
	}

	if !slices.Contains(allowed, to) {
		if len(allowed) == 0 {
			return fmt.Errorf("can't move from %s to %s: %w", from, to, platform.ErrTerminalStatus)
		}
		return fmt.Errorf("invalid status transition from %s to %s", from, to)
	}

	return nil
}

// Transition applies fetch outcome to record. Outcome without attempt time is attempted at now.
// Failure moves record to skipped once error count reaches threshold, zero threshold disables it.
// PermanentReject on already skipped record is a no-op.
// Outcome of attempt not later than record's last attempt was already applied and leaves record untouched.
func Transition(record *models.ProductRecord, outcome models.Outcome, now time.Time, threshold int) error {
	attemptedAt := attemptTime(outcome, now)
	if isApplied(record, outcome, now) {
		return nil
	}

	if record.Status == models.StatusSkipped && outcome.Kind == models.OutcomePermanentReject {
		return nil
	}

	var (
		next       models.Status
		errorCount = record.ErrorCount
		lastError  *string
	)

	switch outcome.Kind {
	case models.OutcomeSuccess:
		next = models.StatusScraped
		errorCount = 0
	case models.OutcomeFailure:
		errorCount++
		next = models.StatusFailed
		if threshold > 0 && errorCount >= threshold {
			next = models.StatusSkipped
		}
		lastError = &outcome.Reason
	case models.OutcomePermanentReject:
		next = models.StatusSkipped
		lastError = &outcome.Reason
	default:
		return fmt.Errorf("unknown outcome kind %q", outcome.Kind)
	}

	if err := ValidateTransition(record.Status, next); err != nil {
		return err
	}

	record.Status = next
	record.ErrorCount = errorCount
	record.LastError = lastError
	record.LastAttemptAt = &attemptedAt

	return nil
}

// attemptTime returns time of outcome's attempt truncated to stored precision.
func attemptTime(outcome models.Outcome, now time.Time) time.Time {
	if outcome.AttemptedAt.IsZero() {
		return now
	}

	return outcome.AttemptedAt.UTC().Truncate(time.Microsecond)
}

// isApplied reports whether outcome's attempt is already reflected in record.
// Outcomes without attempt time are never recognized as applied.
func isApplied(record *models.ProductRecord, outcome models.Outcome, now time.Time) bool {
	if outcome.AttemptedAt.IsZero() || record.LastAttemptAt == nil {
		return false
	}

	return !attemptTime(outcome, now).After(*record.LastAttemptAt)
}
