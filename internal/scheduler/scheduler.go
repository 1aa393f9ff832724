package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MichalMitros/market-tracker/internal/backoff"
	"github.com/MichalMitros/market-tracker/internal/platform/clock"
	"github.com/MichalMitros/market-tracker/internal/platform/metrics"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/registry"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Registry --filename registry.go
//go:generate mockery --name SnapshotStore --filename snapshot_store.go

// Registry is source of product records and the only way to mutate them.
type Registry interface {
	ListActive(ctx context.Context, filter models.RecordFilter) ([]models.ProductRecord, error)
	Update(ctx context.Context, productID string, fn registry.UpdateFunc) (*models.ProductRecord, error)
}

// SnapshotStore appends raw snapshots of fetched products.
type SnapshotStore interface {
	AppendSnapshot(ctx context.Context, snapshot *models.Snapshot) error
}

// ApplyReport holds statistics of applying batch of fetch results.
type ApplyReport struct {
	Applied int
	Failed  int
	Errors  map[string]error
}

// Option is custom configuration of Scheduler.
type Option func(s *Scheduler)

// Scheduler selects product ids to fetch and applies fetch outcomes to their records.
type Scheduler struct {
	registry  Registry
	snapshots SnapshotStore
	policy    backoff.Policy
	threshold int
	filter    models.RecordFilter
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    *zerolog.Logger
}

// NewScheduler returns new Scheduler.
func NewScheduler(reg Registry, snapshots SnapshotStore, policy backoff.Policy, ops ...Option) *Scheduler {
	nop := zerolog.Nop()
	s := &Scheduler{
		registry:  reg,
		snapshots: snapshots,
		policy:    policy,
		clock:     clock.System{},
		logger:    &nop,
	}

	for _, op := range ops {
		op(s)
	}

	return s
}

// SelectBatch returns up to maxN eligible product ids ordered by priority,
// then by last attempt time with never attempted first, then by id.
func (s *Scheduler) SelectBatch(ctx context.Context, maxN int) ([]string, error) {
	if maxN <= 0 {
		return []string{}, nil
	}

	records, err := s.registry.ListActive(ctx, s.filter)
	if err != nil {
		return nil, fmt.Errorf("can't list active records: %w", err)
	}

	now := s.clock.Now()
	decisions := make([]backoff.Decision, 0, len(records))
	for ix := range records {
		if decision, ok := s.policy.NextEligible(&records[ix], now); ok {
			decisions = append(decisions, decision)
		}
	}

	sort.Slice(decisions, func(i, j int) bool {
		return less(decisions[i], decisions[j])
	})

	selected := decisions[:min(maxN, len(decisions))]
	ids := lo.Map(selected, func(d backoff.Decision, _ int) string {
		return d.ProductID
	})

	reasons := lo.CountValuesBy(selected, func(d backoff.Decision) backoff.Reason { return d.Reason })
	for _, reason := range []backoff.Reason{backoff.ReasonNew, backoff.ReasonRetry, backoff.ReasonRefresh} {
		if reasons[reason] > 0 {
			s.metrics.Select(string(reason), reasons[reason])
		}
	}
	s.logger.Debug().
		Int("eligible", len(decisions)).
		Int("selected", len(ids)).
		Int("new", reasons[backoff.ReasonNew]).
		Int("retry", reasons[backoff.ReasonRetry]).
		Int("refresh", reasons[backoff.ReasonRefresh]).
		Msg("batch selected")

	return ids, nil
}

// ApplyResult applies fetch outcome to product record. Successful outcome appends raw snapshot
// before record is stored, so failed append leaves record untouched.
// Redelivered outcome of already applied attempt doesn't change record, successful one still appends snapshot.
func (s *Scheduler) ApplyResult(
	ctx context.Context,
	productID string,
	outcome models.Outcome,
) (*models.ProductRecord, error) {
	var (
		from      models.Status
		duplicate bool
	)
	now := s.clock.Now()

	record, err := s.registry.Update(ctx, productID, func(record *models.ProductRecord) error {
		from = record.Status
		duplicate = isApplied(record, outcome, now)
		if err := Transition(record, outcome, now, s.threshold); err != nil {
			return err
		}

		if outcome.Kind != models.OutcomeSuccess {
			return nil
		}

		return s.snapshots.AppendSnapshot(ctx, &models.Snapshot{
			ProductID:  productID,
			CapturedAt: attemptTime(outcome, now),
			Kind:       models.SnapshotRaw,
			Fields:     outcome.Fields,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("can't apply %s outcome to %q: %w", outcome.Kind, productID, err)
	}

	if duplicate {
		s.logger.Debug().
			Str("productId", productID).
			Str("outcome", string(outcome.Kind)).
			Time("attemptedAt", outcome.AttemptedAt).
			Msg("outcome already applied")
		return record, nil
	}

	s.metrics.Transition(string(from), string(record.Status))
	s.logger.Debug().
		Str("productId", productID).
		Str("outcome", string(outcome.Kind)).
		Str("from", string(from)).
		Str("to", string(record.Status)).
		Int("errorCount", record.ErrorCount).
		Msg("outcome applied")

	return record, nil
}

// ApplyResults applies every fetch result. Failure of a single result doesn't stop the rest.
func (s *Scheduler) ApplyResults(ctx context.Context, results []models.FetchResult) ApplyReport {
	report := ApplyReport{Errors: map[string]error{}}

	for _, result := range results {
		if _, err := s.ApplyResult(ctx, result.ProductID, result.Outcome); err != nil {
			report.Failed++
			report.Errors[result.ProductID] = err
			s.logger.Warn().
				Err(err).
				Str("productId", result.ProductID).
				Msg("can't apply fetch result")
			continue
		}
		report.Applied++
	}

	return report
}

func less(a, b backoff.Decision) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}

	switch {
	case a.LastAttemptAt == nil && b.LastAttemptAt != nil:
		return true
	case a.LastAttemptAt != nil && b.LastAttemptAt == nil:
		return false
	case a.LastAttemptAt != nil && !a.LastAttemptAt.Equal(*b.LastAttemptAt):
		return a.LastAttemptAt.Before(*b.LastAttemptAt)
	}

	return strings.Compare(a.ProductID, b.ProductID) < 0
}

// WithThreshold sets number of failures after which record is skipped.
func WithThreshold(threshold int) Option {
	return func(s *Scheduler) {
		s.threshold = threshold
	}
}

// WithFilter limits scheduler to records matching filter, e.g. single category shard.
func WithFilter(filter models.RecordFilter) Option {
	return func(s *Scheduler) {
		s.filter = filter
	}
}

// WithClock sets Scheduler's custom Clock.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithMetrics sets Scheduler's metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithLogger sets Scheduler's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}
