package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MichalMitros/market-tracker/internal/fetcher"
	"github.com/MichalMitros/market-tracker/internal/platform/clock"
	"github.com/MichalMitros/market-tracker/internal/platform/metrics"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

//go:generate mockery --name Scheduler --filename scheduler.go
//go:generate mockery --name Fetcher --filename fetcher.go

// Scheduler selects product ids to fetch and records fetch outcomes.
type Scheduler interface {
	SelectBatch(ctx context.Context, maxN int) ([]string, error)
	ApplyResult(ctx context.Context, productID string, outcome models.Outcome) (*models.ProductRecord, error)
}

// Fetcher fetches raw product fields from extraction service.
type Fetcher interface {
	FetchProduct(ctx context.Context, productID string) (models.Fields, error)
}

// Report holds statistics of single crawl pass.
type Report struct {
	Selected    int32
	Succeeded   int32
	Failed      int32
	Rejected    int32
	Errored     int32
	Unattempted int32
}

// Option is custom configuration of Crawler.
type Option func(c *Crawler)

// Crawler runs crawl passes: selects batch, fetches it with bounded parallelism and applies outcomes.
type Crawler struct {
	scheduler   Scheduler
	fetcher     Fetcher
	parallelism int
	timeout     time.Duration
	limiter     *rate.Limiter
	clock       clock.Clock
	metrics     *metrics.Metrics
	logger      *zerolog.Logger
}

// NewCrawler returns new Crawler.
func NewCrawler(scheduler Scheduler, fetcher Fetcher, ops ...Option) *Crawler {
	nop := zerolog.Nop()
	c := &Crawler{
		scheduler:   scheduler,
		fetcher:     fetcher,
		parallelism: 1,
		clock:       clock.System{},
		logger:      &nop,
	}

	for _, op := range ops {
		op(c)
	}

	return c
}

// Run crawls up to maxN eligible products. Ids not attempted before ctx is done stay untouched.
func (c *Crawler) Run(ctx context.Context, maxN int) (Report, error) {
	ids, err := c.scheduler.SelectBatch(ctx, maxN)
	if err != nil {
		return Report{}, fmt.Errorf("can't select batch: %w", err)
	}

	var (
		succeeded, failed, rejected, errored, attempted int32
	)

	errGroup := errgroup.Group{}
	errGroup.SetLimit(max(c.parallelism, 1))

	for _, productID := range ids {
		if ctx.Err() != nil {
			break
		}

		errGroup.Go(func() error {
			outcome, ok := c.fetch(ctx, productID)
			if !ok {
				return nil
			}
			_ = atomic.AddInt32(&attempted, 1)

			// outcome of finished fetch is recorded even when pass is being canceled
			if _, err := c.scheduler.ApplyResult(context.WithoutCancel(ctx), productID, outcome); err != nil {
				_ = atomic.AddInt32(&errored, 1)
				c.logger.Error().Err(err).Str("productId", productID).Msg("can't apply fetch outcome")
				return nil
			}

			switch outcome.Kind {
			case models.OutcomeSuccess:
				_ = atomic.AddInt32(&succeeded, 1)
			case models.OutcomePermanentReject:
				_ = atomic.AddInt32(&rejected, 1)
			default:
				_ = atomic.AddInt32(&failed, 1)
			}

			return nil
		})
	}

	_ = errGroup.Wait()

	report := Report{
		Selected:    int32(len(ids)),
		Succeeded:   succeeded,
		Failed:      failed,
		Rejected:    rejected,
		Errored:     errored,
		Unattempted: int32(len(ids)) - attempted,
	}

	c.logger.Info().
		Int32("selected", report.Selected).
		Int32("succeeded", report.Succeeded).
		Int32("failed", report.Failed).
		Int32("rejected", report.Rejected).
		Int32("errored", report.Errored).
		Int32("unattempted", report.Unattempted).
		Msg("crawl pass finished")

	return report, ctx.Err()
}

// fetch fetches product and maps result to outcome. Returns false when fetch wasn't attempted.
func (c *Crawler) fetch(ctx context.Context, productID string) (models.Outcome, bool) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return models.Outcome{}, false
		}
	}

	attemptedAt := c.clock.Now()
	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	fields, err := c.fetcher.FetchProduct(fetchCtx, productID)
	if err != nil && ctx.Err() != nil {
		return models.Outcome{}, false
	}

	outcome := toOutcome(fields, err).At(attemptedAt)
	c.metrics.Fetch(string(outcome.Kind))
	if err != nil {
		c.logger.Debug().Err(err).Str("productId", productID).Msg("fetch failed")
	}

	return outcome, true
}

func toOutcome(fields models.Fields, err error) models.Outcome {
	switch {
	case err == nil:
		return models.Success(fields)
	case errors.Is(err, fetcher.ErrProductGone):
		return models.PermanentReject(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return models.Failure("timeout")
	default:
		return models.Failure(err.Error())
	}
}

// WithParallelism sets number of concurrent fetches.
func WithParallelism(n int) Option {
	return func(c *Crawler) {
		c.parallelism = n
	}
}

// WithTimeout sets single fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Crawler) {
		c.timeout = timeout
	}
}

// WithRateLimit limits fetches to perMinute evenly spaced requests.
func WithRateLimit(perMinute int) Option {
	return func(c *Crawler) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithClock sets Crawler's clock used for attempt times.
func WithClock(c clock.Clock) Option {
	return func(cr *Crawler) {
		cr.clock = c
	}
}

// WithMetrics sets Crawler's metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Crawler) {
		c.metrics = m
	}
}

// WithLogger sets Crawler's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}
