package discovery

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

//go:generate mockery --name Fetcher --filename fetcher.go
//go:generate mockery --name Decoder --filename decoder.go
//go:generate mockery --name Registry --filename registry.go

// Fetcher fetches discovery feed file.
type Fetcher interface {
	FetchFile(context.Context, string) (io.ReadCloser, error)
}

// Decoder decodes xml discovery feed into discovery results.
type Decoder interface {
	Decode(context.Context, io.Reader, chan<- models.DiscoveryResult) error
}

// Registry registers discovered product ids.
type Registry interface {
	// UpsertBatch registers discoveries. Returns number of created and updated records.
	UpsertBatch(ctx context.Context, discoveries []models.Discovery) (created int32, updated int32, err error)
}

// Option is custom configuration of Discoverer.
type Option func(d *Discoverer)

// Discoverer ingests discovery feeds into registry.
type Discoverer struct {
	fetcher   Fetcher
	decoder   Decoder
	registry  Registry
	batchSize uint
	logger    *zerolog.Logger
}

// NewDiscoverer returns new Discoverer.
func NewDiscoverer(fetcher Fetcher, decoder Decoder, registry Registry, batchSize uint, ops ...Option) *Discoverer {
	nop := zerolog.Nop()
	dis := &Discoverer{
		fetcher:   fetcher,
		decoder:   decoder,
		registry:  registry,
		batchSize: max(batchSize, 1),
		logger:    &nop,
	}

	for _, op := range ops {
		op(dis)
	}

	return dis
}

// Discover fetches discovery feed from feedURL and registers every valid item.
// Returned run holds statistics also when ingest fails midway.
func (d Discoverer) Discover(ctx context.Context, feedURL string) (*models.DiscoveryRun, error) {
	run := &models.DiscoveryRun{FeedURL: feedURL}

	xmlFile, err := d.fetcher.FetchFile(ctx, feedURL)
	if err != nil {
		return run, fmt.Errorf("can't fetch feed file: %w", err)
	}
	defer xmlFile.Close()

	run.Created, run.Updated, run.Failed, err = d.ingest(ctx, xmlFile)

	logEvent := d.logger.Info()
	if err != nil {
		logEvent = d.logger.Error().Err(err)
	}
	logEvent.
		Str("feedUrl", feedURL).
		Int32("created", run.Created).
		Int32("updated", run.Updated).
		Int32("failed", run.Failed).
		Msg("discovery feed ingested")

	return run, err
}

func (d Discoverer) ingest(ctx context.Context, xmlFile io.Reader) (int32, int32, int32, error) {
	results := make(chan models.DiscoveryResult)
	batches := make(chan []models.Discovery)
	failed := int32(0)
	created := int32(0)
	updated := int32(0)

	errGroup, egCtx := errgroup.WithContext(ctx)

	// decode feed file.
	errGroup.Go(func() error {
		defer close(results)
		if err := d.decoder.Decode(egCtx, xmlFile, results); err != nil {
			return fmt.Errorf("can't decode feed file: %w", err)
		}
		return nil
	})

	// filter decoding results into batches.
	errGroup.Go(func() error {
		defer close(batches)

		failedItems, err := d.filterDiscoveries(egCtx, results, batches)
		_ = atomic.AddInt32(&failed, int32(failedItems))
		if err != nil {
			return fmt.Errorf("can't filter discoveries: %w", err)
		}

		return nil
	})

	// register discoveries.
	errGroup.Go(func() error {
		for batch := range batches {
			c, u, err := d.registry.UpsertBatch(egCtx, batch)
			if err != nil {
				return fmt.Errorf("can't register discoveries: %w", err)
			}
			_ = atomic.AddInt32(&created, c)
			_ = atomic.AddInt32(&updated, u)
		}
		return nil
	})

	err := errGroup.Wait()

	return created, updated, failed, err
}

func (d Discoverer) filterDiscoveries(
	ctx context.Context,
	input <-chan models.DiscoveryResult,
	output chan<- []models.Discovery,
) (int, error) {
	failed := 0
	batch := make([]models.Discovery, 0, d.batchSize)

	for result := range input {
		if result.Error != nil {
			failed++
			d.logger.Debug().Err(result.Error).Msg("skipping invalid discovery")
			continue
		}

		batch = append(batch, result.Discovery)
		if len(batch) == int(d.batchSize) {
			select {
			case <-ctx.Done():
				return failed, ctx.Err()
			case output <- batch:
			}
			batch = make([]models.Discovery, 0, d.batchSize)
		}
	}

	if len(batch) > 0 {
		select {
		case <-ctx.Done():
			return failed, ctx.Err()
		case output <- batch:
		}
	}

	return failed, nil
}

// WithLogger sets Discoverer's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = logger
	}
}
