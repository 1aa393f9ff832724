package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/market-tracker/internal/aggregation"
	"github.com/MichalMitros/market-tracker/internal/crawler"
	"github.com/MichalMitros/market-tracker/internal/platform"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/MichalMitros/market-tracker/internal/platform/rabbitmq"
	"github.com/MichalMitros/market-tracker/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Consumer --filename consumer.go
//go:generate mockery --name Registry --filename registry.go
//go:generate mockery --name Discoverer --filename discoverer.go
//go:generate mockery --name Scheduler --filename scheduler.go
//go:generate mockery --name Crawler --filename crawler.go
//go:generate mockery --name Aggregator --filename aggregator.go

// Consumer consumes messages from queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler rabbitmq.HandlerFunc) (<-chan error, error)
}

// Registry manages product records.
type Registry interface {
	Upsert(ctx context.Context, discovery models.Discovery) (bool, error)
	Deactivate(ctx context.Context, productID string) (*models.ProductRecord, error)
	Reactivate(ctx context.Context, productID string) (*models.ProductRecord, error)
	SetPriority(ctx context.Context, productID string, priority int) (*models.ProductRecord, error)
	BoostCategory(ctx context.Context, categoryID string, amount int) (int, error)
}

// Discoverer ingests discovery feeds.
type Discoverer interface {
	Discover(ctx context.Context, feedURL string) (*models.DiscoveryRun, error)
}

// Scheduler applies fetch outcomes.
type Scheduler interface {
	ApplyResult(ctx context.Context, productID string, outcome models.Outcome) (*models.ProductRecord, error)
}

// Crawler runs crawl passes.
type Crawler interface {
	Run(ctx context.Context, maxN int) (crawler.Report, error)
}

// Aggregator recomputes derived metrics.
type Aggregator interface {
	Recompute(ctx context.Context, productID string, asOf time.Time) (*models.DerivedMetrics, error)
	RecomputeAll(ctx context.Context, asOf time.Time, filter models.RecordFilter) (aggregation.Report, error)
}

// Services are components commands are dispatched to.
// Message types of nil service are rejected as unknown.
type Services struct {
	Registry   Registry
	Discoverer Discoverer
	Scheduler  Scheduler
	Crawler    Crawler
	Aggregator Aggregator
}

type routeFunc func(ctx context.Context, body []byte) error

// RMQHandler handles RMQ messages.
type RMQHandler struct {
	consumer Consumer
	services Services
	routes   map[string]routeFunc
	logger   *zerolog.Logger
}

// NewHandler returns new RMQHandler.
func NewHandler(consumer Consumer, services Services, logger *zerolog.Logger) *RMQHandler {
	h := &RMQHandler{
		consumer: consumer,
		services: services,
		logger:   logger,
	}

	h.routes = map[string]routeFunc{}
	if services.Registry != nil {
		h.routes[commander.TypeDiscoverItem] = h.discoverItem
		h.routes[commander.TypeDeactivate] = h.deactivate
		h.routes[commander.TypeReactivate] = h.reactivate
		h.routes[commander.TypeSetPriority] = h.setPriority
		h.routes[commander.TypeBoostCategory] = h.boostCategory
	}
	if services.Discoverer != nil {
		h.routes[commander.TypeDiscoverFeed] = h.discoverFeed
	}
	if services.Scheduler != nil {
		h.routes[commander.TypeFetchResult] = h.fetchResult
	}
	if services.Crawler != nil {
		h.routes[commander.TypeCrawlPass] = h.crawlPass
	}
	if services.Aggregator != nil {
		h.routes[commander.TypeAggregatePass] = h.aggregatePass
	}

	return h
}

// Start starts consuming and handling commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.consumer.Consume(ctx, queue, h.Handle)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

// Handle dispatches single message to its service.
func (h *RMQHandler) Handle(ctx context.Context, msgType string, body []byte) error {
	route, ok := h.routes[msgType]
	if !ok {
		return fmt.Errorf("%w: %q", platform.ErrUnknownMessage, msgType)
	}

	h.logger.Debug().
		Str("type", msgType).
		Msg("handling started")

	if err := route(ctx, body); err != nil {
		return err
	}

	h.logger.Debug().
		Str("type", msgType).
		Msg("handling finished")

	return nil
}

func (h *RMQHandler) discoverItem(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.DiscoverItemCommand](body)
	if err != nil {
		return err
	}

	discovery := models.Discovery{
		ProductID:    cmd.ProductID,
		CategoryID:   cmd.CategoryID,
		CategoryName: cmd.CategoryName,
	}
	if cmd.DiscoveredAt != nil {
		discovery.DiscoveredAt = cmd.DiscoveredAt.UTC()
	}

	if _, err := h.services.Registry.Upsert(ctx, discovery); err != nil {
		return fmt.Errorf("can't register discovery: %w", err)
	}

	return nil
}

func (h *RMQHandler) discoverFeed(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.DiscoverFeedCommand](body)
	if err != nil {
		return err
	}

	if _, err := h.services.Discoverer.Discover(ctx, cmd.FeedURL); err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	return nil
}

func (h *RMQHandler) fetchResult(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.FetchResultCommand](body)
	if err != nil {
		return err
	}

	outcome, err := toOutcome(cmd)
	if err != nil {
		return err
	}
	if cmd.AttemptedAt != nil {
		outcome = outcome.At(cmd.AttemptedAt.UTC())
	}

	if _, err := h.services.Scheduler.ApplyResult(ctx, cmd.ProductID, outcome); err != nil {
		return err
	}

	return nil
}

func (h *RMQHandler) crawlPass(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.CrawlPassCommand](body)
	if err != nil {
		return err
	}

	if _, err := h.services.Crawler.Run(ctx, cmd.MaxN); err != nil {
		return fmt.Errorf("crawl pass failed: %w", err)
	}

	return nil
}

func (h *RMQHandler) aggregatePass(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.AggregatePassCommand](body)
	if err != nil {
		return err
	}

	var asOf time.Time
	if cmd.AsOf != nil {
		asOf = cmd.AsOf.UTC()
	}

	if cmd.ProductID != "" {
		_, err := h.services.Aggregator.Recompute(ctx, cmd.ProductID, asOf)
		if errors.Is(err, platform.ErrInsufficientData) {
			h.logger.Info().
				Str("productId", cmd.ProductID).
				Msg("not enough data to recompute product metrics")
			return nil
		}
		if err != nil {
			return fmt.Errorf("can't recompute product metrics: %w", err)
		}
		return nil
	}

	if _, err := h.services.Aggregator.RecomputeAll(ctx, asOf, models.RecordFilter{CategoryID: cmd.CategoryID}); err != nil {
		return fmt.Errorf("aggregation pass failed: %w", err)
	}

	return nil
}

func (h *RMQHandler) deactivate(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.RecordCommand](body)
	if err != nil {
		return err
	}

	_, err = h.services.Registry.Deactivate(ctx, cmd.ProductID)
	return err
}

func (h *RMQHandler) reactivate(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.RecordCommand](body)
	if err != nil {
		return err
	}

	_, err = h.services.Registry.Reactivate(ctx, cmd.ProductID)
	return err
}

func (h *RMQHandler) setPriority(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.SetPriorityCommand](body)
	if err != nil {
		return err
	}

	_, err = h.services.Registry.SetPriority(ctx, cmd.ProductID, cmd.Priority)
	return err
}

func (h *RMQHandler) boostCategory(ctx context.Context, body []byte) error {
	cmd, err := decodeMessage[commander.BoostCategoryCommand](body)
	if err != nil {
		return err
	}

	_, err = h.services.Registry.BoostCategory(ctx, cmd.CategoryID, cmd.Amount)
	return err
}

func toOutcome(cmd *commander.FetchResultCommand) (models.Outcome, error) {
	switch cmd.Outcome {
	case commander.OutcomeSuccess:
		if cmd.Fields == nil {
			return models.Success(models.Fields{}), nil
		}
		return models.Success(models.Fields(cmd.Fields)), nil
	case commander.OutcomeFailure:
		return models.Failure(cmd.Reason), nil
	case commander.OutcomePermanentReject:
		return models.PermanentReject(cmd.Reason), nil
	default:
		return models.Outcome{}, fmt.Errorf("unknown outcome %q of %q fetch", cmd.Outcome, cmd.ProductID)
	}
}

func decodeMessage[T any](msg []byte) (*T, error) {
	var cmd T
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode command: %w", err)
	}

	return &cmd, nil
}
