package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StreamAdder appends entries to Redis stream. Satisfied by *redis.Client.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// ScoreStream publishes derived product metrics to Redis stream.
type ScoreStream struct {
	client StreamAdder
	stream string
	maxLen int64
}

// NewScoreStream returns new ScoreStream. Stream is trimmed to approximately maxLen entries when maxLen > 0.
func NewScoreStream(client StreamAdder, stream string, maxLen int64) *ScoreStream {
	return &ScoreStream{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// PublishDerived appends derived metrics entry to stream.
func (s *ScoreStream) PublishDerived(ctx context.Context, metrics *models.DerivedMetrics) error {
	payload, err := json.Marshal(metrics.Fields())
	if err != nil {
		return fmt.Errorf("can't marshal derived metrics: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"event_id":   uuid.NewString(),
			"product_id": metrics.ProductID,
			"as_of":      metrics.AsOf.UTC().Format(time.RFC3339Nano),
			"metrics":    string(payload),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("can't add entry to %q stream: %w", s.stream, err)
	}

	return nil
}
