package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MichalMitros/market-tracker/internal/aggregation"
	"github.com/MichalMitros/market-tracker/internal/backoff"
	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/samber/lo"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	BatchSize     uint          `env:"BATCH_SIZE" envDefault:"50"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	MetricsAddr   string        `env:"METRICS_ADDR" envDefault:":9090"`

	Registry    Registry
	Scheduler   Scheduler
	Crawler     Crawler
	Aggregation Aggregation
	RabbitMQ    RabbitMQ
	Redis       Redis
}

// Registry holds identifier registry configuration.
type Registry struct {
	DefaultPriority int `env:"PRIORITY_DEFAULT" envDefault:"5"`
}

// Validate checks registry configuration.
func (r Registry) Validate() error {
	if !models.ValidPriority(r.DefaultPriority) {
		return fmt.Errorf(
			"invalid default priority %d, should be between %d and %d",
			r.DefaultPriority, models.MinPriority, models.MaxPriority,
		)
	}

	return nil
}

// Scheduler holds crawl lifecycle configuration.
type Scheduler struct {
	ErrorThreshold  int           `env:"ERROR_THRESHOLD" envDefault:"5"`
	BackoffBase     time.Duration `env:"BACKOFF_BASE" envDefault:"1m"`
	BackoffCap      time.Duration `env:"BACKOFF_CAP" envDefault:"24h"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"72h"`
}

// Policy returns backoff policy.
func (s Scheduler) Policy() backoff.Policy {
	return backoff.Policy{
		Base:            s.BackoffBase,
		Cap:             s.BackoffCap,
		RefreshInterval: s.RefreshInterval,
	}
}

// Crawler holds crawl pass configuration.
type Crawler struct {
	ExtractorURL  string        `env:"EXTRACTOR_URL"`
	Parallelism   int           `env:"CRAWL_PARALLELISM" envDefault:"4"`
	RatePerMinute int           `env:"FETCH_RATE_PER_MINUTE" envDefault:"60"`
	Timeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
}

// Aggregation holds metrics aggregation configuration.
type Aggregation struct {
	TrendWeights  []float64     `env:"TREND_WEIGHTS" envSeparator:"," envDefault:"0.7,0.3"`
	MarginWeights []float64     `env:"MARGIN_WEIGHTS" envSeparator:"," envDefault:"0.3,0.3,0.2,0.2"`
	TrendWindow   time.Duration `env:"TREND_WINDOW" envDefault:"168h"`
	Parallelism   int           `env:"AGGREGATION_PARALLELISM" envDefault:"4"`
	// SeasonalKeywords maps season to "|" separated keywords, e.g. "summer:beach|swim,winter:snow".
	SeasonalKeywords map[string]string `env:"SEASONAL_KEYWORDS"`
	// SeasonalCategories maps season to "|" separated category ids.
	SeasonalCategories map[string]string `env:"SEASONAL_CATEGORIES"`
}

// EngineConfig validates weights and returns aggregation engine configuration.
// Configured seasons replace default rules of the same season.
func (a Aggregation) EngineConfig() (aggregation.Config, error) {
	trend, err := aggregation.NewTrendWeights(a.TrendWeights)
	if err != nil {
		return aggregation.Config{}, err
	}

	margin, err := aggregation.NewMarginWeights(a.MarginWeights)
	if err != nil {
		return aggregation.Config{}, err
	}

	if a.TrendWindow <= 0 {
		return aggregation.Config{}, fmt.Errorf("invalid trend window %s", a.TrendWindow)
	}

	seasons := aggregation.DefaultSeasons()
	configured := lo.Uniq(append(lo.Keys(a.SeasonalKeywords), lo.Keys(a.SeasonalCategories)...))
	for _, season := range configured {
		seasons[strings.ToLower(strings.TrimSpace(season))] = aggregation.SeasonRule{
			Keywords:   splitList(a.SeasonalKeywords[season]),
			Categories: splitList(a.SeasonalCategories[season]),
		}
	}

	return aggregation.Config{
		Trend:       trend,
		Margin:      margin,
		TrendWindow: a.TrendWindow,
		Seasons:     seasons,
	}, nil
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"tracker-ex"`
	Queue    string `env:"RABBITMQ_QUEUE" envDefault:"market-tracker.commands"`
}

// Redis holds derived metrics stream configuration. Stream is disabled when Addr is empty.
type Redis struct {
	Addr         string `env:"REDIS_ADDR"`
	Password     string `env:"REDIS_PASSWORD"`
	DB           int    `env:"REDIS_DB" envDefault:"0"`
	Stream       string `env:"REDIS_STREAM" envDefault:"market-tracker.derived"`
	StreamMaxLen int64  `env:"REDIS_STREAM_MAX_LEN" envDefault:"10000"`
}

func splitList(value string) []string {
	items := lo.Map(strings.Split(value, "|"), func(item string, _ int) string {
		return strings.ToLower(strings.TrimSpace(item))
	})

	return lo.Filter(items, func(item string, _ int) bool { return item != "" })
}
