package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MichalMitros/market-tracker/cmd/tracker/config"
	"github.com/MichalMitros/market-tracker/internal/aggregation"
	"github.com/MichalMitros/market-tracker/internal/crawler"
	"github.com/MichalMitros/market-tracker/internal/decoder"
	"github.com/MichalMitros/market-tracker/internal/discovery"
	"github.com/MichalMitros/market-tracker/internal/fetcher"
	"github.com/MichalMitros/market-tracker/internal/handler"
	"github.com/MichalMitros/market-tracker/internal/platform/metrics"
	"github.com/MichalMitros/market-tracker/internal/platform/rabbitmq"
	tredis "github.com/MichalMitros/market-tracker/internal/platform/redis"
	"github.com/MichalMitros/market-tracker/internal/platform/storage"
	"github.com/MichalMitros/market-tracker/internal/platform/storage/memory"
	"github.com/MichalMitros/market-tracker/internal/registry"
	"github.com/MichalMitros/market-tracker/internal/scheduler"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// UserAgent is user agent header value used when fetching feed files and products.
	UserAgent = "market-tracker/0.1.0"
)

// store is storage backing registry, scheduler and aggregation engine.
type store interface {
	registry.Store
	aggregation.Store
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatal().
			Err(err).
			Msg("can't load .env file")
	}

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	if err := cfg.Registry.Validate(); err != nil {
		logger.Fatal().
			Err(err).
			Msg("invalid registry configuration")
	}

	engineCfg, err := cfg.Aggregation.EngineConfig()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("invalid aggregation configuration")
	}

	var (
		st   store
		pgDB *sql.DB
	)
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if pgDB, err = sql.Open("postgres", cfg.DatabaseURL); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't open Postgres connection")
		}
		pg := storage.NewPostgres(pgDB)
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't migrate database")
		}
		st = pg
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory storage, data won't survive restart")
		st = memory.NewMemory()
	default:
		logger.Fatal().
			Str("driver", cfg.StorageDriver).
			Msg("unknown storage driver")
	}

	promRegistry := prometheus.NewRegistry()
	trackerMetrics := metrics.NewMetrics(promRegistry)

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	conn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	engineOps := []aggregation.Option{
		aggregation.WithParallelism(cfg.Aggregation.Parallelism),
		aggregation.WithMetrics(trackerMetrics),
		aggregation.WithLogger(&logger),
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't connect to Redis")
		}
		engineOps = append(engineOps, aggregation.WithPublisher(
			tredis.NewScoreStream(redisClient, cfg.Redis.Stream, cfg.Redis.StreamMaxLen),
		))
	}

	httpFetcher := fetcher.NewFetcher(
		&http.Client{Timeout: cfg.HTTPTimeout},
		UserAgent,
		fetcher.WithExtractorURL(cfg.Crawler.ExtractorURL),
	)

	reg := registry.NewRegistry(
		st,
		registry.WithDefaultPriority(cfg.Registry.DefaultPriority),
		registry.WithLogger(&logger),
	)

	sched := scheduler.NewScheduler(
		reg,
		st,
		cfg.Scheduler.Policy(),
		scheduler.WithThreshold(cfg.Scheduler.ErrorThreshold),
		scheduler.WithMetrics(trackerMetrics),
		scheduler.WithLogger(&logger),
	)

	services := handler.Services{
		Registry:   reg,
		Discoverer: discovery.NewDiscoverer(httpFetcher, &decoder.Decoder{}, reg, cfg.BatchSize, discovery.WithLogger(&logger)),
		Scheduler:  sched,
		Aggregator: aggregation.NewEngine(st, engineCfg, engineOps...),
	}
	// without extraction service fetches are reported by external fetchers
	if cfg.Crawler.ExtractorURL != "" {
		services.Crawler = crawler.NewCrawler(
			sched,
			httpFetcher,
			crawler.WithParallelism(cfg.Crawler.Parallelism),
			crawler.WithRateLimit(cfg.Crawler.RatePerMinute),
			crawler.WithTimeout(cfg.Crawler.Timeout),
			crawler.WithMetrics(trackerMetrics),
			crawler.WithLogger(&logger),
		)
	}

	han := handler.NewHandler(conn, services, &logger)

	// start consuming and handling messages
	err = han.Start(ctx, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(promRegistry))
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("metrics server failed")
			cancel()
		}
	}()

	logger.Info().
		Str("storage", cfg.StorageDriver).
		Bool("crawler", services.Crawler != nil).
		Bool("scoreStream", redisClient != nil).
		Msg("market tracker up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumer to finish
	<-conn.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// close connections
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().
				Err(err).
				Msg("can't shutdown metrics server")
		}
	}()

	if pgDB != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pgDB.Close(); err != nil {
				logger.Fatal().
					Err(err).
					Msg("can't close Postgres connection")
			}
		}()
	}

	if redisClient != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := redisClient.Close(); err != nil {
				logger.Error().
					Err(err).
					Msg("can't close Redis connection")
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}
