package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"PegGuard/internal/actuarial"
	"PegGuard/internal/curves"
	"PegGuard/internal/domain/repository"
	"PegGuard/internal/handler/api"
	"PegGuard/internal/regime"
	internalrepo "PegGuard/internal/repository"
	"PegGuard/internal/service/oracle"
	"PegGuard/internal/usecase"
	"PegGuard/pkg/cache"
	pkgch "PegGuard/pkg/clickhouse"
	"PegGuard/pkg/config"
	xhttp "PegGuard/pkg/http"
	pkgkafka "PegGuard/pkg/kafka"
	xlogger "PegGuard/pkg/logger"
	"PegGuard/pkg/metrics"
	"PegGuard/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	return xlogger.New(&xlogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCurveStore loads and validates the peril curve catalog.
func ProvideCurveStore(cfg *config.Config) (*curves.Store, error) {
	store, err := curves.Load(cfg.Curves.Path)
	if err != nil {
		return nil, fmt.Errorf("load curves: %w", err)
	}
	return store, nil
}

// ProvideEngine creates the pricing engine.
func ProvideEngine() *actuarial.Engine {
	return actuarial.NewEngine()
}

// ProvideClassifier creates the regime classifier, falling back to the
// default bounds for any threshold left unset in config.
func ProvideClassifier(cfg *config.Config) *regime.Classifier {
	b := regime.DefaultBounds()
	if cfg.Classifier.CalmMax > 0 {
		b.CalmMax = cfg.Classifier.CalmMax
	}
	if cfg.Classifier.VolatileMax > 0 {
		b.VolatileMax = cfg.Classifier.VolatileMax
	}
	if cfg.Classifier.BoundaryEpsilon > 0 {
		b.BoundaryEpsilon = cfg.Classifier.BoundaryEpsilon
	}
	if cfg.Classifier.Staleness > 0 {
		b.Staleness = cfg.Classifier.Staleness
	}
	return regime.NewClassifier(b)
}

// ProvideOracleStream creates the oracle WebSocket stream.
func ProvideOracleStream(cfg *config.Config, logger *xlogger.Logger) repository.OracleStream {
	return oracle.New(
		cfg.Oracle.APIKey,
		cfg.Oracle.WebSocketURL,
		cfg.Oracle.SnapshotURL,
		cfg.Oracle.FeedID,
		cfg.Oracle.ReconnectDelay,
		cfg.Oracle.PingInterval,
		logger,
	)
}

// ProvideCache creates the observation cache backend: Redis when enabled,
// in-process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Redis.Enabled {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideObservationCache wraps the cache backend for regime observations.
func ProvideObservationCache(c cache.Service) repository.ObservationCache {
	return internalrepo.NewCachedObservations(c, 10*time.Minute)
}

// ProvideClickHouseClient creates the ClickHouse client and runs the history
// schema. Returns nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.ClickHouse.Database + ".quotes"
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database, table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideQuoteHistory creates the quote history repository.
func ProvideQuoteHistory(chClient *pkgch.Client, cfg *config.Config) repository.QuoteHistory {
	if chClient == nil {
		return internalrepo.NopQuoteHistory{}
	}
	return internalrepo.NewClickHouseQuoteHistory(chClient.DB(), cfg.ClickHouse.Database+".quotes")
}

// ProvideKafkaProducer creates the Kafka producer. Returns nil when Kafka is
// disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the event publisher repository.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return internalrepo.NopEventPublisher{}
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.QuoteTopic, cfg.Kafka.RegimeTopic)
}

// ProvideRegimeMonitor creates the regime monitor use case.
func ProvideRegimeMonitor(
	stream repository.OracleStream,
	classifier *regime.Classifier,
	obsCache repository.ObservationCache,
	publisher repository.EventPublisher,
	m repository.Metrics,
	logger *xlogger.Logger,
	cfg *config.Config,
) *usecase.RegimeMonitor {
	return usecase.NewRegimeMonitor(stream, classifier, obsCache, publisher, m, logger, cfg.Classifier.Interval)
}

// ProvideQuoteService creates the quote service use case.
func ProvideQuoteService(
	store *curves.Store,
	engine *actuarial.Engine,
	monitor *usecase.RegimeMonitor,
	history repository.QuoteHistory,
	events repository.EventPublisher,
	m repository.Metrics,
	logger *xlogger.Logger,
) *usecase.QuoteService {
	return usecase.NewQuoteService(store, engine, monitor, history, events, m, logger)
}

// ProvideHandler creates the API route handler.
func ProvideHandler(logger *xlogger.Logger, quotes *usecase.QuoteService, monitor *usecase.RegimeMonitor) xhttp.Handler {
	return api.NewQuotesEchoHandler(logger, quotes, monitor)
}

// ProvideApp assembles the application server, collecting closable
// infrastructure for shutdown.
func ProvideApp(
	cfg *config.Config,
	logger *xlogger.Logger,
	stream repository.OracleStream,
	monitor *usecase.RegimeMonitor,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
) *server.App {
	var closers []io.Closer
	if producer != nil {
		closers = append(closers, producer)
	}
	if chClient != nil {
		closers = append(closers, chClient)
	}
	closers = append(closers, cacheSvc)
	return server.New(cfg, logger, stream, monitor, handler, closers...)
}
