package di

import (
	"context"
	"fmt"
	"time"

	"FinDash/internal/domain/repository"
	"FinDash/internal/domain/service"
	"FinDash/internal/handler/api"
	"FinDash/internal/handler/ws"
	internalrepo "FinDash/internal/repository"
	"FinDash/internal/service/fallback"
	"FinDash/internal/service/provider"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/service/upstream"
	"FinDash/internal/usecase"
	"FinDash/pkg/cache"
	pkgch "FinDash/pkg/clickhouse"
	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	pkgkafka "FinDash/pkg/kafka"
	xlogger "FinDash/pkg/logger"
	"FinDash/pkg/metrics"
	"FinDash/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideKafkaProducer returns nil when no brokers are configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled() {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the app logger. Error records are shipped to Kafka when a
// collect topic is configured.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Logger.CollectTopic != "" {
		l.AddCollector(&xlogger.CollectionConfig{
			TimeInterval:   cfg.Logger.CollectInterval,
			CountThreshold: cfg.Logger.CollectMax,
			Topic:          cfg.Logger.CollectTopic,
			Service:        "findash",
			Publisher:      producer,
		})
	}
	return l, nil
}

func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Upstream.CryptoTimeout),
		xhttp.WithHeader("User-Agent", "findash/1.0"),
	)
}

func ProvideCurrencySource(client *xhttp.Client, cfg *config.Config) service.CurrencySource {
	return upstream.NewCurrencyClient(client, cfg.Upstream.CurrencyURL, cfg.Upstream.CurrencyTimeout)
}

// ProvideCryptoSource chains CoinGecko with the Coinlore backup when one is configured.
func ProvideCryptoSource(log *xlogger.Logger, m repository.Metrics, client *xhttp.Client, cfg *config.Config) service.CryptoSource {
	primary := upstream.NewCoinGeckoClient(client, cfg.Upstream.CryptoURL, cfg.Upstream.CryptoTimeout, cfg.Upstream.MaxCrypto)
	if cfg.Upstream.CryptoBackupURL == "" {
		return primary
	}
	backup := upstream.NewCoinloreClient(client, cfg.Upstream.CryptoBackupURL, cfg.Upstream.CryptoBackupTimeout, cfg.Upstream.MaxCrypto)
	return upstream.NewCryptoChain(log, m, primary, backup)
}

func ProvideGenerator() *fallback.Generator {
	return fallback.NewGenerator()
}

func ProvideDataProvider(
	log *xlogger.Logger,
	m repository.Metrics,
	gen *fallback.Generator,
	currency service.CurrencySource,
	crypto service.CryptoSource,
) service.DataProvider {
	return provider.New(log, m, gen, currency, crypto)
}

func ProvideOrchestrator(log *xlogger.Logger, p service.DataProvider, m repository.Metrics, cfg *config.Config) *usecase.Orchestrator {
	return usecase.NewOrchestrator(log, p, m, usecase.OrchestratorConfig{
		Interval:     cfg.Refresh.Interval,
		GroupTimeout: cfg.Refresh.GroupTimeout,
	})
}

// ProvideCache layers a small in-process cache over Redis when Redis is enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	local := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		cache.WithMemoryCleanup(cfg.Cache.MemoryCleanup),
	}
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(local...), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc, cfg.Cache.QueryTTL/4, local...), nil
}

// ProvideHistoryStore connects ClickHouse and creates the history table. It returns
// nil when history is disabled.
func ProvideHistoryStore(cfg *config.Config, log *xlogger.Logger) (repository.HistoryStore, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.History.Host, cfg.History.Port),
		pkgch.WithDatabase(cfg.History.Database),
		pkgch.WithCredentials(cfg.History.User, cfg.History.Password),
		pkgch.WithHTTP(cfg.History.UseHTTP),
		pkgch.WithAsyncInsert(true),
		pkgch.WithTimeouts(cfg.History.DialTimeout, cfg.History.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	store := internalrepo.NewCHHistoryStore(client, log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideEventPublisher returns nil without a producer.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideKafkaConsumer returns nil unless a refresh topic is configured.
func ProvideKafkaConsumer(cfg *config.Config, log *xlogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled() || cfg.Kafka.RefreshTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithHook(pkgkafka.TraceHook())
	return consumer, nil
}

func ProvideRefreshHandler(cfg *config.Config, orch *usecase.Orchestrator, log *xlogger.Logger) *usecase.RefreshCommandHandler {
	return usecase.NewRefreshCommandHandler(cfg.Kafka.RefreshTopic, orch, log)
}

func ProvideDashboard(log *xlogger.Logger, orch *usecase.Orchestrator, c cache.Service, history repository.HistoryStore, cfg *config.Config) *usecase.Dashboard {
	return usecase.NewDashboard(log, orch, c, cfg.Cache.QueryTTL, history)
}

func ProvideHub(log *xlogger.Logger, orch *usecase.Orchestrator, cfg *config.Config) *ws.Hub {
	return ws.NewHub(log, orch, ws.Config{
		PingInterval: cfg.WebSocket.PingInterval,
		WriteTimeout: cfg.WebSocket.WriteTimeout,
		SendBuffer:   cfg.WebSocket.SendBuffer,
	})
}

func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

func ProvideDashboardHandler(
	log *xlogger.Logger,
	dash *usecase.Dashboard,
	orch *usecase.Orchestrator,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) *api.DashboardHandler {
	return api.NewDashboardHandler(log, dash, orch, limiter, api.RefreshLimit{
		Burst:  cfg.Server.RefreshBurst,
		PerSec: cfg.Server.RefreshPerSec,
	})
}

func ProvideHTTPServer(log *xlogger.Logger, cfg *config.Config, dh *api.DashboardHandler, hub *ws.Hub) *xhttp.Server {
	return xhttp.NewServer(log, xhttp.Handlers{dh, hub},
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithCORS(cfg.Server.CORSOrigins...),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
	)
}

func ProvideApp(
	cfg *config.Config,
	log *xlogger.Logger,
	orch *usecase.Orchestrator,
	httpServer *xhttp.Server,
	hub *ws.Hub,
	c cache.Service,
	history repository.HistoryStore,
	events repository.EventPublisher,
	consumer *pkgkafka.Consumer,
	refresh *usecase.RefreshCommandHandler,
	limiter *ratelimit.Limiter,
) *server.App {
	return server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Orch:     orch,
		HTTP:     httpServer,
		Hub:      hub,
		Cache:    c,
		History:  history,
		Events:   events,
		Consumer: consumer,
		Refresh:  refresh,
		Limiter:  limiter,
	})
}
