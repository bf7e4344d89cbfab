package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "FinDash/internal/domain/repository"
	"FinDash/internal/handler/ws"
	"FinDash/internal/repository"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/usecase"
	"FinDash/pkg/cache"
	"FinDash/pkg/config"
	xhttp "FinDash/pkg/http"
	pkgkafka "FinDash/pkg/kafka"
	applogger "FinDash/pkg/logger"

	"github.com/robfig/cron/v3"
)

const limiterSweepSpec = "@every 5m"

// Deps are the wired components. History, Events, Consumer and Refresh may be nil.
type Deps struct {
	Config   *config.Config
	Log      *applogger.Logger
	Orch     *usecase.Orchestrator
	HTTP     *xhttp.Server
	Hub      *ws.Hub
	Cache    cache.Service
	History  domrepo.HistoryStore
	Events   domrepo.EventPublisher
	Consumer *pkgkafka.Consumer
	Refresh  *usecase.RefreshCommandHandler
	Limiter  *ratelimit.Limiter
}

// App encapsulates the entire application lifecycle.
type App struct {
	Deps
	sweeper *cron.Cron
}

func New(d Deps) *App {
	return &App{Deps: d}
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	a.Log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) start(ctx context.Context) error {
	sinks := a.registerSinks()

	// The dashboard is seeded before the first request can reach it.
	if err := a.Orch.Start(ctx); err != nil {
		return err
	}

	if a.Consumer != nil && a.Refresh != nil {
		a.Consumer.RegisterHandler(a.Refresh)
		if err := a.Consumer.Start(ctx); err != nil {
			return err
		}
	}

	a.sweeper = cron.New()
	if _, err := a.sweeper.AddFunc(limiterSweepSpec, func() {
		if n := a.Limiter.Sweep(); n > 0 {
			a.Log.Debug("rate limiter swept", applogger.Int("buckets", n))
		}
	}); err != nil {
		return err
	}
	a.sweeper.Start()

	if err := a.HTTP.Start(); err != nil {
		a.Log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.Log.Info("findash started",
		applogger.String("env", a.Config.Environment),
		applogger.Int("port", a.Config.Server.Port),
		applogger.Strings("sinks", sinks))
	return nil
}

// registerSinks subscribes the optional consumers of settled cycles. Delivery
// follows registration order.
func (a *App) registerSinks() []string {
	a.Orch.AddSink(a.Hub)
	names := []string{"websocket"}
	if a.Cache != nil {
		a.Orch.AddSink(repository.NewCacheInvalidationSink(a.Cache, usecase.QueryCachePattern))
		names = append(names, "cache")
	}
	if a.History != nil {
		a.Orch.AddSink(repository.NewHistorySink(a.History))
		names = append(names, "history")
	}
	if a.Events != nil {
		a.Orch.AddSink(repository.NewEventSink(a.Events))
		names = append(names, "events")
	}
	return names
}

// shutdown stops producers of work first, then the transports and stores they feed.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer cancel()

	if a.sweeper != nil {
		<-a.sweeper.Stop().Done()
	}
	if a.Consumer != nil {
		if err := a.Consumer.Stop(ctx); err != nil {
			a.Log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	a.Orch.Stop()

	if err := a.Hub.Close(); err != nil {
		a.Log.Warn("websocket hub close error", applogger.Error(err))
	}
	if err := a.HTTP.Stop(ctx); err != nil {
		a.Log.Error("http shutdown error", applogger.Error(err))
	}

	if a.History != nil {
		if err := a.History.Close(); err != nil {
			a.Log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	// Drain collected error logs while the producer is still open.
	a.Log.RemoveCollector()
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			a.Log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.Log.Info("shutdown complete")
	return nil
}
