// Package app initializes and holds long-lived application services, acting
// as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/agrilens/price-scraper/internal/catalog"
	"github.com/agrilens/price-scraper/internal/fetch"
	"github.com/agrilens/price-scraper/internal/logging"
	"github.com/agrilens/price-scraper/internal/metrics"
	"github.com/agrilens/price-scraper/internal/orchestrator"
	"github.com/agrilens/price-scraper/internal/ratelimit"
	"github.com/agrilens/price-scraper/internal/source"
	"github.com/agrilens/price-scraper/internal/transport"
)

// App holds the shared services and factories for the scraper process. It is
// initialized once at startup from Viper configuration and passed to the
// commands through the cobra context.
//
// Connections are deliberately NOT held here: the catalog and queue
// factories open a fresh pair per adapter run, so one adapter's failure can
// never poison another's connection.
type App struct {
	logger       *zap.Logger
	runner       *source.Runner
	orchestrator *orchestrator.Orchestrator
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetRunner returns the shared adapter driver.
func (a *App) GetRunner() *source.Runner {
	return a.runner
}

// GetOrchestrator returns the configured multi-source orchestrator.
func (a *App) GetOrchestrator() *orchestrator.Orchestrator {
	return a.orchestrator
}

// NewApp creates and initializes a new App from the application's
// configuration. It validates provider choices up front so a bad config
// fails fast, before any scraping starts.
func NewApp(ctx context.Context) (*App, error) {
	l := logging.L
	l.Info("Initializing application services...")

	newCatalog, err := catalogFactory(l)
	if err != nil {
		return nil, err
	}
	newTransport, err := transportFactory(l)
	if err != nil {
		return nil, err
	}

	runner := &source.Runner{
		NewCatalog:   newCatalog,
		NewTransport: newTransport,
		Queue:        viper.GetString("queue.name"),
		Logger:       l,
	}

	regs, err := registrations()
	if err != nil {
		return nil, err
	}
	delay := time.Duration(viper.GetInt("run.delay_seconds")) * time.Second
	orch := orchestrator.New(runner, regs, delay, l)

	if addr := viper.GetString("metrics.addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			l.Info("Starting metrics server", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				l.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	l.Info("Application services initialized successfully.")
	return &App{logger: l, runner: runner, orchestrator: orch}, nil
}

// catalogFactory returns a closure opening the configured catalog provider.
func catalogFactory(l *zap.Logger) (func(ctx context.Context) (catalog.Provider, error), error) {
	switch provider := viper.GetString("catalog.provider"); provider {
	case "postgres":
		dsn := viper.GetString("catalog.postgres.dsn")
		if dsn == "" {
			return nil, fmt.Errorf("catalog provider is 'postgres' but catalog.postgres.dsn is not set")
		}
		return func(ctx context.Context) (catalog.Provider, error) {
			l.Debug("Connecting to PostgreSQL catalog")
			return catalog.NewPostgres(ctx, catalog.PostgresConfig{DSN: dsn})
		}, nil
	case "noop":
		l.Info("Using No-Op catalog provider. Nothing will resolve.")
		return func(context.Context) (catalog.Provider, error) {
			return catalog.NoOpProvider{}, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown catalog provider: %s", provider)
	}
}

// transportFactory returns a closure opening the configured queue transport.
func transportFactory(l *zap.Logger) (func(ctx context.Context) (transport.Provider, error), error) {
	switch provider := viper.GetString("queue.provider"); provider {
	case "amqp":
		url := viper.GetString("queue.amqp.url")
		if url == "" {
			return nil, fmt.Errorf("queue provider is 'amqp' but queue.amqp.url is not set")
		}
		return func(context.Context) (transport.Provider, error) {
			l.Debug("Connecting to RabbitMQ")
			return transport.NewAMQPProvider(url)
		}, nil
	case "pubsub":
		projectID := viper.GetString("queue.gcp.project_id")
		topicID := viper.GetString("queue.gcp.topic_id")
		if projectID == "" || topicID == "" {
			return nil, fmt.Errorf("queue provider is 'pubsub' but project_id or topic_id is not set")
		}
		return func(ctx context.Context) (transport.Provider, error) {
			l.Debug("Connecting to GCP Pub/Sub", zap.String("topic", topicID))
			return transport.NewPubSubProvider(ctx, projectID, topicID)
		}, nil
	case "noop":
		l.Info("Using No-Op queue provider. No messages will be sent.")
		return func(context.Context) (transport.Provider, error) {
			return transport.NoOpProvider{}, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown queue provider: %s", provider)
	}
}

// registrations builds the adapter registry from the per-source config keys.
func registrations() ([]orchestrator.Registration, error) {
	jiji, err := jijiAdapter()
	if err != nil {
		return nil, fmt.Errorf("configure jiji adapter: %w", err)
	}
	sample := source.NewSample(nil, nil, nil)
	return []orchestrator.Registration{
		{
			Name:     jiji.Name(),
			Priority: viper.GetInt("sources.jiji.priority"),
			Enabled:  viper.GetBool("sources.jiji.enabled"),
			Adapter:  jiji,
		},
		{
			Name:     sample.Name(),
			Priority: viper.GetInt("sources.sample.priority"),
			Enabled:  viper.GetBool("sources.sample.enabled"),
			Adapter:  sample,
		},
	}, nil
}

func jijiAdapter() (*source.Jiji, error) {
	minPrice, err := decimal.NewFromString(viper.GetString("scraper.min_price"))
	if err != nil {
		return nil, fmt.Errorf("parse scraper.min_price: %w", err)
	}
	timeout := time.Duration(viper.GetInt("scraper.timeout_seconds")) * time.Second
	fetcher := fetch.NewColly(fetch.CollyConfig{
		UserAgent: viper.GetString("scraper.user_agent"),
		Timeout:   timeout,
		Limiter: ratelimit.New(ratelimit.Config{
			DefaultRPS:   viper.GetFloat64("scraper.rate_limit_rps"),
			DefaultBurst: viper.GetInt("scraper.rate_limit_burst"),
		}),
	})
	return source.NewJiji(fetcher, source.JijiConfig{
		BaseURL:  viper.GetString("scraper.jiji_base_url"),
		Timeout:  timeout,
		MinDelay: time.Duration(viper.GetInt("scraper.min_delay_seconds")) * time.Second,
		MaxDelay: time.Duration(viper.GetInt("scraper.max_delay_seconds")) * time.Second,
		MinPrice: minPrice,
	})
}

// NewManual builds the interactive console adapter over the process
// terminal.
func (a *App) NewManual() *source.Manual {
	return source.NewManual(os.Stdin, os.Stdout)
}

// Close gracefully shuts down the App. Connections are adapter-scoped and
// already released by the runner; only the logger buffer needs flushing.
func (a *App) Close() {
	a.logger.Info("Shutting down application services...")
	_ = a.logger.Sync()
}
