// Package dashboard composes the dashboard's core components with fx.
package dashboard

import (
	"context"
	"net/http"

	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/auth"
	"github.com/matheus3301/padesk/internal/bus"
	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/config"
	"github.com/matheus3301/padesk/internal/lock"
	"github.com/matheus3301/padesk/internal/logging"
	"github.com/matheus3301/padesk/internal/metrics"
	"github.com/matheus3301/padesk/internal/policy"
	"github.com/matheus3301/padesk/internal/profile"
	"github.com/matheus3301/padesk/internal/resource"
	"github.com/matheus3301/padesk/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
	Config      *config.Config
	Dir         string // optional override for testing; empty = use the profile dir
	Console     bool   // also log to stderr
}

func (p Params) paths() profile.Paths {
	if p.Dir != "" {
		return profile.Paths{Dir: p.Dir}
	}
	return profile.For(p.ProfileName)
}

func (p Params) config() *config.Config {
	if p.Config == nil {
		return config.Default()
	}
	return p.Config
}

// Module returns the fx module for the dashboard, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("dashboard",
		fx.Supply(p),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			provideLogger,
			provideBus,
			provideMetrics,
			provideLock,
			provideStore,
			provideSession,
			provideClient,
			providePolicy,
			provideResources,
			provideEngine,
			providePoller,
			provideMetricsServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(p.paths().Log(), p.ProfileName, p.Console)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideMetrics() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	return reg, metrics.New(reg)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(p.paths().Dir)
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

// provideStore depends on the lock so the database is never opened by a
// second dashboard on the same profile.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := p.paths().DB()
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

// provideSession builds the session over its own unauthenticated client so
// refresh and login calls never recurse into the bearer retry.
func provideSession(p Params, db *store.DB, b *bus.Bus, logger *zap.Logger, m *metrics.Metrics) (*auth.Session, error) {
	cfg := p.config()
	authClient, err := apiclient.New(apiclient.Config{
		Name:       "auth",
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
	}, nil, logger, m)
	if err != nil {
		return nil, err
	}
	return auth.NewSession(db, auth.NewHTTPRefresher(authClient), b, logger, m)
}

func provideClient(p Params, sess *auth.Session, logger *zap.Logger, m *metrics.Metrics) (*apiclient.Client, error) {
	cfg := p.config()
	var limiter *rate.Limiter
	if cfg.API.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RequestsPerSecond), max(cfg.API.Burst, 1))
	}
	return apiclient.New(apiclient.Config{
		Name:       "primary",
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Limiter:    limiter,
	}, sess, logger, m)
}

func providePolicy(logger *zap.Logger, m *metrics.Metrics) *policy.Policy {
	return policy.New(logger, m)
}

func provideResources(client *apiclient.Client, pol *policy.Policy, logger *zap.Logger) *resource.Set {
	return resource.NewSet(resource.Deps{
		Ctx:    context.Background(),
		Client: client,
		Policy: pol,
		Logger: logger,
	})
}

// provideEngine builds the chat engine over a separate client: the messaging
// backend has its own base URL and API key and no bearer session.
func provideEngine(p Params, b *bus.Bus, logger *zap.Logger, m *metrics.Metrics) (*chat.Engine, error) {
	cfg := p.config()
	headers := http.Header{}
	if cfg.Chat.APIKey != "" {
		headers.Set("X-API-Key", cfg.Chat.APIKey)
	}
	chatClient, err := apiclient.New(apiclient.Config{
		Name:       "chat",
		BaseURL:    cfg.Chat.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Headers:    headers,
	}, nil, logger, m)
	if err != nil {
		return nil, err
	}

	opts := []chat.Option{chat.WithLocation(cfg.Display.Location())}
	if cfg.Display.TimeLayout != "" {
		opts = append(opts, chat.WithLayout(cfg.Display.TimeLayout))
	}
	return chat.NewEngine(chatClient, b, logger, opts...), nil
}

func providePoller(p Params, engine *chat.Engine, m *metrics.Metrics, logger *zap.Logger) *chat.Poller {
	return chat.NewPoller(engine, p.config().Chat.PollInterval, m, logger)
}

func provideMetricsServer(p Params, reg *prometheus.Registry, logger *zap.Logger) (*MetricsServer, error) {
	return NewMetricsServer(p.config().MetricsAddr, reg, logger)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, db *store.DB, sess *auth.Session, poller *chat.Poller, engine *chat.Engine, set *resource.Set, srv *MetricsServer, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("dashboard starting", zap.String("session", string(sess.State())))

			// Polling outlives the start context.
			poller.Start(context.Background())

			if srv != nil {
				go func() {
					if err := srv.Start(); err != nil {
						logger.Error("metrics server error", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			poller.Stop()
			engine.Close()
			set.Close()
			srv.Stop(ctx)
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("dashboard stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
