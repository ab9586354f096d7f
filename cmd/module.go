package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	httpin "mealorder/internal/adapters/in/http"
	"mealorder/internal/adapters/out/kafka"
	"mealorder/internal/adapters/out/notifier"
	"mealorder/internal/adapters/out/postgres"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"
)

// Module provides the whole application graph. Start order follows the
// dependency graph: database, publisher, notifier, HTTP server, jobs.
var Module = fx.Options(
	fx.Provide(
		LoadConfig,
		provideLogger,
		provideDatabase,
		providePublisher,
		provideNotifier,
		provideCompositionRoot,
		provideRouter,
	),
	fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
		l := &fxevent.SlogLogger{Logger: logger.With("component", "fx")}
		l.UseLogLevel(slog.LevelDebug)
		return l
	}),
	fx.Invoke(
		startTracing,
		startServer,
		startJobs,
	),
)

func provideLogger(lc fx.Lifecycle, cfg Config) (*slog.Logger, error) {
	logger, sync, err := NewLogger(cfg.Log, cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = sync()
	}))
	return logger, nil
}

func startTracing(lc fx.Lifecycle, cfg Config, logger *slog.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = SetupTracing(ctx, cfg.OtelEndpoint, cfg.ServiceName, logger)
			return err
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func provideDatabase(lc fx.Lifecycle, cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := postgres.Open(postgres.Options{
		DSN:             cfg.DB.DSN(),
		Driver:          cfg.DB.Driver,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		SlowThreshold:   cfg.DB.SlowThreshold,
	}, logger)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err = postgres.Migrate(db); err != nil {
			return nil, err
		}
		logger.Info("database schema migrated")
	}

	lc.Append(fx.StopHook(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}))
	return db, nil
}

// providePublisher falls back to logging messages when no broker is configured.
func providePublisher(lc fx.Lifecycle, cfg Config, logger *slog.Logger) (ports.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("KAFKA_BROKERS is empty, outbox messages go to the log")
		return kafka.NewLogPublisher(logger), nil
	}

	publisher, err := kafka.NewPublisher(kafka.Options{
		Brokers:      cfg.Kafka.Brokers,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(publisher.Close))
	return publisher, nil
}

func provideNotifier(lc fx.Lifecycle, cfg Config, publisher ports.EventPublisher, logger *slog.Logger) *notifier.LowStockNotifier {
	n := notifier.NewLowStockNotifier(publisher, cfg.Business.NotifierBuffer, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			n.Start(workerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer cancel()
			return n.Stop(ctx)
		},
	})
	return n
}

func provideCompositionRoot(
	cfg Config,
	db *gorm.DB,
	publisher ports.EventPublisher,
	n *notifier.LowStockNotifier,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	return NewCompositionRoot(cfg, db, publisher, n, logger)
}

func provideRouter(root *CompositionRoot, logger *slog.Logger) (*echo.Echo, error) {
	handlers, err := root.HTTPHandlers()
	if err != nil {
		return nil, err
	}
	doc, err := httpin.LoadSpec()
	if err != nil {
		return nil, err
	}
	return httpin.NewRouter(httpin.NewServer(handlers, logger), doc, logger)
}

func startServer(lc fx.Lifecycle, e *echo.Echo, cfg Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			addr := net.JoinHostPort("0.0.0.0", cfg.HTTPPort)
			logger.Info("starting http server", "address", addr)
			go func() {
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping http server")
			return errs.Wrap(e.Shutdown(ctx), "shutdown http server")
		},
	})
}

func startJobs(lc fx.Lifecycle, root *CompositionRoot, logger *slog.Logger) {
	manager := root.JobManager()
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := manager.StartAll(); err != nil {
				return err
			}
			logger.Info("background jobs started")
			return nil
		},
		OnStop: func(context.Context) error {
			manager.StopAll()
			logger.Info("background jobs stopped")
			return nil
		},
	})
}
