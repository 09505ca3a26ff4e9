// Package app composes an export run with fx.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matheus3301/smsarchive/internal/bus"
	"github.com/matheus3301/smsarchive/internal/config"
	"github.com/matheus3301/smsarchive/internal/export"
	"github.com/matheus3301/smsarchive/internal/logging"
	"github.com/matheus3301/smsarchive/internal/progress"
	"github.com/matheus3301/smsarchive/internal/resources"
	"github.com/matheus3301/smsarchive/internal/status"
	"github.com/matheus3301/smsarchive/internal/store"
)

// Module returns the fx module for one export, composing all providers and lifecycle hooks.
func Module(cfg *config.Config) fx.Option {
	return fx.Module("export",
		fx.Supply(cfg),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideResources,
			provideStore,
			provideProgress,
			export.NewEngine,
		),
		fx.Invoke(registerLifecycle),
	)
}

// New builds the fx application for cfg. fx's own events are logged at debug level.
func New(cfg *config.Config, opts ...fx.Option) *fx.App {
	opts = append([]fx.Option{
		Module(cfg),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	}, opts...)
	return fx.New(opts...)
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideResources(cfg *config.Config, logger *zap.Logger) (*resources.Set, error) {
	set, err := resources.Locate(cfg.ResourcesDir)
	if err != nil {
		return nil, err
	}
	logger.Info("resources located", zap.String("source", set.Source))
	return set, nil
}

func provideStore(cfg *config.Config, logger *zap.Logger) (*store.DB, error) {
	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("store opened", zap.String("path", cfg.Database))
	return db, nil
}

func provideProgress(cfg *config.Config) *progress.Bar {
	return progress.New(cfg.Progress)
}

func registerLifecycle(lc fx.Lifecycle, db *store.DB, b *bus.Bus, bar *progress.Bar, logger *zap.Logger) {
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Blocking, so no progress step or final summary is lost.
			events, _ := b.SubscribeBlocking("export.", 256)
			go func() {
				defer close(done)
				bar.Run(events)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			b.Close()
			select {
			case <-done:
			case <-ctx.Done():
			}
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			_ = logger.Sync()
			return nil
		},
	})
}
