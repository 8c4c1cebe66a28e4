package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/auth"
	"github.com/elskow/naviwish/internal/config"
	"github.com/elskow/naviwish/internal/database"
	"github.com/elskow/naviwish/internal/migration"
	"github.com/elskow/naviwish/internal/server"
	"github.com/elskow/naviwish/internal/wish"
)

// Module combines all application modules
func Module(logger *zap.Logger) fx.Option {
	return fx.Options(
		// Logger
		fx.Supply(logger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Metrics
		fx.Provide(
			server.NewRegistry,
			func(reg *prometheus.Registry) prometheus.Registerer { return reg },
			func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
			func(cfg *config.AppConfig, reg prometheus.Registerer) (*server.HTTPMetrics, error) {
				return server.NewHTTPMetrics(&cfg.Metrics, reg)
			},
		),

		// Storage; migrations run before the server hook below
		database.Module(),
		migration.Module(),

		// Domain modules
		auth.NewModule(),
		wish.NewModule(),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			return srv.Stop(ctx)
		},
	})
}
