package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/elskow/naviwish/internal/config"
)

// NewModule returns the auth module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			// Provide repository
			fx.Annotate(
				func(db *gorm.DB) Repository {
					return NewRepository(db)
				},
			),
			// Provide token issuer
			func(config *config.AppConfig) *TokenIssuer {
				return NewTokenIssuer(&config.Auth)
			},
			// Provide metrics
			func(config *config.AppConfig, reg prometheus.Registerer) (*Metrics, error) {
				return NewMetrics(reg, config.Metrics.Namespace)
			},
			// Provide service
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, repo Repository, tokens *TokenIssuer, metrics *Metrics) *Service {
					return NewService(&config.Auth, log, repo, tokens, WithMetrics(metrics))
				},
			),
			// Provide handler
			fx.Annotate(
				func(svc *Service, log *zap.Logger, config *config.AppConfig) *Handler {
					return NewHandler(svc, log, &config.Auth)
				},
			),
			// Provide middleware
			fx.Annotate(
				func(tokens *TokenIssuer, log *zap.Logger) *AuthMiddleware {
					return NewAuthMiddleware(tokens, log)
				},
			),
		),
	)
}
