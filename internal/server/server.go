package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/elskow/naviwish/internal/api"
	"github.com/elskow/naviwish/internal/auth"
	"github.com/elskow/naviwish/internal/config"
	"github.com/elskow/naviwish/internal/wish"
)

type Server struct {
	config     *config.AppConfig
	log        *zap.Logger
	httpServer *http.Server
	health     *HealthServer
}

type Params struct {
	fx.In

	Config         *config.AppConfig
	Logger         *zap.Logger
	AuthHandler    *auth.Handler
	AuthMiddleware *auth.AuthMiddleware
	WishHandler    *wish.Handler
	Metrics        *HTTPMetrics
	Gatherer       prometheus.Gatherer
}

// RouterParams holds everything NewRouter needs. Metrics and Gatherer are
// optional.
type RouterParams struct {
	Config         *config.AppConfig
	Logger         *zap.Logger
	AuthHandler    *auth.Handler
	AuthMiddleware *auth.AuthMiddleware
	WishHandler    *wish.Handler
	Metrics        *HTTPMetrics
	Gatherer       prometheus.Gatherer
}

func NewRouter(p RouterParams) *gin.Engine {
	router := gin.New()
	router.Use(
		RequestID(),
		AccessLog(p.Logger),
		Recovery(p.Logger),
		p.Metrics.Handler(),
		BodyLimit(p.Config.Server.MaxBodyBytes),
	)

	handlers := map[api.Route]gin.HandlerFunc{
		api.Login:      p.AuthHandler.Login,
		api.ListWishes: p.WishHandler.List,
		api.AddWish:    p.WishHandler.Add,
		api.DeleteWish: p.WishHandler.Delete,
	}

	for route, handler := range handlers {
		// Skip authentication for non-protected endpoints
		if !api.IsProtected(route) {
			router.Handle(route.Method, route.Path, handler)
			continue
		}
		router.Handle(route.Method, route.Path, p.AuthMiddleware.RequireSession(), handler)
	}

	if p.Gatherer != nil && p.Config.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not found"})
	})

	return router
}

func NewServer(p Params) *Server {
	router := NewRouter(RouterParams{
		Config:         p.Config,
		Logger:         p.Logger,
		AuthHandler:    p.AuthHandler,
		AuthMiddleware: p.AuthMiddleware,
		WishHandler:    p.WishHandler,
		Metrics:        p.Metrics,
		Gatherer:       p.Gatherer,
	})

	return &Server{
		config: p.Config,
		log:    p.Logger,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(p.Config.Server.Host, p.Config.Server.Port),
			Handler:      router,
			ReadTimeout:  p.Config.Server.ReadTimeout,
			WriteTimeout: p.Config.Server.WriteTimeout,
		},
		health: NewHealthServer(&p.Config.GRPC, p.Logger),
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves HTTP until Stop is called. The health server, when enabled,
// runs alongside it.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	if s.health.Enabled() {
		go func() {
			if err := s.health.Start(s.config.Server.Host); err != nil {
				s.log.Error("gRPC health server stopped", zap.Error(err))
			}
		}()
	}

	s.log.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.Object("config", serverConfigToField(s.config)),
	)
	s.health.SetServing(true)

	if err := s.httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func serverConfigToField(config *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddInt("allowed_names", len(config.Auth.AllowedNames))
		enc.AddDuration("token_expiration", config.Auth.TokenExpiration)
		enc.AddInt("max_failed_attempts", config.Auth.MaxFailedAttempts)
		enc.AddDuration("lockout_duration", config.Auth.LockoutDuration)
		enc.AddBool("metrics_enabled", config.Metrics.Enabled)
		enc.AddString("grpc_health_port", config.GRPC.Port)
		return nil
	})
}

func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	s.health.SetServing(false)

	if s.config.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()
	}

	err := s.httpServer.Shutdown(ctx)
	if s.health.Enabled() {
		s.health.Stop()
	}
	return err
}
