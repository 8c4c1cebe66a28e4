package server

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/elskow/naviwish/internal/config"
)

// HealthServer serves the standard gRPC health checking protocol for
// orchestrator probes.
type HealthServer struct {
	config     *config.GRPCConfig
	log        *zap.Logger
	grpcServer *grpc.Server
	health     *health.Server
}

func NewHealthServer(cfg *config.GRPCConfig, log *zap.Logger) *HealthServer {
	opts := []grpc.ServerOption{}
	if cfg.MaxReceiveMessageSize > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.MaxReceiveMessageSize))
	}
	if cfg.MaxSendMessageSize > 0 {
		opts = append(opts, grpc.MaxSendMsgSize(cfg.MaxSendMessageSize))
	}

	grpcServer := grpc.NewServer(opts...)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if cfg.EnableReflection {
		reflection.Register(grpcServer)
	}

	return &HealthServer{
		config:     cfg,
		log:        log,
		grpcServer: grpcServer,
		health:     healthServer,
	}
}

func (h *HealthServer) Enabled() bool {
	return h.config.Port != ""
}

func (h *HealthServer) Start(host string) error {
	addr := net.JoinHostPort(host, h.config.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	h.log.Info("Starting gRPC health server",
		zap.String("address", addr),
		zap.Bool("reflection_enabled", h.config.EnableReflection))

	return h.Serve(lis)
}

func (h *HealthServer) Serve(lis net.Listener) error {
	if err := h.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
}

func (h *HealthServer) Stop() {
	h.log.Info("shutting down gRPC health server")
	h.health.Shutdown()
	h.grpcServer.GracefulStop()
}
