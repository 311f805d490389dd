// Package main provides the game server binary that resolves turns for
// remote clients over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/delve/internal/config"
	"github.com/cory-johannsen/delve/internal/gameserver"
	"github.com/cory-johannsen/delve/internal/observability"
	"github.com/cory-johannsen/delve/internal/server"
	"github.com/cory-johannsen/delve/internal/storage"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("grpc_addr", cfg.GameServer.Addr()),
		zap.String("storage", cfg.Storage.Driver),
	)

	srv, cleanup, err := initializeServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing server", zap.Error(err))
	}
	defer cleanup()

	grpcServer := grpc.NewServer()
	gameserver.RegisterTurnServiceServer(grpcServer, srv.Turns)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
			logger.Info("gRPC server listening",
				zap.String("addr", lis.Addr().String()),
			)
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			healthServer.Shutdown()
			grpcServer.GracefulStop()
		},
	})

	if p, ok := srv.Store.(storage.Pinger); ok {
		lifecycle.Add("store-health", &server.Periodic{
			Interval: 30 * time.Second,
			Fn: func(ctx context.Context) {
				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				if err := p.Ping(ctx); err != nil {
					logger.Warn("store health check failed", zap.Error(err))
					healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
					return
				}
				healthServer.SetServingStatus(gameserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
			},
		})
	}

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
