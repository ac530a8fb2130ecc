package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/egg-brawl/internal/engine"
	matchv1alpha1 "github.com/KirkDiggler/egg-brawl/internal/handlers/match/v1alpha1"
	"github.com/KirkDiggler/egg-brawl/internal/handlers/spectator"
	"github.com/KirkDiggler/egg-brawl/internal/metrics"
	"github.com/KirkDiggler/egg-brawl/internal/orchestrators/match"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/clock"
	"github.com/KirkDiggler/egg-brawl/internal/pkg/idgen"
	"github.com/KirkDiggler/egg-brawl/internal/redis"
	"github.com/KirkDiggler/egg-brawl/internal/repositories/snapshots"
)

var (
	grpcPort      int
	httpPort      int
	redisAddr     string
	snapshotTTL   time.Duration
	suddenDeath   bool
	autoStartAt   int
	allowedOrigin string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the match server",
	Long:  `Start the gRPC match service and the spectator HTTP surface. Matches are created on first join.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().IntVar(&httpPort, "http-port", 8080, "Spectator HTTP port")
	serverCmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for snapshots; empty keeps them in memory")
	serverCmd.Flags().DurationVar(&snapshotTTL, "snapshot-ttl", snapshots.DefaultTTL, "How long stored snapshots live")
	serverCmd.Flags().BoolVar(&suddenDeath, "sudden-death", false, "Revive the last two participants at 1 health on a double knockout")
	serverCmd.Flags().IntVar(&autoStartAt, "auto-start", match.MinParticipants, "Start a match once this many participants joined")
	serverCmd.Flags().StringVar(&allowedOrigin, "allowed-origin", "", "Origin allowed to open spectator websockets; empty allows any")
}

func runServer(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo, closeRepo, err := newSnapshotRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	eng, err := engine.New(&engine.Config{SuddenDeath: suddenDeath})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	m, err := metrics.New(&metrics.Config{Registerer: prometheus.DefaultRegisterer})
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	bus := events.NewBus()
	registry, err := match.NewRegistry(&match.RegistryConfig{
		Engine:       eng,
		EventBus:     bus,
		IDGenerator:  idgen.NewUUID("match"),
		SnapshotRepo: repo,
		Metrics:      m,
		AutoStartAt:  autoStartAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create registry: %w", err)
	}

	matchHandler, err := matchv1alpha1.NewHandler(&matchv1alpha1.HandlerConfig{
		Registry: registry,
		EventBus: bus,
	})
	if err != nil {
		return fmt.Errorf("failed to create match handler: %w", err)
	}

	spectatorServer, err := spectator.New(&spectator.Config{
		Registry:      registry,
		EventBus:      bus,
		Gatherer:      prometheus.DefaultGatherer,
		AllowedOrigin: allowedOrigin,
	})
	if err != nil {
		return fmt.Errorf("failed to create spectator server: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpcLogger()),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpcLogger()),
			grpc_recovery.StreamServerInterceptor(),
		),
	)
	matchv1alpha1.RegisterMatchServiceServer(srv, matchHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(matchv1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           spectatorServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "port", grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		slog.Info("Spectator HTTP server starting", "port", httpPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case err := <-errChan:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown failed", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}
	return nil
}

func newSnapshotRepository(ctx context.Context) (snapshots.Repository, func(), error) {
	if redisAddr == "" {
		repo, err := snapshots.NewInMemoryRepository(&snapshots.InMemoryConfig{Clock: clock.New()})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create snapshot repository: %w", err)
		}
		slog.Info("Keeping snapshots in memory")
		return repo, func() {}, nil
	}

	client, err := redis.NewClient(redisAddr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		closeClient()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", redisAddr, err)
	}

	repo, err := snapshots.NewRedisRepository(&snapshots.Config{
		Client: client,
		Clock:  clock.New(),
		TTL:    snapshotTTL,
	})
	if err != nil {
		closeClient()
		return nil, nil, fmt.Errorf("failed to create snapshot repository: %w", err)
	}

	slog.Info("Storing snapshots in redis", "addr", redisAddr, "ttl", snapshotTTL)
	return repo, closeClient, nil
}
