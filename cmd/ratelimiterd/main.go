// Command ratelimiterd runs the distributed rate-limiting gRPC service.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/chris-alexander-pop/ratelimiter/internal/clock"
	internalconfig "github.com/chris-alexander-pop/ratelimiter/internal/config"
	"github.com/chris-alexander-pop/ratelimiter/internal/healthcheck"
	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/acquire"
	redisstore "github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/store/redis"
	"github.com/chris-alexander-pop/ratelimiter/pkg/config"
	"github.com/chris-alexander-pop/ratelimiter/pkg/logger"
	"github.com/chris-alexander-pop/ratelimiter/pkg/resilience"
	"github.com/chris-alexander-pop/ratelimiter/pkg/telemetry"
	"github.com/chris-alexander-pop/ratelimiter/proto/ratelimiterpb"
)

// bootstrap holds the handful of settings read from the environment before
// the TOML policy file (which names everything else) can be located.
type bootstrap struct {
	ConfigPath string `env:"CONFIG_PATH" env-default:"config.toml"`
}

func main() {
	var boot bootstrap
	if err := config.Load(&boot); err != nil {
		slog.Error("failed to read bootstrap environment", "error", err)
		os.Exit(1)
	}

	var logCfg logger.Config
	_ = config.Load(&logCfg)
	log := logger.Init(logCfg)

	var otelCfg telemetry.Config
	_ = config.Load(&otelCfg)
	shutdownTracing, err := telemetry.Init(otelCfg)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	cfg, err := internalconfig.Load(boot.ConfigPath)
	if err != nil {
		log.Error("failed to load config", "path", boot.ConfigPath, "error", err)
		os.Exit(1)
	}

	redisOpts, err := goredis.ParseURL(cfg.Server.RedisURL)
	if err != nil {
		log.Error("invalid redis_url", "error", err)
		os.Exit(1)
	}
	redisClient := goredis.NewClient(redisOpts)
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := connectWithRetry(ctx, redisClient); err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	st := redisstore.New(redisClient)
	orch := acquire.New(cfg.Resolver(), st, clock.System{}, cfg.RedisTimeout(), log)

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	ratelimiterpb.RegisterRateLimiterServer(grpcServer, acquire.NewServer(orch))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	poller := healthcheck.NewPoller(redisClient, healthServer, 5*time.Second, cfg.RedisTimeout(), log)
	go poller.Run(ctx)

	lis, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		log.Error("failed to bind listener", "address", cfg.Server.Address, "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down, draining in-flight RPCs")
		grpcServer.GracefulStop()
	}()

	log.Info("ratelimiterd listening", "address", cfg.Server.Address)
	if err := grpcServer.Serve(lis); err != nil {
		log.Error("grpc server exited with error", "error", err)
		os.Exit(1)
	}
}

// connectWithRetry bounds how long startup waits for Redis to become
// reachable, per the service's documented process lifecycle.
func connectWithRetry(ctx context.Context, client *goredis.Client) error {
	return resilience.Retry(ctx, resilience.RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.2,
	}, func(opCtx context.Context) error {
		return client.Ping(opCtx).Err()
	})
}
