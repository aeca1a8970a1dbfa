// Package healthcheck drives the standard gRPC health service from a
// periodic Redis PING, rather than hand-rolling the health RPCs.
package healthcheck

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/chris-alexander-pop/ratelimiter/pkg/resilience"
)

// ServiceName is the service whose status this poller drives. An empty
// service name ("") is also kept SERVING/NOT_SERVING in lockstep so clients
// probing the overall server see the same signal.
const ServiceName = "ratelimiter.v1.RateLimiter"

// Poller periodically PINGs Redis and reflects the result into a
// health.Server's serving status.
type Poller struct {
	client   goredis.Cmdable
	server   *health.Server
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPoller builds a Poller. interval is the PING cadence (spec: every 5s);
// timeout bounds each individual PING.
func NewPoller(client goredis.Cmdable, server *health.Server, interval, timeout time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{client: client, server: server, interval: interval, timeout: timeout, logger: logger}
}

// Run ticks until ctx is cancelled, checking health once immediately.
func (p *Poller) Run(ctx context.Context) {
	p.check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

func (p *Poller) check(ctx context.Context) {
	err := resilience.WithTimeout(p.timeout, func(opCtx context.Context) error {
		return p.client.Ping(opCtx).Err()
	})(ctx)

	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		p.logger.Warn("backend health check failed", "error", err)
	}

	p.server.SetServingStatus(ServiceName, status)
	p.server.SetServingStatus("", status)
}
