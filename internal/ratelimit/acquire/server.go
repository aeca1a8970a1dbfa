package acquire

import (
	"context"

	apperrors "github.com/chris-alexander-pop/ratelimiter/pkg/errors"
	"github.com/chris-alexander-pop/ratelimiter/proto/ratelimiterpb"
)

// Server adapts an Orchestrator to the generated RateLimiterServer
// interface, translating wire types to and from the orchestrator's
// transport-independent Request/Response.
type Server struct {
	ratelimiterpb.UnimplementedRateLimiterServer

	orch *Orchestrator
}

// NewServer wraps orch for gRPC registration.
func NewServer(orch *Orchestrator) *Server {
	return &Server{orch: orch}
}

func (s *Server) Acquire(ctx context.Context, req *ratelimiterpb.AcquireRequest) (*ratelimiterpb.AcquireResponse, error) {
	resp, err := s.orch.Acquire(ctx, Request{Key: req.GetKey(), Tokens: req.GetTokens()})
	if err != nil {
		return nil, apperrors.ToGRPCStatus(err)
	}

	return &ratelimiterpb.AcquireResponse{
		Allowed:    resp.Allowed,
		Remaining:  resp.Remaining,
		ResetAfter: resp.ResetAfter,
	}, nil
}
