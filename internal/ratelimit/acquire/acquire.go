// Package acquire implements the acquire orchestrator (C4): validates
// input, resolves the policy, fans the two counter operations out to the
// store concurrently, feeds the result to the estimator, and maps the
// outcome to a response or an error the RPC layer can translate.
package acquire

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/chris-alexander-pop/ratelimiter/internal/clock"
	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/algo"
	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/policy"
	"github.com/chris-alexander-pop/ratelimiter/internal/ratelimit/store"
	apperrors "github.com/chris-alexander-pop/ratelimiter/pkg/errors"
	"github.com/chris-alexander-pop/ratelimiter/pkg/resilience"
)

// Request is the orchestrator's input, independent of any wire encoding.
type Request struct {
	Key    string
	Tokens int32
}

// Response is the orchestrator's output, independent of any wire encoding.
// ResetAfter is Unix epoch milliseconds, matching the RPC contract.
type Response struct {
	Allowed    bool
	Remaining  int32
	ResetAfter int64
}

// Resolver resolves a request key to the policy.Definition that governs it.
type Resolver interface {
	Resolve(key string) policy.Definition
}

// Orchestrator wires C2 (Resolver), C3 (store.Store) and C1 (algo.TryAcquire)
// together into the public Acquire operation.
type Orchestrator struct {
	resolver       Resolver
	store          store.Store
	clock          clock.Clock
	backendTimeout time.Duration
	logger         *slog.Logger
}

// New builds an Orchestrator. backendTimeout is the per-backend-call
// deadline applied independently to the increment and read operations.
func New(resolver Resolver, st store.Store, clk clock.Clock, backendTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		resolver:       resolver,
		store:          st,
		clock:          clk,
		backendTimeout: backendTimeout,
		logger:         logger,
	}
}

// Acquire runs the full C4 flow described above. The only errors it returns
// are *apperrors.AppError with Code one of CodeInvalidArgument, CodeTimeout,
// or CodeUnavailable — a denial is never an error, it's a Response with
// Allowed=false.
func (o *Orchestrator) Acquire(ctx context.Context, req Request) (Response, error) {
	if req.Tokens <= 0 {
		return Response{}, apperrors.InvalidArgument("tokens to acquire must be greater than zero", nil)
	}
	if req.Key == "" {
		return Response{}, apperrors.InvalidArgument("key must not be empty", nil)
	}

	def := o.resolver.Resolve(req.Key)
	window := time.Duration(def.WindowSec) * time.Second
	windowMs := window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}

	nowMs := o.clock.Now().UnixMilli()
	currentWindow := nowMs / windowMs

	k := store.WindowKey{Key: req.Key, Index: currentWindow, Window: window}

	var (
		priorCurrent, priorPrevious uint32
		incrErr, readErr            error
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		incrErr = resilience.WithTimeout(o.backendTimeout, func(opCtx context.Context) error {
			var err error
			priorCurrent, err = o.store.IncrementCurrent(opCtx, k, uint32(req.Tokens))
			return err
		})(ctx)
	}()

	go func() {
		defer wg.Done()
		readErr = resilience.WithTimeout(o.backendTimeout, func(opCtx context.Context) error {
			var err error
			priorPrevious, err = o.store.ReadPrevious(opCtx, k)
			return err
		})(ctx)
	}()

	wg.Wait()

	if err := firstBackendError(incrErr, readErr); err != nil {
		return Response{}, err
	}

	o.logger.DebugContext(ctx, "resolved policy",
		"key", req.Key,
		"max_tokens", def.MaxTokens,
		"window_secs", def.WindowSec,
		"prior_current", priorCurrent,
		"prior_previous", priorPrevious,
	)

	remaining, resetAfter, err := algo.TryAcquire(algo.AcquireAttempt{
		TokensToAcquire:        uint32(req.Tokens),
		MaxTokens:              def.MaxTokens,
		Window:                 window,
		PreviousWindowRequests: priorPrevious,
		CurrentWindowRequests:  priorCurrent,
	}, o.clock)

	if err != nil {
		var exceeded *algo.ExceededError
		if errors.As(err, &exceeded) {
			o.logger.InfoContext(ctx, "acquire denied", "key", req.Key)
			return Response{
				Allowed:    false,
				Remaining:  0,
				ResetAfter: exceeded.ResetAfter.UnixMilli(),
			}, nil
		}
		return Response{}, apperrors.Internal("estimator failure", err)
	}

	o.logger.InfoContext(ctx, "acquire admitted", "key", req.Key, "remaining", remaining)

	return Response{
		Allowed:    true,
		Remaining:  int32(remaining),
		ResetAfter: resetAfter.UnixMilli(),
	}, nil
}

// firstBackendError classifies a backend failure as Timeout or Unavailable,
// preferring the increment-side error when both operations failed.
func firstBackendError(errs ...error) error {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.Timeout("backend operation timed out", err)
		}
		return apperrors.Unavailable("backend operation failed", err)
	}
	return nil
}
