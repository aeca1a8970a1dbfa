// Package algo implements the sliding-window approximation algorithm (C1):
// a pure, clock-parameterized decision function that turns two adjacent
// fixed-window counters into a smoothed admission decision.
//
// The weighting (windowProgress/previousWeight, blending the previous
// window's count into the current one) is the usual sliding-window-counter
// shape, with saturating uint32 arithmetic and an explicit hard cap on the
// current window's literal count layered on top.
package algo

import (
	"fmt"
	"math"
	"time"

	"github.com/chris-alexander-pop/ratelimiter/internal/clock"
)

// AcquireAttempt is the transient input to the estimator: a request for
// tokens against a resolved policy and the two counters observed for its key.
type AcquireAttempt struct {
	TokensToAcquire        uint32
	MaxTokens              uint32
	Window                 time.Duration
	PreviousWindowRequests uint32
	CurrentWindowRequests  uint32
}

// ExceededError is returned when an attempt is denied. ResetAfter is the
// instant the current window ends, always strictly in the future.
type ExceededError struct {
	ResetAfter time.Time
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, reset after %s", e.ResetAfter)
}

// TryAcquire runs the sliding-window estimator: two adjacent fixed-window
// counters blended by how far the current window has progressed.
//
// On admission it returns the remaining budget and the reset instant. On
// denial it returns an *ExceededError carrying the same reset instant; no
// other error is possible.
func TryAcquire(attempt AcquireAttempt, clk clock.Clock) (remaining uint32, resetAfter time.Time, err error) {
	windowMs := attempt.Window.Milliseconds()
	if windowMs <= 0 {
		windowMs = 1
	}

	now := clk.Now()
	nowMs := now.UnixMilli()

	// windowProgress is how far into the current window now falls, in
	// [0, 1); previousWeight is the complementary fraction of the previous
	// window that's still "in view" of the sliding estimate.
	timeInWindowMs := nowMs % windowMs
	remainingWindowMs := windowMs - timeInWindowMs
	windowProgress := float64(timeInWindowMs) / float64(windowMs)
	previousWeight := 1.0 - windowProgress

	resetAfter = now.Add(time.Duration(remainingWindowMs) * time.Millisecond)

	// Hard-cap check: never admit if the current window alone would exceed
	// the cap, independent of the estimator's weighting below. The sum is
	// taken in uint64 so it cannot saturate down to the cap itself.
	if uint64(attempt.CurrentWindowRequests)+uint64(attempt.TokensToAcquire) > uint64(attempt.MaxTokens) {
		return 0, resetAfter, &ExceededError{ResetAfter: resetAfter}
	}

	previousContribution := uint32(math.Round(float64(attempt.PreviousWindowRequests) * previousWeight))
	weightedCount := satAddU32(attempt.CurrentWindowRequests, previousContribution)

	possibleUsed := satAddU32(weightedCount, attempt.TokensToAcquire)
	if possibleUsed > attempt.MaxTokens {
		return 0, resetAfter, &ExceededError{ResetAfter: resetAfter}
	}

	return satSubU32(attempt.MaxTokens, possibleUsed), resetAfter, nil
}

// satAddU32 adds a and b, saturating at math.MaxUint32 instead of wrapping.
func satAddU32(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(sum)
}

// satSubU32 subtracts b from a, saturating at 0 instead of wrapping.
func satSubU32(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}
