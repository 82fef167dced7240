package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/otp"
)

// OTPRepository defines the persistence contract for one-time-code challenges.
// The invariant "at most one active challenge per order" is maintained by
// expiring prior challenges when a new one is added.
type OTPRepository interface {
	// Add persists a freshly issued challenge.
	Add(ctx context.Context, challenge *otp.Challenge) error

	// Update persists verification state and attempt counters.
	Update(ctx context.Context, challenge *otp.Challenge) error

	// GetActiveByOrder retrieves the order's unexpired, unverified challenge.
	// Returns errs.ErrObjectNotFound when none is active at time now.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID, now time.Time) (*otp.Challenge, error)

	// GetLatestByOrder retrieves the most recently issued challenge for the
	// order regardless of state, so verification can distinguish an expired
	// code from a missing one and report idempotent re-verification.
	GetLatestByOrder(ctx context.Context, orderID kernel.UUID) (*otp.Challenge, error)

	// ExpireActiveByOrder marks any active challenge for the order as expired.
	// Called when a new challenge supersedes it.
	ExpireActiveByOrder(ctx context.Context, orderID kernel.UUID, now time.Time) error

	// PurgeExpired removes unverified challenges that expired before the
	// cutoff and returns how many were removed. Verified challenges are kept
	// as the confirmation record.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
