package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/guard"
)

var ErrSweepExpiredOTPCommandIsNotConstructed = errors.New(
	"SweepExpiredOTPCommand must be created via NewSweepExpiredOTPCommand constructor")

// DefaultOTPRetention is how long expired unverified challenges are kept
// before the sweep removes them.
const DefaultOTPRetention = 24 * time.Hour

// SweepExpiredOTPCommand removes stale unverified challenges left behind by
// abandoned orders. Run periodically by the OTP expiry job.
type SweepExpiredOTPCommand struct {
	retention time.Duration

	guard guard.ConstructorGuard
}

// NewSweepExpiredOTPCommand creates the command. A non-positive retention
// falls back to DefaultOTPRetention.
func NewSweepExpiredOTPCommand(retention time.Duration) SweepExpiredOTPCommand {
	if retention <= 0 {
		retention = DefaultOTPRetention
	}

	return SweepExpiredOTPCommand{
		retention: retention,
		guard:     guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c SweepExpiredOTPCommand) Validate() error {
	return c.guard.Validate(ErrSweepExpiredOTPCommandIsNotConstructed)
}

// Retention returns how long expired challenges are kept.
func (c SweepExpiredOTPCommand) Retention() time.Duration {
	return c.retention
}
