package commands

import (
	"context"
	"time"
)

// SweepExpiredOTPCommandHandler purges unverified challenges whose expiry
// passed longer than the retention window ago.
type SweepExpiredOTPCommandHandler struct {
	uowFactory OTPUoWFactory
}

// NewSweepExpiredOTPCommandHandler creates a handler for the expiry sweep.
func NewSweepExpiredOTPCommandHandler(uowFactory OTPUoWFactory) SweepExpiredOTPCommandHandler {
	return SweepExpiredOTPCommandHandler{uowFactory: uowFactory}
}

// Handle processes one sweep. Returns how many challenges were removed.
func (h *SweepExpiredOTPCommandHandler) Handle(ctx context.Context, cmd SweepExpiredOTPCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := time.Now().UTC().Add(-cmd.Retention())
	removed, err := uow.OTPRepository().PurgeExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	return removed, nil
}
