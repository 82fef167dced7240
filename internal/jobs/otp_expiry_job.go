package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OTPExpiryJob periodically purges unverified confirmation codes whose expiry
// passed longer than the retention window ago. Keeps the challenge table lean
// for orders that were abandoned before confirmation.
type OTPExpiryJob struct {
	handler   commands.SweepExpiredOTPCommandHandler
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOTPExpiryJob creates the sweep job running once a minute.
func NewOTPExpiryJob(
	handler commands.SweepExpiredOTPCommandHandler,
	retention time.Duration,
	logger *slog.Logger,
) *OTPExpiryJob {
	return &OTPExpiryJob{
		handler:   handler,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "otp_expiry_job"),
	}
}

// Start begins the sweep on a one-minute cadence.
func (j *OTPExpiryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewSweepExpiredOTPCommand(j.retention)

		removed, sweepErr := j.handler.Handle(ctx, cmd)
		if sweepErr != nil {
			j.logger.ErrorContext(ctx, "OTP expiry sweep failed", "error", sweepErr)
			return
		}

		if removed > 0 {
			j.logger.InfoContext(ctx, "Purged expired confirmation codes", "count", removed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "OTP expiry job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *OTPExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "OTP expiry job stopped")
}
