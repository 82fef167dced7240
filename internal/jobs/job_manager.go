package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	otpExpiryJob    *OTPExpiryJob
	geocodeRetryJob *GeocodeRetryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	sweepHandler commands.SweepExpiredOTPCommandHandler,
	retryHandler commands.RetryGeocodeCommandHandler,
	otpRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		otpExpiryJob:    NewOTPExpiryJob(sweepHandler, otpRetention, logger),
		geocodeRetryJob: NewGeocodeRetryJob(retryHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.otpExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start OTP expiry job: %w", err)
	}

	if err := jm.geocodeRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.otpExpiryJob.Stop()
		return fmt.Errorf("failed to start geocode retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.geocodeRetryJob.Stop()
	jm.otpExpiryJob.Stop()
}
