package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// GeocodeRetryJob periodically re-resolves coordinates for orders whose
// geocoding failed at intake, so tracking can show a destination once the
// geocoding service recovers.
type GeocodeRetryJob struct {
	handler commands.RetryGeocodeCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewGeocodeRetryJob creates the retry job running every five minutes.
func NewGeocodeRetryJob(handler commands.RetryGeocodeCommandHandler, logger *slog.Logger) *GeocodeRetryJob {
	return &GeocodeRetryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "geocode_retry_job"),
	}
}

// Start begins the retry sweep on a five-minute cadence.
func (j *GeocodeRetryJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRetryGeocodeCommand(commands.DefaultGeocodeRetryBatch)

		resolved, retryErr := j.handler.Handle(ctx, cmd)
		if retryErr != nil {
			j.logger.ErrorContext(ctx, "Geocode retry sweep failed", "error", retryErr)
			return
		}

		if resolved > 0 {
			j.logger.InfoContext(ctx, "Resolved failed geocodes", "count", resolved)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Geocode retry job started (running every five minutes)")
	return nil
}

// Stop stops the retry job.
func (j *GeocodeRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Geocode retry job stopped")
}
