// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping the request path cannot do.
//
// # Available Jobs
//
// 1. OTPExpiryJob - Runs every minute to purge unverified confirmation codes
// left behind by abandoned cash-on-delivery orders
// 2. GeocodeRetryJob - Runs every five minutes to re-resolve coordinates for
// orders whose geocoding failed at intake
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(sweepHandler, retryHandler, retention, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs log failures and try again on the next tick; a failed sweep never
// stops the schedule. Failed job starts will stop any already running jobs.
package jobs
