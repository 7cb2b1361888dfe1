// Package jobs provides scheduled background tasks for the optimization
// service, implemented with github.com/robfig/cron/v3.
//
// The only job today is OptimizationJob, which re-runs the optimization
// pipeline on a configurable cron schedule. Jobs are managed through
// JobManager:
//
//	jobManager := jobs.NewJobManager(optimizeHandler, solver, scenario, spec, logger)
//	if err := jobManager.StartAll(); err != nil {
//	    log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs

import (
	"fmt"
	"log/slog"

	"optiroute/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	optimizationJob *OptimizationJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	optimizeHandler commands.OptimizeRoutesCommandHandler,
	solver string,
	scenario string,
	spec string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		optimizationJob: NewOptimizationJob(optimizeHandler, solver, scenario, spec, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.optimizationJob.Start(); err != nil {
		return fmt.Errorf("failed to start optimization job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.optimizationJob.Stop()
}
