package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"

	"optiroute/internal/core/application/usecases/commands"
)

// OptimizationJob runs the optimization pipeline on a schedule, so the
// backlog (including orders deferred by the previous run) is re-planned
// without an operator pressing the button.
type OptimizationJob struct {
	handler  commands.OptimizeRoutesCommandHandler
	solver   string
	scenario string
	spec     string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOptimizationJob creates a scheduled optimization job. spec is a
// standard five-field cron expression, for example "*/15 * * * *" for every
// fifteen minutes.
func NewOptimizationJob(
	handler commands.OptimizeRoutesCommandHandler,
	solver string,
	scenario string,
	spec string,
	logger *slog.Logger,
) *OptimizationJob {
	return &OptimizationJob{
		handler:  handler,
		solver:   solver,
		scenario: scenario,
		spec:     spec,
		cron:     cron.New(),
		logger:   logger.With("component", "optimization_job"),
	}
}

// Start begins the scheduled runs.
func (j *OptimizationJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()

		cmd, err := commands.NewOptimizeRoutesCommand(j.solver, j.scenario)
		if err != nil {
			j.logger.ErrorContext(ctx, "Optimization job misconfigured", "error", err)
			return
		}

		if _, err := j.handler.Handle(ctx, cmd); err != nil {
			// An empty system is an expected business scenario, not a failure.
			if !errors.Is(err, commands.ErrInsufficientData) {
				j.logger.ErrorContext(ctx, "Optimization job failed", "error", err)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Optimization job started", "spec", j.spec)
	return nil
}

// Stop stops the scheduled runs.
func (j *OptimizationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Optimization job stopped")
}
