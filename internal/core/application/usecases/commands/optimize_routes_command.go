package commands

import (
	"errors"

	"optiroute/internal/core/domain/services/assign"
	"optiroute/internal/pkg/errs"
	"optiroute/internal/pkg/guard"
)

var ErrOptimizeRoutesCommandIsNotConstructed = errors.New(
	"OptimizeRoutesCommand must be created via NewOptimizeRoutesCommand constructor",
)

// OptimizeRoutesCommand triggers one optimization run: assign every pending
// order to an available courier and refine each courier's tour.
//
// Example:
//
//	cmd, err := NewOptimizeRoutesCommand("multi_criteria", "peak")
//	if err != nil {
//	    // unknown solver or scenario
//	}
//	result, err := handler.Handle(ctx, cmd)
type OptimizeRoutesCommand struct {
	solver   string
	scenario assign.Scenario

	guard guard.ConstructorGuard
}

// NewOptimizeRoutesCommand creates a validated command. The solver name must
// be one of the registered strategies and the scenario one of normal, peak,
// incident; unknown values fail here so configuration errors surface before
// any data is loaded.
func NewOptimizeRoutesCommand(solverName, scenarioName string) (OptimizeRoutesCommand, error) {
	if solverName == "" {
		return OptimizeRoutesCommand{}, errs.NewValueIsRequiredError("solverName")
	}
	// Construct the solver once to validate the name; the handler builds
	// its own per-run instance with the run's PRNG.
	if _, err := assign.New(solverName, assign.Config{}); err != nil {
		return OptimizeRoutesCommand{}, err
	}

	scenario, err := assign.ParseScenario(scenarioName)
	if err != nil {
		return OptimizeRoutesCommand{}, err
	}

	return OptimizeRoutesCommand{
		solver:   solverName,
		scenario: scenario,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c *OptimizeRoutesCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRoutesCommandIsNotConstructed)
}

// Solver returns the selected solver name.
func (c *OptimizeRoutesCommand) Solver() string {
	return c.solver
}

// Scenario returns the selected workload scenario.
func (c *OptimizeRoutesCommand) Scenario() assign.Scenario {
	return c.scenario
}
