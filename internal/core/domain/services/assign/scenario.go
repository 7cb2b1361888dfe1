package assign

import (
	"fmt"

	"optiroute/internal/pkg/errs"
)

// Scenario is the workload modifier applied to priority penalties. Peak and
// incident days weigh urgency harder so urgent orders win contested
// couriers.
type Scenario int

const (
	// ScenarioNormal is a regular day (coefficient 1.0).
	ScenarioNormal Scenario = iota
	// ScenarioPeak is a high-load day (coefficient 1.3).
	ScenarioPeak
	// ScenarioIncident is a degraded-operations day (coefficient 1.7).
	ScenarioIncident
)

// ParseScenario maps a configuration string to a Scenario.
func ParseScenario(s string) (Scenario, error) {
	switch s {
	case "normal", "":
		return ScenarioNormal, nil
	case "peak":
		return ScenarioPeak, nil
	case "incident":
		return ScenarioIncident, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("scenario",
			fmt.Errorf("%q is not one of normal, peak, incident", s))
	}
}

// Coefficient returns the priority penalty multiplier for the scenario.
func (s Scenario) Coefficient() float64 {
	switch s {
	case ScenarioPeak:
		return 1.3
	case ScenarioIncident:
		return 1.7
	default:
		return 1.0
	}
}

// String returns the configuration name of the scenario.
func (s Scenario) String() string {
	switch s {
	case ScenarioPeak:
		return "peak"
	case ScenarioIncident:
		return "incident"
	default:
		return "normal"
	}
}
