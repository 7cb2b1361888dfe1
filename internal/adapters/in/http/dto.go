package http

// Error is the uniform error payload of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OptimizeRequest selects the solver and scenario for one run. Both fields
// are optional; the server's configured defaults apply when omitted.
type OptimizeRequest struct {
	Solver   string `json:"solver"`
	Scenario string `json:"scenario"`
}

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Courier is the fleet read model exposed by GET /api/v1/couriers.
type Courier struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Depot               Point    `json:"depot"`
	CapacityKg          float64  `json:"capacity_kg"`
	SpeedKmh            float64  `json:"speed_kmh"`
	CostPerKm           float64  `json:"cost_per_km"`
	WorkStart           string   `json:"work_start"`
	WorkEnd             string   `json:"work_end"`
	BatteryRemainingMin *float64 `json:"battery_remaining_min,omitempty"`
}

// Order is the backlog read model exposed by GET /api/v1/orders/pending.
type Order struct {
	ID          string  `json:"id"`
	Location    Point   `json:"location"`
	WeightKg    float64 `json:"weight_kg"`
	Priority    int     `json:"priority"`
	Status      string  `json:"status"`
	Address     string  `json:"address,omitempty"`
	WindowStart *string `json:"window_start,omitempty"`
	WindowEnd   *string `json:"window_end,omitempty"`
}

// RechargeEvent records one mid-route battery stop.
type RechargeEvent struct {
	StationID    string  `json:"station_id"`
	BeforeStopID string  `json:"before_stop_id"`
	DurationMin  float64 `json:"duration_min"`
}

// RouteVariant is the diagnostic outcome of one refinement algorithm.
type RouteVariant struct {
	Algo        string   `json:"algo"`
	EstimatedKm float64  `json:"estimated_km"`
	OracleKm    float64  `json:"oracle_km"`
	OracleMin   float64  `json:"oracle_min"`
	Cost        float64  `json:"cost"`
	OrderedIDs  []string `json:"ordered_ids"`
	Geometry    []Point  `json:"geometry,omitempty"`
}

// RealizedRoute is one courier's simulated tour.
type RealizedRoute struct {
	CourierID   string          `json:"courier_id"`
	Delivered   []string        `json:"delivered"`
	Deferred    []string        `json:"deferred"`
	DistanceKm  float64         `json:"distance_km"`
	DurationMin float64         `json:"duration_min"`
	Cost        float64         `json:"cost"`
	EndTime     string          `json:"end_time"`
	GPS         []Point         `json:"gps"`
	Recharges   []RechargeEvent `json:"recharges"`
	Variants    []RouteVariant  `json:"variants"`
}

// OptimizationResponse is the full outcome of one optimization run.
type OptimizationResponse struct {
	RunID            string              `json:"run_id"`
	Solver           string              `json:"solver"`
	Scenario         string              `json:"scenario"`
	Assignments      map[string][]string `json:"assignments"`
	Unassigned       []string            `json:"unassigned"`
	RejectionReasons map[string]string   `json:"rejection_reasons,omitempty"`
	Routes           []RealizedRoute     `json:"routes"`
	TotalDistanceKm  float64             `json:"total_distance_km"`
	TotalDurationMin float64             `json:"total_duration_min"`
	TotalCost        float64             `json:"total_cost"`
	ActiveTours      int                 `json:"active_tours"`
	DeliveredCount   int                 `json:"delivered_count"`
	DeferredCount    int                 `json:"deferred_count"`
	OrdersAssigned   int                 `json:"orders_assigned"`
	SolverCost       float64             `json:"solver_cost"`
	MeanDistanceKm   float64             `json:"mean_distance_km"`
	MeanDurationMin  float64             `json:"mean_duration_min"`
	MeanCostPerTour  float64             `json:"mean_cost_per_tour"`
	ElapsedMs        int64               `json:"elapsed_ms"`
}
