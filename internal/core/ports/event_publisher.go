package ports

import "context"

// OptimizationCompletedEvent is the integration event emitted after a run
// finishes and its results are persisted.
type OptimizationCompletedEvent struct {
	RunID          string  `json:"run_id"`
	Solver         string  `json:"solver"`
	Scenario       string  `json:"scenario"`
	CourierCount   int     `json:"courier_count"`
	OrderCount     int     `json:"order_count"`
	DeliveredCount int     `json:"delivered_count"`
	DeferredCount  int     `json:"deferred_count"`
	TotalKm        float64 `json:"total_km"`
	TotalCost      float64 `json:"total_cost"`
	ElapsedMs      int64   `json:"elapsed_ms"`
}

// EventPublisher publishes integration events to the message broker.
// Publishing is best-effort from the caller's perspective: a failed publish
// must never roll back a completed optimization.
type EventPublisher interface {
	PublishOptimizationCompleted(ctx context.Context, event OptimizationCompletedEvent) error
}
