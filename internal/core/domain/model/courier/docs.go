// Package courier implements the Courier aggregate for the route
// optimization domain.
//
// A courier is a vehicle with a depot, a weight capacity, a daily work
// window, a per-kilometre cost and optionally an electric battery expressed
// in driving minutes. The aggregate enforces its invariants through
// validated constructors and exposes Clone so optimization runs can simulate
// on snapshots without touching persisted state.
package courier
