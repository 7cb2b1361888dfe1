// Package order implements the Order aggregate for the route optimization
// domain.
//
// An order is a parcel waiting for delivery: a validated location, a weight,
// a priority and optionally a client delivery window and recipient contact
// details. The aggregate owns the order lifecycle (Pending, Assigned,
// Delivered, Deferred) and enforces the allowed transitions; deferred orders
// re-enter the next optimization run as pending work.
package order
