// Package kernel provides core domain primitives for the route optimization
// service, following Domain-Driven Design principles.
//
// The package includes:
//   - GeoPoint: a validated WGS84 coordinate with haversine distance
//   - TimeOfDay: an "HH:MM" wall-clock value with minute arithmetic
//
// Both are immutable value objects, deterministic and safe for concurrent
// use. They enforce their own bounds so the rest of the domain can assume
// coordinates and times are well formed.
package kernel
