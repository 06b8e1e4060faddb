// Package kernel provides the value objects shared by every aggregate of the
// grocery domain.
//
// The package includes:
//   - UUID: identifier for orders, couriers, users and delivery assignments
//   - GeoPoint: validated latitude/longitude with haversine distance in meters
//
// Both are immutable and safe for concurrent use.
package kernel
