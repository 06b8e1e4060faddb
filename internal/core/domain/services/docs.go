// Package services provides domain services that work across aggregates.
//
// The package includes:
//   - CourierMatcher: ranks and filters couriers for a delivery broadcast
//
// Services here are pure: they take already loaded aggregates and return
// values, leaving persistence and transport to the application layer.
package services
