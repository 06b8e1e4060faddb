// Package assignment provides the DeliveryAssignment aggregate: the broadcast
// of one out-for-delivery order to nearby idle couriers and the record of the
// courier that accepted it.
//
// Key business rules:
//   - Exactly one assignment exists per order, created with at least one candidate
//   - Only a broadcast recipient can accept, and only while broadcasted
//   - Status moves forward only: broadcasted, then accepted or expired, then completed
//   - Only accepted assignments make their courier busy
package assignment
