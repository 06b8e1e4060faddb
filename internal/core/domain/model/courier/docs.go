// Package courier provides the Courier aggregate: a delivery-role user with a
// live position and presence on the location channel.
//
// Key business rules:
//   - Couriers have a name, a mobile number and a valid position
//   - Identify is idempotent and overwrites the channel handle
//   - Disconnect clears presence but keeps the last known position
package courier
