// Package order provides the Order aggregate of the grocery storefront.
//
// The package includes:
//   - Order: items, total, payment method, paid flag, delivery address,
//     status and the reference to its delivery assignment
//   - Status: pending, out-for-delivery and delivered, with delivered final
//   - Item, Address, PaymentMethod: value objects owned by the order
//
// Key business rules:
//   - An order totals the sum of its item lines
//   - At most one delivery assignment is linked, and only while out for delivery
//   - Marking an order paid is idempotent
package order
