// Package order provides the Order aggregate of the meal ordering system.
//
// The package includes:
//   - Order: the aggregate root holding items, totals, delivery data and lifecycle
//   - Item: a line with the meal name and unit price captured at reservation time
//   - Status / PaymentStatus: state machines guarding lifecycle transitions
//   - Number: the human readable order number, <PREFIX><YYYYMMDD><sequence>
//
// Key business rules:
//   - An order has at least one item and every quantity is positive
//   - Totals are derived: subtotal is the sum of item totals, total adds the delivery fee
//   - An insulated bag is required when the total quantity is five or more
//   - Status follows PENDING -> CONFIRMED -> PREPARING -> OUT_FOR_DELIVERY -> DELIVERED
//   - Only PENDING and CONFIRMED orders can be CANCELLED
//   - The order number is assigned exactly once
package order
