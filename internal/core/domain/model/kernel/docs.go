// Package kernel provides the shared value objects of the meal ordering domain.
//
// The package includes:
//   - UUID: identity of meals, orders, zones and order items
//   - Money: a non-negative decimal amount in the store currency
//
// Both are immutable and safe for concurrent use. Their zero values are invalid
// and are rejected by Validate, so aggregates cannot be assembled from literals
// that skipped a constructor.
package kernel
