// Package meal contains the Meal aggregate: a sellable item with a finite,
// shared available count.
//
// The available count is never negative. Every change goes through Adjust
// (SET, ADD, SUBTRACT) and a SUBTRACT larger than the current count fails
// with InsufficientInventoryError without touching the count. After a
// successful change the aggregate can report a LowStockSignal when the new
// count is at or below its low stock threshold.
//
// Name, price and the active flag are owned by the catalog and only read here
// (price is captured into order items at reservation time).
package meal
