package ports

import "context"

// OrderNumberCounter is the per-day sequence behind order numbers. NextValue
// increments the day's counter and keeps it locked until the unit of work
// ends, so values become visible in commit order.
type OrderNumberCounter interface {
	NextValue(ctx context.Context, dayKey string) (int64, error)
}
