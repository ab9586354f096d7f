package ports

import (
	"context"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/zone"
)

// ZoneRepository stores delivery zones. Among active zones every FSA prefix
// has at most one owner.
type ZoneRepository interface {
	// Add rejects an active zone that claims a prefix already owned by another
	// active zone with *zone.PrefixConflictError.
	Add(ctx context.Context, aggregate *zone.Zone) error

	Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error)

	// FindActiveByPrefix returns errs.ObjectNotFoundError when no active zone owns prefix.
	FindActiveByPrefix(ctx context.Context, prefix string) (*zone.Zone, error)

	// ListActivePrefixes returns every prefix served by an active zone, sorted.
	ListActivePrefixes(ctx context.Context) ([]string, error)
}
