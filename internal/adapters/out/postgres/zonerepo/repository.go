package zonerepo

import (
	"context"
	"errors"
	"strings"

	"mealorder/internal/adapters/out/postgres/pgerr"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormZoneRepository implements ports.ZoneRepository using GORM.
type GormZoneRepository struct {
	db *gorm.DB
}

func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

type prefixOwner struct {
	Prefix string
	ZoneID uuid.UUID
}

// Add inserts the zone with its prefixes. An active zone may not claim a
// prefix another active zone already serves.
func (r *GormZoneRepository) Add(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if aggregate.IsActive() {
		var owners []prefixOwner
		err := db.Raw(`
			SELECT p.prefix, p.zone_id
			FROM delivery_zone_prefixes p
			JOIN delivery_zones z ON z.id = p.zone_id
			WHERE z.is_active AND p.prefix IN ?
			ORDER BY p.prefix
			LIMIT 1
		`, aggregate.Prefixes()).Scan(&owners).Error
		if err != nil {
			return pgerr.Classify(err)
		}

		if len(owners) > 0 {
			ownerID, idErr := kernel.UUIDFromBytes(owners[0].ZoneID[:])
			if idErr != nil {
				return idErr
			}
			return &zone.PrefixConflictError{Prefix: strings.TrimSpace(owners[0].Prefix), OwnerZoneID: ownerID}
		}
	}

	dto := fromDomain(aggregate)
	return pgerr.Classify(db.Create(&dto).Error)
}

func (r *GormZoneRepository) Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ZoneDTO
	if err := r.db.WithContext(ctx).
		Preload("Prefixes", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("zoneId", id.String())
		}
		return nil, pgerr.Classify(err)
	}

	return toDomain(dto)
}

func (r *GormZoneRepository) FindActiveByPrefix(ctx context.Context, prefix string) (*zone.Zone, error) {
	var dto ZoneDTO
	err := r.db.WithContext(ctx).
		Preload("Prefixes", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Joins("JOIN delivery_zone_prefixes p ON p.zone_id = delivery_zones.id").
		Where("delivery_zones.is_active AND p.prefix = ?", strings.ToUpper(prefix)).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("prefix", prefix)
		}
		return nil, pgerr.Classify(err)
	}

	return toDomain(dto)
}

func (r *GormZoneRepository) ListActivePrefixes(ctx context.Context) ([]string, error) {
	var prefixes []string
	err := r.db.WithContext(ctx).
		Table("delivery_zone_prefixes p").
		Joins("JOIN delivery_zones z ON z.id = p.zone_id").
		Where("z.is_active").
		Order("p.prefix").
		Pluck("p.prefix", &prefixes).Error
	if err != nil {
		return nil, pgerr.Classify(err)
	}

	for i := range prefixes {
		prefixes[i] = strings.TrimSpace(prefixes[i])
	}
	return prefixes, nil
}
