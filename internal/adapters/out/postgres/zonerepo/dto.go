// Package zonerepo persists delivery zones. Each zone's FSA prefixes live in
// their own table so a postal code lookup is an index probe.
package zonerepo

import (
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/zone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ZoneDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name     string          `gorm:"type:varchar(255);not null"`
	Fee      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	IsActive bool            `gorm:"not null"`
	Prefixes []ZonePrefixDTO `gorm:"foreignKey:ZoneID;constraint:OnDelete:CASCADE"`
}

func (ZoneDTO) TableName() string {
	return "delivery_zones"
}

// ZonePrefixDTO is one FSA prefix served by a zone. Position keeps the
// configured order.
type ZonePrefixDTO struct {
	ZoneID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix   string    `gorm:"type:char(3);primaryKey;index"`
	Position int       `gorm:"type:int;not null"`
}

func (ZonePrefixDTO) TableName() string {
	return "delivery_zone_prefixes"
}

func fromDomain(z *zone.Zone) ZoneDTO {
	prefixes := make([]ZonePrefixDTO, 0, len(z.Prefixes()))
	for i, p := range z.Prefixes() {
		prefixes = append(prefixes, ZonePrefixDTO{ZoneID: z.ID().Bytes(), Prefix: p, Position: i})
	}

	return ZoneDTO{
		ID:       z.ID().Bytes(),
		Name:     z.Name(),
		Fee:      z.Fee().Amount(),
		IsActive: z.IsActive(),
		Prefixes: prefixes,
	}
}

func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	fee, err := kernel.NewMoney(dto.Fee)
	if err != nil {
		return nil, err
	}

	prefixes := make([]string, len(dto.Prefixes))
	for i, p := range dto.Prefixes {
		prefixes[i] = p.Prefix
	}

	return zone.NewZone(id, dto.Name, prefixes, fee, dto.IsActive)
}
