package zone

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/pkg/errs"
)

var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone")

type Zone struct {
	id       kernel.UUID
	name     string
	prefixes []string
	fee      kernel.Money
	isActive bool

	isConstructed bool
}

func NewZone(id kernel.UUID, name string, prefixes []string, fee kernel.Money, isActive bool) (*Zone, error) {
	z := &Zone{
		fee:           fee,
		isActive:      isActive,
		isConstructed: true,
	}

	if err := errors.Join(
		z.setID(id),
		z.setName(name),
		z.setPrefixes(prefixes),
	); err != nil {
		return nil, err
	}

	return z, nil
}

func (z *Zone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}
	return nil
}

func (z *Zone) ID() kernel.UUID   { return z.id }
func (z *Zone) Name() string      { return z.name }
func (z *Zone) Fee() kernel.Money { return z.fee }
func (z *Zone) IsActive() bool    { return z.isActive }

func (z *Zone) Prefixes() []string {
	return slices.Clone(z.prefixes)
}

func (z *Zone) HasPrefix(prefix string) bool {
	return slices.Contains(z.prefixes, strings.ToUpper(prefix))
}

func (z *Zone) Activate()   { z.isActive = true }
func (z *Zone) Deactivate() { z.isActive = false }

func (z *Zone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.id = id
	return nil
}

func (z *Zone) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	z.name = strings.TrimSpace(name)
	return nil
}

func (z *Zone) setPrefixes(prefixes []string) error {
	if len(prefixes) == 0 {
		return errs.NewValueIsRequiredError("prefixes")
	}

	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = NormalizePostalCode(p)
		if err := validatePrefix(p); err != nil {
			return err
		}
		if slices.Contains(normalized, p) {
			return errs.NewValueIsInvalidErrorWithCause("prefixes", fmt.Errorf("%s is listed twice", p))
		}
		normalized = append(normalized, p)
	}

	z.prefixes = normalized
	return nil
}
