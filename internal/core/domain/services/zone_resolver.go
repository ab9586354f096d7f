package services

import (
	"context"
	"errors"
	"regexp"
	"sort"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/pkg/errs"
)

const maxZoneSuggestions = 3

// ZoneDirectory is the read side of zone storage the resolver needs.
// FindActiveByPrefix returns an error matching errs.ErrObjectNotFound when no
// active zone owns the prefix.
type ZoneDirectory interface {
	FindActiveByPrefix(ctx context.Context, prefix string) (*zone.Zone, error)
	ListActivePrefixes(ctx context.Context) ([]string, error)
}

type ZoneResolution struct {
	PostalCode zone.PostalCode
	Zone       *zone.Zone
}

// FeeQuote is the delivery fee for a resolved zone and basket.
type FeeQuote struct {
	Fee          kernel.Money
	FreeDelivery bool
	InsulatedBag bool
}

type ZoneResolver struct {
	pattern               *regexp.Regexp
	freeDeliveryThreshold kernel.Money
}

// NewZoneResolver uses zone.DefaultPostalCodePattern when pattern is nil.
func NewZoneResolver(pattern *regexp.Regexp, freeDeliveryThreshold kernel.Money) *ZoneResolver {
	if pattern == nil {
		pattern = zone.DefaultPostalCodePattern
	}
	return &ZoneResolver{pattern: pattern, freeDeliveryThreshold: freeDeliveryThreshold}
}

func (r *ZoneResolver) FreeDeliveryThreshold() kernel.Money {
	return r.freeDeliveryThreshold
}

// Resolve normalizes raw, validates its format and finds the active zone that
// owns its prefix.
func (r *ZoneResolver) Resolve(ctx context.Context, zones ZoneDirectory, raw string) (ZoneResolution, error) {
	postalCode, err := zone.ParsePostalCode(raw, r.pattern)
	if err != nil {
		return ZoneResolution{}, err
	}

	z, err := zones.FindActiveByPrefix(ctx, postalCode.Prefix())
	if err == nil {
		return ZoneResolution{PostalCode: postalCode, Zone: z}, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return ZoneResolution{}, err
	}

	suggestions, err := r.suggest(ctx, zones, postalCode.Prefix())
	if err != nil {
		return ZoneResolution{}, err
	}
	return ZoneResolution{}, &zone.NotServiceableError{
		PostalCode:  postalCode.String(),
		Prefix:      postalCode.Prefix(),
		Suggestions: suggestions,
	}
}

// Quote is zero when subtotal reaches the free delivery threshold, otherwise
// the zone fee. A large basket only adds the insulated bag flag, never a fee.
func (r *ZoneResolver) Quote(z *zone.Zone, subtotal kernel.Money, totalQuantity int) FeeQuote {
	quote := FeeQuote{
		Fee:          z.Fee(),
		InsulatedBag: totalQuantity >= order.InsulatedBagQuantity,
	}
	if subtotal.GreaterThanOrEqual(r.freeDeliveryThreshold) {
		quote.Fee = kernel.ZeroMoney()
		quote.FreeDelivery = true
	}
	return quote
}

func (r *ZoneResolver) suggest(ctx context.Context, zones ZoneDirectory, prefix string) ([]string, error) {
	prefixes, err := zones.ListActivePrefixes(ctx)
	if err != nil {
		return nil, err
	}

	sort.Strings(prefixes)
	suggestions := make([]string, 0, maxZoneSuggestions)
	for _, p := range prefixes {
		if len(p) >= 2 && p[:2] == prefix[:2] {
			suggestions = append(suggestions, p)
			if len(suggestions) == maxZoneSuggestions {
				break
			}
		}
	}
	return suggestions, nil
}
