package queries

import (
	"context"
	"errors"

	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/clock"
)

type CheckServiceabilityQueryHandler struct {
	zones     services.ZoneDirectory
	resolver  *services.ZoneResolver
	scheduler *services.DeliveryScheduler
	clock     clock.Clock
}

func NewCheckServiceabilityQueryHandler(
	zones services.ZoneDirectory,
	resolver *services.ZoneResolver,
	scheduler *services.DeliveryScheduler,
	clk clock.Clock,
) CheckServiceabilityQueryHandler {
	return CheckServiceabilityQueryHandler{zones: zones, resolver: resolver, scheduler: scheduler, clock: clk}
}

// Handle returns a validation error for a malformed postal code. An unserved
// but well formed one is a normal answer with IsServiceable false.
func (h CheckServiceabilityQueryHandler) Handle(
	ctx context.Context,
	query CheckServiceabilityQuery,
) (CheckServiceabilityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckServiceabilityQueryResponse{}, err
	}

	resolution, err := h.resolver.Resolve(ctx, h.zones, query.PostalCode())
	if err != nil {
		var notServiceable *zone.NotServiceableError
		if errors.As(err, &notServiceable) {
			return CheckServiceabilityQueryResponse{
				PostalCode:  notServiceable.PostalCode,
				Suggestions: notServiceable.Suggestions,
			}, nil
		}
		return CheckServiceabilityQueryResponse{}, err
	}

	now := h.clock.Now()
	next := h.scheduler.NextOrderableDeliveryDate(now)
	deadline, err := h.scheduler.OrderDeadline(next)
	if err != nil {
		return CheckServiceabilityQueryResponse{}, err
	}

	weekdays := h.scheduler.DeliveryWeekdays()
	days := make([]string, len(weekdays))
	for i, wd := range weekdays {
		days[i] = wd.String()
	}

	return CheckServiceabilityQueryResponse{
		IsServiceable:    true,
		PostalCode:       resolution.PostalCode.String(),
		ZoneName:         resolution.Zone.Name(),
		Fee:              resolution.Zone.Fee().String(),
		DeliveryDays:     days,
		NextDeliveryDate: next,
		DeliveryWindow:   h.scheduler.WindowLabel(next),
		OrderDeadline:    deadline,
		Suggestions:      []string{},
	}, nil
}
