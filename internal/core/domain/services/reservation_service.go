package services

import (
	"context"
	"fmt"
	"sort"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/pkg/errs"
)

type Line struct {
	MealID   kernel.UUID
	Quantity int
}

// Reservation is the outcome for one meal. UnitPrice and MealName are the
// values captured for the order item.
type Reservation struct {
	MealID    kernel.UUID
	MealName  string
	Quantity  int
	UnitPrice kernel.Money
	Remaining int
}

type ReservationResult struct {
	Reservations []Reservation
	LowStock     []meal.LowStockSignal
}

func (r ReservationResult) Lines() []Line {
	lines := make([]Line, len(r.Reservations))
	for i, res := range r.Reservations {
		lines[i] = Line{MealID: res.MealID, Quantity: res.Quantity}
	}
	return lines
}

func (r ReservationResult) TotalQuantity() int {
	total := 0
	for _, res := range r.Reservations {
		total += res.Quantity
	}
	return total
}

// ShortageError lists every line that could not be covered. errors.As finds
// the first *meal.InsufficientInventoryError.
type ShortageError struct {
	Shortages []*meal.InsufficientInventoryError
}

func (e *ShortageError) Error() string {
	if len(e.Shortages) == 1 {
		return e.Shortages[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Shortages[0].Error(), len(e.Shortages)-1)
}

func (e *ShortageError) Unwrap() []error {
	out := make([]error, len(e.Shortages))
	for i, s := range e.Shortages {
		out[i] = s
	}
	return out
}

func (e *ShortageError) MealIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(e.Shortages))
	for i, s := range e.Shortages {
		ids[i] = s.MealID
	}
	return ids
}

// ReservationService takes inventory for several meals at once: either every
// line is decremented or none is.
type ReservationService struct{}

func NewReservationService() ReservationService {
	return ReservationService{}
}

// Reserve merges duplicate meals, locks rows in id order, checks every line and
// only then decrements. It must run inside a unit of work so the check and the
// writes see the same rows.
//
// A write failing partway returns the lines already decremented along with
// the error, so a caller without rollback can release them.
func (ReservationService) Reserve(ctx context.Context, store MealStore, lines []Line) (ReservationResult, error) {
	merged, order, err := mergeLines(lines)
	if err != nil {
		return ReservationResult{}, err
	}

	meals, err := lockMeals(ctx, store, order)
	if err != nil {
		return ReservationResult{}, err
	}

	var shortages []*meal.InsufficientInventoryError
	for _, id := range order {
		m := meals[id]
		if checkErr := m.CheckReservable(merged[id]); checkErr != nil {
			insufficient, ok := checkErr.(*meal.InsufficientInventoryError)
			if !ok {
				return ReservationResult{}, checkErr
			}
			shortages = append(shortages, insufficient)
		}
	}
	if len(shortages) > 0 {
		return ReservationResult{}, &ShortageError{Shortages: shortages}
	}

	result := ReservationResult{Reservations: make([]Reservation, 0, len(order))}
	for _, id := range order {
		m := meals[id]
		adj, adjErr := m.Adjust(meal.Subtract, merged[id])
		if adjErr != nil {
			return result, adjErr
		}
		if err = store.Update(ctx, m); err != nil {
			return result, err
		}

		result.Reservations = append(result.Reservations, Reservation{
			MealID:    id,
			MealName:  m.Name(),
			Quantity:  merged[id],
			UnitPrice: m.Price(),
			Remaining: adj.Current,
		})
		if signal, low := m.LowStockSignal(); low {
			result.LowStock = append(result.LowStock, signal)
		}
	}

	return result, nil
}

// Release gives reserved quantities back. Inactive meals are restocked too.
func (ReservationService) Release(ctx context.Context, store MealStore, lines []Line) error {
	merged, order, err := mergeLines(lines)
	if err != nil {
		return err
	}

	meals, err := lockMeals(ctx, store, order)
	if err != nil {
		return err
	}

	for _, id := range sortedIDs(order) {
		m := meals[id]
		if _, err = m.Adjust(meal.Add, merged[id]); err != nil {
			return err
		}
		if err = store.Update(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// mergeLines sums quantities per meal and returns the first-seen meal order.
func mergeLines(lines []Line) (map[kernel.UUID]int, []kernel.UUID, error) {
	if len(lines) == 0 {
		return nil, nil, errs.NewValueIsRequiredError("lines")
	}

	merged := make(map[kernel.UUID]int, len(lines))
	order := make([]kernel.UUID, 0, len(lines))
	for _, l := range lines {
		if err := l.MealID.Validate(); err != nil {
			return nil, nil, errs.NewValueIsRequiredErrorWithCause("mealId", err)
		}
		if l.Quantity <= 0 {
			return nil, nil, errs.NewValueIsOutOfRangeError("quantity", l.Quantity, 1, "unbounded")
		}
		if _, seen := merged[l.MealID]; !seen {
			order = append(order, l.MealID)
		}
		merged[l.MealID] += l.Quantity
	}
	return merged, order, nil
}

func lockMeals(ctx context.Context, store MealStore, ids []kernel.UUID) (map[kernel.UUID]*meal.Meal, error) {
	locked, err := store.ListForUpdate(ctx, sortedIDs(ids))
	if err != nil {
		return nil, err
	}

	meals := make(map[kernel.UUID]*meal.Meal, len(locked))
	for _, m := range locked {
		meals[m.ID()] = m
	}
	for _, id := range ids {
		if _, ok := meals[id]; !ok {
			return nil, errs.NewObjectNotFoundError("mealId", id.String())
		}
	}
	return meals, nil
}

func sortedIDs(ids []kernel.UUID) []kernel.UUID {
	out := make([]kernel.UUID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
