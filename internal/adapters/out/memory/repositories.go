package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/errs"
)

type mealRepository struct {
	store *Store
}

func (r *mealRepository) Add(_ context.Context, m *meal.Meal) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := r.store.meals[m.ID()]; exists {
		return errs.Mark(fmt.Errorf("meal %s already exists", m.ID()), ports.ErrUniqueViolation)
	}
	r.store.meals[m.ID()] = mealRow{
		name:      m.Name(),
		price:     m.Price(),
		count:     m.AvailableCount(),
		threshold: m.LowStockThreshold(),
		active:    m.IsActive(),
	}
	return nil
}

func (r *mealRepository) Update(_ context.Context, m *meal.Meal) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := r.store.injected(OpUpdateMeal); err != nil {
		return err
	}
	row, ok := r.store.meals[m.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("mealId", m.ID().String())
	}
	row.count = m.AvailableCount()
	row.threshold = m.LowStockThreshold()
	row.active = m.IsActive()
	r.store.meals[m.ID()] = row
	return nil
}

func (r *mealRepository) Get(_ context.Context, id kernel.UUID) (*meal.Meal, error) {
	row, ok := r.store.meals[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("mealId", id.String())
	}
	return meal.Restore(id, row.name, row.price, row.count, row.threshold, row.active)
}

func (r *mealRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*meal.Meal, error) {
	return r.Get(ctx, id)
}

func (r *mealRepository) ListForUpdate(ctx context.Context, ids []kernel.UUID) ([]*meal.Meal, error) {
	out := make([]*meal.Meal, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.store.meals[id]; !ok {
			continue
		}
		m, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *mealRepository) ListLowStock(ctx context.Context) ([]*meal.Meal, error) {
	var out []*meal.Meal
	for id, row := range r.store.meals {
		if !row.active || row.count > row.threshold {
			continue
		}
		m, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

type orderRepository struct {
	store *Store
}

func (r *orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := r.store.injected(OpAddOrder); err != nil {
		return err
	}
	if _, exists := r.store.orders[o.ID()]; exists {
		return errs.Mark(fmt.Errorf("order %s already exists", o.ID()), ports.ErrUniqueViolation)
	}
	r.store.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r *orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := r.store.injected(OpUpdateOrder); err != nil {
		return err
	}
	current, ok := r.store.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("orderId", o.ID().String())
	}

	next := o.Snapshot()
	current.Status = next.Status
	current.PaymentStatus = next.PaymentStatus
	current.CancelReason = next.CancelReason
	current.CancelledAt = next.CancelledAt
	r.store.orders[o.ID()] = current
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id.String())
	}
	return order.Restore(s)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r *orderRepository) SetNumber(_ context.Context, id kernel.UUID, number order.Number) error {
	if err := r.store.injected(OpSetNumber); err != nil {
		return err
	}
	s, ok := r.store.orders[id]
	if !ok {
		return errs.NewObjectNotFoundError("orderId", id.String())
	}
	if owner, taken := r.store.numbers[number.String()]; taken && !owner.IsEqual(id) {
		return errs.Mark(fmt.Errorf("order number %s is taken", number), ports.ErrUniqueViolation)
	}

	if s.Number != "" {
		delete(r.store.numbers, s.Number)
	}
	s.Number = number.String()
	r.store.orders[id] = s
	r.store.numbers[s.Number] = id
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id kernel.UUID) error {
	s, ok := r.store.orders[id]
	if !ok {
		return nil
	}
	if s.Number != "" {
		delete(r.store.numbers, s.Number)
	}
	delete(r.store.orders, id)
	return nil
}

type zoneRepository struct {
	store *Store
}

func (r *zoneRepository) Add(_ context.Context, z *zone.Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}
	if _, exists := r.store.zones[z.ID()]; exists {
		return errs.Mark(fmt.Errorf("zone %s already exists", z.ID()), ports.ErrUniqueViolation)
	}

	if z.IsActive() {
		for id, row := range r.store.zones {
			if !row.active {
				continue
			}
			for _, prefix := range row.prefixes {
				if z.HasPrefix(prefix) {
					return &zone.PrefixConflictError{Prefix: prefix, OwnerZoneID: id}
				}
			}
		}
	}

	r.store.zones[z.ID()] = zoneRow{
		name:     z.Name(),
		prefixes: z.Prefixes(),
		fee:      z.Fee(),
		active:   z.IsActive(),
	}
	return nil
}

func (r *zoneRepository) Get(_ context.Context, id kernel.UUID) (*zone.Zone, error) {
	row, ok := r.store.zones[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("zoneId", id.String())
	}
	return zone.NewZone(id, row.name, row.prefixes, row.fee, row.active)
}

func (r *zoneRepository) FindActiveByPrefix(ctx context.Context, prefix string) (*zone.Zone, error) {
	for id, row := range r.store.zones {
		if !row.active {
			continue
		}
		for _, p := range row.prefixes {
			if p == prefix {
				return r.Get(ctx, id)
			}
		}
	}
	return nil, errs.NewObjectNotFoundError("prefix", prefix)
}

func (r *zoneRepository) ListActivePrefixes(_ context.Context) ([]string, error) {
	var out []string
	for _, row := range r.store.zones {
		if row.active {
			out = append(out, row.prefixes...)
		}
	}
	sort.Strings(out)
	return out, nil
}

type counter struct {
	store *Store
}

func (c *counter) NextValue(_ context.Context, dayKey string) (int64, error) {
	c.store.counters[dayKey]++
	return c.store.counters[dayKey], nil
}

type outboxRepository struct {
	store *Store
}

func (r *outboxRepository) Add(_ context.Context, msg ports.OutboxMessage) error {
	if err := r.store.injected(OpAddOutbox); err != nil {
		return err
	}
	msg.Payload = append([]byte(nil), msg.Payload...)
	r.store.outbox = append(r.store.outbox, msg)
	return nil
}

func (r *outboxRepository) ListUnpublished(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	var out []ports.OutboxMessage
	for _, msg := range r.store.outbox {
		if msg.PublishedAt != nil {
			continue
		}
		out = append(out, msg)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *outboxRepository) MarkPublished(_ context.Context, ids []kernel.UUID, at time.Time) error {
	wanted := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	for i := range r.store.outbox {
		if _, ok := wanted[r.store.outbox[i].ID]; ok {
			published := at
			r.store.outbox[i].PublishedAt = &published
		}
	}
	return nil
}
