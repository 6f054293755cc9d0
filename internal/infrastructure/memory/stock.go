package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
)

type stockRepo struct{ s *state }

func (r *stockRepo) Get(_ context.Context, itemID, locationID string) (*entity.StockEntry, error) {
	e, ok := r.s.stock[entity.StockKey{ItemID: itemID, LocationID: locationID}]
	if !ok {
		return &entity.StockEntry{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
	}
	c := *e
	return &c, nil
}

// GetForUpdate: Run ya serializa las transacciones, no hace falta bloqueo adicional.
func (r *stockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.StockEntry, error) {
	return r.Get(ctx, itemID, locationID)
}

func (r *stockRepo) Upsert(_ context.Context, entry *entity.StockEntry) error {
	if entry.Quantity.IsNegative() {
		// equivalente al CHECK (quantity >= 0) de la tabla
		return domain.ErrInsufficientStock
	}
	c := *entry
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	r.s.stock[entry.Key()] = &c
	return nil
}

func (r *stockRepo) Increment(_ context.Context, itemID, locationID string, delta decimal.Decimal) (*entity.StockEntry, error) {
	key := entity.StockKey{ItemID: itemID, LocationID: locationID}
	e, ok := r.s.stock[key]
	if !ok {
		e = &entity.StockEntry{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
	}
	next := e.Quantity.Add(delta)
	if next.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	e.Quantity = next
	e.UpdatedAt = time.Now()
	r.s.stock[key] = e
	c := *e
	return &c, nil
}

func (r *stockRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for k, e := range r.s.stock {
		if k.LocationID == locationID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

type movementRepo struct{ s *state }

func (r *movementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if !movement.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	c := *movement
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var matched []*entity.StockMovement
	// más reciente primero
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.LocationID != "" && m.FromLocationID != f.LocationID && m.ToLocationID != f.LocationID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && m.CreatedAt.After(*f.To) {
			continue
		}
		c := *m
		matched = append(matched, &c)
	}
	if f.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (r *movementRepo) NetQuantity(_ context.Context, itemID, locationID string) (decimal.Decimal, error) {
	net := decimal.Zero
	for _, m := range r.s.movements {
		if m.ItemID != itemID {
			continue
		}
		if m.ToLocationID == locationID {
			net = net.Add(m.Quantity)
		}
		if m.FromLocationID == locationID {
			net = net.Sub(m.Quantity)
		}
	}
	return net, nil
}
