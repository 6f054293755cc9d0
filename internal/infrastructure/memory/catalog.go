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
	_ repository.ItemRepository     = (*itemRepo)(nil)
	_ repository.LocationRepository = (*locationRepo)(nil)
	_ repository.CustomerRepository = (*customerRepo)(nil)
)

type itemRepo struct{ s *state }

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, it := range r.s.items {
		if it.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.items[item.ID] = copyItem(item)
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return copyItem(it), nil
}

func (r *itemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	for _, it := range r.s.items {
		if it.SKU == sku {
			return copyItem(it), nil
		}
	}
	return nil, nil
}

func (r *itemRepo) UpdatePurchaseCost(_ context.Context, id string, cost decimal.Decimal) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.PurchaseCost = cost
	it.UpdatedAt = time.Now()
	return nil
}

func (r *itemRepo) UpdateManufacturingCost(_ context.Context, id string, cost decimal.Decimal) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.ManufacturingCost = &cost
	it.UpdatedAt = time.Now()
	return nil
}

func (r *itemRepo) SetHasRecipe(_ context.Context, id string, hasRecipe bool) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.HasRecipe = hasRecipe
	it.UpdatedAt = time.Now()
	return nil
}

type locationRepo struct{ s *state }

func (r *locationRepo) Create(_ context.Context, location *entity.Location) error {
	if _, ok := r.s.locations[location.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, l := range r.s.locations {
		if l.Code == location.Code {
			return domain.ErrDuplicate
		}
	}
	l := *location
	r.s.locations[location.ID] = &l
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	c := *l
	return &c, nil
}

func (r *locationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	for _, l := range r.s.locations {
		if l.Code == code {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r *locationRepo) List(_ context.Context) ([]*entity.Location, error) {
	out := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		c := *l
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type customerRepo struct{ s *state }

func (r *customerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if _, ok := r.s.customers[customer.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *customer
	r.s.customers[customer.ID] = &c
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
