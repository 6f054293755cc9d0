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
	_ repository.ProductionOrderRepository = (*productionRepo)(nil)
	_ repository.SalesOrderRepository      = (*salesRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*purchaseRepo)(nil)
)

type productionRepo struct{ s *state }

func (r *productionRepo) Create(_ context.Context, order *entity.ProductionOrder) error {
	if _, ok := r.s.production[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.production[order.ID] = copyProduction(order)
	return nil
}

func (r *productionRepo) GetByID(_ context.Context, id string) (*entity.ProductionOrder, error) {
	o, ok := r.s.production[id]
	if !ok {
		return nil, nil
	}
	return copyProduction(o), nil
}

func (r *productionRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *productionRepo) List(_ context.Context, f repository.ProductionFilter) ([]*entity.ProductionOrder, error) {
	var out []*entity.ProductionOrder
	for _, o := range r.s.production {
		if f.LocationID != "" && o.LocationID != f.LocationID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, copyProduction(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *productionRepo) Update(_ context.Context, order *entity.ProductionOrder) error {
	o, ok := r.s.production[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = order.Status
	o.Notes = order.Notes
	if order.CompletedAt != nil {
		t := *order.CompletedAt
		o.CompletedAt = &t
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (r *productionRepo) SetLineProduced(_ context.Context, lineID string, produced decimal.Decimal) error {
	for _, o := range r.s.production {
		if l := o.Line(lineID); l != nil {
			l.ProducedQuantity = &produced
			return nil
		}
	}
	return domain.ErrNotFound
}

type salesRepo struct{ s *state }

func (r *salesRepo) Create(_ context.Context, order *entity.SalesOrder) error {
	if _, ok := r.s.sales[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sales[order.ID] = copySales(order)
	return nil
}

func (r *salesRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	o, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return copySales(o), nil
}

func (r *salesRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *salesRepo) Update(_ context.Context, order *entity.SalesOrder) error {
	o, ok := r.s.sales[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = order.Status
	o.StockDiscounted = order.StockDiscounted
	o.FulfillmentLocationID = order.FulfillmentLocationID
	o.UpdatedAt = time.Now()
	return nil
}

type purchaseRepo struct{ s *state }

func (r *purchaseRepo) Create(_ context.Context, order *entity.PurchaseOrder) error {
	if _, ok := r.s.purchases[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.purchases[order.ID] = copyPurchase(order)
	return nil
}

func (r *purchaseRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	o, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	return copyPurchase(o), nil
}

func (r *purchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseRepo) Update(_ context.Context, order *entity.PurchaseOrder) error {
	o, ok := r.s.purchases[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = order.Status
	if order.ReceivedAt != nil {
		t := *order.ReceivedAt
		o.ReceivedAt = &t
	}
	o.UpdatedAt = time.Now()
	return nil
}
