package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// ProductionFilter filtros para listar órdenes de producción.
type ProductionFilter struct {
	LocationID string
	Status     entity.ProductionStatus
	Limit      int
	Offset     int
}

// ProductionOrderRepository puerto de órdenes de producción.
type ProductionOrderRepository interface {
	Create(ctx context.Context, order *entity.ProductionOrder) error
	GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error)
	// GetForUpdate bloquea la cabecera de la orden.
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error)
	List(ctx context.Context, filter ProductionFilter) ([]*entity.ProductionOrder, error)
	// Update persiste estado, fecha de cierre y notas.
	Update(ctx context.Context, order *entity.ProductionOrder) error
	SetLineProduced(ctx context.Context, lineID string, produced decimal.Decimal) error
}

// SalesOrderRepository puerto de pedidos de venta.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	// Update persiste estado, bandera de descuento y local de despacho.
	Update(ctx context.Context, order *entity.SalesOrder) error
}

// PurchaseOrderRepository puerto de compras.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, order *entity.PurchaseOrder) error
}
