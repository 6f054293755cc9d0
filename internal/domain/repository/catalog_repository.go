package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// ItemRepository puerto de ítems. GetByID devuelve (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	UpdatePurchaseCost(ctx context.Context, id string, cost decimal.Decimal) error
	UpdateManufacturingCost(ctx context.Context, id string, cost decimal.Decimal) error
	SetHasRecipe(ctx context.Context, id string, hasRecipe bool) error
}

// LocationRepository puerto de locales.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
}

// CustomerRepository puerto de clientes (solo consulta desde el motor).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}
