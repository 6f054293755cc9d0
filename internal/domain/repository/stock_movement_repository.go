package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// MovementFilter filtros del historial. LocationID coincide como origen o destino.
type MovementFilter struct {
	ItemID      string
	LocationID  string
	Kind        entity.MovementKind
	ReferenceID string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository puerto de persistencia del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// NetQuantity suma de entradas menos salidas del ítem en el local.
	NetQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error)
}
