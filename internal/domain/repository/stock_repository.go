package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// StockRepository puerto de entradas de stock por (ítem, local).
// Solo el Ledger escribe a través de Upsert/Increment, dentro de una transacción.
type StockRepository interface {
	// Get devuelve la entrada o una con cantidad cero si no existe (no la crea).
	Get(ctx context.Context, itemID, locationID string) (*entity.StockEntry, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.StockEntry, error)
	Upsert(ctx context.Context, entry *entity.StockEntry) error
	// Increment suma delta de forma atómica creando la entrada si no existe; devuelve la entrada resultante.
	Increment(ctx context.Context, itemID, locationID string, delta decimal.Decimal) (*entity.StockEntry, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.StockEntry, error)
}
