package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

// Ledger libro de stock: único componente que escribe entradas de stock y movimientos.
// Siempre opera con los repositorios de la transacción del caller.
type Ledger struct {
	now   func() time.Time
	newID func() string
}

// NewLedger construye el libro.
func NewLedger() *Ledger {
	return &Ledger{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// MovementInput movimiento a aplicar. FromLocationID vacío = entrada; ToLocationID vacío = salida.
type MovementInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	Kind           entity.MovementKind
	ReferenceID    string
	Notes          string
	Actor          string
}

// AppliedMovement movimiento registrado con las cantidades antes/después de cada lado tocado.
type AppliedMovement struct {
	Movement          *entity.StockMovement
	SourceBefore      decimal.Decimal
	SourceAfter       decimal.Decimal
	DestinationBefore decimal.Decimal
	DestinationAfter  decimal.Decimal
}

// Lock bloquea (SELECT FOR UPDATE) las entradas indicadas en orden (ítem, local) y devuelve sus
// cantidades. El orden fijo evita interbloqueos entre transacciones que tocan las mismas filas.
func (l *Ledger) Lock(ctx context.Context, stock repository.StockRepository, keys []entity.StockKey) (map[entity.StockKey]decimal.Decimal, error) {
	uniq := make(map[entity.StockKey]struct{}, len(keys))
	sorted := make([]entity.StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := uniq[k]; ok {
			continue
		}
		uniq[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	out := make(map[entity.StockKey]decimal.Decimal, len(sorted))
	for _, k := range sorted {
		entry, err := stock.GetForUpdate(ctx, k.ItemID, k.LocationID)
		if err != nil {
			return nil, err
		}
		out[k] = entry.Quantity
	}
	return out, nil
}

// Apply registra un movimiento: descuenta el origen (falla si quedaría negativo), suma al destino
// (creando la entrada si hace falta) y agrega el movimiento al historial.
func (l *Ledger) Apply(ctx context.Context, repos ports.Repositories, in MovementInput) (*AppliedMovement, error) {
	qty := domaininv.RoundQuantity(in.Quantity)
	if in.ItemID == "" || !qty.IsPositive() || !in.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == "" && in.ToLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrSameLocation
	}

	now := l.now()
	res := &AppliedMovement{}

	if in.FromLocationID != "" {
		entry, err := repos.Stock.GetForUpdate(ctx, in.ItemID, in.FromLocationID)
		if err != nil {
			return nil, err
		}
		if entry.Quantity.LessThan(qty) {
			return nil, InsufficientStock(ctx, repos.Items, []domain.Shortage{{
				ItemID:     in.ItemID,
				LocationID: in.FromLocationID,
				Required:   qty,
				Available:  entry.Quantity,
			}})
		}
		res.SourceBefore = entry.Quantity
		entry.Quantity = entry.Quantity.Sub(qty)
		entry.UpdatedAt = now
		if err := repos.Stock.Upsert(ctx, entry); err != nil {
			return nil, err
		}
		res.SourceAfter = entry.Quantity
	}

	if in.ToLocationID != "" {
		entry, err := repos.Stock.Increment(ctx, in.ItemID, in.ToLocationID, qty)
		if err != nil {
			return nil, err
		}
		res.DestinationAfter = entry.Quantity
		res.DestinationBefore = entry.Quantity.Sub(qty)
	}

	mov := &entity.StockMovement{
		ID:             l.newID(),
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       qty,
		Kind:           in.Kind,
		ReferenceID:    in.ReferenceID,
		Notes:          in.Notes,
		Actor:          in.Actor,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	res.Movement = mov
	return res, nil
}

// InsufficientStock construye el error de faltantes completando el nombre de cada ítem.
func InsufficientStock(ctx context.Context, items repository.ItemRepository, shortages []domain.Shortage) error {
	for i := range shortages {
		if shortages[i].ItemName != "" {
			continue
		}
		if item, err := items.GetByID(ctx, shortages[i].ItemID); err == nil && item != nil {
			shortages[i].ItemName = item.Name
		}
	}
	return domain.NewInsufficientStockError(shortages...)
}
