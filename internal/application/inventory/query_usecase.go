package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

const (
	defaultMovementLimit = 50
	maxMovementLimit     = 500
)

// QueryUseCase consultas sobre el libro de stock.
type QueryUseCase struct {
	txRunner ports.TxRunner
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(txRunner ports.TxRunner) *QueryUseCase {
	return &QueryUseCase{txRunner: txRunner}
}

// Reconciliation comparación entre la entrada de stock y la suma de su historial.
type Reconciliation struct {
	ItemID        string
	LocationID    string
	EntryQuantity decimal.Decimal
	LedgerNet     decimal.Decimal
	Balanced      bool
}

// GetQuantity cantidad del ítem en el local; cero si nunca tuvo movimientos.
func (uc *QueryUseCase) GetQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	if itemID == "" || locationID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	var qty decimal.Decimal
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := ensureItemAndLocation(ctx, repos, itemID, locationID); err != nil {
			return err
		}
		entry, err := repos.Stock.Get(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		qty = entry.Quantity
		return nil
	})
	return qty, err
}

// ListByLocation entradas de stock existentes en un local.
func (uc *QueryUseCase) ListByLocation(ctx context.Context, locationID string) ([]*entity.StockEntry, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out []*entity.StockEntry
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		loc, err := repos.Locations.GetByID(ctx, locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
		out, err = repos.Stock.ListByLocation(ctx, locationID)
		return err
	})
	return out, err
}

// ListMovements historial filtrado por ítem, local (origen o destino), tipo o referencia, más reciente primero.
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultMovementLimit
	}
	if filter.Limit > maxMovementLimit {
		filter.Limit = maxMovementLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	var out []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		var err error
		out, err = repos.Movements.List(ctx, filter)
		return err
	})
	return out, err
}

// Reconcile verifica que la cantidad registrada coincida con Σ entradas − Σ salidas del historial.
func (uc *QueryUseCase) Reconcile(ctx context.Context, itemID, locationID string) (*Reconciliation, error) {
	if itemID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	res := &Reconciliation{ItemID: itemID, LocationID: locationID}
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := ensureItemAndLocation(ctx, repos, itemID, locationID); err != nil {
			return err
		}
		entry, err := repos.Stock.Get(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		net, err := repos.Movements.NetQuantity(ctx, itemID, locationID)
		if err != nil {
			return err
		}
		res.EntryQuantity = entry.Quantity
		res.LedgerNet = net
		res.Balanced = entry.Quantity.Equal(net)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func ensureItemAndLocation(ctx context.Context, repos ports.Repositories, itemID, locationID string) error {
	item, err := repos.Items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	loc, err := repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}
