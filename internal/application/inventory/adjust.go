package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

// AdjustUseCase ajustes manuales de stock (conteos físicos, mermas, saldos iniciales).
// Todo ajuste queda como movimiento ADJUSTMENT.
type AdjustUseCase struct {
	txRunner ports.TxRunner
	ledger   *Ledger
	notifier ports.MovementNotifier
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner ports.TxRunner, ledger *Ledger, notifier ports.MovementNotifier) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner, ledger: ledger, notifier: notifier}
}

// AdjustInput ajuste por diferencia: Delta > 0 ingresa, Delta < 0 descuenta.
type AdjustInput struct {
	ItemID     string
	LocationID string
	Delta      decimal.Decimal
	Notes      string
	Actor      string
}

// SetQuantityInput fija la cantidad absoluta de un ítem en un local.
type SetQuantityInput struct {
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	Notes      string
	Actor      string
}

// AdjustResult cantidades antes/después; MovementID vacío si no hubo cambio.
type AdjustResult struct {
	MovementID string
	Before     decimal.Decimal
	After      decimal.Decimal
}

// Adjust aplica un ajuste por diferencia.
func (uc *AdjustUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	delta := domaininv.RoundQuantity(in.Delta)
	if in.ItemID == "" || in.LocationID == "" || delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	var res *AdjustResult
	var applied *AppliedMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := ensureItemAndLocation(ctx, repos, in.ItemID, in.LocationID); err != nil {
			return err
		}
		var err error
		res, applied, err = uc.applyDelta(ctx, repos, in.ItemID, in.LocationID, delta, in.Notes, in.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, applied)
	return res, nil
}

// SetQuantity lleva la cantidad al valor indicado registrando la diferencia. Sin diferencia no registra nada.
func (uc *AdjustUseCase) SetQuantity(ctx context.Context, in SetQuantityInput) (*AdjustResult, error) {
	target := domaininv.RoundQuantity(in.Quantity)
	if in.ItemID == "" || in.LocationID == "" || target.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var res *AdjustResult
	var applied *AppliedMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := ensureItemAndLocation(ctx, repos, in.ItemID, in.LocationID); err != nil {
			return err
		}
		key := entity.StockKey{ItemID: in.ItemID, LocationID: in.LocationID}
		current, err := uc.ledger.Lock(ctx, repos.Stock, []entity.StockKey{key})
		if err != nil {
			return err
		}
		delta := target.Sub(current[key])
		if delta.IsZero() {
			res = &AdjustResult{Before: current[key], After: current[key]}
			return nil
		}
		res, applied, err = uc.applyDelta(ctx, repos, in.ItemID, in.LocationID, delta, in.Notes, in.Actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, applied)
	return res, nil
}

func (uc *AdjustUseCase) applyDelta(ctx context.Context, repos ports.Repositories, itemID, locationID string, delta decimal.Decimal, notes, actor string) (*AdjustResult, *AppliedMovement, error) {
	in := MovementInput{
		ItemID:   itemID,
		Quantity: delta.Abs(),
		Kind:     entity.MovementAdjustment,
		Notes:    notes,
		Actor:    actor,
	}
	if delta.IsPositive() {
		in.ToLocationID = locationID
	} else {
		in.FromLocationID = locationID
	}
	applied, err := uc.ledger.Apply(ctx, repos, in)
	if err != nil {
		return nil, nil, err
	}
	res := &AdjustResult{MovementID: applied.Movement.ID}
	if delta.IsPositive() {
		res.Before, res.After = applied.DestinationBefore, applied.DestinationAfter
	} else {
		res.Before, res.After = applied.SourceBefore, applied.SourceAfter
	}
	return res, applied, nil
}

func (uc *AdjustUseCase) notify(ctx context.Context, applied *AppliedMovement) {
	if applied == nil {
		return
	}
	ports.Notify(ctx, uc.notifier, []*entity.StockMovement{applied.Movement})
}
