package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

// TransferUseCase traslada stock entre locales en un solo movimiento TRANSFER.
type TransferUseCase struct {
	txRunner ports.TxRunner
	ledger   *Ledger
	notifier ports.MovementNotifier
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner ports.TxRunner, ledger *Ledger, notifier ports.MovementNotifier) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, ledger: ledger, notifier: notifier}
}

// TransferInput datos del traslado.
type TransferInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	Notes          string
	Actor          string
}

// LocationBalance cantidades antes/después en un local.
type LocationBalance struct {
	LocationID string
	Before     decimal.Decimal
	After      decimal.Decimal
}

// TransferResult resultado del traslado.
type TransferResult struct {
	MovementID  string
	ItemID      string
	Quantity    decimal.Decimal
	Source      LocationBalance
	Destination LocationBalance
}

// Transfer valida locales, ítem y stock de origen y registra el traslado.
func (uc *TransferUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	qty := domaininv.RoundQuantity(in.Quantity)
	if in.ItemID == "" || in.FromLocationID == "" || in.ToLocationID == "" || !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrSameLocation
	}

	var applied *AppliedMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		if err := ensureItemAndLocation(ctx, repos, in.ItemID, in.FromLocationID); err != nil {
			return err
		}
		dest, err := repos.Locations.GetByID(ctx, in.ToLocationID)
		if err != nil {
			return err
		}
		if dest == nil {
			return domain.ErrNotFound
		}
		if _, err := uc.ledger.Lock(ctx, repos.Stock, []entity.StockKey{
			{ItemID: in.ItemID, LocationID: in.FromLocationID},
			{ItemID: in.ItemID, LocationID: in.ToLocationID},
		}); err != nil {
			return err
		}
		applied, err = uc.ledger.Apply(ctx, repos, MovementInput{
			ItemID:         in.ItemID,
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			Quantity:       qty,
			Kind:           entity.MovementTransfer,
			Notes:          in.Notes,
			Actor:          in.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.notifier, []*entity.StockMovement{applied.Movement})

	return &TransferResult{
		MovementID: applied.Movement.ID,
		ItemID:     in.ItemID,
		Quantity:   qty,
		Source: LocationBalance{
			LocationID: in.FromLocationID,
			Before:     applied.SourceBefore,
			After:      applied.SourceAfter,
		},
		Destination: LocationBalance{
			LocationID: in.ToLocationID,
			Before:     applied.DestinationBefore,
			After:      applied.DestinationAfter,
		},
	}, nil
}
