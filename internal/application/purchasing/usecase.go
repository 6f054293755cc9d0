package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

// UseCase compras a proveedor. Recibir una compra ingresa stock y fija el costo de compra de cada ítem.
type UseCase struct {
	txRunner ports.TxRunner
	ledger   *inventory.Ledger
	notifier ports.MovementNotifier
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, ledger *inventory.Ledger, notifier ports.MovementNotifier) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, notifier: notifier}
}

// LineInput línea de compra.
type LineInput struct {
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateInput datos de la compra.
type CreateInput struct {
	SupplierName   string
	LocationID     string
	DocumentNumber string
	Actor          string
	Lines          []LineInput
}

// Create registra una compra PENDING.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.PurchaseOrder, error) {
	if in.SupplierName == "" || in.LocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:             uuid.New().String(),
		SupplierName:   in.SupplierName,
		LocationID:     in.LocationID,
		DocumentNumber: in.DocumentNumber,
		Status:         entity.PurchasePending,
		Total:          decimal.Zero,
		CreatedBy:      in.Actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, l := range in.Lines {
		qty := domaininv.RoundQuantity(l.Quantity)
		if l.ItemID == "" || !qty.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		line := &entity.PurchaseLine{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ItemID:    l.ItemID,
			Quantity:  qty,
			UnitPrice: l.UnitPrice,
			Subtotal:  qty.Mul(l.UnitPrice).Round(2),
		}
		order.Total = order.Total.Add(line.Subtotal)
		order.Lines = append(order.Lines, line)
	}

	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		loc, err := repos.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrNotFound
		}
		for _, l := range order.Lines {
			item, err := repos.Items.GetByID(ctx, l.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
		}
		return repos.Purchases.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get obtiene una compra con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		o, err := repos.Purchases.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		out = o
		return nil
	})
	return out, err
}

// Receive ingresa todas las líneas al local de la compra con movimientos PURCHASE y actualiza
// el costo de compra de cada ítem al último precio. Una compra recibida no se vuelve a recibir.
func (uc *UseCase) Receive(ctx context.Context, orderID, actor string) (*entity.PurchaseOrder, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.PurchaseOrder
	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := repos.Purchases.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.PurchaseReceived {
			return domain.ErrAlreadyApplied
		}
		for _, l := range order.Lines {
			applied, err := uc.ledger.Apply(ctx, repos, inventory.MovementInput{
				ItemID:       l.ItemID,
				ToLocationID: order.LocationID,
				Quantity:     l.Quantity,
				Kind:         entity.MovementPurchase,
				ReferenceID:  order.ID,
				Notes:        order.DocumentNumber,
				Actor:        actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, applied.Movement)
			if err := repos.Items.UpdatePurchaseCost(ctx, l.ItemID, l.UnitPrice); err != nil {
				return err
			}
		}
		now := time.Now()
		order.Status = entity.PurchaseReceived
		order.ReceivedAt = &now
		if err := repos.Purchases.Update(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.Notify(ctx, uc.notifier, movements)
	return out, nil
}
