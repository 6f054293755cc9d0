package sales

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

// UseCase ciclo de vida de pedidos de venta y su efecto sobre el stock.
// El descuento se aplica al confirmar y se revierte al cancelar; la bandera StockDiscounted
// impide aplicarlo dos veces.
type UseCase struct {
	txRunner ports.TxRunner
	ledger   *inventory.Ledger
	notifier ports.MovementNotifier
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, ledger *inventory.Ledger, notifier ports.MovementNotifier) *UseCase {
	return &UseCase{txRunner: txRunner, ledger: ledger, notifier: notifier}
}

// LineInput línea del pedido; el precio lo fija el módulo de precios y queda congelado.
type LineInput struct {
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// CreateInput datos del pedido.
type CreateInput struct {
	CustomerID       string
	OriginLocationID string
	Notes            string
	Actor            string
	Lines            []LineInput
}

// Create registra un pedido PENDING.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.SalesOrder, error) {
	if in.CustomerID == "" || in.OriginLocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.SalesOrder{
		ID:               uuid.New().String(),
		CustomerID:       in.CustomerID,
		OriginLocationID: in.OriginLocationID,
		Status:           entity.SalesPending,
		Total:            decimal.Zero,
		Notes:            in.Notes,
		CreatedBy:        in.Actor,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	seen := make(map[string]struct{}, len(in.Lines))
	for _, l := range in.Lines {
		qty := domaininv.RoundQuantity(l.Quantity)
		if l.ItemID == "" || !qty.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := seen[l.ItemID]; dup {
			return nil, domain.ErrInvalidInput
		}
		seen[l.ItemID] = struct{}{}
		line := &entity.SalesLine{
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
		customer, err := repos.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		loc, err := repos.Locations.GetByID(ctx, in.OriginLocationID)
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
			if !item.Sellable {
				return domain.ErrInvalidInput
			}
		}
		return repos.Sales.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get obtiene un pedido con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		o, err := repos.Sales.GetByID(ctx, orderID)
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

// Confirm confirma el pedido y descuenta todas sus líneas del local de despacho.
// Si alguna línea no tiene stock suficiente no se descuenta nada y se informan todos los faltantes.
func (uc *UseCase) Confirm(ctx context.Context, orderID, fulfillmentLocationID, actor string) (*entity.SalesOrder, error) {
	if orderID == "" || fulfillmentLocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.SalesOrder
	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if order.StockDiscounted {
			return domain.ErrAlreadyApplied
		}
		if order.Status != entity.SalesPending && order.Status != entity.SalesConfirmed {
			return domain.ErrInvalidTransition
		}
		movements, err = uc.discount(ctx, repos, order, fulfillmentLocationID, actor)
		if err != nil {
			return err
		}
		order.Status = entity.SalesConfirmed
		if err := repos.Sales.Update(ctx, order); err != nil {
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

// SetFulfillmentLocation cambia el local de despacho. Un pedido CONFIRMED que aún no descontó
// stock lo descuenta en ese momento; uno ya descontado no puede cambiar de local.
func (uc *UseCase) SetFulfillmentLocation(ctx context.Context, orderID, locationID, actor string) (*entity.SalesOrder, error) {
	if orderID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.SalesOrder
	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return domain.ErrInvalidTransition
		}
		if order.StockDiscounted {
			return domain.ErrAlreadyApplied
		}
		switch order.Status {
		case entity.SalesConfirmed:
			movements, err = uc.discount(ctx, repos, order, locationID, actor)
			if err != nil {
				return err
			}
		case entity.SalesPending:
			loc, err := repos.Locations.GetByID(ctx, locationID)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.ErrNotFound
			}
			order.FulfillmentLocationID = locationID
		default:
			return domain.ErrInvalidTransition
		}
		if err := repos.Sales.Update(ctx, order); err != nil {
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

// Advance avanza el pedido un paso: CONFIRMED → IN_PREPARATION → DELIVERED.
func (uc *UseCase) Advance(ctx context.Context, orderID string, next entity.SalesStatus) (*entity.SalesOrder, error) {
	if next != entity.SalesInPreparation && next != entity.SalesDelivered {
		return nil, domain.ErrInvalidTransition
	}
	var out *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return domain.ErrInvalidTransition
		}
		order.Status = next
		if err := repos.Sales.Update(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	return out, err
}

// Cancel cancela el pedido desde cualquier estado no terminal. Si el stock estaba descontado,
// cada línea vuelve al local de despacho con un movimiento ADJUSTMENT de entrada.
func (uc *UseCase) Cancel(ctx context.Context, orderID, actor string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(entity.SalesCancelled) {
			return domain.ErrInvalidTransition
		}
		if order.StockDiscounted {
			for _, l := range order.Lines {
				applied, err := uc.ledger.Apply(ctx, repos, inventory.MovementInput{
					ItemID:       l.ItemID,
					ToLocationID: order.FulfillmentLocationID,
					Quantity:     l.Quantity,
					Kind:         entity.MovementAdjustment,
					ReferenceID:  order.ID,
					Notes:        "devolución por cancelación de pedido",
					Actor:        actor,
				})
				if err != nil {
					return err
				}
				movements = append(movements, applied.Movement)
			}
			order.StockDiscounted = false
		}
		order.Status = entity.SalesCancelled
		if err := repos.Sales.Update(ctx, order); err != nil {
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

// discount valida todas las líneas contra el stock bloqueado del local y luego registra una
// salida SALE_ORDER por línea. Deja el pedido marcado como descontado en ese local.
func (uc *UseCase) discount(ctx context.Context, repos ports.Repositories, order *entity.SalesOrder, locationID, actor string) ([]*entity.StockMovement, error) {
	loc, err := repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}

	required := make(map[string]decimal.Decimal, len(order.Lines))
	keys := make([]entity.StockKey, 0, len(order.Lines))
	for _, l := range order.Lines {
		if _, ok := required[l.ItemID]; !ok {
			keys = append(keys, entity.StockKey{ItemID: l.ItemID, LocationID: locationID})
		}
		required[l.ItemID] = required[l.ItemID].Add(l.Quantity)
	}
	available, err := uc.ledger.Lock(ctx, repos.Stock, keys)
	if err != nil {
		return nil, err
	}
	var shortages []domain.Shortage
	for _, k := range keys {
		if have := available[k]; have.LessThan(required[k.ItemID]) {
			shortages = append(shortages, domain.Shortage{
				ItemID:     k.ItemID,
				LocationID: locationID,
				Required:   required[k.ItemID],
				Available:  have,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, inventory.InsufficientStock(ctx, repos.Items, shortages)
	}

	movements := make([]*entity.StockMovement, 0, len(order.Lines))
	for _, l := range order.Lines {
		applied, err := uc.ledger.Apply(ctx, repos, inventory.MovementInput{
			ItemID:         l.ItemID,
			FromLocationID: locationID,
			Quantity:       l.Quantity,
			Kind:           entity.MovementSaleOrder,
			ReferenceID:    order.ID,
			Actor:          actor,
		})
		if err != nil {
			return nil, err
		}
		movements = append(movements, applied.Movement)
	}
	order.StockDiscounted = true
	order.FulfillmentLocationID = locationID
	return movements, nil
}

func lockOrder(ctx context.Context, repos ports.Repositories, orderID string) (*entity.SalesOrder, error) {
	order, err := repos.Sales.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
