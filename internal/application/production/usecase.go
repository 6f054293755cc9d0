package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/application/recipe"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

// UseCase órdenes de producción: planificación, requisición y cierre.
type UseCase struct {
	txRunner ports.TxRunner
	ledger   *inventory.Ledger
	resolver *recipe.Resolver
	renderer ports.PickListRenderer
	notifier ports.MovementNotifier
	epsilon  decimal.Decimal
}

// NewUseCase construye el caso de uso. renderer puede ser nil si no se exponen PDFs.
func NewUseCase(
	txRunner ports.TxRunner,
	ledger *inventory.Ledger,
	resolver *recipe.Resolver,
	renderer ports.PickListRenderer,
	notifier ports.MovementNotifier,
	epsilon decimal.Decimal,
) *UseCase {
	if !epsilon.IsPositive() {
		epsilon = domaininv.ConsumptionEpsilon
	}
	return &UseCase{
		txRunner: txRunner,
		ledger:   ledger,
		resolver: resolver,
		renderer: renderer,
		notifier: notifier,
		epsilon:  epsilon,
	}
}

// LineInput producto a fabricar.
type LineInput struct {
	ItemID   string
	Quantity decimal.Decimal
	Unit     string
}

// CreateInput datos de una orden nueva.
type CreateInput struct {
	LocationID  string
	ScheduledAt time.Time
	Notes       string
	Actor       string
	Lines       []LineInput
}

// LineOverride cantidad realmente producida en una línea.
type LineOverride struct {
	LineID   string
	Quantity decimal.Decimal
}

// IngredientOverride consumo real de un insumo; reemplaza el total calculado por las recetas.
type IngredientOverride struct {
	ItemID   string
	Quantity decimal.Decimal
}

// FinalizeInput datos del cierre.
type FinalizeInput struct {
	OrderID             string
	LineOverrides       []LineOverride
	IngredientOverrides []IngredientOverride
	ClosingNotes        string
	Actor               string
}

// Requirement insumo de la orden contra el stock del local.
type Requirement struct {
	ItemID     string
	ItemName   string
	Unit       string
	Required   decimal.Decimal
	Available  decimal.Decimal
	Sufficient bool
}

// Requirements vista previa de consumos de una orden con sus cantidades planificadas.
type Requirements struct {
	OrderID    string
	LocationID string
	Items      []Requirement
	Sufficient bool
}

// Create registra una orden PLANNED.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.ProductionOrder, error) {
	if in.LocationID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	scheduled := in.ScheduledAt
	if scheduled.IsZero() {
		scheduled = now
	}
	order := &entity.ProductionOrder{
		ID:          uuid.New().String(),
		LocationID:  in.LocationID,
		Status:      entity.ProductionPlanned,
		ScheduledAt: scheduled,
		Notes:       in.Notes,
		CreatedBy:   in.Actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, l := range in.Lines {
		qty := domaininv.RoundQuantity(l.Quantity)
		if l.ItemID == "" || !qty.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		order.Lines = append(order.Lines, &entity.ProductionLine{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			ItemID:          l.ItemID,
			PlannedQuantity: qty,
			Unit:            l.Unit,
		})
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
			if l.Unit == "" {
				l.Unit = item.UnitMeasure
			}
		}
		return repos.Production.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get obtiene una orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*entity.ProductionOrder, error) {
	var out *entity.ProductionOrder
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		o, err := repos.Production.GetByID(ctx, orderID)
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

// List lista órdenes por local y estado.
func (uc *UseCase) List(ctx context.Context, filter repository.ProductionFilter) ([]*entity.ProductionOrder, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	var out []*entity.ProductionOrder
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		var err error
		out, err = repos.Production.List(ctx, filter)
		return err
	})
	return out, err
}

// PreviewRequirements calcula los consumos con las cantidades planificadas, sin bloquear ni escribir.
func (uc *UseCase) PreviewRequirements(ctx context.Context, orderID string) (*Requirements, error) {
	var out *Requirements
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := repos.Production.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		out, _, err = uc.preview(ctx, repos, order)
		return err
	})
	return out, err
}

// PickListPDF hoja de requisición en PDF de la orden.
func (uc *UseCase) PickListPDF(ctx context.Context, orderID string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, domain.ErrNotFound
	}
	var list *ports.PickList
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := repos.Production.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		reqs, items, err := uc.preview(ctx, repos, order)
		if err != nil {
			return err
		}
		loc, err := repos.Locations.GetByID(ctx, order.LocationID)
		if err != nil {
			return err
		}
		list = &ports.PickList{OrderID: order.ID, ScheduledAt: order.ScheduledAt, Notes: order.Notes}
		if loc != nil {
			list.LocationName = loc.Name
		}
		for _, l := range order.Lines {
			out := ports.PickListOutput{Unit: l.Unit, Quantity: l.PlannedQuantity}
			if item := items[l.ItemID]; item != nil {
				out.SKU, out.Name = item.SKU, item.Name
			}
			list.Outputs = append(list.Outputs, out)
		}
		for _, r := range reqs.Items {
			line := ports.PickListLine{Name: r.ItemName, Unit: r.Unit, Required: r.Required, Available: r.Available}
			if item := items[r.ItemID]; item != nil {
				line.SKU = item.SKU
			}
			list.Ingredients = append(list.Ingredients, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderPickList(ctx, list)
}

// Finalize cierra la orden: descuenta los insumos agregados de todas las líneas y da entrada al
// producto terminado en el local de la orden. Si falta cualquier insumo no se aplica nada.
func (uc *UseCase) Finalize(ctx context.Context, in FinalizeInput) (*entity.ProductionOrder, error) {
	if in.OrderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.ProductionOrder
	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := lockOrder(ctx, repos, in.OrderID)
		if err != nil {
			return err
		}
		if order.Status != entity.ProductionPlanned {
			return domain.ErrInvalidTransition
		}

		produced := make(map[string]decimal.Decimal, len(order.Lines))
		for _, l := range order.Lines {
			produced[l.ID] = l.PlannedQuantity
		}
		for _, o := range in.LineOverrides {
			if order.Line(o.LineID) == nil || o.Quantity.IsNegative() {
				return domain.ErrInvalidInput
			}
			produced[o.LineID] = o.Quantity
		}
		overrides := make(map[string]decimal.Decimal, len(in.IngredientOverrides))
		for _, o := range in.IngredientOverrides {
			if o.ItemID == "" || o.Quantity.IsNegative() {
				return domain.ErrInvalidInput
			}
			overrides[o.ItemID] = o.Quantity
		}

		lines := make([]domaininv.PlanLine, 0, len(order.Lines))
		for _, l := range order.Lines {
			reqs, err := uc.resolver.ResolveExact(ctx, repos.Recipes, l.ItemID, produced[l.ID])
			if err != nil {
				return err
			}
			lines = append(lines, domaininv.PlanLine{LineID: l.ID, ItemID: l.ItemID, Quantity: produced[l.ID], Requirements: reqs})
		}
		plan := domaininv.BuildProductionPlan(order.LocationID, lines, overrides, uc.epsilon)

		locked, err := uc.ledger.Lock(ctx, repos.Stock, plan.ConsumptionKeys())
		if err != nil {
			return err
		}
		available := make(map[string]decimal.Decimal, len(locked))
		for k, q := range locked {
			available[k.ItemID] = q
		}
		if shortages := plan.Shortages(available); len(shortages) > 0 {
			return inventory.InsufficientStock(ctx, repos.Items, shortages)
		}

		for _, c := range plan.Consumptions {
			applied, err := uc.ledger.Apply(ctx, repos, inventory.MovementInput{
				ItemID:         c.ItemID,
				FromLocationID: order.LocationID,
				Quantity:       c.Quantity,
				Kind:           entity.MovementProduction,
				ReferenceID:    order.ID,
				Notes:          "consumo de producción",
				Actor:          in.Actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, applied.Movement)
		}
		for _, o := range plan.Outputs {
			if err := repos.Production.SetLineProduced(ctx, o.LineID, o.Quantity); err != nil {
				return err
			}
			order.Line(o.LineID).ProducedQuantity = &o.Quantity
			if !o.Quantity.IsPositive() {
				continue
			}
			applied, err := uc.ledger.Apply(ctx, repos, inventory.MovementInput{
				ItemID:       o.ItemID,
				ToLocationID: order.LocationID,
				Quantity:     o.Quantity,
				Kind:         entity.MovementProduction,
				ReferenceID:  order.ID,
				Notes:        "ingreso de producción",
				Actor:        in.Actor,
			})
			if err != nil {
				return err
			}
			movements = append(movements, applied.Movement)
		}

		now := time.Now()
		order.Status = entity.ProductionFinalized
		order.CompletedAt = &now
		order.UpdatedAt = now
		order.AppendClosingNotes(in.ClosingNotes)
		if err := repos.Production.Update(ctx, order); err != nil {
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

// Cancel cancela una orden PLANNED. No toca stock.
func (uc *UseCase) Cancel(ctx context.Context, orderID, notes string) (*entity.ProductionOrder, error) {
	var out *entity.ProductionOrder
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		order, err := lockOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.ProductionPlanned {
			return domain.ErrInvalidTransition
		}
		order.Status = entity.ProductionCancelled
		order.UpdatedAt = time.Now()
		order.AppendClosingNotes(notes)
		if err := repos.Production.Update(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	return out, err
}

// preview arma los requerimientos con cantidades planificadas y lecturas sin bloqueo.
// Devuelve también los ítems consultados, indexados por ID.
func (uc *UseCase) preview(ctx context.Context, repos ports.Repositories, order *entity.ProductionOrder) (*Requirements, map[string]*entity.Item, error) {
	lines := make([]domaininv.PlanLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		reqs, err := uc.resolver.ResolveExact(ctx, repos.Recipes, l.ItemID, l.PlannedQuantity)
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, domaininv.PlanLine{LineID: l.ID, ItemID: l.ItemID, Quantity: l.PlannedQuantity, Requirements: reqs})
	}
	plan := domaininv.BuildProductionPlan(order.LocationID, lines, nil, uc.epsilon)

	items := make(map[string]*entity.Item)
	load := func(id string) (*entity.Item, error) {
		if it, ok := items[id]; ok {
			return it, nil
		}
		it, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		items[id] = it
		return it, nil
	}
	for _, l := range order.Lines {
		if _, err := load(l.ItemID); err != nil {
			return nil, nil, err
		}
	}

	out := &Requirements{OrderID: order.ID, LocationID: order.LocationID, Sufficient: true}
	for _, c := range plan.Consumptions {
		item, err := load(c.ItemID)
		if err != nil {
			return nil, nil, err
		}
		entry, err := repos.Stock.Get(ctx, c.ItemID, order.LocationID)
		if err != nil {
			return nil, nil, err
		}
		r := Requirement{
			ItemID:     c.ItemID,
			Required:   c.Quantity,
			Available:  entry.Quantity,
			Sufficient: !entry.Quantity.LessThan(c.Quantity),
		}
		if item != nil {
			r.ItemName, r.Unit = item.Name, item.UnitMeasure
		}
		if !r.Sufficient {
			out.Sufficient = false
		}
		out.Items = append(out.Items, r)
	}
	return out, items, nil
}

func lockOrder(ctx context.Context, repos ports.Repositories, orderID string) (*entity.ProductionOrder, error) {
	order, err := repos.Production.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}
