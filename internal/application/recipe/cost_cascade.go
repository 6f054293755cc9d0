package recipe

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

// CostCascade recalcula el costo de una receta y lo propaga al costo de fabricación del ítem de salida.
// La propagación es de un solo nivel: las recetas que usan ese ítem como insumo no se recalculan.
type CostCascade struct{}

// NewCostCascade construye el servicio.
func NewCostCascade() *CostCascade { return &CostCascade{} }

// Recalculate recalcula la receta dentro de la transacción del caller. Es idempotente.
func (c *CostCascade) Recalculate(ctx context.Context, repos ports.Repositories, recipeID string) (*entity.Recipe, error) {
	rec, err := repos.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}

	unitCosts := make(map[string]decimal.Decimal, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		item, err := repos.Items.GetByID(ctx, ing.IngredientItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		unitCosts[item.ID] = item.IngredientCost()
	}

	domaininv.ApplyRecipeCost(rec, domaininv.CalculateRecipeCost(rec, unitCosts))
	if err := repos.Recipes.UpdateCosts(ctx, rec); err != nil {
		return nil, err
	}
	if rec.Active {
		if err := repos.Items.UpdateManufacturingCost(ctx, rec.ItemID, rec.UnitCost); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
