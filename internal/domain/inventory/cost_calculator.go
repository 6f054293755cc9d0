package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// CostScale decimales de los costos calculados.
const CostScale int32 = 4

// RecipeCost resultado del cálculo de costo de una receta.
type RecipeCost struct {
	TotalCost   decimal.Decimal
	UnitCost    decimal.Decimal
	Ingredients map[string]IngredientCost // por ID de línea
}

// IngredientCost foto de costo de una línea.
type IngredientCost struct {
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}

// CalculateRecipeCost servicio de dominio del costeo de recetas.
//
//	costoIngrediente = costoUnitario(insumo) * cantidad
//	costoTotal       = Σ costoIngrediente
//	costoUnitario    = costoTotal / rendimiento  (0 si rendimiento = 0)
//
// unitCosts trae el costo unitario de cada insumo por ID de ítem (ver Item.IngredientCost);
// un insumo ausente cuesta cero.
func CalculateRecipeCost(recipe *entity.Recipe, unitCosts map[string]decimal.Decimal) RecipeCost {
	res := RecipeCost{
		TotalCost:   decimal.Zero,
		UnitCost:    decimal.Zero,
		Ingredients: make(map[string]IngredientCost, len(recipe.Ingredients)),
	}
	for _, ing := range recipe.Ingredients {
		unit := unitCosts[ing.IngredientItemID]
		total := unit.Mul(ing.Quantity).Round(CostScale)
		res.Ingredients[ing.ID] = IngredientCost{UnitCost: unit.Round(CostScale), TotalCost: total}
		res.TotalCost = res.TotalCost.Add(total)
	}
	if recipe.YieldQuantity.IsPositive() {
		res.UnitCost = res.TotalCost.Div(recipe.YieldQuantity).Round(CostScale)
	}
	return res
}

// ApplyRecipeCost copia el resultado sobre la receta y sus ingredientes.
func ApplyRecipeCost(recipe *entity.Recipe, cost RecipeCost) {
	recipe.TotalCost = cost.TotalCost
	recipe.UnitCost = cost.UnitCost
	for _, ing := range recipe.Ingredients {
		c := cost.Ingredients[ing.ID]
		ing.UnitCost = c.UnitCost
		ing.TotalCost = c.TotalCost
	}
}
