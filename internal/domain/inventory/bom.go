package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// Requirement cantidad requerida de un ítem.
type Requirement struct {
	ItemID   string
	Quantity decimal.Decimal
}

// Explode calcula los insumos necesarios para producir quantity unidades con la receta.
// factor = quantity / rendimiento; cada ingrediente aporta cantidad * factor sin redondear,
// para que la suma entre líneas se redondee una sola vez. Sin receta o con rendimiento cero devuelve una lista vacía. No expande sub-recetas.
func Explode(recipe *entity.Recipe, quantity decimal.Decimal) []Requirement {
	if recipe == nil || !recipe.YieldQuantity.IsPositive() {
		return nil
	}
	factor := quantity.Div(recipe.YieldQuantity)
	out := make([]Requirement, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		out = append(out, Requirement{
			ItemID:   ing.IngredientItemID,
			Quantity: ing.Quantity.Mul(factor),
		})
	}
	return out
}

// RoundRequirements redondea cada requerimiento a QuantityScale.
func RoundRequirements(reqs []Requirement) []Requirement {
	out := make([]Requirement, len(reqs))
	for i, r := range reqs {
		out[i] = Requirement{ItemID: r.ItemID, Quantity: RoundQuantity(r.Quantity)}
	}
	return out
}
