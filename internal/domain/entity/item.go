package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto del catálogo: artículo de venta, insumo o ambos.
type Item struct {
	ID                 string
	SKU                string
	Name               string
	UnitMeasure        string // und, kg, g, l, ml
	Sellable           bool
	IngredientEligible bool
	HasRecipe          bool
	PurchaseCost       decimal.Decimal
	ManufacturingCost  *decimal.Decimal // nil hasta que exista una receta activa
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IngredientCost costo unitario del ítem cuando se usa como insumo de otra receta.
// Ítems con receta aportan su costo de fabricación (cero si aún no se calculó);
// el resto aporta su costo de compra.
func (i *Item) IngredientCost() decimal.Decimal {
	if i.HasRecipe {
		if i.ManufacturingCost == nil {
			return decimal.Zero
		}
		return *i.ManufacturingCost
	}
	return i.PurchaseCost
}
