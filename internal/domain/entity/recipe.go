package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe receta (lista de materiales) de un ítem fabricado. Un solo nivel de profundidad:
// los ingredientes con receta propia no se expanden al explotar.
type Recipe struct {
	ID            string
	ItemID        string // producto de salida
	Version       int
	YieldQuantity decimal.Decimal // rendimiento: unidades producidas por una ejecución
	YieldUnit     string
	TotalCost     decimal.Decimal
	UnitCost      decimal.Decimal
	Active        bool // a lo sumo una receta activa por ítem
	Notes         string
	Ingredients   []*RecipeIngredient
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeIngredient línea de receta con la foto de costo del último cálculo.
type RecipeIngredient struct {
	ID               string
	RecipeID         string
	IngredientItemID string
	Quantity         decimal.Decimal // por una ejecución (YieldQuantity)
	Unit             string
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
}

// Ingredient busca la línea por ID.
func (r *Recipe) Ingredient(id string) *RecipeIngredient {
	for _, ing := range r.Ingredients {
		if ing.ID == id {
			return ing
		}
	}
	return nil
}

// HasIngredientItem indica si la receta ya usa el ítem como insumo.
func (r *Recipe) HasIngredientItem(itemID string) bool {
	for _, ing := range r.Ingredients {
		if ing.IngredientItemID == itemID {
			return true
		}
	}
	return false
}
