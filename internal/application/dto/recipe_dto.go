package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// IngredientRequest insumo de una receta. Unit vacía usa la unidad del ítem.
type IngredientRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit     string          `json:"unit" validate:"max=20"`
}

// CreateRecipeRequest body para POST /api/recipes.
type CreateRecipeRequest struct {
	ItemID        string              `json:"item_id" validate:"required"`
	YieldQuantity decimal.Decimal     `json:"yield_quantity" validate:"gt=0"`
	YieldUnit     string              `json:"yield_unit" validate:"max=20"`
	Notes         string              `json:"notes" validate:"max=500"`
	Ingredients   []IngredientRequest `json:"ingredients" validate:"dive"`
}

// UpdateRecipeRequest body para PUT /api/recipes/:id.
type UpdateRecipeRequest struct {
	YieldQuantity decimal.Decimal `json:"yield_quantity" validate:"gt=0"`
	YieldUnit     string          `json:"yield_unit" validate:"max=20"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// UpdateIngredientRequest body para PUT /api/recipes/:id/ingredients/:ingredientId.
type UpdateIngredientRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit     string          `json:"unit" validate:"max=20"`
}

// IngredientResponse insumo con su costo al último recálculo.
type IngredientResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// RecipeResponse receta con costos.
type RecipeResponse struct {
	ID            string               `json:"id"`
	ItemID        string               `json:"item_id"`
	Version       int                  `json:"version"`
	YieldQuantity decimal.Decimal      `json:"yield_quantity"`
	YieldUnit     string               `json:"yield_unit"`
	TotalCost     decimal.Decimal      `json:"total_cost"`
	UnitCost      decimal.Decimal      `json:"unit_cost"`
	Active        bool                 `json:"active"`
	Notes         string               `json:"notes,omitempty"`
	Ingredients   []IngredientResponse `json:"ingredients"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// FromRecipe convierte una receta a su respuesta.
func FromRecipe(r *entity.Recipe) RecipeResponse {
	out := RecipeResponse{
		ID:            r.ID,
		ItemID:        r.ItemID,
		Version:       r.Version,
		YieldQuantity: r.YieldQuantity,
		YieldUnit:     r.YieldUnit,
		TotalCost:     r.TotalCost,
		UnitCost:      r.UnitCost,
		Active:        r.Active,
		Notes:         r.Notes,
		Ingredients:   make([]IngredientResponse, 0, len(r.Ingredients)),
		UpdatedAt:     r.UpdatedAt,
	}
	for _, ing := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, IngredientResponse{
			ID:        ing.ID,
			ItemID:    ing.IngredientItemID,
			Quantity:  ing.Quantity,
			Unit:      ing.Unit,
			UnitCost:  ing.UnitCost,
			TotalCost: ing.TotalCost,
		})
	}
	return out
}
