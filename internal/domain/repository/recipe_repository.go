package repository

import (
	"context"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// RecipeRepository puerto de recetas. Las lecturas cargan los ingredientes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *entity.Recipe) error
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	GetActiveByItem(ctx context.Context, itemID string) (*entity.Recipe, error)
	// NextVersion devuelve la siguiente versión para el ítem (1 si no tiene recetas).
	NextVersion(ctx context.Context, itemID string) (int, error)
	// DeactivateByItem desactiva la receta activa del ítem, si existe.
	DeactivateByItem(ctx context.Context, itemID string) error
	Update(ctx context.Context, recipe *entity.Recipe) error
	// UpdateCosts persiste totales de la receta y la foto de costo de cada ingrediente.
	UpdateCosts(ctx context.Context, recipe *entity.Recipe) error
	AddIngredient(ctx context.Context, ingredient *entity.RecipeIngredient) error
	UpdateIngredient(ctx context.Context, ingredient *entity.RecipeIngredient) error
	RemoveIngredient(ctx context.Context, recipeID, ingredientID string) error
}
