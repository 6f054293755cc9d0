package recipe

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

// UseCase mantenimiento de recetas. Toda modificación recalcula el costo en la misma transacción.
type UseCase struct {
	txRunner ports.TxRunner
	cascade  *CostCascade
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, cascade *CostCascade) *UseCase {
	return &UseCase{txRunner: txRunner, cascade: cascade}
}

// IngredientInput insumo de una receta.
type IngredientInput struct {
	ItemID   string
	Quantity decimal.Decimal
	Unit     string
}

// CreateInput nueva versión de receta para un ítem.
type CreateInput struct {
	ItemID        string
	YieldQuantity decimal.Decimal
	YieldUnit     string
	Notes         string
	Ingredients   []IngredientInput
}

// UpdateInput cambios de cabecera de la receta.
type UpdateInput struct {
	YieldQuantity decimal.Decimal
	YieldUnit     string
	Notes         string
}

// Create crea una nueva versión activa; la receta activa anterior del ítem queda inactiva.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Recipe, error) {
	if in.ItemID == "" || !in.YieldQuantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Recipe
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		item, err := repos.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		version, err := repos.Recipes.NextVersion(ctx, in.ItemID)
		if err != nil {
			return err
		}
		now := time.Now()
		rec := &entity.Recipe{
			ID:            uuid.New().String(),
			ItemID:        in.ItemID,
			Version:       version,
			YieldQuantity: domaininv.RoundQuantity(in.YieldQuantity),
			YieldUnit:     in.YieldUnit,
			Active:        true,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, ingIn := range in.Ingredients {
			ing, err := newIngredient(ctx, repos, rec, ingIn)
			if err != nil {
				return err
			}
			rec.Ingredients = append(rec.Ingredients, ing)
		}
		if err := repos.Recipes.DeactivateByItem(ctx, in.ItemID); err != nil {
			return err
		}
		if err := repos.Recipes.Create(ctx, rec); err != nil {
			return err
		}
		if err := repos.Items.SetHasRecipe(ctx, in.ItemID, true); err != nil {
			return err
		}
		out, err = uc.cascade.Recalculate(ctx, repos, rec.ID)
		return err
	})
	return out, err
}

// Get obtiene una receta con sus ingredientes.
func (uc *UseCase) Get(ctx context.Context, recipeID string) (*entity.Recipe, error) {
	var out *entity.Recipe
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		rec, err := repos.Recipes.GetByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		out = rec
		return nil
	})
	return out, err
}

// GetActiveByItem receta activa del ítem.
func (uc *UseCase) GetActiveByItem(ctx context.Context, itemID string) (*entity.Recipe, error) {
	var out *entity.Recipe
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		rec, err := repos.Recipes.GetActiveByItem(ctx, itemID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		out = rec
		return nil
	})
	return out, err
}

// Update modifica rendimiento, unidad y notas.
func (uc *UseCase) Update(ctx context.Context, recipeID string, in UpdateInput) (*entity.Recipe, error) {
	if !in.YieldQuantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, recipeID, func(repos ports.Repositories, rec *entity.Recipe) error {
		rec.YieldQuantity = domaininv.RoundQuantity(in.YieldQuantity)
		rec.YieldUnit = in.YieldUnit
		rec.Notes = in.Notes
		return repos.Recipes.Update(ctx, rec)
	})
}

// AddIngredient agrega un insumo a la receta.
func (uc *UseCase) AddIngredient(ctx context.Context, recipeID string, in IngredientInput) (*entity.Recipe, error) {
	return uc.mutate(ctx, recipeID, func(repos ports.Repositories, rec *entity.Recipe) error {
		ing, err := newIngredient(ctx, repos, rec, in)
		if err != nil {
			return err
		}
		return repos.Recipes.AddIngredient(ctx, ing)
	})
}

// UpdateIngredient cambia cantidad y unidad de un insumo.
func (uc *UseCase) UpdateIngredient(ctx context.Context, recipeID, ingredientID string, quantity decimal.Decimal, unit string) (*entity.Recipe, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.mutate(ctx, recipeID, func(repos ports.Repositories, rec *entity.Recipe) error {
		ing := rec.Ingredient(ingredientID)
		if ing == nil {
			return domain.ErrNotFound
		}
		ing.Quantity = domaininv.RoundQuantity(quantity)
		ing.Unit = unit
		return repos.Recipes.UpdateIngredient(ctx, ing)
	})
}

// RemoveIngredient quita un insumo de la receta.
func (uc *UseCase) RemoveIngredient(ctx context.Context, recipeID, ingredientID string) (*entity.Recipe, error) {
	return uc.mutate(ctx, recipeID, func(repos ports.Repositories, rec *entity.Recipe) error {
		if rec.Ingredient(ingredientID) == nil {
			return domain.ErrNotFound
		}
		return repos.Recipes.RemoveIngredient(ctx, recipeID, ingredientID)
	})
}

// Recalculate recalcula el costo de la receta sin otros cambios.
func (uc *UseCase) Recalculate(ctx context.Context, recipeID string) (*entity.Recipe, error) {
	return uc.mutate(ctx, recipeID, func(ports.Repositories, *entity.Recipe) error { return nil })
}

func (uc *UseCase) mutate(ctx context.Context, recipeID string, fn func(repos ports.Repositories, rec *entity.Recipe) error) (*entity.Recipe, error) {
	if recipeID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Recipe
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		rec, err := repos.Recipes.GetByID(ctx, recipeID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if err := fn(repos, rec); err != nil {
			return err
		}
		out, err = uc.cascade.Recalculate(ctx, repos, recipeID)
		return err
	})
	return out, err
}

// newIngredient valida el insumo: cantidad positiva, ítem existente y habilitado como insumo,
// distinto del producto de salida y sin repetir dentro de la receta.
func newIngredient(ctx context.Context, repos ports.Repositories, rec *entity.Recipe, in IngredientInput) (*entity.RecipeIngredient, error) {
	if in.ItemID == "" || !in.Quantity.IsPositive() || in.ItemID == rec.ItemID {
		return nil, domain.ErrInvalidInput
	}
	if rec.HasIngredientItem(in.ItemID) {
		return nil, domain.ErrDuplicate
	}
	item, err := repos.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.IngredientEligible {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if unit == "" {
		unit = item.UnitMeasure
	}
	return &entity.RecipeIngredient{
		ID:               uuid.New().String(),
		RecipeID:         rec.ID,
		IngredientItemID: in.ItemID,
		Quantity:         domaininv.RoundQuantity(in.Quantity),
		Unit:             unit,
	}, nil
}
