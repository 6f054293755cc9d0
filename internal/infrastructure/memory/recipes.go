package memory

import (
	"context"
	"time"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

var _ repository.RecipeRepository = (*recipeRepo)(nil)

type recipeRepo struct{ s *state }

func (r *recipeRepo) Create(_ context.Context, recipe *entity.Recipe) error {
	if _, ok := r.s.recipes[recipe.ID]; ok {
		return domain.ErrDuplicate
	}
	if recipe.Active {
		for _, existing := range r.s.recipes {
			if existing.ItemID == recipe.ItemID && existing.Active {
				// índice único parcial: una receta activa por ítem
				return domain.ErrDuplicate
			}
		}
	}
	r.s.recipes[recipe.ID] = copyRecipe(recipe)
	return nil
}

func (r *recipeRepo) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, nil
	}
	return copyRecipe(rec), nil
}

func (r *recipeRepo) GetActiveByItem(_ context.Context, itemID string) (*entity.Recipe, error) {
	for _, rec := range r.s.recipes {
		if rec.ItemID == itemID && rec.Active {
			return copyRecipe(rec), nil
		}
	}
	return nil, nil
}

func (r *recipeRepo) NextVersion(_ context.Context, itemID string) (int, error) {
	last := 0
	for _, rec := range r.s.recipes {
		if rec.ItemID == itemID && rec.Version > last {
			last = rec.Version
		}
	}
	return last + 1, nil
}

func (r *recipeRepo) DeactivateByItem(_ context.Context, itemID string) error {
	for _, rec := range r.s.recipes {
		if rec.ItemID == itemID && rec.Active {
			rec.Active = false
			rec.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *recipeRepo) Update(_ context.Context, recipe *entity.Recipe) error {
	rec, ok := r.s.recipes[recipe.ID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.YieldQuantity = recipe.YieldQuantity
	rec.YieldUnit = recipe.YieldUnit
	rec.Notes = recipe.Notes
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *recipeRepo) UpdateCosts(_ context.Context, recipe *entity.Recipe) error {
	rec, ok := r.s.recipes[recipe.ID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.TotalCost = recipe.TotalCost
	rec.UnitCost = recipe.UnitCost
	for _, ing := range recipe.Ingredients {
		if stored := rec.Ingredient(ing.ID); stored != nil {
			stored.UnitCost = ing.UnitCost
			stored.TotalCost = ing.TotalCost
		}
	}
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *recipeRepo) AddIngredient(_ context.Context, ingredient *entity.RecipeIngredient) error {
	rec, ok := r.s.recipes[ingredient.RecipeID]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.HasIngredientItem(ingredient.IngredientItemID) {
		return domain.ErrDuplicate
	}
	c := *ingredient
	rec.Ingredients = append(rec.Ingredients, &c)
	return nil
}

func (r *recipeRepo) UpdateIngredient(_ context.Context, ingredient *entity.RecipeIngredient) error {
	rec, ok := r.s.recipes[ingredient.RecipeID]
	if !ok {
		return domain.ErrNotFound
	}
	stored := rec.Ingredient(ingredient.ID)
	if stored == nil {
		return domain.ErrNotFound
	}
	stored.Quantity = ingredient.Quantity
	stored.Unit = ingredient.Unit
	return nil
}

func (r *recipeRepo) RemoveIngredient(_ context.Context, recipeID, ingredientID string) error {
	rec, ok := r.s.recipes[recipeID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, ing := range rec.Ingredients {
		if ing.ID == ingredientID {
			rec.Ingredients = append(rec.Ingredients[:i], rec.Ingredients[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
