package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas e ingredientes sobre PostgreSQL. Las lecturas cargan los ingredientes.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador.
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

const recipeColumns = `id, item_id, version, yield_quantity, yield_unit, total_cost, unit_cost, active,
	notes, created_at, updated_at`

// Create persiste la receta con sus ingredientes. El índice parcial uq_recipes_active_item
// impide dos recetas activas para el mismo ítem.
func (r *RecipeRepo) Create(ctx context.Context, rec *entity.Recipe) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`,
		rec.ID, rec.ItemID, rec.Version, rec.YieldQuantity, rec.YieldUnit, rec.TotalCost, rec.UnitCost,
		rec.Active, nullable(rec.Notes))
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("create recipe: %w", err)
	}
	for _, ing := range rec.Ingredients {
		if ing.RecipeID == "" {
			ing.RecipeID = rec.ID
		}
		if err := r.AddIngredient(ctx, ing); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecipeRepo) getOne(ctx context.Context, where string, arg string) (*entity.Recipe, error) {
	if !validID(arg) {
		return nil, nil
	}
	var rec entity.Recipe
	var notes *string
	err := r.q.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE `+where, arg).Scan(
		&rec.ID, &rec.ItemID, &rec.Version, &rec.YieldQuantity, &rec.YieldUnit, &rec.TotalCost, &rec.UnitCost,
		&rec.Active, &notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	rec.Notes = deref(notes)
	if rec.Ingredients, err = r.ingredients(ctx, rec.ID); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecipeRepo) ingredients(ctx context.Context, recipeID string) ([]*entity.RecipeIngredient, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, recipe_id, ingredient_item_id, quantity, unit, unit_cost, total_cost
		FROM recipe_ingredients WHERE recipe_id = $1 ORDER BY seq`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.RecipeIngredient, error) {
		var ing entity.RecipeIngredient
		err := row.Scan(&ing.ID, &ing.RecipeID, &ing.IngredientItemID, &ing.Quantity, &ing.Unit, &ing.UnitCost, &ing.TotalCost)
		return &ing, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan ingredient: %w", err)
	}
	return list, nil
}

// GetByID obtiene una receta; (nil, nil) si no existe.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetActiveByItem receta activa del ítem; (nil, nil) si no tiene.
func (r *RecipeRepo) GetActiveByItem(ctx context.Context, itemID string) (*entity.Recipe, error) {
	return r.getOne(ctx, "item_id = $1 AND active", itemID)
}

// NextVersion siguiente versión para el ítem.
func (r *RecipeRepo) NextVersion(ctx context.Context, itemID string) (int, error) {
	var next int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) + 1 FROM recipes WHERE item_id = $1`, itemID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next recipe version: %w", err)
	}
	return next, nil
}

// DeactivateByItem desactiva la receta activa del ítem.
func (r *RecipeRepo) DeactivateByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE recipes SET active = FALSE, updated_at = now() WHERE item_id = $1 AND active`, itemID); err != nil {
		return fmt.Errorf("deactivate recipe: %w", err)
	}
	return nil
}

// Update persiste rendimiento y notas.
func (r *RecipeRepo) Update(ctx context.Context, rec *entity.Recipe) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE recipes SET yield_quantity = $2, yield_unit = $3, notes = $4, updated_at = now()
		WHERE id = $1`, rec.ID, rec.YieldQuantity, rec.YieldUnit, nullable(rec.Notes))
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCosts persiste totales y la foto de costo de cada ingrediente.
func (r *RecipeRepo) UpdateCosts(ctx context.Context, rec *entity.Recipe) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE recipes SET total_cost = $2, unit_cost = $3, updated_at = now() WHERE id = $1`,
		rec.ID, rec.TotalCost, rec.UnitCost)
	if err != nil {
		return fmt.Errorf("update recipe costs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, ing := range rec.Ingredients {
		if _, err := r.q.Exec(ctx, `
			UPDATE recipe_ingredients SET unit_cost = $3, total_cost = $4 WHERE id = $1 AND recipe_id = $2`,
			ing.ID, rec.ID, ing.UnitCost, ing.TotalCost); err != nil {
			return fmt.Errorf("update ingredient cost: %w", err)
		}
	}
	return nil
}

// AddIngredient agrega una línea; el UNIQUE (recipe_id, ingredient_item_id) rechaza repetidos.
func (r *RecipeRepo) AddIngredient(ctx context.Context, ing *entity.RecipeIngredient) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO recipe_ingredients (id, recipe_id, ingredient_item_id, quantity, unit, unit_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ing.ID, ing.RecipeID, ing.IngredientItemID, ing.Quantity, ing.Unit, ing.UnitCost, ing.TotalCost)
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("add ingredient: %w", err)
	}
	return nil
}

// UpdateIngredient cambia cantidad y unidad.
func (r *RecipeRepo) UpdateIngredient(ctx context.Context, ing *entity.RecipeIngredient) error {
	if !validID(ing.ID, ing.RecipeID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE recipe_ingredients SET quantity = $3, unit = $4 WHERE id = $1 AND recipe_id = $2`,
		ing.ID, ing.RecipeID, ing.Quantity, ing.Unit)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveIngredient borra una línea de la receta.
func (r *RecipeRepo) RemoveIngredient(ctx context.Context, recipeID, ingredientID string) error {
	if !validID(recipeID, ingredientID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM recipe_ingredients WHERE id = $1 AND recipe_id = $2`, ingredientID, recipeID)
	if err != nil {
		return fmt.Errorf("remove ingredient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
