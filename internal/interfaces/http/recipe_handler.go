package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/dto"
	"github.com/jhoicas/panaderia-stock/internal/application/recipe"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// RecipeHandler recetas y costeo (protegido).
type RecipeHandler struct {
	uc  *recipe.UseCase
	log *logger.Logger
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *recipe.UseCase, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear receta
// @Description  Crea una nueva versión activa para el ítem y desactiva la anterior. Los costos se recalculan en cascada.
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecipeRequest  true  "Ítem, rendimiento e insumos"
// @Success      201   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recipes [post]
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecipeRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	ings := make([]recipe.IngredientInput, 0, len(in.Ingredients))
	for _, i := range in.Ingredients {
		ings = append(ings, recipe.IngredientInput{ItemID: i.ItemID, Quantity: i.Quantity, Unit: i.Unit})
	}
	rec, err := h.uc.Create(c.UserContext(), recipe.CreateInput{
		ItemID:        in.ItemID,
		YieldQuantity: in.YieldQuantity,
		YieldUnit:     in.YieldUnit,
		Notes:         in.Notes,
		Ingredients:   ings,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRecipe(rec))
}

// GetByID godoc
// @Summary      Obtener receta
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [get]
func (h *RecipeHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}

// GetActiveByItem godoc
// @Summary      Receta activa de un ítem
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/items/{itemId}/active [get]
func (h *RecipeHandler) GetActiveByItem(c *fiber.Ctx) error {
	rec, err := h.uc.GetActiveByItem(c.UserContext(), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}

// Update godoc
// @Summary      Actualizar rendimiento y notas
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la receta"
// @Param        body  body  dto.UpdateRecipeRequest  true  "Rendimiento y notas"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [put]
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRecipeRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.uc.Update(c.UserContext(), c.Params("id"), recipe.UpdateInput{
		YieldQuantity: in.YieldQuantity,
		YieldUnit:     in.YieldUnit,
		Notes:         in.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}

// AddIngredient godoc
// @Summary      Agregar insumo
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la receta"
// @Param        body  body  dto.IngredientRequest  true  "Insumo"
// @Success      201   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/ingredients [post]
func (h *RecipeHandler) AddIngredient(c *fiber.Ctx) error {
	var in dto.IngredientRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.uc.AddIngredient(c.UserContext(), c.Params("id"), recipe.IngredientInput{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Unit:     in.Unit,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRecipe(rec))
}

// UpdateIngredient godoc
// @Summary      Modificar insumo
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id            path  string  true  "ID de la receta"
// @Param        ingredientId  path  string  true  "ID del insumo"
// @Param        body  body  dto.UpdateIngredientRequest  true  "Cantidad y unidad"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/ingredients/{ingredientId} [put]
func (h *RecipeHandler) UpdateIngredient(c *fiber.Ctx) error {
	var in dto.UpdateIngredientRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.uc.UpdateIngredient(c.UserContext(), c.Params("id"), c.Params("ingredientId"), in.Quantity, in.Unit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}

// RemoveIngredient godoc
// @Summary      Quitar insumo
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id            path  string  true  "ID de la receta"
// @Param        ingredientId  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/ingredients/{ingredientId} [delete]
func (h *RecipeHandler) RemoveIngredient(c *fiber.Ctx) error {
	rec, err := h.uc.RemoveIngredient(c.UserContext(), c.Params("id"), c.Params("ingredientId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}

// Recalculate godoc
// @Summary      Recalcular costos
// @Description  Recalcula la receta y propaga el nuevo costo a las recetas que la usan.
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/recalculate [post]
func (h *RecipeHandler) Recalculate(c *fiber.Ctx) error {
	rec, err := h.uc.Recalculate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromRecipe(rec))
}
