package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/application/production"
	"github.com/jhoicas/panaderia-stock/internal/application/purchasing"
	"github.com/jhoicas/panaderia-stock/internal/application/recipe"
	"github.com/jhoicas/panaderia-stock/internal/application/sales"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockQuery   *inventory.QueryUseCase
	Transfer     *inventory.TransferUseCase
	Adjust       *inventory.AdjustUseCase
	SalesUC      *sales.UseCase
	ProductionUC *production.UseCase
	RecipeUC     *recipe.UseCase
	PurchaseUC   *purchasing.UseCase
	JWTSecret    string
	// Idempotency nil desactiva la cabecera Idempotency-Key.
	Idempotency ports.IdempotencyStore
	Logger      *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), Idempotency(deps.Idempotency, log))

	read := RequireCapability(entity.CapStockRead)
	write := RequireCapability(entity.CapStockWrite)

	// Stock. Las rutas fijas van antes de /:itemId/:locationId.
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockQuery, deps.Transfer, deps.Adjust, log)
	stock.Get("/movements", read, stockHandler.ListMovements)
	stock.Get("/locations/:locationId", read, stockHandler.ListByLocation)
	stock.Post("/transfers", write, stockHandler.Transfer)
	stock.Post("/adjustments", write, stockHandler.Adjust)
	stock.Get("/:itemId/:locationId/reconciliation", read, stockHandler.Reconcile)
	stock.Get("/:itemId/:locationId", read, stockHandler.GetQuantity)

	// Pedidos de venta
	salesGroup := api.Group("/sales-orders", RequireCapability(entity.CapSalesManage))
	salesHandler := NewSalesHandler(deps.SalesUC, log)
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Post("/:id/confirm", salesHandler.Confirm)
	salesGroup.Put("/:id/fulfillment-location", salesHandler.SetFulfillmentLocation)
	salesGroup.Put("/:id/status", salesHandler.Advance)
	salesGroup.Post("/:id/cancel", salesHandler.Cancel)

	// Producción
	prod := api.Group("/production/orders", RequireCapability(entity.CapProductionManage))
	prodHandler := NewProductionHandler(deps.ProductionUC, log)
	prod.Post("/", prodHandler.Create)
	prod.Get("/", prodHandler.List)
	prod.Get("/:id", prodHandler.GetByID)
	prod.Get("/:id/requirements", prodHandler.Requirements)
	prod.Get("/:id/pick-list.pdf", prodHandler.PickList)
	prod.Post("/:id/finalize", prodHandler.Finalize)
	prod.Post("/:id/cancel", prodHandler.Cancel)

	// Recetas
	recipes := api.Group("/recipes", RequireCapability(entity.CapRecipeManage))
	recipeHandler := NewRecipeHandler(deps.RecipeUC, log)
	recipes.Post("/", recipeHandler.Create)
	recipes.Get("/items/:itemId/active", recipeHandler.GetActiveByItem)
	recipes.Get("/:id", recipeHandler.GetByID)
	recipes.Put("/:id", recipeHandler.Update)
	recipes.Post("/:id/ingredients", recipeHandler.AddIngredient)
	recipes.Put("/:id/ingredients/:ingredientId", recipeHandler.UpdateIngredient)
	recipes.Delete("/:id/ingredients/:ingredientId", recipeHandler.RemoveIngredient)
	recipes.Post("/:id/recalculate", recipeHandler.Recalculate)

	// Compras
	purchases := api.Group("/purchases", RequireCapability(entity.CapPurchaseManage))
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, log)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
}
