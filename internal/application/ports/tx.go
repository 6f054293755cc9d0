package ports

import (
	"context"

	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

// Repositories repositorios atados a una misma unidad de trabajo.
type Repositories struct {
	Items      repository.ItemRepository
	Locations  repository.LocationRepository
	Customers  repository.CustomerRepository
	Stock      repository.StockRepository
	Movements  repository.StockMovementRepository
	Recipes    repository.RecipeRepository
	Production repository.ProductionOrderRepository
	Sales      repository.SalesOrderRepository
	Purchases  repository.PurchaseOrderRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Si fn devuelve error se hace Rollback y ningún cambio es visible; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
