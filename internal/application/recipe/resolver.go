package recipe

import (
	"context"

	"github.com/shopspring/decimal"

	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

// Resolver explota la receta activa de un ítem en sus insumos directos.
type Resolver struct{}

// NewResolver construye el resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve insumos necesarios para producir quantity del ítem, redondeados a QuantityScale;
// vacío si no tiene receta activa.
func (r *Resolver) Resolve(ctx context.Context, recipes repository.RecipeRepository, itemID string, quantity decimal.Decimal) ([]domaininv.Requirement, error) {
	reqs, err := r.ResolveExact(ctx, recipes, itemID, quantity)
	if err != nil {
		return nil, err
	}
	return domaininv.RoundRequirements(reqs), nil
}

// ResolveExact igual que Resolve pero sin redondear. Lo usa quien suma varias líneas.
func (r *Resolver) ResolveExact(ctx context.Context, recipes repository.RecipeRepository, itemID string, quantity decimal.Decimal) ([]domaininv.Requirement, error) {
	rec, err := recipes.GetActiveByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return domaininv.Explode(rec, quantity), nil
}
