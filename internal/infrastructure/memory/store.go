// Package memory implementa los repositorios y el TxRunner en memoria.
// Cada Run trabaja sobre una copia del estado y solo la publica si fn no devuelve error,
// de modo que un fallo a mitad de camino no deja cambios parciales. Las transacciones se serializan.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// Store almacén en memoria.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn sobre una copia del estado; la copia reemplaza al estado solo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(work.repositories()); err != nil {
		return err
	}
	s.state = work
	return nil
}

type state struct {
	items      map[string]*entity.Item
	locations  map[string]*entity.Location
	customers  map[string]*entity.Customer
	stock      map[entity.StockKey]*entity.StockEntry
	movements  []*entity.StockMovement
	recipes    map[string]*entity.Recipe
	production map[string]*entity.ProductionOrder
	sales      map[string]*entity.SalesOrder
	purchases  map[string]*entity.PurchaseOrder
}

func newState() *state {
	return &state{
		items:      map[string]*entity.Item{},
		locations:  map[string]*entity.Location{},
		customers:  map[string]*entity.Customer{},
		stock:      map[entity.StockKey]*entity.StockEntry{},
		recipes:    map[string]*entity.Recipe{},
		production: map[string]*entity.ProductionOrder{},
		sales:      map[string]*entity.SalesOrder{},
		purchases:  map[string]*entity.PurchaseOrder{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = copyItem(v)
	}
	for k, v := range s.locations {
		l := *v
		c.locations[k] = &l
	}
	for k, v := range s.customers {
		cu := *v
		c.customers[k] = &cu
	}
	for k, v := range s.stock {
		e := *v
		c.stock[k] = &e
	}
	// los movimientos son inmutables: se comparten los punteros
	c.movements = append(make([]*entity.StockMovement, 0, len(s.movements)), s.movements...)
	for k, v := range s.recipes {
		c.recipes[k] = copyRecipe(v)
	}
	for k, v := range s.production {
		c.production[k] = copyProduction(v)
	}
	for k, v := range s.sales {
		c.sales[k] = copySales(v)
	}
	for k, v := range s.purchases {
		c.purchases[k] = copyPurchase(v)
	}
	return c
}

func (s *state) repositories() ports.Repositories {
	return ports.Repositories{
		Items:      &itemRepo{s: s},
		Locations:  &locationRepo{s: s},
		Customers:  &customerRepo{s: s},
		Stock:      &stockRepo{s: s},
		Movements:  &movementRepo{s: s},
		Recipes:    &recipeRepo{s: s},
		Production: &productionRepo{s: s},
		Sales:      &salesRepo{s: s},
		Purchases:  &purchaseRepo{s: s},
	}
}

func copyItem(v *entity.Item) *entity.Item {
	i := *v
	if v.ManufacturingCost != nil {
		c := *v.ManufacturingCost
		i.ManufacturingCost = &c
	}
	return &i
}

func copyRecipe(v *entity.Recipe) *entity.Recipe {
	r := *v
	r.Ingredients = make([]*entity.RecipeIngredient, 0, len(v.Ingredients))
	for _, ing := range v.Ingredients {
		c := *ing
		r.Ingredients = append(r.Ingredients, &c)
	}
	return &r
}

func copyProduction(v *entity.ProductionOrder) *entity.ProductionOrder {
	o := *v
	if v.CompletedAt != nil {
		t := *v.CompletedAt
		o.CompletedAt = &t
	}
	o.Lines = make([]*entity.ProductionLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		c := *l
		if l.ProducedQuantity != nil {
			q := *l.ProducedQuantity
			c.ProducedQuantity = &q
		}
		o.Lines = append(o.Lines, &c)
	}
	return &o
}

func copySales(v *entity.SalesOrder) *entity.SalesOrder {
	o := *v
	o.Lines = make([]*entity.SalesLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		c := *l
		o.Lines = append(o.Lines, &c)
	}
	return &o
}

func copyPurchase(v *entity.PurchaseOrder) *entity.PurchaseOrder {
	o := *v
	if v.ReceivedAt != nil {
		t := *v.ReceivedAt
		o.ReceivedAt = &t
	}
	o.Lines = make([]*entity.PurchaseLine, 0, len(v.Lines))
	for _, l := range v.Lines {
		c := *l
		o.Lines = append(o.Lines, &c)
	}
	return &o
}
