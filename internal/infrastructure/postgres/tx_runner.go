package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// La serialización sobre una misma entrada de stock la dan los SELECT ... FOR UPDATE.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories arma el conjunto de repositorios sobre q (pool o tx).
func Repositories(q Querier) ports.Repositories {
	return ports.Repositories{
		Items:      NewItemRepository(q),
		Locations:  NewLocationRepository(q),
		Customers:  NewCustomerRepository(q),
		Stock:      NewStockRepository(q),
		Movements:  NewMovementRepository(q),
		Recipes:    NewRecipeRepository(q),
		Production: NewProductionOrderRepository(q),
		Sales:      NewSalesOrderRepository(q),
		Purchases:  NewPurchaseOrderRepository(q),
	}
}
