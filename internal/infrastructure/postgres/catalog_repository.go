package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

var (
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, unit_measure, sellable, ingredient_eligible, has_recipe,
	purchase_cost, manufacturing_cost, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var mfg decimal.NullDecimal
	if err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.UnitMeasure, &it.Sellable, &it.IngredientEligible,
		&it.HasRecipe, &it.PurchaseCost, &mfg, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	if mfg.Valid {
		it.ManufacturingCost = &mfg.Decimal
	}
	return &it, nil
}

// Create persiste un ítem.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, sku, name, unit_measure, sellable, ingredient_eligible, has_recipe,
			purchase_cost, manufacturing_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.q.Exec(ctx, query, item.ID, item.SKU, item.Name, item.UnitMeasure, item.Sellable,
		item.IngredientEligible, item.HasRecipe, item.PurchaseCost, item.ManufacturingCost)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if !validID(id) {
		return nil, nil
	}
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetBySKU obtiene un ítem por SKU; (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return it, nil
}

// UpdatePurchaseCost fija el costo de compra.
func (r *ItemRepo) UpdatePurchaseCost(ctx context.Context, id string, cost decimal.Decimal) error {
	return r.exec(ctx, "update purchase cost",
		`UPDATE items SET purchase_cost = $2, updated_at = now() WHERE id = $1`, id, cost)
}

// UpdateManufacturingCost fija el costo de fabricación.
func (r *ItemRepo) UpdateManufacturingCost(ctx context.Context, id string, cost decimal.Decimal) error {
	return r.exec(ctx, "update manufacturing cost",
		`UPDATE items SET manufacturing_cost = $2, updated_at = now() WHERE id = $1`, id, cost)
}

// SetHasRecipe marca si el ítem se fabrica con receta.
func (r *ItemRepo) SetHasRecipe(ctx context.Context, id string, hasRecipe bool) error {
	return r.exec(ctx, "set has_recipe",
		`UPDATE items SET has_recipe = $2, updated_at = now() WHERE id = $1`, id, hasRecipe)
}

func (r *ItemRepo) exec(ctx context.Context, op, query string, id string, arg any) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, query, id, arg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, code, name, address, created_at, updated_at`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	var address *string
	if err := row.Scan(&l.ID, &l.Code, &l.Name, &address, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Address = deref(address)
	return &l, nil
}

// Create persiste un local.
func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO locations (id, code, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		location.ID, location.Code, location.Name, nullable(location.Address))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene un local por ID; (nil, nil) si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !validID(id) {
		return nil, nil
	}
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// GetByCode obtiene un local por código; (nil, nil) si no existe.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE code = $1`, code))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by code: %w", err)
	}
	return l, nil
}

// List lista los locales por código.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		customer.ID, customer.Name, nullable(customer.Email), nullable(customer.Phone))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente; (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if !validID(id) {
		return nil, nil
	}
	var c entity.Customer
	var email, phone *string
	err := r.q.QueryRow(ctx, `
		SELECT id, name, email, phone, created_at, updated_at FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &email, &phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.Email, c.Phone = deref(email), deref(phone)
	return &c, nil
}
