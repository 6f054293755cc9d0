package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

var (
	_ repository.StockRepository         = (*StockRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la entrada; cantidad cero si no existe.
func (r *StockRepo) Get(ctx context.Context, itemID, locationID string) (*entity.StockEntry, error) {
	return r.get(ctx, itemID, locationID, "")
}

// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE). Si la fila no existe
// no hay nada que bloquear; Increment la crea con ON CONFLICT.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.StockEntry, error) {
	return r.get(ctx, itemID, locationID, " FOR UPDATE")
}

func (r *StockRepo) get(ctx context.Context, itemID, locationID, lock string) (*entity.StockEntry, error) {
	zero := &entity.StockEntry{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
	if !validID(itemID, locationID) {
		return zero, nil
	}
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM stock_entries WHERE item_id = $1 AND location_id = $2` + lock
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return zero, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o reemplaza la cantidad de la entrada.
func (r *StockRepo) Upsert(ctx context.Context, entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, entry.ItemID, entry.LocationID, entry.Quantity); err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// Increment suma delta en una sola sentencia. El CHECK (quantity >= 0) rechaza saldos negativos.
func (r *StockRepo) Increment(ctx context.Context, itemID, locationID string, delta decimal.Decimal) (*entity.StockEntry, error) {
	query := `
		INSERT INTO stock_entries (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = stock_entries.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING item_id, location_id, quantity, updated_at`
	var s entity.StockEntry
	err := r.q.QueryRow(ctx, query, itemID, locationID, delta).Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if tr := translate(err); tr != err {
			return nil, tr
		}
		return nil, fmt.Errorf("increment stock: %w", err)
	}
	return &s, nil
}

// ListByLocation lista las entradas del local ordenadas por ítem.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.StockEntry, error) {
	if !validID(locationID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT item_id, location_id, quantity, updated_at
		FROM stock_entries WHERE location_id = $1 ORDER BY item_id`, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// MovementRepo libro de movimientos sobre PostgreSQL. Solo inserción.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, from_location_id, to_location_id, quantity, kind,
	reference_id, notes, actor, created_at`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if !m.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, nullable(m.FromLocationID), nullable(m.ToLocationID), m.Quantity, m.Kind,
		nullable(m.ReferenceID), nullable(m.Notes), nullable(m.Actor), m.CreatedAt,
	)
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List historial filtrado, más recientes primero. seq desempata movimientos del mismo instante.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ItemID != "" {
		if !validID(f.ItemID) {
			return nil, nil
		}
		add("item_id = $%d", f.ItemID)
	}
	if f.LocationID != "" {
		if !validID(f.LocationID) {
			return nil, nil
		}
		query += fmt.Sprintf(" AND (from_location_id = $%d OR to_location_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.ReferenceID != "" {
		add("reference_id = $%d", f.ReferenceID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	query += " ORDER BY created_at DESC, seq DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	query += fmt.Sprintf(" OFFSET $%d", pos)
	args = append(args, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var from, to, ref, notes, actor *string
		if err := rows.Scan(&m.ID, &m.ItemID, &from, &to, &m.Quantity, &m.Kind,
			&ref, &notes, &actor, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.FromLocationID, m.ToLocationID = deref(from), deref(to)
		m.ReferenceID, m.Notes, m.Actor = deref(ref), deref(notes), deref(actor)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// NetQuantity Σ entradas − Σ salidas del ítem en el local.
func (r *MovementRepo) NetQuantity(ctx context.Context, itemID, locationID string) (decimal.Decimal, error) {
	if !validID(itemID, locationID) {
		return decimal.Zero, nil
	}
	var net decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN to_location_id = $2 THEN quantity ELSE 0 END), 0)
		     - COALESCE(SUM(CASE WHEN from_location_id = $2 THEN quantity ELSE 0 END), 0)
		FROM stock_movements
		WHERE item_id = $1 AND (from_location_id = $2 OR to_location_id = $2)`,
		itemID, locationID).Scan(&net)
	if err != nil {
		return decimal.Zero, fmt.Errorf("net quantity: %w", err)
	}
	return net, nil
}
