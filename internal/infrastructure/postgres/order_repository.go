package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
)

var (
	_ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)
	_ repository.SalesOrderRepository      = (*SalesOrderRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*PurchaseOrderRepo)(nil)
)

// ProductionOrderRepo órdenes de producción sobre PostgreSQL.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador.
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const productionColumns = `id, location_id, status, scheduled_at, completed_at, notes, created_by, created_at, updated_at`

// Create persiste cabecera y líneas en el orden recibido.
func (r *ProductionOrderRepo) Create(ctx context.Context, o *entity.ProductionOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_orders (`+productionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		o.ID, o.LocationID, o.Status, o.ScheduledAt, o.CompletedAt, nullable(o.Notes), nullable(o.CreatedBy))
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("create production order: %w", err)
	}
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO production_lines (id, order_id, item_id, planned_quantity, unit, produced_quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, o.ID, l.ItemID, l.PlannedQuantity, l.Unit, l.ProducedQuantity, i)
		if err != nil {
			if tr := translate(err); tr != err {
				return tr
			}
			return fmt.Errorf("create production line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas; (nil, nil) si no existe.
func (r *ProductionOrderRepo) GetByID(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la cabecera hasta el fin de la transacción.
func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduction(row rowScanner) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	var notes, createdBy *string
	if err := row.Scan(&o.ID, &o.LocationID, &o.Status, &o.ScheduledAt, &o.CompletedAt, &notes, &createdBy,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Notes, o.CreatedBy = deref(notes), deref(createdBy)
	return &o, nil
}

func (r *ProductionOrderRepo) get(ctx context.Context, id, lock string) (*entity.ProductionOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanProduction(r.q.QueryRow(ctx, `SELECT `+productionColumns+` FROM production_orders WHERE id = $1`+lock, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	if o.Lines, err = r.lines(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *ProductionOrderRepo) lines(ctx context.Context, orderID string) ([]*entity.ProductionLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, planned_quantity, unit, produced_quantity
		FROM production_lines WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list production lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionLine
	for rows.Next() {
		var l entity.ProductionLine
		var produced decimal.NullDecimal
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.PlannedQuantity, &l.Unit, &produced); err != nil {
			return nil, fmt.Errorf("scan production line: %w", err)
		}
		if produced.Valid {
			l.ProducedQuantity = &produced.Decimal
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List órdenes filtradas, las más próximas a fabricarse primero por fecha programada descendente.
func (r *ProductionOrderRepo) List(ctx context.Context, f repository.ProductionFilter) ([]*entity.ProductionOrder, error) {
	query := `SELECT ` + productionColumns + ` FROM production_orders WHERE 1=1`
	var args []any
	if f.LocationID != "" {
		if !validID(f.LocationID) {
			return nil, nil
		}
		args = append(args, f.LocationID)
		query += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY scheduled_at DESC, created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	var list []*entity.ProductionOrder
	for rows.Next() {
		o, err := scanProduction(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	// las líneas se leen después de cerrar el cursor: una conexión no admite dos consultas abiertas
	for _, o := range list {
		if o.Lines, err = r.lines(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update persiste estado, notas y fecha de cierre.
func (r *ProductionOrderRepo) Update(ctx context.Context, o *entity.ProductionOrder) error {
	if !validID(o.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE production_orders
		SET status = $2, notes = $3, completed_at = COALESCE($4, completed_at), updated_at = now()
		WHERE id = $1`, o.ID, o.Status, nullable(o.Notes), o.CompletedAt)
	if err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetLineProduced fija la cantidad realmente producida de una línea.
func (r *ProductionOrderRepo) SetLineProduced(ctx context.Context, lineID string, produced decimal.Decimal) error {
	if !validID(lineID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE production_lines SET produced_quantity = $2 WHERE id = $1`, lineID, produced)
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("set produced quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SalesOrderRepo pedidos de venta sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador.
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const salesColumns = `id, customer_id, origin_location_id, fulfillment_location_id, status, stock_discounted,
	total, notes, created_by, created_at, updated_at`

// Create persiste el pedido y sus líneas.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_orders (`+salesColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`,
		o.ID, o.CustomerID, o.OriginLocationID, nullable(o.FulfillmentLocationID), o.Status, o.StockDiscounted,
		o.Total, nullable(o.Notes), nullable(o.CreatedBy))
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("create sales order: %w", err)
	}
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_lines (id, order_id, item_id, quantity, unit_price, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, o.ID, l.ItemID, l.Quantity, l.UnitPrice, l.Subtotal, i)
		if err != nil {
			if tr := translate(err); tr != err {
				return tr
			}
			return fmt.Errorf("create sales line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas; (nil, nil) si no existe.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la cabecera del pedido.
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *SalesOrderRepo) get(ctx context.Context, id, lock string) (*entity.SalesOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	var o entity.SalesOrder
	var fulfillment, notes, createdBy *string
	err := r.q.QueryRow(ctx, `SELECT `+salesColumns+` FROM sales_orders WHERE id = $1`+lock, id).Scan(
		&o.ID, &o.CustomerID, &o.OriginLocationID, &fulfillment, &o.Status, &o.StockDiscounted,
		&o.Total, &notes, &createdBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	o.FulfillmentLocationID, o.Notes, o.CreatedBy = deref(fulfillment), deref(notes), deref(createdBy)

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, quantity, unit_price, subtotal
		FROM sales_lines WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list sales lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SalesLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sales line: %w", err)
		}
		o.Lines = append(o.Lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales lines: %w", err)
	}
	return &o, nil
}

// Update persiste estado, bandera de descuento y local de despacho.
func (r *SalesOrderRepo) Update(ctx context.Context, o *entity.SalesOrder) error {
	if !validID(o.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_orders
		SET status = $2, stock_discounted = $3, fulfillment_location_id = $4, updated_at = now()
		WHERE id = $1`, o.ID, o.Status, o.StockDiscounted, nullable(o.FulfillmentLocationID))
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurchaseOrderRepo compras sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseColumns = `id, supplier_name, location_id, document_number, status, total, received_at,
	created_by, created_at, updated_at`

// Create persiste la compra y sus líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
		o.ID, o.SupplierName, o.LocationID, nullable(o.DocumentNumber), o.Status, o.Total, o.ReceivedAt,
		nullable(o.CreatedBy))
	if err != nil {
		if tr := translate(err); tr != err {
			return tr
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	for i, l := range o.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_lines (id, order_id, item_id, quantity, unit_price, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, o.ID, l.ItemID, l.Quantity, l.UnitPrice, l.Subtotal, i)
		if err != nil {
			if tr := translate(err); tr != err {
				return tr
			}
			return fmt.Errorf("create purchase line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la compra con sus líneas; (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea la cabecera de la compra.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PurchaseOrderRepo) get(ctx context.Context, id, lock string) (*entity.PurchaseOrder, error) {
	if !validID(id) {
		return nil, nil
	}
	var o entity.PurchaseOrder
	var doc, createdBy *string
	err := r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchase_orders WHERE id = $1`+lock, id).Scan(
		&o.ID, &o.SupplierName, &o.LocationID, &doc, &o.Status, &o.Total, &o.ReceivedAt,
		&createdBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	o.DocumentNumber, o.CreatedBy = deref(doc), deref(createdBy)

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, quantity, unit_price, subtotal
		FROM purchase_lines WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		o.Lines = append(o.Lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	return &o, nil
}

// Update persiste estado y fecha de recepción.
func (r *PurchaseOrderRepo) Update(ctx context.Context, o *entity.PurchaseOrder) error {
	if !validID(o.ID) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, received_at = COALESCE($3, received_at), updated_at = now()
		WHERE id = $1`, o.ID, o.Status, o.ReceivedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
