package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento del libro de stock.
type MovementKind string

// Tipos de movimiento.
const (
	MovementTransfer   MovementKind = "TRANSFER"   // traslado entre locales
	MovementAdjustment MovementKind = "ADJUSTMENT" // ajuste manual o devolución por cancelación
	MovementSaleOrder  MovementKind = "SALE_ORDER" // despacho de pedido de venta
	MovementProduction MovementKind = "PRODUCTION" // consumo de insumos o ingreso de producto terminado
	MovementPurchase   MovementKind = "PURCHASE"   // recepción de compra
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementTransfer, MovementAdjustment, MovementSaleOrder, MovementProduction, MovementPurchase:
		return true
	}
	return false
}

// StockMovement registro inmutable de un cambio de stock.
// FromLocationID vacío = entrada; ToLocationID vacío = salida.
type StockMovement struct {
	ID             string
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal // siempre > 0
	Kind           MovementKind
	ReferenceID    string // pedido, orden de producción, compra
	Notes          string
	Actor          string // UserID
	CreatedAt      time.Time
}

// Inbound indica si el movimiento no tiene origen.
func (m *StockMovement) Inbound() bool { return m.FromLocationID == "" }

// Outbound indica si el movimiento no tiene destino.
func (m *StockMovement) Outbound() bool { return m.ToLocationID == "" }
