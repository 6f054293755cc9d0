package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesStatus estado de un pedido de venta.
type SalesStatus string

// Estados del pedido. DELIVERED y CANCELLED son terminales.
const (
	SalesPending       SalesStatus = "PENDING"
	SalesConfirmed     SalesStatus = "CONFIRMED"
	SalesInPreparation SalesStatus = "IN_PREPARATION"
	SalesDelivered     SalesStatus = "DELIVERED"
	SalesCancelled     SalesStatus = "CANCELLED"
)

var salesForward = map[SalesStatus]SalesStatus{
	SalesPending:       SalesConfirmed,
	SalesConfirmed:     SalesInPreparation,
	SalesInPreparation: SalesDelivered,
}

// Terminal indica si el estado ya no admite transiciones.
func (s SalesStatus) Terminal() bool {
	return s == SalesDelivered || s == SalesCancelled
}

// CanTransitionTo avance hacia adelante de un paso, o cancelación desde un estado no terminal.
func (s SalesStatus) CanTransitionTo(next SalesStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == SalesCancelled {
		return true
	}
	return salesForward[s] == next
}

// SalesOrder pedido de venta.
type SalesOrder struct {
	ID                    string
	CustomerID            string
	OriginLocationID      string
	FulfillmentLocationID string // local desde donde se despacha; obligatorio para confirmar
	Status                SalesStatus
	StockDiscounted       bool // true mientras el descuento de stock esté aplicado
	Total                 decimal.Decimal
	Notes                 string
	CreatedBy             string
	Lines                 []*SalesLine
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SalesLine línea del pedido con precio congelado al crear.
type SalesLine struct {
	ID        string
	OrderID   string
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
