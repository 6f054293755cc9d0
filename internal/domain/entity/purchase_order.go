package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus estado de una compra.
type PurchaseStatus string

// Estados de compra.
const (
	PurchasePending  PurchaseStatus = "PENDING"
	PurchaseReceived PurchaseStatus = "RECEIVED"
)

// PurchaseOrder compra a proveedor que ingresa stock a un local al recibirse.
type PurchaseOrder struct {
	ID             string
	SupplierName   string
	LocationID     string
	DocumentNumber string
	Status         PurchaseStatus
	Total          decimal.Decimal
	ReceivedAt     *time.Time
	CreatedBy      string
	Lines          []*PurchaseLine
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PurchaseLine línea de compra.
type PurchaseLine struct {
	ID        string
	OrderID   string
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
