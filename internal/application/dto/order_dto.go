package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// SalesLineRequest línea del pedido con precio ya resuelto por el módulo de precios.
type SalesLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	CustomerID       string             `json:"customer_id" validate:"required"`
	OriginLocationID string             `json:"origin_location_id" validate:"required"`
	Notes            string             `json:"notes" validate:"max=500"`
	Lines            []SalesLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// FulfillmentRequest local de despacho para confirmar o reasignar un pedido.
type FulfillmentRequest struct {
	FulfillmentLocationID string `json:"fulfillment_location_id" validate:"required"`
}

// AdvanceSalesOrderRequest siguiente estado del pedido.
type AdvanceSalesOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_PREPARATION DELIVERED"`
}

// SalesLineResponse línea del pedido.
type SalesLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalesOrderResponse pedido de venta.
type SalesOrderResponse struct {
	ID                    string              `json:"id"`
	CustomerID            string              `json:"customer_id"`
	OriginLocationID      string              `json:"origin_location_id"`
	FulfillmentLocationID string              `json:"fulfillment_location_id,omitempty"`
	Status                string              `json:"status"`
	StockDiscounted       bool                `json:"stock_discounted"`
	Total                 decimal.Decimal     `json:"total"`
	Notes                 string              `json:"notes,omitempty"`
	Lines                 []SalesLineResponse `json:"lines"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// FromSalesOrder convierte un pedido a su respuesta.
func FromSalesOrder(o *entity.SalesOrder) SalesOrderResponse {
	out := SalesOrderResponse{
		ID:                    o.ID,
		CustomerID:            o.CustomerID,
		OriginLocationID:      o.OriginLocationID,
		FulfillmentLocationID: o.FulfillmentLocationID,
		Status:                string(o.Status),
		StockDiscounted:       o.StockDiscounted,
		Total:                 o.Total,
		Notes:                 o.Notes,
		Lines:                 make([]SalesLineResponse, 0, len(o.Lines)),
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, SalesLineResponse{
			ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return out
}

// ProductionLineRequest producto a fabricar.
type ProductionLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit     string          `json:"unit" validate:"max=20"`
}

// CreateProductionOrderRequest body para POST /api/production/orders.
type CreateProductionOrderRequest struct {
	LocationID  string                  `json:"location_id" validate:"required"`
	ScheduledAt *time.Time              `json:"scheduled_at"`
	Notes       string                  `json:"notes" validate:"max=500"`
	Lines       []ProductionLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// LineOverrideRequest cantidad realmente producida en una línea.
type LineOverrideRequest struct {
	LineID   string          `json:"line_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

// IngredientOverrideRequest consumo real de un insumo.
type IngredientOverrideRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gte=0"`
}

// FinalizeProductionRequest body para POST /api/production/orders/:id/finalize.
type FinalizeProductionRequest struct {
	LineOverrides       []LineOverrideRequest       `json:"line_overrides" validate:"dive"`
	IngredientOverrides []IngredientOverrideRequest `json:"ingredient_overrides" validate:"dive"`
	ClosingNotes        string                      `json:"closing_notes" validate:"max=500"`
}

// CancelProductionRequest motivo opcional de cancelación.
type CancelProductionRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// ProductionLineResponse línea de la orden.
type ProductionLineResponse struct {
	ID               string           `json:"id"`
	ItemID           string           `json:"item_id"`
	PlannedQuantity  decimal.Decimal  `json:"planned_quantity"`
	Unit             string           `json:"unit"`
	ProducedQuantity *decimal.Decimal `json:"produced_quantity,omitempty"`
}

// ProductionOrderResponse orden de producción.
type ProductionOrderResponse struct {
	ID          string                   `json:"id"`
	LocationID  string                   `json:"location_id"`
	Status      string                   `json:"status"`
	ScheduledAt time.Time                `json:"scheduled_at"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	Notes       string                   `json:"notes,omitempty"`
	Lines       []ProductionLineResponse `json:"lines"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ProductionOrderListResponse lista paginada de órdenes.
type ProductionOrderListResponse struct {
	Items []ProductionOrderResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// RequirementDTO insumo de la orden contra el stock del local.
type RequirementDTO struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Unit       string          `json:"unit"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
	Sufficient bool            `json:"sufficient"`
}

// RequirementsResponse vista previa de consumos de una orden.
type RequirementsResponse struct {
	OrderID    string           `json:"order_id"`
	LocationID string           `json:"location_id"`
	Sufficient bool             `json:"sufficient"`
	Items      []RequirementDTO `json:"items"`
}

// FromProductionOrder convierte una orden a su respuesta.
func FromProductionOrder(o *entity.ProductionOrder) ProductionOrderResponse {
	out := ProductionOrderResponse{
		ID:          o.ID,
		LocationID:  o.LocationID,
		Status:      string(o.Status),
		ScheduledAt: o.ScheduledAt,
		CompletedAt: o.CompletedAt,
		Notes:       o.Notes,
		Lines:       make([]ProductionLineResponse, 0, len(o.Lines)),
		CreatedAt:   o.CreatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, ProductionLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			PlannedQuantity:  l.PlannedQuantity,
			Unit:             l.Unit,
			ProducedQuantity: l.ProducedQuantity,
		})
	}
	return out
}

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// CreatePurchaseOrderRequest body para POST /api/purchases.
type CreatePurchaseOrderRequest struct {
	SupplierName   string                `json:"supplier_name" validate:"required,max=200"`
	LocationID     string                `json:"location_id" validate:"required"`
	DocumentNumber string                `json:"document_number" validate:"max=100"`
	Lines          []PurchaseLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseLineResponse línea de compra.
type PurchaseLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse compra a proveedor.
type PurchaseOrderResponse struct {
	ID             string                 `json:"id"`
	SupplierName   string                 `json:"supplier_name"`
	LocationID     string                 `json:"location_id"`
	DocumentNumber string                 `json:"document_number,omitempty"`
	Status         string                 `json:"status"`
	Total          decimal.Decimal        `json:"total"`
	ReceivedAt     *time.Time             `json:"received_at,omitempty"`
	Lines          []PurchaseLineResponse `json:"lines"`
	CreatedAt      time.Time              `json:"created_at"`
}

// FromPurchaseOrder convierte una compra a su respuesta.
func FromPurchaseOrder(o *entity.PurchaseOrder) PurchaseOrderResponse {
	out := PurchaseOrderResponse{
		ID:             o.ID,
		SupplierName:   o.SupplierName,
		LocationID:     o.LocationID,
		DocumentNumber: o.DocumentNumber,
		Status:         string(o.Status),
		Total:          o.Total,
		ReceivedAt:     o.ReceivedAt,
		Lines:          make([]PurchaseLineResponse, 0, len(o.Lines)),
		CreatedAt:      o.CreatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, PurchaseLineResponse{
			ID: l.ID, ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return out
}
