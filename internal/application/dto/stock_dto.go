package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

// StockQuantityResponse cantidad de un ítem en un local (0 si no hay entrada).
type StockQuantityResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// StockEntryResponse entrada de stock en un listado por local.
type StockEntryResponse struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	ItemID         string          `json:"item_id" validate:"required"`
	FromLocationID string          `json:"from_location_id" validate:"required"`
	ToLocationID   string          `json:"to_location_id" validate:"required"`
	Quantity       decimal.Decimal `json:"quantity" validate:"gt=0"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// LocationBalanceDTO cantidades antes y después en un local.
type LocationBalanceDTO struct {
	LocationID string          `json:"location_id"`
	Before     decimal.Decimal `json:"before"`
	After      decimal.Decimal `json:"after"`
}

// TransferResponse resultado de una transferencia.
type TransferResponse struct {
	MovementID  string             `json:"movement_id"`
	ItemID      string             `json:"item_id"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Source      LocationBalanceDTO `json:"source"`
	Destination LocationBalanceDTO `json:"destination"`
}

// AdjustmentRequest body para POST /api/stock/adjustments. Se indica delta o quantity, no ambos.
type AdjustmentRequest struct {
	ItemID     string           `json:"item_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	Delta      *decimal.Decimal `json:"delta"`
	Quantity   *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
	Notes      string           `json:"notes" validate:"max=500"`
}

// AdjustmentResponse resultado de un ajuste; movement_id vacío si no hubo cambio.
type AdjustmentResponse struct {
	MovementID string          `json:"movement_id,omitempty"`
	Before     decimal.Decimal `json:"before"`
	After      decimal.Decimal `json:"after"`
}

// MovementResponse movimiento del historial.
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Kind           string          `json:"kind"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Actor          string          `json:"actor,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos, más recientes primero.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReconciliationResponse cantidad de la entrada contra el neto de movimientos.
type ReconciliationResponse struct {
	ItemID        string          `json:"item_id"`
	LocationID    string          `json:"location_id"`
	EntryQuantity decimal.Decimal `json:"entry_quantity"`
	LedgerNet     decimal.Decimal `json:"ledger_net"`
	Balanced      bool            `json:"balanced"`
}

// ShortageDTO faltante de un insumo o producto en un local.
type ShortageDTO struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	LocationID string          `json:"location_id"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
	Missing    decimal.Decimal `json:"missing"`
}

// FromMovement convierte un movimiento a su respuesta.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Quantity:       m.Quantity,
		Kind:           string(m.Kind),
		ReferenceID:    m.ReferenceID,
		Notes:          m.Notes,
		Actor:          m.Actor,
		CreatedAt:      m.CreatedAt,
	}
}

// FromShortages convierte los faltantes de un error de stock.
func FromShortages(shortages []domain.Shortage) []ShortageDTO {
	out := make([]ShortageDTO, 0, len(shortages))
	for _, s := range shortages {
		out = append(out, ShortageDTO{
			ItemID:     s.ItemID,
			ItemName:   s.ItemName,
			LocationID: s.LocationID,
			Required:   s.Required,
			Available:  s.Available,
			Missing:    s.Missing(),
		})
	}
	return out
}
