package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionStatus estado de una orden de producción.
type ProductionStatus string

// Estados de orden de producción. FINALIZED y CANCELLED son terminales.
const (
	ProductionPlanned   ProductionStatus = "PLANNED"
	ProductionFinalized ProductionStatus = "FINALIZED"
	ProductionCancelled ProductionStatus = "CANCELLED"
)

// ProductionOrder orden de producción de un local.
type ProductionOrder struct {
	ID          string
	LocationID  string
	Status      ProductionStatus
	ScheduledAt time.Time
	CompletedAt *time.Time
	Notes       string
	CreatedBy   string
	Lines       []*ProductionLine
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductionLine producto a fabricar dentro de la orden.
type ProductionLine struct {
	ID               string
	OrderID          string
	ItemID           string
	PlannedQuantity  decimal.Decimal
	Unit             string
	ProducedQuantity *decimal.Decimal // se fija solo al finalizar
}

// Line busca la línea por ID.
func (o *ProductionOrder) Line(id string) *ProductionLine {
	for _, l := range o.Lines {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// AppendClosingNotes agrega las notas de cierre a las notas existentes.
func (o *ProductionOrder) AppendClosingNotes(notes string) {
	if notes == "" {
		return
	}
	if o.Notes != "" {
		o.Notes += " | Cierre: " + notes
		return
	}
	o.Notes = "Cierre: " + notes
}
