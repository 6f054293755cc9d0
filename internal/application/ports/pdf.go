package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PickListLine insumo a retirar de bodega para una orden de producción.
type PickListLine struct {
	SKU       string
	Name      string
	Unit      string
	Required  decimal.Decimal
	Available decimal.Decimal
}

// PickListOutput producto a fabricar.
type PickListOutput struct {
	SKU      string
	Name     string
	Unit     string
	Quantity decimal.Decimal
}

// PickList datos de la hoja de requisición de una orden de producción.
type PickList struct {
	OrderID      string
	LocationName string
	ScheduledAt  time.Time
	Notes        string
	Outputs      []PickListOutput
	Ingredients  []PickListLine
}

// PickListRenderer genera el PDF de la hoja de requisición.
type PickListRenderer interface {
	RenderPickList(ctx context.Context, list *PickList) ([]byte, error)
}
