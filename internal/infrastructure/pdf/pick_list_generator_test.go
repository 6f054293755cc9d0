package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
)

func TestRenderPickList_GeneraPDF(t *testing.T) {
	g := NewPickListGenerator("Panadería La Espiga")
	out, err := g.RenderPickList(context.Background(), &ports.PickList{
		OrderID:      "7f0c8a52-9d3e-4c55-8f61-0d5f3b8e2a11",
		LocationName: "Planta",
		ScheduledAt:  time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC),
		Notes:        "Turno madrugada",
		Outputs: []ports.PickListOutput{
			{SKU: "PAN-01", Name: "Pan francés", Unit: "kg", Quantity: decimal.NewFromInt(20)},
		},
		Ingredients: []ports.PickListLine{
			{SKU: "HAR-01", Name: "Harina", Unit: "kg", Required: decimal.NewFromInt(20), Available: decimal.NewFromInt(100)},
			{SKU: "LEV-01", Name: "Levadura", Unit: "kg", Required: decimal.NewFromInt(1), Available: decimal.RequireFromString("0.25")},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderPickList_Nil(t *testing.T) {
	_, err := NewPickListGenerator("").RenderPickList(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "12,5", formatQuantity(decimal.RequireFromString("12.500")))
	assert.Equal(t, "3", formatQuantity(decimal.NewFromInt(3)))
	assert.Equal(t, "0,125", formatQuantity(decimal.RequireFromString("0.1254")))
}
