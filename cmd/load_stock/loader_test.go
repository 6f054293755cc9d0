package main

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/memory"
)

func TestParseRows_EncabezadoComentariosYComaDecimal(t *testing.T) {
	rows, err := parseRows([]byte("sku;local;cantidad\n# saldos de apertura\nHAR;PLA;12,5\nPAN ; TIE ; 3\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HAR", rows[0].SKU)
	assert.True(t, decimal.RequireFromString("12.5").Equal(rows[0].Quantity))
	assert.Equal(t, "TIE", rows[1].LocationCode)
	assert.Equal(t, 4, rows[1].Line)
}

func TestParseRows_Latin1(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("AZÚCAR;PLA;4\n")
	require.NoError(t, err)
	rows, err := parseRows([]byte(latin1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AZÚCAR", rows[0].SKU)
}

func TestParseRows_Invalidas(t *testing.T) {
	_, err := parseRows([]byte("HAR;PLA;1\nPAN;TIE;abc\n"))
	assert.Error(t, err)
	_, err = parseRows([]byte("HAR;PLA;-1\n"))
	assert.Error(t, err)
	_, err = parseRows([]byte("HAR;PLA\n"))
	assert.Error(t, err)
}

func TestLoad_FijaSaldosYReportaDesconocidos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Items.Create(ctx, &entity.Item{ID: "harina", SKU: "HAR", Name: "Harina", UnitMeasure: "kg"}); err != nil {
			return err
		}
		return repos.Locations.Create(ctx, &entity.Location{ID: "planta", Code: "PLA", Name: "Planta"})
	}))
	adjust := inventory.NewAdjustUseCase(store, inventory.NewLedger(), nil)

	rows := []stockRow{
		{Line: 1, SKU: "HAR", LocationCode: "PLA", Quantity: decimal.NewFromInt(40)},
		{Line: 2, SKU: "XXX", LocationCode: "PLA", Quantity: decimal.NewFromInt(1)},
		{Line: 3, SKU: "HAR", LocationCode: "NOPE", Quantity: decimal.NewFromInt(1)},
		{Line: 4, SKU: "HAR", LocationCode: "PLA", Quantity: decimal.NewFromInt(40)},
	}
	res, err := load(ctx, store, adjust, rows, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 1, res.Unchanged)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 2, res.Failed[0].Line)

	qty, err := inventory.NewQueryUseCase(store).GetQuantity(ctx, "harina", "planta")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(qty))
}
