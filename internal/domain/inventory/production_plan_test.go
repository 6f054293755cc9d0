package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

func TestBuildProductionPlan_AgregaConsumosEntreLineas(t *testing.T) {
	lines := []inventory.PlanLine{
		{LineID: "l1", ItemID: "a", Quantity: dec("10"), Requirements: []inventory.Requirement{{ItemID: "sal", Quantity: dec("1")}}},
		{LineID: "l2", ItemID: "b", Quantity: dec("10"), Requirements: []inventory.Requirement{{ItemID: "sal", Quantity: dec("2")}}},
	}

	plan := inventory.BuildProductionPlan("L", lines, nil, inventory.ConsumptionEpsilon)

	require.Len(t, plan.Consumptions, 1)
	assert.Equal(t, "sal", plan.Consumptions[0].ItemID)
	assert.True(t, plan.Consumptions[0].Quantity.Equal(dec("3")))
	require.Len(t, plan.Outputs, 2)
	assert.Equal(t, "l1", plan.Outputs[0].LineID)
}

func TestBuildProductionPlan_AjusteReemplazaTotal(t *testing.T) {
	lines := []inventory.PlanLine{
		{LineID: "l1", ItemID: "a", Quantity: dec("1"), Requirements: []inventory.Requirement{{ItemID: "x", Quantity: dec("1")}}},
		{LineID: "l2", ItemID: "b", Quantity: dec("1"), Requirements: []inventory.Requirement{{ItemID: "x", Quantity: dec("2")}}},
	}
	overrides := map[string]decimal.Decimal{"x": dec("5")}

	plan := inventory.BuildProductionPlan("L", lines, overrides, inventory.ConsumptionEpsilon)

	require.Len(t, plan.Consumptions, 1)
	assert.True(t, plan.Consumptions[0].Quantity.Equal(dec("5")), "el ajuste reemplaza, no suma")
}

func TestBuildProductionPlan_AjusteDeInsumoFueraDeReceta(t *testing.T) {
	plan := inventory.BuildProductionPlan("L", nil, map[string]decimal.Decimal{"extra": dec("0.5")}, inventory.ConsumptionEpsilon)
	require.Len(t, plan.Consumptions, 1)
	assert.Equal(t, "extra", plan.Consumptions[0].ItemID)
}

func TestBuildProductionPlan_DescartaConsumosDespreciables(t *testing.T) {
	lines := []inventory.PlanLine{
		{LineID: "l1", ItemID: "a", Quantity: dec("1"), Requirements: []inventory.Requirement{
			{ItemID: "sal", Quantity: dec("0.001")},
			{ItemID: "harina", Quantity: dec("0.002")},
		}},
	}

	plan := inventory.BuildProductionPlan("L", lines, nil, inventory.ConsumptionEpsilon)

	require.Len(t, plan.Consumptions, 1)
	assert.Equal(t, "harina", plan.Consumptions[0].ItemID)
}

func TestProductionPlan_ShortagesListaTodos(t *testing.T) {
	plan := &inventory.ProductionPlan{
		LocationID: "L",
		Consumptions: []inventory.Requirement{
			{ItemID: "harina", Quantity: dec("10")},
			{ItemID: "levadura", Quantity: dec("1")},
			{ItemID: "sal", Quantity: dec("3")},
		},
	}
	available := map[string]decimal.Decimal{"harina": dec("4"), "levadura": dec("1")}

	shortages := plan.Shortages(available)

	require.Len(t, shortages, 2)
	assert.Equal(t, "harina", shortages[0].ItemID)
	assert.True(t, shortages[0].Missing().Equal(dec("6")))
	assert.Equal(t, "sal", shortages[1].ItemID)
	assert.True(t, shortages[1].Available.IsZero())

	err := domain.NewInsufficientStockError(shortages...)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Falta sal: Requiere 3.000, Disponible 0.000")
}
