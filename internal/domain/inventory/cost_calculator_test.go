package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/inventory"
)

func TestCalculateRecipeCost_TotalYUnitario(t *testing.T) {
	r := breadRecipe()
	costs := map[string]decimal.Decimal{
		"harina":   dec("2.50"),
		"levadura": dec("12"),
	}

	res := inventory.CalculateRecipeCost(r, costs)

	// 10 * 2.50 + 0.5 * 12 = 31; 31 / 10 = 3.1
	assert.True(t, res.TotalCost.Equal(dec("31")), "total: %s", res.TotalCost)
	assert.True(t, res.UnitCost.Equal(dec("3.1")), "unitario: %s", res.UnitCost)
	assert.True(t, res.Ingredients["i1"].TotalCost.Equal(dec("25")))
	assert.True(t, res.Ingredients["i2"].UnitCost.Equal(dec("12")))
}

func TestCalculateRecipeCost_RendimientoCero(t *testing.T) {
	r := breadRecipe()
	r.YieldQuantity = decimal.Zero

	res := inventory.CalculateRecipeCost(r, map[string]decimal.Decimal{"harina": dec("1")})

	assert.True(t, res.TotalCost.Equal(dec("10")))
	assert.True(t, res.UnitCost.IsZero())
}

func TestCalculateRecipeCost_InsumoSinCostoValeCero(t *testing.T) {
	res := inventory.CalculateRecipeCost(breadRecipe(), nil)
	assert.True(t, res.TotalCost.IsZero())
}

func TestApplyRecipeCost_CopiaFotos(t *testing.T) {
	r := breadRecipe()
	res := inventory.CalculateRecipeCost(r, map[string]decimal.Decimal{"harina": dec("1"), "levadura": dec("2")})

	inventory.ApplyRecipeCost(r, res)

	assert.True(t, r.TotalCost.Equal(dec("11")))
	assert.True(t, r.Ingredients[1].TotalCost.Equal(dec("1")))
}

func TestItemIngredientCost(t *testing.T) {
	mfg := dec("7")
	cases := []struct {
		name string
		item entity.Item
		want decimal.Decimal
	}{
		{"comprado", entity.Item{PurchaseCost: dec("3")}, dec("3")},
		{"fabricado", entity.Item{HasRecipe: true, PurchaseCost: dec("3"), ManufacturingCost: &mfg}, dec("7")},
		{"fabricado sin calcular", entity.Item{HasRecipe: true, PurchaseCost: dec("3")}, decimal.Zero},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.item.IngredientCost().Equal(tc.want))
		})
	}
}
