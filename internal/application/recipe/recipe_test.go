package recipe_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/application/recipe"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCatalog(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	items := []*entity.Item{
		{ID: "harina", SKU: "HAR", Name: "Harina", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("2.5")},
		{ID: "levadura", SKU: "LEV", Name: "Levadura", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("12")},
		{ID: "masa", SKU: "MAS", Name: "Masa madre", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("99")},
		{ID: "pan", SKU: "PAN", Name: "Pan", UnitMeasure: "kg", Sellable: true},
		{ID: "caja", SKU: "CAJ", Name: "Caja", UnitMeasure: "und", Sellable: true},
	}
	require.NoError(t, store.Run(ctx, func(repos ports.Repositories) error {
		for _, it := range items {
			if err := repos.Items.Create(ctx, it); err != nil {
				return err
			}
		}
		return nil
	}))
}

func item(t *testing.T, store *memory.Store, id string) *entity.Item {
	t.Helper()
	var out *entity.Item
	require.NoError(t, store.Run(context.Background(), func(repos ports.Repositories) error {
		var err error
		out, err = repos.Items.GetByID(context.Background(), id)
		return err
	}))
	require.NotNil(t, out)
	return out
}

func newUseCase(t *testing.T) (*recipe.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	seedCatalog(t, store)
	return recipe.NewUseCase(store, recipe.NewCostCascade()), store
}

func breadInput() recipe.CreateInput {
	return recipe.CreateInput{
		ItemID:        "pan",
		YieldQuantity: dec("10"),
		YieldUnit:     "kg",
		Ingredients: []recipe.IngredientInput{
			{ItemID: "harina", Quantity: dec("10")},
			{ItemID: "levadura", Quantity: dec("0.5")},
		},
	}
}

func TestCreate_CalculaCostoYActualizaItem(t *testing.T) {
	uc, store := newUseCase(t)

	rec, err := uc.Create(context.Background(), breadInput())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Version)
	assert.True(t, rec.Active)
	assert.True(t, rec.TotalCost.Equal(dec("31")), "total: %s", rec.TotalCost)
	assert.True(t, rec.UnitCost.Equal(dec("3.1")))
	assert.Equal(t, "kg", rec.Ingredients[0].Unit, "la unidad por defecto es la del ítem")

	pan := item(t, store, "pan")
	assert.True(t, pan.HasRecipe)
	require.NotNil(t, pan.ManufacturingCost)
	assert.True(t, pan.ManufacturingCost.Equal(dec("3.1")))
}

func TestCreate_NuevaVersionDesactivaAnterior(t *testing.T) {
	uc, _ := newUseCase(t)
	first, err := uc.Create(context.Background(), breadInput())
	require.NoError(t, err)

	in := breadInput()
	in.YieldQuantity = dec("20")
	second, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	active, err := uc.GetActiveByItem(context.Background(), "pan")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	old, err := uc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, old.Active)
}

func TestCreate_ValidaIngredientes(t *testing.T) {
	uc, _ := newUseCase(t)
	cases := []struct {
		name string
		ing  recipe.IngredientInput
		want error
	}{
		{"no es insumo", recipe.IngredientInput{ItemID: "caja", Quantity: dec("1")}, domain.ErrInvalidInput},
		{"es el producto de salida", recipe.IngredientInput{ItemID: "pan", Quantity: dec("1")}, domain.ErrInvalidInput},
		{"no existe", recipe.IngredientInput{ItemID: "x", Quantity: dec("1")}, domain.ErrNotFound},
		{"cantidad cero", recipe.IngredientInput{ItemID: "harina", Quantity: decimal.Zero}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), recipe.CreateInput{
				ItemID: "pan", YieldQuantity: dec("1"), Ingredients: []recipe.IngredientInput{tc.ing},
			})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestIngredientes_CadaCambioRecalcula(t *testing.T) {
	uc, store := newUseCase(t)
	rec, err := uc.Create(context.Background(), breadInput())
	require.NoError(t, err)

	rec, err = uc.AddIngredient(context.Background(), rec.ID, recipe.IngredientInput{ItemID: "masa", Quantity: dec("1")})
	require.NoError(t, err)
	assert.True(t, rec.TotalCost.Equal(dec("130")), "31 + 99: %s", rec.TotalCost)

	var levID string
	for _, ing := range rec.Ingredients {
		if ing.IngredientItemID == "levadura" {
			levID = ing.ID
		}
	}
	rec, err = uc.UpdateIngredient(context.Background(), rec.ID, levID, dec("1"), "kg")
	require.NoError(t, err)
	assert.True(t, rec.TotalCost.Equal(dec("136")))

	rec, err = uc.RemoveIngredient(context.Background(), rec.ID, levID)
	require.NoError(t, err)
	assert.True(t, rec.TotalCost.Equal(dec("124")))
	assert.True(t, item(t, store, "pan").ManufacturingCost.Equal(dec("12.4")))

	_, err = uc.AddIngredient(context.Background(), rec.ID, recipe.IngredientInput{ItemID: "harina", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCascade_InsumoFabricadoUsaCostoDeFabricacion(t *testing.T) {
	uc, store := newUseCase(t)
	// masa madre pasa a tener receta: su costo como insumo deja de ser el de compra
	_, err := uc.Create(context.Background(), recipe.CreateInput{
		ItemID: "masa", YieldQuantity: dec("2"),
		Ingredients: []recipe.IngredientInput{{ItemID: "harina", Quantity: dec("2")}},
	})
	require.NoError(t, err)
	assert.True(t, item(t, store, "masa").ManufacturingCost.Equal(dec("2.5")))

	rec, err := uc.Create(context.Background(), recipe.CreateInput{
		ItemID: "pan", YieldQuantity: dec("1"),
		Ingredients: []recipe.IngredientInput{{ItemID: "masa", Quantity: dec("4")}},
	})
	require.NoError(t, err)
	assert.True(t, rec.TotalCost.Equal(dec("10")))
}

func TestCascade_NoPropagaARecetasDependientes(t *testing.T) {
	uc, store := newUseCase(t)
	masa, err := uc.Create(context.Background(), recipe.CreateInput{
		ItemID: "masa", YieldQuantity: dec("1"),
		Ingredients: []recipe.IngredientInput{{ItemID: "harina", Quantity: dec("1")}},
	})
	require.NoError(t, err)
	pan, err := uc.Create(context.Background(), recipe.CreateInput{
		ItemID: "pan", YieldQuantity: dec("1"),
		Ingredients: []recipe.IngredientInput{{ItemID: "masa", Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.True(t, pan.UnitCost.Equal(dec("2.5")))

	_, err = uc.Update(context.Background(), masa.ID, recipe.UpdateInput{YieldQuantity: dec("0.5")})
	require.NoError(t, err)
	assert.True(t, item(t, store, "masa").ManufacturingCost.Equal(dec("5")))

	// el pan conserva su costo hasta que se recalcule su propia receta
	stale, err := uc.Get(context.Background(), pan.ID)
	require.NoError(t, err)
	assert.True(t, stale.UnitCost.Equal(dec("2.5")))

	fresh, err := uc.Recalculate(context.Background(), pan.ID)
	require.NoError(t, err)
	assert.True(t, fresh.UnitCost.Equal(dec("5")))

	again, err := uc.Recalculate(context.Background(), pan.ID)
	require.NoError(t, err)
	assert.True(t, again.UnitCost.Equal(fresh.UnitCost), "recalcular es idempotente")
}

func TestRecalculate_RecetaInexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Recalculate(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
