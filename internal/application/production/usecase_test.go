package production_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/application/production"
	"github.com/jhoicas/panaderia-stock/internal/application/recipe"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/panaderia-stock/internal/domain/inventory"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/memory"
)

const (
	locPlanta = "loc-planta"
	locTienda = "loc-tienda"
	actor     = "jefe-produccion"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── Helpers de test ───────────────────────────────────────────────────────────

type fakeRenderer struct{ got *ports.PickList }

func (f *fakeRenderer) RenderPickList(_ context.Context, list *ports.PickList) ([]byte, error) {
	f.got = list
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	uc       *production.UseCase
	recipes  *recipe.UseCase
	query    *inventory.QueryUseCase
	adjust   *inventory.AdjustUseCase
	renderer *fakeRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(repos ports.Repositories) error {
		for _, it := range []*entity.Item{
			{ID: "harina", SKU: "HAR", Name: "Harina", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("2")},
			{ID: "levadura", SKU: "LEV", Name: "Levadura", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("10")},
			{ID: "sal", SKU: "SAL", Name: "Sal", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("1")},
			{ID: "pan", SKU: "PAN", Name: "Pan", UnitMeasure: "kg", Sellable: true},
			{ID: "galleta", SKU: "GAL", Name: "Galleta", UnitMeasure: "kg", Sellable: true},
		} {
			if err := repos.Items.Create(ctx, it); err != nil {
				return err
			}
		}
		for _, l := range []*entity.Location{
			{ID: locPlanta, Code: "PLA", Name: "Planta"},
			{ID: locTienda, Code: "TIE", Name: "Tienda"},
		} {
			if err := repos.Locations.Create(ctx, l); err != nil {
				return err
			}
		}
		return nil
	}))
	ledger := inventory.NewLedger()
	renderer := &fakeRenderer{}
	return &fixture{
		uc:       production.NewUseCase(store, ledger, recipe.NewResolver(), renderer, nil, domaininv.ConsumptionEpsilon),
		recipes:  recipe.NewUseCase(store, recipe.NewCostCascade()),
		query:    inventory.NewQueryUseCase(store),
		adjust:   inventory.NewAdjustUseCase(store, ledger, nil),
		renderer: renderer,
	}
}

func (f *fixture) stock(t *testing.T, itemID, qty string) {
	t.Helper()
	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{ItemID: itemID, LocationID: locPlanta, Delta: dec(qty)})
	require.NoError(t, err)
}

func (f *fixture) qty(t *testing.T, itemID string) decimal.Decimal {
	t.Helper()
	q, err := f.query.GetQuantity(context.Background(), itemID, locPlanta)
	require.NoError(t, err)
	return q
}

func (f *fixture) recipe(t *testing.T, itemID, yield string, ings ...recipe.IngredientInput) {
	t.Helper()
	_, err := f.recipes.Create(context.Background(), recipe.CreateInput{ItemID: itemID, YieldQuantity: dec(yield), Ingredients: ings})
	require.NoError(t, err)
}

func (f *fixture) order(t *testing.T, lines ...production.LineInput) *entity.ProductionOrder {
	t.Helper()
	o, err := f.uc.Create(context.Background(), production.CreateInput{LocationID: locPlanta, Actor: actor, Lines: lines})
	require.NoError(t, err)
	return o
}

func (f *fixture) breadRecipe(t *testing.T) {
	f.recipe(t, "pan", "10",
		recipe.IngredientInput{ItemID: "harina", Quantity: dec("10")},
		recipe.IngredientInput{ItemID: "levadura", Quantity: dec("0.5")},
	)
}

// ─── Casos ─────────────────────────────────────────────────────────────────────

func TestFinalize_PanConHarinaYLevadura(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "harina", "100")
	f.stock(t, "levadura", "100")
	f.breadRecipe(t)
	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("20")})

	done, err := f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	require.NoError(t, err)

	assert.Equal(t, entity.ProductionFinalized, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, f.qty(t, "harina").Equal(dec("80")))
	assert.True(t, f.qty(t, "levadura").Equal(dec("99")))
	assert.True(t, f.qty(t, "pan").Equal(dec("20")))

	got, err := f.uc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Lines[0].ProducedQuantity)
	assert.True(t, got.Lines[0].ProducedQuantity.Equal(dec("20")))

	movs, err := f.query.ListMovements(context.Background(), repository.MovementFilter{ReferenceID: o.ID})
	require.NoError(t, err)
	assert.Len(t, movs, 3)
	for _, m := range movs {
		assert.Equal(t, entity.MovementProduction, m.Kind)
	}
}

func TestFinalize_SalCompartidaFallaYLuegoCompleta(t *testing.T) {
	f := newFixture(t)
	f.recipe(t, "pan", "1", recipe.IngredientInput{ItemID: "sal", Quantity: dec("0.1")})
	f.recipe(t, "galleta", "1", recipe.IngredientInput{ItemID: "sal", Quantity: dec("0.2")})
	o := f.order(t,
		production.LineInput{ItemID: "pan", Quantity: dec("10")},
		production.LineInput{ItemID: "galleta", Quantity: dec("10")},
	)

	_, err := f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "Sal", stockErr.Shortages[0].ItemName)
	assert.True(t, stockErr.Shortages[0].Missing().Equal(dec("3")))
	assert.Contains(t, err.Error(), "Falta Sal")
	assert.True(t, f.qty(t, "pan").IsZero(), "nada se aplica")

	f.stock(t, "sal", "5")
	_, err = f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	require.NoError(t, err)
	assert.True(t, f.qty(t, "sal").Equal(dec("2")))
	assert.True(t, f.qty(t, "pan").Equal(dec("10")))
	assert.True(t, f.qty(t, "galleta").Equal(dec("10")))
}

func TestFinalize_AgregaConsumosEntreLineas(t *testing.T) {
	f := newFixture(t)
	f.recipe(t, "pan", "1", recipe.IngredientInput{ItemID: "harina", Quantity: dec("1")})
	f.recipe(t, "galleta", "1", recipe.IngredientInput{ItemID: "harina", Quantity: dec("1")})
	// 2.5 alcanza para cada línea por separado pero no para las dos juntas
	f.stock(t, "harina", "2.5")
	o := f.order(t,
		production.LineInput{ItemID: "pan", Quantity: dec("1")},
		production.LineInput{ItemID: "galleta", Quantity: dec("2")},
	)

	_, err := f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Shortages[0].Required.Equal(dec("3")))
	assert.True(t, f.qty(t, "harina").Equal(dec("2.5")))
}

func TestFinalize_RedondeaSoloElTotalAgregado(t *testing.T) {
	f := newFixture(t)
	f.recipe(t, "pan", "3", recipe.IngredientInput{ItemID: "sal", Quantity: dec("0.002")})
	f.stock(t, "sal", "0.002")
	o := f.order(t,
		production.LineInput{ItemID: "pan", Quantity: dec("1")},
		production.LineInput{ItemID: "pan", Quantity: dec("1")},
		production.LineInput{ItemID: "pan", Quantity: dec("1")},
	)

	reqs, err := f.uc.PreviewRequirements(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, reqs.Items, 1)
	assert.Equal(t, "0.002", reqs.Items[0].Required.String())
	assert.True(t, reqs.Sufficient)

	_, err = f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	require.NoError(t, err)
	assert.True(t, f.qty(t, "sal").IsZero())
	assert.True(t, f.qty(t, "pan").Equal(dec("3")))
}

func TestFinalize_ProduccionPequeniaIngresaLoRegistrado(t *testing.T) {
	f := newFixture(t)
	f.breadRecipe(t)
	f.stock(t, "harina", "100")
	f.stock(t, "levadura", "100")
	o := f.order(t,
		production.LineInput{ItemID: "pan", Quantity: dec("10")},
		production.LineInput{ItemID: "galleta", Quantity: dec("5")},
	)

	done, err := f.uc.Finalize(context.Background(), production.FinalizeInput{
		OrderID: o.ID,
		LineOverrides: []production.LineOverride{
			{LineID: o.Lines[0].ID, Quantity: dec("0.001")},
			{LineID: o.Lines[1].ID, Quantity: dec("0")},
		},
		Actor: actor,
	})
	require.NoError(t, err)

	// lo registrado como producido coincide con lo que entró al stock
	require.NotNil(t, done.Lines[0].ProducedQuantity)
	assert.True(t, done.Lines[0].ProducedQuantity.Equal(dec("0.001")))
	assert.True(t, f.qty(t, "pan").Equal(dec("0.001")))
	require.NotNil(t, done.Lines[1].ProducedQuantity)
	assert.True(t, done.Lines[1].ProducedQuantity.IsZero())
	assert.True(t, f.qty(t, "galleta").IsZero())
}

func TestFinalize_AjustesReemplazanCalculo(t *testing.T) {
	f := newFixture(t)
	f.stock(t, "harina", "100")
	f.stock(t, "levadura", "100")
	f.stock(t, "sal", "10")
	f.breadRecipe(t)
	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("20")})

	done, err := f.uc.Finalize(context.Background(), production.FinalizeInput{
		OrderID:       o.ID,
		LineOverrides: []production.LineOverride{{LineID: o.Lines[0].ID, Quantity: dec("18")}},
		IngredientOverrides: []production.IngredientOverride{
			{ItemID: "harina", Quantity: dec("19")},
			{ItemID: "sal", Quantity: dec("0.25")},
		},
		ClosingNotes: "merma en horno",
		Actor:        actor,
	})
	require.NoError(t, err)

	assert.True(t, f.qty(t, "harina").Equal(dec("81")), "el ajuste reemplaza los 18 calculados")
	assert.True(t, f.qty(t, "levadura").Equal(dec("99.1")), "0.9 por 18kg producidos")
	assert.True(t, f.qty(t, "sal").Equal(dec("9.75")), "insumo fuera de receta")
	assert.True(t, f.qty(t, "pan").Equal(dec("18")))
	assert.Equal(t, "Cierre: merma en horno", done.Notes)
}

func TestFinalize_ConsumoDespreciableSeOmite(t *testing.T) {
	f := newFixture(t)
	f.breadRecipe(t)
	f.stock(t, "harina", "100")
	f.stock(t, "levadura", "100")
	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("10")})

	_, err := f.uc.Finalize(context.Background(), production.FinalizeInput{
		OrderID:             o.ID,
		IngredientOverrides: []production.IngredientOverride{{ItemID: "sal", Quantity: dec("0.0005")}},
		Actor:               actor,
	})
	require.NoError(t, err, "la sal sin stock no bloquea porque su consumo es despreciable")
}

func TestFinalize_Rechazos(t *testing.T) {
	f := newFixture(t)
	f.breadRecipe(t)
	f.stock(t, "harina", "100")
	f.stock(t, "levadura", "100")
	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("10")})

	_, err := f.uc.Finalize(context.Background(), production.FinalizeInput{
		OrderID: o.ID, LineOverrides: []production.LineOverride{{LineID: "otra", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	require.NoError(t, err)
	_, err = f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID, Actor: actor})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no se finaliza dos veces")
	assert.True(t, f.qty(t, "pan").Equal(dec("10")))

	_, err = f.uc.Cancel(context.Background(), o.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una orden finalizada no se cancela")
}

func TestCancel_OrdenPlanificada(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("5")})

	cancelled, err := f.uc.Cancel(context.Background(), o.ID, "sin gas")
	require.NoError(t, err)
	assert.Equal(t, entity.ProductionCancelled, cancelled.Status)

	_, err = f.uc.Finalize(context.Background(), production.FinalizeInput{OrderID: o.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), production.CreateInput{LocationID: "loc-x", Lines: []production.LineInput{{ItemID: "pan", Quantity: dec("1")}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(context.Background(), production.CreateInput{LocationID: locPlanta, Lines: []production.LineInput{{ItemID: "pan", Quantity: dec("0")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("1")})
	assert.Equal(t, "kg", o.Lines[0].Unit, "la unidad por defecto es la del ítem")
}

func TestPreviewRequirements_YHojaDeRequisicion(t *testing.T) {
	f := newFixture(t)
	f.breadRecipe(t)
	f.stock(t, "harina", "15")
	o := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("20")})

	reqs, err := f.uc.PreviewRequirements(context.Background(), o.ID)
	require.NoError(t, err)
	assert.False(t, reqs.Sufficient)
	require.Len(t, reqs.Items, 2)
	assert.Equal(t, "harina", reqs.Items[0].ItemID)
	assert.True(t, reqs.Items[0].Required.Equal(dec("20")))
	assert.True(t, reqs.Items[0].Available.Equal(dec("15")))
	assert.False(t, reqs.Items[0].Sufficient)
	assert.Equal(t, "Levadura", reqs.Items[1].ItemName)

	pdf, err := f.uc.PickListPDF(context.Background(), o.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, f.renderer.got)
	assert.Equal(t, "Planta", f.renderer.got.LocationName)
	assert.Equal(t, "PAN", f.renderer.got.Outputs[0].SKU)
	assert.Len(t, f.renderer.got.Ingredients, 2)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	a := f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("1")})
	f.order(t, production.LineInput{ItemID: "pan", Quantity: dec("2")})
	_, err := f.uc.Cancel(context.Background(), a.ID, "")
	require.NoError(t, err)

	planned, err := f.uc.List(context.Background(), repository.ProductionFilter{LocationID: locPlanta, Status: entity.ProductionPlanned})
	require.NoError(t, err)
	assert.Len(t, planned, 1)
}
