package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/application/purchasing"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingNotifier struct{ got []*entity.StockMovement }

func (r *recordingNotifier) MovementsCommitted(_ context.Context, movs []*entity.StockMovement) {
	r.got = append(r.got, movs...)
}

func setup(t *testing.T) (*purchasing.UseCase, *inventory.QueryUseCase, *memory.Store, *recordingNotifier) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Items.Create(ctx, &entity.Item{ID: "harina", SKU: "HAR", Name: "Harina", UnitMeasure: "kg", IngredientEligible: true, PurchaseCost: dec("2")}); err != nil {
			return err
		}
		return repos.Locations.Create(ctx, &entity.Location{ID: "loc-bodega", Code: "BOD", Name: "Bodega"})
	}))
	notifier := &recordingNotifier{}
	return purchasing.NewUseCase(store, inventory.NewLedger(), notifier), inventory.NewQueryUseCase(store), store, notifier
}

func TestReceive_IngresaStockYActualizaCosto(t *testing.T) {
	uc, query, store, notifier := setup(t)
	ctx := context.Background()

	order, err := uc.Create(ctx, purchasing.CreateInput{
		SupplierName: "Molinos del Valle", LocationID: "loc-bodega", DocumentNumber: "FC-991",
		Lines: []purchasing.LineInput{{ItemID: "harina", Quantity: dec("50"), UnitPrice: dec("2.35")}},
	})
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(dec("117.5")))

	received, err := uc.Receive(ctx, order.ID, "bodeguero-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)

	q, err := query.GetQuantity(ctx, "harina", "loc-bodega")
	require.NoError(t, err)
	assert.True(t, q.Equal(dec("50")))

	var item *entity.Item
	require.NoError(t, store.Run(ctx, func(repos ports.Repositories) error {
		item, err = repos.Items.GetByID(ctx, "harina")
		return err
	}))
	assert.True(t, item.PurchaseCost.Equal(dec("2.35")))

	require.Len(t, notifier.got, 1)
	assert.Equal(t, entity.MovementPurchase, notifier.got[0].Kind)
	assert.Equal(t, "FC-991", notifier.got[0].Notes)
}

func TestReceive_SegundaRecepcionRechazada(t *testing.T) {
	uc, query, _, _ := setup(t)
	ctx := context.Background()
	order, err := uc.Create(ctx, purchasing.CreateInput{
		SupplierName: "Molinos", LocationID: "loc-bodega",
		Lines: []purchasing.LineInput{{ItemID: "harina", Quantity: dec("10"), UnitPrice: dec("2")}},
	})
	require.NoError(t, err)

	_, err = uc.Receive(ctx, order.ID, "")
	require.NoError(t, err)
	_, err = uc.Receive(ctx, order.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyApplied)

	q, err := query.GetQuantity(ctx, "harina", "loc-bodega")
	require.NoError(t, err)
	assert.True(t, q.Equal(dec("10")))
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, purchasing.CreateInput{LocationID: "loc-bodega", Lines: []purchasing.LineInput{{ItemID: "harina", Quantity: dec("1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "proveedor obligatorio")

	_, err = uc.Create(ctx, purchasing.CreateInput{SupplierName: "X", LocationID: "loc-x", Lines: []purchasing.LineInput{{ItemID: "harina", Quantity: dec("1")}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, purchasing.CreateInput{SupplierName: "X", LocationID: "loc-bodega", Lines: []purchasing.LineInput{{ItemID: "harina", Quantity: dec("-1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
