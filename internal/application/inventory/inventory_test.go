package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/application/inventory"
	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/internal/domain/repository"
	"github.com/jhoicas/panaderia-stock/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	locCentro = "loc-centro"
	locNorte  = "loc-norte"
	itemPan   = "item-pan"
	actor     = "user-1"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingNotifier struct {
	movements []*entity.StockMovement
}

func (n *recordingNotifier) MovementsCommitted(_ context.Context, m []*entity.StockMovement) {
	n.movements = append(n.movements, m...)
}

type fixture struct {
	store    *memory.Store
	ledger   *inventory.Ledger
	query    *inventory.QueryUseCase
	transfer *inventory.TransferUseCase
	adjust   *inventory.AdjustUseCase
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	err := store.Run(context.Background(), func(repos ports.Repositories) error {
		if err := repos.Items.Create(context.Background(), &entity.Item{ID: itemPan, SKU: "PAN-01", Name: "Pan", UnitMeasure: "und", Sellable: true}); err != nil {
			return err
		}
		if err := repos.Locations.Create(context.Background(), &entity.Location{ID: locCentro, Code: "CEN", Name: "Centro"}); err != nil {
			return err
		}
		return repos.Locations.Create(context.Background(), &entity.Location{ID: locNorte, Code: "NOR", Name: "Norte"})
	})
	require.NoError(t, err)

	ledger := inventory.NewLedger()
	notifier := &recordingNotifier{}
	return &fixture{
		store:    store,
		ledger:   ledger,
		query:    inventory.NewQueryUseCase(store),
		transfer: inventory.NewTransferUseCase(store, ledger, notifier),
		adjust:   inventory.NewAdjustUseCase(store, ledger, notifier),
		notifier: notifier,
	}
}

func (f *fixture) stock(t *testing.T, itemID, locationID, qty string) {
	t.Helper()
	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{
		ItemID: itemID, LocationID: locationID, Delta: dec(qty), Notes: "saldo inicial", Actor: actor,
	})
	require.NoError(t, err)
}

func (f *fixture) qty(t *testing.T, itemID, locationID string) decimal.Decimal {
	t.Helper()
	q, err := f.query.GetQuantity(context.Background(), itemID, locationID)
	require.NoError(t, err)
	return q
}

func (f *fixture) assertBalanced(t *testing.T, itemID, locationID string) {
	t.Helper()
	rec, err := f.query.Reconcile(context.Background(), itemID, locationID)
	require.NoError(t, err)
	assert.True(t, rec.Balanced, "entrada %s vs historial %s", rec.EntryQuantity, rec.LedgerNet)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestGetQuantity_SinEntradaEsCero(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.qty(t, itemPan, locCentro).IsZero())
}

func TestGetQuantity_ItemInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.query.GetQuantity(context.Background(), "no-existe", locCentro)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerApply_SalidaSinStockFallaSinEfectos(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "5")

	err := f.store.Run(context.Background(), func(repos ports.Repositories) error {
		_, err := f.ledger.Apply(context.Background(), repos, inventory.MovementInput{
			ItemID: itemPan, FromLocationID: locCentro, Quantity: dec("6"), Kind: entity.MovementSaleOrder,
		})
		return err
	})

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "Pan", stockErr.Shortages[0].ItemName)
	assert.True(t, stockErr.Shortages[0].Available.Equal(dec("5")))
	assert.True(t, f.qty(t, itemPan, locCentro).Equal(dec("5")))
}

func TestLedgerApply_ValidaEntrada(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   inventory.MovementInput
		want error
	}{
		{"cantidad cero", inventory.MovementInput{ItemID: itemPan, ToLocationID: locCentro, Quantity: decimal.Zero, Kind: entity.MovementAdjustment}, domain.ErrInvalidInput},
		{"cantidad negativa", inventory.MovementInput{ItemID: itemPan, ToLocationID: locCentro, Quantity: dec("-1"), Kind: entity.MovementAdjustment}, domain.ErrInvalidInput},
		{"sin locales", inventory.MovementInput{ItemID: itemPan, Quantity: dec("1"), Kind: entity.MovementAdjustment}, domain.ErrInvalidInput},
		{"mismo local", inventory.MovementInput{ItemID: itemPan, FromLocationID: locCentro, ToLocationID: locCentro, Quantity: dec("1"), Kind: entity.MovementTransfer}, domain.ErrSameLocation},
		{"tipo desconocido", inventory.MovementInput{ItemID: itemPan, ToLocationID: locCentro, Quantity: dec("1"), Kind: "GIFT"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.store.Run(context.Background(), func(repos ports.Repositories) error {
				_, err := f.ledger.Apply(context.Background(), repos, tc.in)
				return err
			})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLedger_ReconciliacionTrasVariasOperaciones(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "100")
	_, err := f.transfer.Transfer(context.Background(), inventory.TransferInput{
		ItemID: itemPan, FromLocationID: locCentro, ToLocationID: locNorte, Quantity: dec("30"), Actor: actor,
	})
	require.NoError(t, err)
	_, err = f.adjust.Adjust(context.Background(), inventory.AdjustInput{ItemID: itemPan, LocationID: locNorte, Delta: dec("-2.5"), Actor: actor})
	require.NoError(t, err)

	f.assertBalanced(t, itemPan, locCentro)
	f.assertBalanced(t, itemPan, locNorte)
	assert.True(t, f.qty(t, itemPan, locNorte).Equal(dec("27.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ConservaTotalYDevuelveAntesDespues(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "50")
	f.stock(t, itemPan, locNorte, "5")

	res, err := f.transfer.Transfer(context.Background(), inventory.TransferInput{
		ItemID: itemPan, FromLocationID: locCentro, ToLocationID: locNorte, Quantity: dec("20"), Actor: actor,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.MovementID)
	assert.True(t, res.Source.Before.Equal(dec("50")))
	assert.True(t, res.Source.After.Equal(dec("30")))
	assert.True(t, res.Destination.Before.Equal(dec("5")))
	assert.True(t, res.Destination.After.Equal(dec("25")))

	total := f.qty(t, itemPan, locCentro).Add(f.qty(t, itemPan, locNorte))
	assert.True(t, total.Equal(dec("55")), "la suma entre locales no cambia")

	movs, err := f.query.ListMovements(context.Background(), repository.MovementFilter{Kind: entity.MovementTransfer})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, locCentro, movs[0].FromLocationID)
	assert.Equal(t, locNorte, movs[0].ToLocationID)
	assert.Len(t, f.notifier.movements, 3, "dos saldos iniciales y el traslado")
}

func TestTransfer_MismoLocal(t *testing.T) {
	f := newFixture(t)
	_, err := f.transfer.Transfer(context.Background(), inventory.TransferInput{
		ItemID: itemPan, FromLocationID: locCentro, ToLocationID: locCentro, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrSameLocation)
}

func TestTransfer_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "3")

	_, err := f.transfer.Transfer(context.Background(), inventory.TransferInput{
		ItemID: itemPan, FromLocationID: locCentro, ToLocationID: locNorte, Quantity: dec("4"),
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.qty(t, itemPan, locCentro).Equal(dec("3")))
	assert.True(t, f.qty(t, itemPan, locNorte).IsZero())
}

func TestTransfer_LocalDestinoInexistente(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "3")
	_, err := f.transfer.Transfer(context.Background(), inventory.TransferInput{
		ItemID: itemPan, FromLocationID: locCentro, ToLocationID: "loc-x", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes y consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestSetQuantity_RegistraDiferencia(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "10")

	res, err := f.adjust.SetQuantity(context.Background(), inventory.SetQuantityInput{
		ItemID: itemPan, LocationID: locCentro, Quantity: dec("7"), Notes: "conteo físico", Actor: actor,
	})
	require.NoError(t, err)
	assert.True(t, res.Before.Equal(dec("10")))
	assert.True(t, res.After.Equal(dec("7")))

	movs, err := f.query.ListMovements(context.Background(), repository.MovementFilter{ItemID: itemPan})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, locCentro, movs[0].FromLocationID, "el más reciente es la salida por ajuste")
	assert.True(t, movs[0].Quantity.Equal(dec("3")))
	f.assertBalanced(t, itemPan, locCentro)
}

func TestSetQuantity_SinDiferenciaNoRegistra(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "10")

	res, err := f.adjust.SetQuantity(context.Background(), inventory.SetQuantityInput{ItemID: itemPan, LocationID: locCentro, Quantity: dec("10")})
	require.NoError(t, err)
	assert.Empty(t, res.MovementID)
	assert.Len(t, f.notifier.movements, 1)
}

func TestAdjust_DeltaCeroInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.adjust.Adjust(context.Background(), inventory.AdjustInput{ItemID: itemPan, LocationID: locCentro, Delta: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_FiltraLocalComoOrigenODestino(t *testing.T) {
	f := newFixture(t)
	f.stock(t, itemPan, locCentro, "10")
	_, err := f.transfer.Transfer(context.Background(), inventory.TransferInput{
		ItemID: itemPan, FromLocationID: locCentro, ToLocationID: locNorte, Quantity: dec("4"),
	})
	require.NoError(t, err)

	norte, err := f.query.ListMovements(context.Background(), repository.MovementFilter{LocationID: locNorte})
	require.NoError(t, err)
	assert.Len(t, norte, 1)

	centro, err := f.query.ListMovements(context.Background(), repository.MovementFilter{LocationID: locCentro})
	require.NoError(t, err)
	assert.Len(t, centro, 2)

	page, err := f.query.ListMovements(context.Background(), repository.MovementFilter{LocationID: locCentro, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, entity.MovementAdjustment, page[0].Kind)

	_, err = f.query.ListMovements(context.Background(), repository.MovementFilter{Kind: "OTRO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
