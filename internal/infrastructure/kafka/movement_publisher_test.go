package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
)

type fakeWriter struct {
	mu     sync.Mutex
	err    error
	calls  int
	sent   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.sent = append(w.sent, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func movement(id, item string) *entity.StockMovement {
	return &entity.StockMovement{
		ID: id, ItemID: item, FromLocationID: "loc-planta", ToLocationID: "loc-tienda",
		Quantity: decimal.RequireFromString("2.5"), Kind: entity.MovementTransfer, Actor: "u1",
		CreatedAt: time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
	}
}

func TestMovementsCommitted_UnMensajePorMovimientoConClaveDeItem(t *testing.T) {
	w := &fakeWriter{}
	p := NewMovementPublisher(w, nil)

	p.MovementsCommitted(context.Background(), []*entity.StockMovement{movement("m1", "pan"), movement("m2", "torta")})

	require.Len(t, w.sent, 2)
	assert.Equal(t, "pan", string(w.sent[0].Key))
	assert.Equal(t, "torta", string(w.sent[1].Key))

	var ev MovementEvent
	require.NoError(t, json.Unmarshal(w.sent[0].Value, &ev))
	assert.Equal(t, "m1", ev.MovementID)
	assert.Equal(t, "TRANSFER", ev.Kind)
	assert.True(t, decimal.RequireFromString("2.5").Equal(ev.Quantity))
	assert.Equal(t, "loc-planta", ev.FromLocationID)
}

func TestMovementsCommitted_SinMovimientosNoEscribe(t *testing.T) {
	w := &fakeWriter{}
	NewMovementPublisher(w, nil).MovementsCommitted(context.Background(), nil)
	assert.Zero(t, w.calls)
}

func TestMovementsCommitted_CircuitBreakerSeAbreTrasFallos(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := NewMovementPublisher(w, nil)

	for i := 0; i < 7; i++ {
		p.MovementsCommitted(context.Background(), []*entity.StockMovement{movement("m", "pan")})
	}
	assert.Equal(t, 5, w.calls)
	assert.Equal(t, gobreaker.StateOpen, p.cb.State())
}

func TestMovementsCommitted_ContextoCanceladoNoImpidePublicar(t *testing.T) {
	w := &fakeWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewMovementPublisher(w, nil).MovementsCommitted(ctx, []*entity.StockMovement{movement("m1", "pan")})
	assert.Len(t, w.sent, 1)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, NewMovementPublisher(w, nil).Close())
	assert.True(t, w.closed)
}
