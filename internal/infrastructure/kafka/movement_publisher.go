// Package kafka publica los movimientos de stock confirmados para consumidores externos
// (reposición, tableros de planta).
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
	"github.com/jhoicas/panaderia-stock/internal/domain/entity"
	"github.com/jhoicas/panaderia-stock/pkg/logger"
)

// EventType valor de la cabecera ce-type de cada mensaje.
const EventType = "panaderia.stock.movement.committed"

// MessageWriter lo cumple *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MovementEvent cuerpo JSON publicado por cada movimiento.
type MovementEvent struct {
	MovementID     string          `json:"movement_id"`
	ItemID         string          `json:"item_id"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Kind           string          `json:"kind"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Actor          string          `json:"actor,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

var _ ports.MovementNotifier = (*MovementPublisher)(nil)

// MovementPublisher implementa ports.MovementNotifier. Los errores se registran y no se propagan:
// el stock ya quedó confirmado.
type MovementPublisher struct {
	writer  MessageWriter
	cb      *gobreaker.CircuitBreaker
	log     *logger.Logger
	timeout time.Duration
}

// NewWriter crea el writer del tópico. El balanceo por hash de la clave (ítem) mantiene el
// orden de los movimientos de un mismo ítem dentro de su partición.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
}

// NewMovementPublisher construye el publicador con su circuit breaker: tras 5 fallos seguidos
// deja de intentar durante 30 s.
func NewMovementPublisher(writer MessageWriter, log *logger.Logger) *MovementPublisher {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("kafka_publisher")
	settings := gobreaker.Settings{
		Name:        "kafka-stock-movements",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
		},
	}
	return &MovementPublisher{
		writer:  writer,
		cb:      gobreaker.NewCircuitBreaker(settings),
		log:     log,
		timeout: 5 * time.Second,
	}
}

// MovementsCommitted publica un mensaje por movimiento, con el ID del ítem como clave.
func (p *MovementPublisher) MovementsCommitted(ctx context.Context, movements []*entity.StockMovement) {
	if len(movements) == 0 {
		return
	}
	msgs := make([]kafka.Message, 0, len(movements))
	for _, m := range movements {
		msg, err := toMessage(m)
		if err != nil {
			p.log.Error().Err(err).Str("movement_id", m.ID).Msg("no se pudo serializar el movimiento")
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return
	}

	// la respuesta HTTP no debe cancelar una publicación ya iniciada
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msgs...)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		p.log.Warn().Int("movements", len(msgs)).Msg("circuit breaker abierto: movimientos sin publicar")
	case err != nil:
		p.log.Error().Err(err).Int("movements", len(msgs)).Msg("error publicando movimientos")
	default:
		p.log.Debug().Int("movements", len(msgs)).Msg("movimientos publicados")
	}
}

// Close cierra el writer.
func (p *MovementPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(m *entity.StockMovement) (kafka.Message, error) {
	body, err := json.Marshal(MovementEvent{
		MovementID:     m.ID,
		ItemID:         m.ItemID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Quantity:       m.Quantity,
		Kind:           string(m.Kind),
		ReferenceID:    m.ReferenceID,
		Actor:          m.Actor,
		OccurredAt:     m.CreatedAt,
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(m.ItemID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(EventType)},
			{Key: "ce-id", Value: []byte(m.ID)},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: m.CreatedAt,
	}, nil
}
