// Package messaging publica eventos de dominio en RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/pkg/logger"
)

// Event sobre enviado al exchange.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent envuelve payload en un Event.
func NewEvent(eventType, source string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", eventType, err)
	}
	return &Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Source:     source,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// Publisher publica en un exchange topic durable.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	source   string
	log      *logger.Logger
}

// NewPublisher conecta y declara el exchange.
func NewPublisher(url, exchange, source string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	log.Info().Str("exchange", exchange).Msg("conectado a RabbitMQ")
	return &Publisher{conn: conn, channel: ch, exchange: exchange, source: source, log: log}, nil
}

// Publish usa routingKey como tipo del evento.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	event, err := NewEvent(routingKey, p.source, payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publicar %s: %w", routingKey, err)
	}
	p.log.Debug().Str("routing_key", routingKey).Str("event_id", event.ID).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher descarta los eventos; se usa cuando no hay broker configurado.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// RecordingPublisher guarda los eventos publicados (pruebas).
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []Event
}

func (r *RecordingPublisher) Publish(_ context.Context, routingKey string, payload any) error {
	event, err := NewEvent(routingKey, "test", payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.Events = append(r.Events, *event)
	r.mu.Unlock()
	return nil
}

// Count eventos publicados con la routing key dada.
func (r *RecordingPublisher) Count(routingKey string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Type == routingKey {
			n++
		}
	}
	return n
}

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = NoopPublisher{}
	_ ports.EventPublisher = (*RecordingPublisher)(nil)
)
