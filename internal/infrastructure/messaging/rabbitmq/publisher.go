package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/baechuer/credential-service/internal/application/auth"
)

const (
	DefaultExchange = "auth.events"

	RoutingUserSignedUp = "auth.user.signed_up"

	// How long to wait for the broker's confirm when ctx has no deadline.
	publishWait = 2 * time.Second
	// A mandatory return precedes its ack on the wire but is delivered on a
	// separate Go channel; give it a moment to arrive.
	returnGrace = 50 * time.Millisecond
)

type Publisher struct {
	url      string
	exchange string
	log      zerolog.Logger

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

// NewPublisher dials the broker and declares a durable topic exchange.
// An empty exchange falls back to DefaultExchange.
func NewPublisher(url, exchange string, lg zerolog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		url:      url,
		exchange: exchange,
		log:      lg.With().Str("component", "rabbitmq").Str("exchange", exchange).Logger(),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

// ---- auth.EventPublisher ----

func (p *Publisher) PublishUserSignedUp(ctx context.Context, evt auth.UserSignedUpEvent) error {
	return p.publishJSON(ctx, RoutingUserSignedUp, evt)
}

// ---- internal ----

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
		return nil
	}
	p.log.Info().Msg("reconnecting")
	return p.connect()
}

func newPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now,
		Body:         body,
	}, nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	msg, err := newPublishing(payload, time.Now())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// Drop stale confirms/returns from an earlier timed-out publish.
drain:
	for {
		select {
		case <-p.confirmCh:
		case <-p.returnCh:
		default:
			break drain
		}
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, true, false, msg); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case ret := <-p.returnCh:
		return unroutable(routingKey, ret)

	case conf := <-p.confirmCh:
		select {
		case ret := <-p.returnCh:
			return unroutable(routingKey, ret)
		case <-time.After(returnGrace):
		}
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		p.log.Debug().Str("routing_key", routingKey).Str("message_id", msg.MessageId).Msg("published")
		return nil

	case <-ctx.Done():
		return fmt.Errorf("rabbitmq publish timeout: key=%s: %w", routingKey, ctx.Err())
	}
}

func unroutable(routingKey string, ret amqp.Return) error {
	return fmt.Errorf("rabbitmq unroutable: key=%s code=%d text=%s", routingKey, ret.ReplyCode, ret.ReplyText)
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
