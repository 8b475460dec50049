package realtime

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPChannel consumes a durable RabbitMQ queue and forwards each delivery
// to the handler. A handler error rejects the message without requeue so a
// poison message cannot loop. Used for the order-events feed (payment
// confirmations pushed to the POS and back office).
type AMQPChannel struct {
	url     string
	queue   string
	handler func(body []byte) error

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPChannel(url, queue string, handler func(body []byte) error) *AMQPChannel {
	return &AMQPChannel{
		url:     url,
		queue:   queue,
		handler: handler,
	}
}

func (c *AMQPChannel) Name() string {
	return "order events feed"
}

func (c *AMQPChannel) Connect(ctx context.Context) (<-chan error, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.Qos(50, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("consume: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	closed := make(chan error, 1)
	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))

	go func() {
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					closed <- fmt.Errorf("deliveries channel closed")
					return
				}
				if err := c.handler(d.Body); err != nil {
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			case amqpErr := <-connClosed:
				if amqpErr != nil {
					closed <- amqpErr
				} else {
					closed <- fmt.Errorf("connection closed")
				}
				return
			}
		}
	}()

	return closed, nil
}

func (c *AMQPChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil

	return err
}
