package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisChannel subscribes to Redis pub/sub topics and forwards every message
// to the handler. Used for the seat-availability feed: lock and reservation
// changes are published per showtime and fanned out to connected clients.
type RedisChannel struct {
	client  redis.UniversalClient
	topics  []string
	handler func(topic, payload string)

	mu     sync.Mutex
	pubsub *redis.PubSub
}

func NewRedisChannel(client redis.UniversalClient, topics []string, handler func(topic, payload string)) *RedisChannel {
	return &RedisChannel{
		client:  client,
		topics:  topics,
		handler: handler,
	}
}

func (c *RedisChannel) Name() string {
	return "seat availability feed"
}

func (c *RedisChannel) Connect(ctx context.Context) (<-chan error, error) {
	pubsub := c.client.Subscribe(ctx, c.topics...)

	// Force the subscription round-trip so a dead broker fails here rather
	// than on the first missed message.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	c.mu.Lock()
	c.pubsub = pubsub
	c.mu.Unlock()

	closed := make(chan error, 1)

	go func() {
		for msg := range pubsub.Channel() {
			c.handler(msg.Channel, msg.Payload)
		}
		closed <- fmt.Errorf("subscription closed")
	}()

	return closed, nil
}

func (c *RedisChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pubsub == nil {
		return nil
	}

	err := c.pubsub.Close()
	c.pubsub = nil

	return err
}
