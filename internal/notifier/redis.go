package notifier

import (
	"context"
	"fmt"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events on a Redis channel so every API replica
// can relay them to its own clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// compile-time check: *RedisPublisher must satisfy port.Notifier
var _ port.Notifier = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Broadcast(ctx context.Context, eventType string, data any) error {
	msg, err := Encode(eventType, data)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Relay feeds every message published on channel into hub until ctx is done.
// ready is closed once the subscription is confirmed.
func Relay(ctx context.Context, client *redis.Client, channel string, hub *Hub, ready chan<- struct{}) error {
	sub := client.Subscribe(ctx, channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %q: %w", channel, err)
	}
	if ready != nil {
		close(ready)
	}
	logger.Infof(ctx, "relaying events from redis channel %q", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			hub.Deliver(ctx, []byte(m.Payload))
		}
	}
}
