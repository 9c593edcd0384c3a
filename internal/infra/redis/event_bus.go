package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventBus carries solve events between instances over Redis pub/sub so that every
// instance's live leaderboard subscribers refresh, not only those attached to the writer.
type EventBus struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewEventBus(client *redis.Client, channel string, log *zap.Logger) *EventBus {
	return &EventBus{client: client, channel: channel, log: log}
}

func (b *EventBus) Publish(ctx context.Context, event domain.SolveEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode solve event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Subscribe confirms the subscription before returning, so events published afterwards are
// delivered. The channel closes when ctx is done or cancel is called.
func (b *EventBus) Subscribe(ctx context.Context) (<-chan domain.SolveEvent, func(), error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan domain.SolveEvent, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event domain.SolveEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warn("dropping malformed solve event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, cancel, nil
}

// Forward relays every event from Redis into local until ctx is done.
func (b *EventBus) Forward(ctx context.Context, local app.EventPublisher) error {
	events, cancel, err := b.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	for event := range events {
		if err := local.Publish(ctx, event); err != nil {
			b.log.Warn("forward solve event", zap.Int64("userId", event.UserID), zap.Error(err))
		}
	}
	return ctx.Err()
}
