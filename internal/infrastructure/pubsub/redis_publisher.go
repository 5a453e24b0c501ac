// Package pubsub fans negotiation events out across service instances.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

// LocalDeliverer hands an event to the sessions connected to this instance.
type LocalDeliverer interface {
	Deliver(recipients []string, event entities.NegotiationEvent)
}

type envelope struct {
	Recipients []string                  `json:"recipients"`
	Event      entities.NegotiationEvent `json:"event"`
}

// RedisPublisher publishes every event on one channel. Each instance,
// including the publisher, receives it in Run and delivers to its own sessions,
// so a user connected anywhere gets exactly one copy.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	local   LocalDeliverer
}

var _ interfaces.IEventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(rdb *redis.Client, channel string, local LocalDeliverer) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, local: local}
}

func (p *RedisPublisher) Publish(ctx context.Context, recipients []string, event entities.NegotiationEvent) error {
	payload, err := json.Marshal(envelope{Recipients: recipients, Event: event})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Run subscribes to the channel and blocks until ctx is done.
func (p *RedisPublisher) Run(ctx context.Context) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", p.channel, err)
	}
	log.Printf("[pubsub][redis] subscribed channel=%s", p.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			env, err := decodeEnvelope([]byte(msg.Payload))
			if err != nil {
				log.Printf("[pubsub][redis] dropping malformed message channel=%s err=%v", p.channel, err)
				continue
			}
			p.local.Deliver(env.Recipients, env.Event)
		}
	}
}

func decodeEnvelope(payload []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, err
	}
	if env.Event.OfferID == "" || len(env.Recipients) == 0 {
		return envelope{}, fmt.Errorf("envelope without offer or recipients")
	}
	return env, nil
}
