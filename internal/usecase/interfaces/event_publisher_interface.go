package interfaces

import (
	"context"

	"offer_negotiation/internal/domain/entities"
)

// IEventPublisher delivers negotiation events to the sessions of the given
// users, on this instance or across instances.
type IEventPublisher interface {
	Publish(ctx context.Context, recipients []string, event entities.NegotiationEvent) error
}
