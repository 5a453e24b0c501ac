package entities

import "time"

type EventType string

const (
	EventNegotiationUpdated EventType = "negotiation_updated"
)

// NegotiationEvent is pushed to both participants after a committed mutation.
// One instance publishes the events of an offer in commit order. Events relayed
// from other instances can interleave, so clients keep the highest
// State.Version seen and drop any event that is not newer.
type NegotiationEvent struct {
	Type       EventType        `json:"type"`
	OfferID    string           `json:"offer_id"`
	State      NegotiationState `json:"state"`
	OccurredAt time.Time        `json:"occurred_at"`
}
