// Package websocket keeps the live party sessions of this instance and moves
// frames between them and the negotiation gateway.
package websocket

import (
	"context"
	"log"
	"sync"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// FrameHandler answers one inbound frame from userID. A nil reply sends
// nothing back.
type FrameHandler func(ctx context.Context, userID string, frame []byte) []byte

// EventEncoder renders a negotiation event as an outbound frame.
type EventEncoder func(event entities.NegotiationEvent) ([]byte, error)

// Hub is the per-user connection registry. One user may hold several sessions
// (tabs, devices); events go to all of them.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[uuid.UUID]*Client

	handle FrameHandler
	encode EventEncoder
}

var _ interfaces.IEventPublisher = (*Hub)(nil)

func NewHub(handle FrameHandler, encode EventEncoder) *Hub {
	return &Hub{
		users:  make(map[string]map[uuid.UUID]*Client),
		handle: handle,
		encode: encode,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions, ok := h.users[c.UserID]
	if !ok {
		sessions = make(map[uuid.UUID]*Client)
		h.users[c.UserID] = sessions
	}
	sessions[c.ID] = c
	log.Printf("[websocket][hub] client connected client_id=%s user_id=%s", c.ID, c.UserID)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions, ok := h.users[c.UserID]
	if !ok {
		return
	}
	if _, ok := sessions[c.ID]; !ok {
		return
	}
	delete(sessions, c.ID)
	if len(sessions) == 0 {
		delete(h.users, c.UserID)
	}
	close(c.send)
	log.Printf("[websocket][hub] client disconnected client_id=%s user_id=%s", c.ID, c.UserID)
}

// Publish delivers on this instance only. It is the publisher used when no
// cross-instance fan-out is configured.
func (h *Hub) Publish(_ context.Context, recipients []string, event entities.NegotiationEvent) error {
	h.Deliver(recipients, event)
	return nil
}

// Deliver sends event to every session of every recipient connected here.
// Offline users simply miss it and resync through get_history.
func (h *Hub) Deliver(recipients []string, event entities.NegotiationEvent) {
	frame, err := h.encode(event)
	if err != nil {
		log.Printf("[websocket][hub] encode event failed offer_id=%s err=%v", event.OfferID, err)
		return
	}
	for _, userID := range recipients {
		h.sendToUser(userID, frame)
	}
}

func (h *Hub) sendToUser(userID string, frame []byte) {
	if userID == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.users[userID] {
		c.enqueue(frame)
	}
}

// Connected reports how many sessions userID holds on this instance.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
