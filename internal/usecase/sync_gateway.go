package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"
)

// CommandType names an inbound negotiation command. The values are the
// WebSocket frame types.
type CommandType string

const (
	CommandGetNegotiation     CommandType = "get_negotiation"
	CommandGetHistory         CommandType = "get_history"
	CommandProposeTerms       CommandType = "propose_terms"
	CommandConfirm            CommandType = "confirm"
	CommandResetConfirmations CommandType = "reset_confirmations"
	CommandAcceptOffer        CommandType = "accept_offer"
	CommandCancelOffer        CommandType = "cancel_offer"
)

// Command is the transport-agnostic form of a party request. UserID is filled
// by the transport from the authenticated session, never from the payload.
type Command struct {
	Type     CommandType                `json:"type"`
	OfferID  string                     `json:"offer_id"`
	UserID   string                     `json:"-"`
	Terms    *entities.NegotiationTerms `json:"terms,omitempty"`
	Since    *time.Time                 `json:"since,omitempty"`
	AfterSeq *int64                     `json:"after_seq,omitempty"`
}

// HistoryQuery selects an incremental slice of the ledger. AfterSeq wins when
// both are set; neither means the full history.
type HistoryQuery struct {
	Since    *time.Time
	AfterSeq *int64
}

// NegotiationView is what a participant sees after a read or a command.
type NegotiationView struct {
	Offer  entities.Offer
	State  entities.NegotiationState
	Phase  entities.NegotiationPhase
	Viewer entities.Party
}

// Reply is the result of a dispatched command. History is set for
// get_history, View for everything else.
type Reply struct {
	Type    CommandType
	OfferID string
	View    *NegotiationView
	History []entities.NegotiationHistoryEntry
}

type ISyncGateway interface {
	GetNegotiation(ctx context.Context, offerID, userID string) (NegotiationView, error)
	GetHistory(ctx context.Context, offerID, userID string, q HistoryQuery) ([]entities.NegotiationHistoryEntry, error)
	ProposeTerms(ctx context.Context, offerID, userID string, terms entities.NegotiationTerms) (NegotiationView, error)
	Confirm(ctx context.Context, offerID, userID string) (NegotiationView, error)
	ResetConfirmations(ctx context.Context, offerID, userID string) (NegotiationView, error)
	AcceptOffer(ctx context.Context, offerID, userID string) (NegotiationView, error)
	CancelOffer(ctx context.Context, offerID, userID string) (NegotiationView, error)
	Dispatch(ctx context.Context, cmd Command) (Reply, error)
}

// SyncGateway is the boundary between party sessions and the negotiation core.
// It authorizes the caller against the offer's two participants, runs the
// command and pushes the committed state to both of them.
type SyncGateway struct {
	offers      interfaces.IOfferRepository
	store       INegotiationStore
	coordinator IConfirmationCoordinator
	publisher   interfaces.IEventPublisher
	now         func() time.Time
	order       *offerLocks
}

var _ ISyncGateway = (*SyncGateway)(nil)

func NewSyncGateway(offers interfaces.IOfferRepository, store INegotiationStore, coordinator IConfirmationCoordinator, publisher interfaces.IEventPublisher) *SyncGateway {
	return &SyncGateway{
		offers:      offers,
		store:       store,
		coordinator: coordinator,
		publisher:   publisher,
		now:         time.Now,
		order:       newOfferLocks(),
	}
}

func (g *SyncGateway) GetNegotiation(ctx context.Context, offerID, userID string) (NegotiationView, error) {
	offer, actor, err := g.resolve(ctx, offerID, userID)
	if err != nil {
		return NegotiationView{}, err
	}
	st, err := g.store.Get(ctx, offer.ID)
	if err != nil {
		return NegotiationView{}, err
	}
	return NegotiationView{Offer: offer, State: st, Phase: phaseOf(offer, st), Viewer: actor.Party}, nil
}

func (g *SyncGateway) GetHistory(ctx context.Context, offerID, userID string, q HistoryQuery) ([]entities.NegotiationHistoryEntry, error) {
	offer, _, err := g.resolve(ctx, offerID, userID)
	if err != nil {
		return nil, err
	}
	switch {
	case q.AfterSeq != nil:
		return g.store.HistoryAfter(ctx, offer.ID, *q.AfterSeq)
	case q.Since != nil:
		return g.store.HistorySince(ctx, offer.ID, *q.Since)
	}
	return g.store.History(ctx, offer.ID)
}

func (g *SyncGateway) ProposeTerms(ctx context.Context, offerID, userID string, terms entities.NegotiationTerms) (NegotiationView, error) {
	return g.mutate(ctx, CommandProposeTerms, offerID, userID, func(offer entities.Offer, actor entities.Actor) (Outcome, error) {
		return g.coordinator.ProposeTerms(ctx, offer, actor, terms)
	})
}

func (g *SyncGateway) Confirm(ctx context.Context, offerID, userID string) (NegotiationView, error) {
	return g.mutate(ctx, CommandConfirm, offerID, userID, func(offer entities.Offer, actor entities.Actor) (Outcome, error) {
		return g.coordinator.Confirm(ctx, offer, actor)
	})
}

func (g *SyncGateway) ResetConfirmations(ctx context.Context, offerID, userID string) (NegotiationView, error) {
	return g.mutate(ctx, CommandResetConfirmations, offerID, userID, func(offer entities.Offer, actor entities.Actor) (Outcome, error) {
		return g.coordinator.ResetConfirmations(ctx, offer, actor)
	})
}

func (g *SyncGateway) AcceptOffer(ctx context.Context, offerID, userID string) (NegotiationView, error) {
	return g.mutate(ctx, CommandAcceptOffer, offerID, userID, func(offer entities.Offer, actor entities.Actor) (Outcome, error) {
		return g.coordinator.Accept(ctx, offer, actor)
	})
}

func (g *SyncGateway) CancelOffer(ctx context.Context, offerID, userID string) (NegotiationView, error) {
	return g.mutate(ctx, CommandCancelOffer, offerID, userID, func(offer entities.Offer, actor entities.Actor) (Outcome, error) {
		return g.coordinator.Cancel(ctx, offer, actor)
	})
}

func (g *SyncGateway) Dispatch(ctx context.Context, cmd Command) (Reply, error) {
	reply := Reply{Type: cmd.Type, OfferID: cmd.OfferID}

	var (
		view NegotiationView
		err  error
	)
	switch cmd.Type {
	case CommandGetHistory:
		reply.History, err = g.GetHistory(ctx, cmd.OfferID, cmd.UserID, HistoryQuery{Since: cmd.Since, AfterSeq: cmd.AfterSeq})
		return reply, err
	case CommandGetNegotiation:
		view, err = g.GetNegotiation(ctx, cmd.OfferID, cmd.UserID)
	case CommandProposeTerms:
		if cmd.Terms == nil {
			return reply, fmt.Errorf("%w: terms are required", ErrInvalidTerms)
		}
		view, err = g.ProposeTerms(ctx, cmd.OfferID, cmd.UserID, *cmd.Terms)
	case CommandConfirm:
		view, err = g.Confirm(ctx, cmd.OfferID, cmd.UserID)
	case CommandResetConfirmations:
		view, err = g.ResetConfirmations(ctx, cmd.OfferID, cmd.UserID)
	case CommandAcceptOffer:
		view, err = g.AcceptOffer(ctx, cmd.OfferID, cmd.UserID)
	case CommandCancelOffer:
		view, err = g.CancelOffer(ctx, cmd.OfferID, cmd.UserID)
	default:
		return reply, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		return reply, err
	}
	reply.View = &view
	return reply, nil
}

func (g *SyncGateway) mutate(ctx context.Context, cmd CommandType, offerID, userID string, run func(entities.Offer, entities.Actor) (Outcome, error)) (NegotiationView, error) {
	offer, actor, err := g.resolve(ctx, offerID, userID)
	if err != nil {
		return NegotiationView{}, err
	}
	// Held until the event is handed to the publisher, so this instance emits
	// events for one offer in commit order.
	unlock := g.order.lock(offer.ID)
	defer unlock()

	out, err := run(offer, actor)
	if err != nil {
		log.Printf("[negotiation][gateway] command rejected cmd=%s offer_id=%s party=%s err=%v", cmd, offer.ID, actor.Party, err)
		return NegotiationView{}, err
	}
	if out.Mutated {
		g.broadcast(ctx, out)
	}
	return NegotiationView{Offer: out.Offer, State: out.State, Phase: out.Phase, Viewer: actor.Party}, nil
}

// broadcast runs only after a durable commit. Delivery is best effort: the
// command already succeeded and clients can resync with get_history.
func (g *SyncGateway) broadcast(ctx context.Context, out Outcome) {
	if g.publisher == nil {
		return
	}
	event := entities.NegotiationEvent{
		Type:       entities.EventNegotiationUpdated,
		OfferID:    out.Offer.ID,
		State:      out.State,
		OccurredAt: g.now().UTC(),
	}
	if err := g.publisher.Publish(ctx, out.Offer.Participants(), event); err != nil {
		log.Printf("[negotiation][gateway] publish failed offer_id=%s version=%d err=%v", out.Offer.ID, out.State.Version, err)
	}
}

// offerLocks hands out one mutex per offer, dropping it once no command holds
// or waits on it.
type offerLocks struct {
	mu    sync.Mutex
	locks map[string]*offerLock
}

type offerLock struct {
	mu   sync.Mutex
	refs int
}

func newOfferLocks() *offerLocks {
	return &offerLocks{locks: make(map[string]*offerLock)}
}

func (l *offerLocks) lock(offerID string) func() {
	l.mu.Lock()
	ol, ok := l.locks[offerID]
	if !ok {
		ol = &offerLock{}
		l.locks[offerID] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.mu.Lock()
	return func() {
		ol.mu.Unlock()
		l.mu.Lock()
		ol.refs--
		if ol.refs == 0 {
			delete(l.locks, offerID)
		}
		l.mu.Unlock()
	}
}

// resolve loads the offer and maps userID to its party. Only the offer's
// seeker and provider pass.
func (g *SyncGateway) resolve(ctx context.Context, offerID, userID string) (entities.Offer, entities.Actor, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return entities.Offer{}, entities.Actor{}, ErrInvalidOfferID
	}
	offer, err := g.offers.GetByID(ctx, offerID)
	if err != nil {
		log.Printf("[negotiation][gateway] offer lookup failed offer_id=%s err=%v", offerID, err)
		return entities.Offer{}, entities.Actor{}, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if offer.ID == "" {
		return entities.Offer{}, entities.Actor{}, ErrOfferNotFound
	}
	party, ok := offer.PartyOf(userID)
	if !ok {
		log.Printf("[negotiation][gateway] unauthorized party offer_id=%s user_id=%s", offerID, userID)
		return entities.Offer{}, entities.Actor{}, ErrUnauthorizedParty
	}
	return offer, entities.Actor{Party: party, UserID: userID}, nil
}
