package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"
)

// NegotiationAction is an input to the negotiation state machine.
type NegotiationAction string

const (
	ActionEdit    NegotiationAction = "edit"
	ActionConfirm NegotiationAction = "confirm"
	ActionReset   NegotiationAction = "reset"
	ActionAccept  NegotiationAction = "accept"
	ActionCancel  NegotiationAction = "cancel"
)

// transitions lists the actions each phase admits. The table is symmetric in
// the parties: nothing here depends on who issues the action.
var transitions = map[entities.NegotiationPhase]map[NegotiationAction]bool{
	entities.PhaseDraft: {
		ActionEdit:   true,
		ActionCancel: true,
	},
	entities.PhaseProposed: {
		ActionEdit:    true,
		ActionConfirm: true,
		ActionReset:   true,
		ActionCancel:  true,
	},
	entities.PhaseMutuallyConfirmed: {
		ActionEdit:    true,
		ActionConfirm: true,
		ActionReset:   true,
		ActionAccept:  true,
		ActionCancel:  true,
	},
	entities.PhaseAccepted:  {},
	entities.PhaseCancelled: {},
}

// CheckTransition reports whether action is admitted in phase, returning the
// error a caller should see when it is not.
func CheckTransition(phase entities.NegotiationPhase, action NegotiationAction) error {
	if transitions[phase][action] {
		return nil
	}
	switch {
	case phase.IsTerminal():
		return ErrNegotiationTerminal
	case phase == entities.PhaseDraft:
		return ErrNegotiationNotFound
	case action == ActionAccept:
		return ErrNotMutuallyConfirmed
	}
	return fmt.Errorf("action %q not allowed in phase %q", action, phase)
}

// AllowedActions lists the actions admitted in phase, in a stable order.
func AllowedActions(phase entities.NegotiationPhase) []NegotiationAction {
	out := []NegotiationAction{}
	for _, a := range []NegotiationAction{ActionEdit, ActionConfirm, ActionReset, ActionAccept, ActionCancel} {
		if transitions[phase][a] {
			out = append(out, a)
		}
	}
	return out
}

// Outcome is the result of one coordinated command.
type Outcome struct {
	State entities.NegotiationState
	Offer entities.Offer
	Phase entities.NegotiationPhase
	// Mutated is false when the command was accepted but changed nothing
	// (a repeated confirm). No event is published in that case.
	Mutated bool
	// BecameAcceptable is true when this command flipped canAcceptOffer on.
	BecameAcceptable bool
}

type IConfirmationCoordinator interface {
	Phase(ctx context.Context, offer entities.Offer) (entities.NegotiationPhase, error)
	ProposeTerms(ctx context.Context, offer entities.Offer, actor entities.Actor, terms entities.NegotiationTerms) (Outcome, error)
	Confirm(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error)
	ResetConfirmations(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error)
	Accept(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error)
	Cancel(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error)
}

type ConfirmationCoordinator struct {
	store  INegotiationStore
	offers interfaces.IOfferRepository
}

var _ IConfirmationCoordinator = (*ConfirmationCoordinator)(nil)

func NewConfirmationCoordinator(store INegotiationStore, offers interfaces.IOfferRepository) *ConfirmationCoordinator {
	return &ConfirmationCoordinator{store: store, offers: offers}
}

func (c *ConfirmationCoordinator) Phase(ctx context.Context, offer entities.Offer) (entities.NegotiationPhase, error) {
	_, phase, err := c.current(ctx, offer)
	return phase, err
}

func (c *ConfirmationCoordinator) ProposeTerms(ctx context.Context, offer entities.Offer, actor entities.Actor, terms entities.NegotiationTerms) (Outcome, error) {
	if err := admit(offer, ActionEdit); err != nil {
		return Outcome{}, err
	}
	st, err := c.store.ApplyEdit(ctx, offer.ID, actor, terms)
	if err != nil {
		return Outcome{}, err
	}
	return c.outcome(offer, st, true, false), nil
}

func (c *ConfirmationCoordinator) Confirm(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error) {
	if err := admit(offer, ActionConfirm); err != nil {
		return Outcome{}, err
	}
	st, changed, err := c.store.Confirm(ctx, offer.ID, actor)
	if err != nil {
		return Outcome{}, err
	}
	became := changed && st.CanAcceptOffer()
	if became {
		log.Printf("[negotiation][coordinator] mutually confirmed offer_id=%s version=%d", offer.ID, st.Version)
	}
	return c.outcome(offer, st, changed, became), nil
}

func (c *ConfirmationCoordinator) ResetConfirmations(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error) {
	if err := admit(offer, ActionReset); err != nil {
		return Outcome{}, err
	}
	st, err := c.store.Reset(ctx, offer.ID, actor)
	if err != nil {
		return Outcome{}, err
	}
	return c.outcome(offer, st, true, false), nil
}

// Accept moves a mutually confirmed negotiation to accepted and records it on
// the offer. The consent check and the archive happen atomically in the store.
func (c *ConfirmationCoordinator) Accept(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error) {
	if !actor.Party.Valid() {
		return Outcome{}, ErrUnauthorizedParty
	}
	if err := admit(offer, ActionAccept); err != nil {
		return Outcome{}, err
	}
	st, err := c.store.Close(ctx, offer.ID, entities.OfferStatusAccepted, true)
	if err != nil {
		return Outcome{}, err
	}
	updated, err := c.finishOffer(ctx, offer, entities.OfferStatusAccepted)
	if err != nil {
		return Outcome{}, err
	}
	log.Printf("[negotiation][coordinator] offer accepted offer_id=%s by=%s", offer.ID, actor.Party)
	return c.outcome(updated, st, true, false), nil
}

// Cancel withdraws the offer from any non-terminal phase, including draft. The
// negotiation is closed first so that an edit racing the offer update is
// refused by the store.
func (c *ConfirmationCoordinator) Cancel(ctx context.Context, offer entities.Offer, actor entities.Actor) (Outcome, error) {
	if !actor.Party.Valid() {
		return Outcome{}, ErrUnauthorizedParty
	}
	if err := admit(offer, ActionCancel); err != nil {
		return Outcome{}, err
	}
	st, err := c.store.Close(ctx, offer.ID, entities.OfferStatusCancelled, false)
	if err != nil {
		return Outcome{}, err
	}
	updated, err := c.finishOffer(ctx, offer, entities.OfferStatusCancelled)
	if err != nil {
		return Outcome{}, err
	}
	log.Printf("[negotiation][coordinator] offer cancelled offer_id=%s by=%s", offer.ID, actor.Party)
	return c.outcome(updated, st, true, false), nil
}

func (c *ConfirmationCoordinator) finishOffer(ctx context.Context, offer entities.Offer, status entities.OfferStatus) (entities.Offer, error) {
	updated, err := c.offers.UpdateStatus(ctx, offer.ID, status)
	if err != nil {
		log.Printf("[negotiation][coordinator] offer status update failed offer_id=%s status=%s err=%v", offer.ID, status, err)
		return entities.Offer{}, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if updated.ID == "" {
		return entities.Offer{}, ErrOfferNotFound
	}
	return updated, nil
}

func (c *ConfirmationCoordinator) current(ctx context.Context, offer entities.Offer) (entities.NegotiationState, entities.NegotiationPhase, error) {
	st, err := c.store.Get(ctx, offer.ID)
	if err != nil && !errors.Is(err, ErrNegotiationNotFound) {
		return entities.NegotiationState{}, "", err
	}
	return st, phaseOf(offer, st), nil
}

func (c *ConfirmationCoordinator) outcome(offer entities.Offer, st entities.NegotiationState, mutated, became bool) Outcome {
	return Outcome{
		State:            st,
		Offer:            offer,
		Phase:            phaseOf(offer, st),
		Mutated:          mutated,
		BecameAcceptable: became,
	}
}

// admit rejects commands the offer record alone rules out. Everything that
// depends on the negotiation itself is decided by the store under its lock.
func admit(offer entities.Offer, action NegotiationAction) error {
	if !offer.Status.IsTerminal() {
		return nil
	}
	return CheckTransition(phaseOf(offer, entities.NegotiationState{}), action)
}

// phaseOf combines the offer record and the negotiation state. A cancelled
// offer may have no negotiation at all.
func phaseOf(offer entities.Offer, st entities.NegotiationState) entities.NegotiationPhase {
	if st.OfferID == "" {
		switch offer.Status {
		case entities.OfferStatusAccepted:
			return entities.PhaseAccepted
		case entities.OfferStatusCancelled:
			return entities.PhaseCancelled
		}
	}
	return st.Phase()
}
