package usecase

import "errors"

var (
	ErrNegotiationNotFound  = errors.New("negotiation not found")
	ErrNegotiationTerminal  = errors.New("offer is no longer negotiable")
	ErrNoOpEdit             = errors.New("proposed terms are identical to the current terms")
	ErrUnauthorizedParty    = errors.New("identity is not a participant of this offer")
	ErrPersistenceFailure   = errors.New("negotiation could not be durably committed")
	ErrNotMutuallyConfirmed = errors.New("both parties must confirm the current terms")
	ErrInvalidTerms         = errors.New("invalid terms")

	ErrOfferNotFound       = errors.New("offer not found")
	ErrOfferAlreadyExists  = errors.New("offer already exists")
	ErrInvalidOfferID      = errors.New("invalid offer_id")
	ErrInvalidParticipants = errors.New("invalid offer participants")
	ErrUnknownCommand      = errors.New("unknown negotiation command")
)
