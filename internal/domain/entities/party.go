package entities

import (
	"errors"
	"strings"
)

var ErrInvalidParty = errors.New("invalid party")

// Party is the role a participant plays inside one offer's negotiation.
type Party string

const (
	PartySeeker   Party = "seeker"
	PartyProvider Party = "provider"
)

func ParseParty(raw string) (Party, error) {
	switch Party(strings.ToLower(strings.TrimSpace(raw))) {
	case PartySeeker:
		return PartySeeker, nil
	case PartyProvider:
		return PartyProvider, nil
	}
	return "", ErrInvalidParty
}

func (p Party) Valid() bool {
	return p == PartySeeker || p == PartyProvider
}

// Counterpart returns the other side of the negotiation.
func (p Party) Counterpart() Party {
	if p == PartySeeker {
		return PartyProvider
	}
	return PartySeeker
}

// Actor is a resolved participant: the role and the concrete user behind it.
type Actor struct {
	Party  Party
	UserID string
}
