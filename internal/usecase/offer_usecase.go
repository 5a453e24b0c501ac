package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// IOfferUseCase registers the participant pair of an offer and reads it back.
// Negotiation commands never create offers; an offer must be registered first.
type IOfferUseCase interface {
	RegisterOffer(ctx context.Context, offerID, seekerID, providerID string) (entities.Offer, error)
	GetOffer(ctx context.Context, offerID, userID string) (entities.Offer, error)
}

type OfferUseCase struct {
	repo interfaces.IOfferRepository
}

var _ IOfferUseCase = (*OfferUseCase)(nil)

func NewOfferUseCase(repo interfaces.IOfferRepository) *OfferUseCase {
	return &OfferUseCase{repo: repo}
}

// RegisterOffer stores a new open offer. offerID is optional; a UUID is
// generated when it is blank.
func (u *OfferUseCase) RegisterOffer(ctx context.Context, offerID, seekerID, providerID string) (entities.Offer, error) {
	offerID = strings.TrimSpace(offerID)
	seekerID = strings.TrimSpace(seekerID)
	providerID = strings.TrimSpace(providerID)
	if seekerID == "" || providerID == "" || seekerID == providerID {
		return entities.Offer{}, ErrInvalidParticipants
	}

	if offerID == "" {
		offerID = uuid.NewString()
	} else if existing, err := u.repo.GetByID(ctx, offerID); err != nil {
		return entities.Offer{}, err
	} else if existing.ID != "" {
		return entities.Offer{}, ErrOfferAlreadyExists
	}

	now := time.Now().UTC()
	o := entities.Offer{
		ID:         offerID,
		SeekerID:   seekerID,
		ProviderID: providerID,
		Status:     entities.OfferStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created, err := u.repo.Create(ctx, o)
	if errors.Is(err, interfaces.ErrOfferConflict) {
		return entities.Offer{}, ErrOfferAlreadyExists
	}
	return created, err
}

// GetOffer returns the offer only to one of its two participants.
func (u *OfferUseCase) GetOffer(ctx context.Context, offerID, userID string) (entities.Offer, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return entities.Offer{}, ErrInvalidOfferID
	}

	o, err := u.repo.GetByID(ctx, offerID)
	if err != nil {
		return entities.Offer{}, err
	}
	if o.ID == "" {
		return entities.Offer{}, ErrOfferNotFound
	}
	if _, ok := o.PartyOf(userID); !ok {
		return entities.Offer{}, ErrUnauthorizedParty
	}
	return o, nil
}
