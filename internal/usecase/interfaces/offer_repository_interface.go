package interfaces

import (
	"context"
	"errors"

	"offer_negotiation/internal/domain/entities"
)

// ErrOfferConflict is returned by Create when an offer with the same id exists.
var ErrOfferConflict = errors.New("offer id already taken")

// IOfferRepository stores the participant pair and lifecycle status of offers.
//
// GetByID and UpdateStatus return a zero-value offer (empty ID) when the offer
// does not exist.
type IOfferRepository interface {
	Create(ctx context.Context, o entities.Offer) (entities.Offer, error)
	GetByID(ctx context.Context, id string) (entities.Offer, error)
	UpdateStatus(ctx context.Context, id string, status entities.OfferStatus) (entities.Offer, error)
}
