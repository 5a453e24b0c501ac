package response

import (
	"time"

	"offer_negotiation/internal/domain/entities"
)

type OfferResponse struct {
	ID         string    `json:"id"`
	SeekerID   string    `json:"seeker_id"`
	ProviderID string    `json:"provider_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromOffer(o entities.Offer) OfferResponse {
	return OfferResponse{
		ID:         o.ID,
		SeekerID:   o.SeekerID,
		ProviderID: o.ProviderID,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
