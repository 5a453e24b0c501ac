package entities

import "time"

// OfferStatus is shared by the offer record and its archived negotiation.
type OfferStatus string

const (
	OfferStatusOpen      OfferStatus = "open"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusCancelled OfferStatus = "cancelled"
)

func (s OfferStatus) IsTerminal() bool {
	return s == OfferStatusAccepted || s == OfferStatusCancelled
}

// Offer is one provider's proposal to fulfil one seeker's job request.
//
// Only the two participant ids and the lifecycle status matter to the
// negotiation; everything else about the offer lives in other services.
//
// Storage model (DynamoDB):
//   - PK: id
type Offer struct {
	ID         string      `json:"id"`
	SeekerID   string      `json:"seeker_id"`
	ProviderID string      `json:"provider_id"`
	Status     OfferStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// PartyOf resolves which side userID plays in this offer.
func (o Offer) PartyOf(userID string) (Party, bool) {
	switch {
	case userID == "":
		return "", false
	case userID == o.SeekerID:
		return PartySeeker, true
	case userID == o.ProviderID:
		return PartyProvider, true
	}
	return "", false
}

func (o Offer) UserOf(p Party) string {
	if p == PartySeeker {
		return o.SeekerID
	}
	return o.ProviderID
}

func (o Offer) Participants() []string {
	return []string{o.SeekerID, o.ProviderID}
}
