package request

// RegisterOfferRequest links a seeker and a provider to an offer id. OfferID
// is optional; a UUID is generated when it is omitted.
type RegisterOfferRequest struct {
	OfferID    string `json:"offer_id"`
	SeekerID   string `json:"seeker_id" binding:"required"`
	ProviderID string `json:"provider_id" binding:"required"`
}
