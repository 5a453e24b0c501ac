package response

import (
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase"
)

type TermsResponse struct {
	Price     *string `json:"price"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Materials *string `json:"materials"`
	Scope     *string `json:"scope"`
}

type ConfirmationResponse struct {
	Seeker   bool `json:"seeker"`
	Provider bool `json:"provider"`
}

type HistoryEntryResponse struct {
	Seq             int64     `json:"seq"`
	ID              string    `json:"id"`
	Field           string    `json:"field,omitempty"`
	OldValue        *string   `json:"old_value"`
	NewValue        *string   `json:"new_value"`
	ChangedBy       string    `json:"changed_by"`
	ChangedByUserID string    `json:"changed_by_user_id"`
	Timestamp       time.Time `json:"timestamp"`
	Note            *string   `json:"note,omitempty"`
}

// NegotiationResponse is the client-facing negotiation snapshot. Price is
// rendered as a decimal string so no precision is lost in transit.
type NegotiationResponse struct {
	OfferID             string                 `json:"offer_id"`
	CurrentTerms        TermsResponse          `json:"current_terms"`
	ConfirmationStatus  ConfirmationResponse   `json:"confirmation_status"`
	CanAcceptOffer      bool                   `json:"can_accept_offer"`
	Phase               string                 `json:"phase"`
	AllowedActions      []string               `json:"allowed_actions"`
	LastUpdatedBy       string                 `json:"last_updated_by,omitempty"`
	LastUpdatedByUserID string                 `json:"last_updated_by_user_id,omitempty"`
	Status              string                 `json:"status"`
	Version             int64                  `json:"version"`
	LastSeq             int64                  `json:"last_seq"`
	Viewer              string                 `json:"viewer,omitempty"`
	History             []HistoryEntryResponse `json:"history"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

type HistoryResponse struct {
	OfferID string                 `json:"offer_id"`
	Entries []HistoryEntryResponse `json:"entries"`
}

func FromTerms(t entities.NegotiationTerms) TermsResponse {
	return TermsResponse{
		Price:     t.Value(entities.TermPrice),
		Date:      t.Value(entities.TermDate),
		Time:      t.Value(entities.TermTime),
		Materials: t.Value(entities.TermMaterials),
		Scope:     t.Value(entities.TermScope),
	}
}

func FromHistoryEntry(e entities.NegotiationHistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		Seq:             e.Seq,
		ID:              e.ID,
		Field:           string(e.Field),
		OldValue:        e.OldValue,
		NewValue:        e.NewValue,
		ChangedBy:       string(e.ChangedBy),
		ChangedByUserID: e.ChangedByUserID,
		Timestamp:       e.Timestamp,
		Note:            e.Note,
	}
}

func FromHistory(offerID string, entries []entities.NegotiationHistoryEntry) HistoryResponse {
	return HistoryResponse{OfferID: offerID, Entries: historyEntries(entries)}
}

// FromNegotiationState renders a state as every participant sees it. The phase
// comes from the state alone.
func FromNegotiationState(st entities.NegotiationState) NegotiationResponse {
	return fromState(st, st.Phase())
}

// FromNegotiationView renders the answer to one participant's read or command.
// A negotiation cancelled before any proposal has no state, so the offer id
// and status come from the offer record.
func FromNegotiationView(v usecase.NegotiationView) NegotiationResponse {
	out := fromState(v.State, v.Phase)
	out.Viewer = string(v.Viewer)
	if out.OfferID == "" {
		out.OfferID = v.Offer.ID
		out.Status = string(v.Offer.Status)
	}
	return out
}

func fromState(st entities.NegotiationState, phase entities.NegotiationPhase) NegotiationResponse {
	actions := usecase.AllowedActions(phase)
	allowed := make([]string, 0, len(actions))
	for _, a := range actions {
		allowed = append(allowed, string(a))
	}
	return NegotiationResponse{
		OfferID:      st.OfferID,
		CurrentTerms: FromTerms(st.CurrentTerms),
		ConfirmationStatus: ConfirmationResponse{
			Seeker:   st.ConfirmationStatus.Seeker,
			Provider: st.ConfirmationStatus.Provider,
		},
		CanAcceptOffer:      st.CanAcceptOffer(),
		Phase:               string(phase),
		AllowedActions:      allowed,
		LastUpdatedBy:       string(st.LastUpdatedBy),
		LastUpdatedByUserID: st.LastUpdatedByUserID,
		Status:              string(st.Status),
		Version:             st.Version,
		LastSeq:             st.LastSeq(),
		History:             historyEntries(st.History),
		CreatedAt:           st.CreatedAt,
		UpdatedAt:           st.UpdatedAt,
	}
}

func historyEntries(entries []entities.NegotiationHistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromHistoryEntry(e))
	}
	return out
}
