package response

import (
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase"
	"offer_negotiation/pkg"
)

const (
	FrameResult = "result"
	FrameError  = "error"
)

// EventFrame is pushed to both participants after a committed mutation.
type EventFrame struct {
	Type        string              `json:"type"`
	OfferID     string              `json:"offer_id"`
	Negotiation NegotiationResponse `json:"negotiation"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// ResultFrame answers one command frame. Negotiation is set for every command
// except get_history, which sets History.
type ResultFrame struct {
	Type        string               `json:"type"`
	RequestID   string               `json:"request_id,omitempty"`
	Command     string               `json:"command"`
	OfferID     string               `json:"offer_id"`
	Negotiation *NegotiationResponse `json:"negotiation,omitempty"`
	History     *HistoryResponse     `json:"history,omitempty"`
}

type ErrorFrame struct {
	Type      string        `json:"type"`
	RequestID string        `json:"request_id,omitempty"`
	Command   string        `json:"command,omitempty"`
	Error     pkg.HTTPError `json:"error"`
}

func FromEvent(ev entities.NegotiationEvent) EventFrame {
	return EventFrame{
		Type:        string(ev.Type),
		OfferID:     ev.OfferID,
		Negotiation: FromNegotiationState(ev.State),
		OccurredAt:  ev.OccurredAt,
	}
}

func FromReply(requestID string, r usecase.Reply) ResultFrame {
	out := ResultFrame{
		Type:      FrameResult,
		RequestID: requestID,
		Command:   string(r.Type),
		OfferID:   r.OfferID,
	}
	if r.View != nil {
		n := FromNegotiationView(*r.View)
		out.Negotiation = &n
		return out
	}
	h := FromHistory(r.OfferID, r.History)
	out.History = &h
	return out
}

func NewErrorFrame(requestID, command string, appErr *pkg.AppError) ErrorFrame {
	return ErrorFrame{
		Type:      FrameError,
		RequestID: requestID,
		Command:   command,
		Error:     appErr.ToHTTPError(),
	}
}
