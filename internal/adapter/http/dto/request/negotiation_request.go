package request

import (
	"errors"
	"strings"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSince     = errors.New("since must be an RFC3339 timestamp")
	ErrMissingFrameType = errors.New("frame type is required")
)

// ProposeTermsRequest is a partial edit. Omitted fields keep their current
// value. Price accepts both a JSON number and a quoted decimal.
type ProposeTermsRequest struct {
	Price     *decimal.Decimal `json:"price,omitempty" swaggertype:"string" example:"150.00"`
	Date      *string          `json:"date,omitempty" example:"2024-06-01"`
	Time      *string          `json:"time,omitempty" example:"09:30"`
	Materials *string          `json:"materials,omitempty"`
	Scope     *string          `json:"scope,omitempty"`
}

func (r ProposeTermsRequest) ToTerms() entities.NegotiationTerms {
	return entities.NegotiationTerms{
		Price:     r.Price,
		Date:      trimmed(r.Date),
		Time:      trimmed(r.Time),
		Materials: r.Materials,
		Scope:     r.Scope,
	}
}

// HistoryQuery binds the optional incremental-read parameters of
// GET .../negotiation/history.
type HistoryQuery struct {
	Since    string `form:"since"`
	AfterSeq *int64 `form:"after_seq" binding:"omitempty,min=0"`
}

func (q HistoryQuery) Resolve() (usecase.HistoryQuery, error) {
	out := usecase.HistoryQuery{AfterSeq: q.AfterSeq}
	if v := strings.TrimSpace(q.Since); v != "" {
		since, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return usecase.HistoryQuery{}, ErrInvalidSince
		}
		out.Since = &since
	}
	return out, nil
}

// CommandFrame is one inbound WebSocket frame. RequestID is echoed back on
// the matching result or error frame.
type CommandFrame struct {
	RequestID string               `json:"request_id,omitempty"`
	Type      usecase.CommandType  `json:"type"`
	OfferID   string               `json:"offer_id"`
	Terms     *ProposeTermsRequest `json:"terms,omitempty"`
	Since     *time.Time           `json:"since,omitempty"`
	AfterSeq  *int64               `json:"after_seq,omitempty"`
}

// ToCommand binds the frame to the session's user. Any identity carried in
// the payload is ignored.
func (f CommandFrame) ToCommand(userID string) (usecase.Command, error) {
	if strings.TrimSpace(string(f.Type)) == "" {
		return usecase.Command{}, ErrMissingFrameType
	}
	cmd := usecase.Command{
		Type:     f.Type,
		OfferID:  f.OfferID,
		UserID:   userID,
		Since:    f.Since,
		AfterSeq: f.AfterSeq,
	}
	if f.Terms != nil {
		terms := f.Terms.ToTerms()
		cmd.Terms = &terms
	}
	return cmd, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
