package entities

import "time"

const (
	NoteConfirmationsResetByEdit   = "confirmations reset due to edit"
	NoteConfirmationsResetManually = "confirmations reset manually"
)

// ConfirmationStatus holds one explicit consent flag per party.
type ConfirmationStatus struct {
	Seeker   bool `json:"seeker"`
	Provider bool `json:"provider"`
}

func (c ConfirmationStatus) Of(p Party) bool {
	if p == PartySeeker {
		return c.Seeker
	}
	return c.Provider
}

// With returns a copy with p's own flag set. The counterpart's flag is never
// touched.
func (c ConfirmationStatus) With(p Party) ConfirmationStatus {
	if p == PartySeeker {
		c.Seeker = true
	} else {
		c.Provider = true
	}
	return c
}

func (c ConfirmationStatus) Both() bool {
	return c.Seeker && c.Provider
}

func (c ConfirmationStatus) Any() bool {
	return c.Seeker || c.Provider
}

// NegotiationHistoryEntry is one immutable ledger record. A field entry has
// Field set and describes OldValue -> NewValue; a note entry has an empty
// Field and a Note.
//
// Storage model (DynamoDB):
//   - PK: offer_id
//   - SK: seq
type NegotiationHistoryEntry struct {
	Seq             int64     `json:"seq"`
	ID              string    `json:"id"`
	OfferID         string    `json:"offer_id"`
	Field           TermField `json:"field,omitempty"`
	OldValue        *string   `json:"old_value"`
	NewValue        *string   `json:"new_value"`
	ChangedBy       Party     `json:"changed_by"`
	ChangedByUserID string    `json:"changed_by_user_id"`
	Timestamp       time.Time `json:"timestamp"`
	Note            *string   `json:"note,omitempty"`
}

func (e NegotiationHistoryEntry) IsNote() bool {
	return e.Field == ""
}

// NegotiationState is the aggregate root for one offer's negotiation.
//
// Version is bumped on every durable commit and is used by the persistence
// adapters for optimistic concurrency. History is ordered by Seq, which is
// dense and starts at 1.
//
// Storage model (DynamoDB):
//   - PK: offer_id
type NegotiationState struct {
	OfferID             string                    `json:"offer_id"`
	CurrentTerms        NegotiationTerms          `json:"current_terms"`
	ConfirmationStatus  ConfirmationStatus        `json:"confirmation_status"`
	LastUpdatedBy       Party                     `json:"last_updated_by"`
	LastUpdatedByUserID string                    `json:"last_updated_by_user_id"`
	History             []NegotiationHistoryEntry `json:"history"`
	Status              OfferStatus               `json:"status"`
	Version             int64                     `json:"version"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// CanAcceptOffer is true iff both parties confirmed the current terms.
func (s NegotiationState) CanAcceptOffer() bool {
	return s.ConfirmationStatus.Both()
}

func (s NegotiationState) IsTerminal() bool {
	return s.Status.IsTerminal()
}

func (s NegotiationState) LastSeq() int64 {
	if len(s.History) == 0 {
		return 0
	}
	return s.History[len(s.History)-1].Seq
}

func (s NegotiationState) LastTimestamp() time.Time {
	if len(s.History) == 0 {
		return time.Time{}
	}
	return s.History[len(s.History)-1].Timestamp
}

// Clone returns a deep copy safe to hand out to readers.
func (s NegotiationState) Clone() NegotiationState {
	out := s
	out.CurrentTerms = s.CurrentTerms.Clone()
	if s.History != nil {
		out.History = make([]NegotiationHistoryEntry, len(s.History))
		copy(out.History, s.History)
	}
	return out
}
