package request

import (
	"encoding/json"
	"errors"
	"testing"

	"offer_negotiation/internal/usecase"
)

func TestProposeTermsRequest_ToTerms(t *testing.T) {
	var r ProposeTermsRequest
	if err := json.Unmarshal([]byte(`{"price":"150.50","date":" 2024-06-01 ","scope":"fix sink"}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms := r.ToTerms()
	if terms.Price == nil || terms.Price.String() != "150.5" {
		t.Fatalf("unexpected price: %v", terms.Price)
	}
	if terms.Date == nil || *terms.Date != "2024-06-01" {
		t.Fatalf("date should be trimmed: %v", terms.Date)
	}
	if terms.Time != nil || terms.Materials != nil {
		t.Fatalf("omitted fields must stay nil: %+v", terms)
	}

	var numeric ProposeTermsRequest
	if err := json.Unmarshal([]byte(`{"price":99}`), &numeric); err != nil {
		t.Fatalf("numeric price should decode: %v", err)
	}
	if numeric.ToTerms().Price.String() != "99" {
		t.Fatalf("unexpected price: %v", numeric.Price)
	}
}

func TestHistoryQuery_Resolve(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		q, err := HistoryQuery{}.Resolve()
		if err != nil || q.Since != nil || q.AfterSeq != nil {
			t.Fatalf("unexpected query: %+v err=%v", q, err)
		}
	})

	t.Run("since and after_seq", func(t *testing.T) {
		after := int64(4)
		q, err := HistoryQuery{Since: "2024-05-01T12:00:00Z", AfterSeq: &after}.Resolve()
		if err != nil || q.Since == nil || q.Since.Hour() != 12 || *q.AfterSeq != 4 {
			t.Fatalf("unexpected query: %+v err=%v", q, err)
		}
	})

	t.Run("invalid since", func(t *testing.T) {
		if _, err := (HistoryQuery{Since: "yesterday"}).Resolve(); !errors.Is(err, ErrInvalidSince) {
			t.Fatalf("expected ErrInvalidSince, got %v", err)
		}
	})
}

func TestCommandFrame_ToCommand(t *testing.T) {
	var f CommandFrame
	raw := `{"request_id":"r-1","type":"propose_terms","offer_id":"offer-1","user_id":"forged","terms":{"materials":"copper"}}`
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd, err := f.ToCommand("user-seeker")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Type != usecase.CommandProposeTerms || cmd.OfferID != "offer-1" || cmd.UserID != "user-seeker" {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Terms == nil || cmd.Terms.Materials == nil || *cmd.Terms.Materials != "copper" {
		t.Fatalf("unexpected terms: %+v", cmd.Terms)
	}

	if _, err := (CommandFrame{OfferID: "offer-1"}).ToCommand("u"); !errors.Is(err, ErrMissingFrameType) {
		t.Fatalf("expected ErrMissingFrameType, got %v", err)
	}
}
