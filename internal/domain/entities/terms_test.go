package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func str(s string) *string { return &s }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNegotiationTerms_Normalized(t *testing.T) {
	t.Run("canonical layouts", func(t *testing.T) {
		in := NegotiationTerms{Price: price("500.00"), Date: str("2024-05-01"), Time: str("9:05"), Scope: str("paint two rooms")}
		out, err := in.Normalized()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *out.Value(TermPrice) != "500" {
			t.Fatalf("expected price 500, got %s", *out.Value(TermPrice))
		}
		if *out.Time != "09:05" {
			t.Fatalf("expected 09:05, got %s", *out.Time)
		}
		if out.Materials != nil {
			t.Fatalf("materials should stay unset")
		}
	})

	cases := []struct {
		name  string
		terms NegotiationTerms
		want  error
	}{
		{name: "zero price", terms: NegotiationTerms{Price: price("0")}, want: ErrInvalidPrice},
		{name: "negative price", terms: NegotiationTerms{Price: price("-3")}, want: ErrInvalidPrice},
		{name: "bad date", terms: NegotiationTerms{Date: str("01/05/2024")}, want: ErrInvalidDate},
		{name: "bad time", terms: NegotiationTerms{Time: str("25:00")}, want: ErrInvalidTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.terms.Normalized()
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNegotiationTerms_Merge(t *testing.T) {
	t.Run("only provided fields change", func(t *testing.T) {
		current := NegotiationTerms{Price: price("500"), Scope: str("kitchen")}
		merged, changes := current.Merge(NegotiationTerms{Price: price("450")})
		if len(changes) != 1 || changes[0].Field != TermPrice {
			t.Fatalf("unexpected changes: %+v", changes)
		}
		if *changes[0].OldValue != "500" || *changes[0].NewValue != "450" {
			t.Fatalf("unexpected diff: %+v", changes[0])
		}
		if *merged.Scope != "kitchen" {
			t.Fatalf("scope should be kept")
		}
		if *current.Value(TermPrice) != "500" {
			t.Fatalf("input terms must not be mutated")
		}
	})

	t.Run("equal decimal is not a change", func(t *testing.T) {
		current := NegotiationTerms{Price: price("500")}
		_, changes := current.Merge(NegotiationTerms{Price: price("500.00")})
		if len(changes) != 0 {
			t.Fatalf("expected no changes, got %+v", changes)
		}
	})

	t.Run("changes follow canonical field order", func(t *testing.T) {
		_, changes := NegotiationTerms{}.Merge(NegotiationTerms{Time: str("14:00"), Date: str("2024-05-01")})
		if len(changes) != 2 || changes[0].Field != TermDate || changes[1].Field != TermTime {
			t.Fatalf("unexpected changes: %+v", changes)
		}
		if changes[0].OldValue != nil {
			t.Fatalf("expected unset old value")
		}
	})

	t.Run("merged value does not alias the proposal", func(t *testing.T) {
		proposal := NegotiationTerms{Materials: str("oak")}
		merged, _ := NegotiationTerms{}.Merge(proposal)
		*proposal.Materials = "pine"
		if *merged.Materials != "oak" {
			t.Fatalf("merged terms share memory with proposal")
		}
	})
}

func TestNegotiationTerms_WithAndEqual(t *testing.T) {
	base := NegotiationTerms{}
	withPrice, err := base.With(TermPrice, str("12.50"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.Price != nil {
		t.Fatalf("With must not mutate the receiver")
	}
	if !withPrice.Equal(NegotiationTerms{Price: price("12.5")}) {
		t.Fatalf("expected equal terms")
	}
	unset, err := withPrice.With(TermPrice, nil)
	if err != nil || unset.Price != nil {
		t.Fatalf("expected price to be unset, err=%v", err)
	}
	if _, err := base.With(TermField("colour"), str("red")); !errors.Is(err, ErrUnknownTermField) {
		t.Fatalf("expected ErrUnknownTermField, got %v", err)
	}
	if !base.IsEmpty() || withPrice.IsEmpty() {
		t.Fatalf("unexpected IsEmpty result")
	}
}
