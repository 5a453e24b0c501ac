package entities

import "testing"

func TestConfirmationStatus(t *testing.T) {
	var c ConfirmationStatus
	if c.Both() || c.Any() {
		t.Fatalf("fresh status must be unconfirmed")
	}
	c = c.With(PartyProvider)
	if !c.Provider || c.Seeker || c.Both() {
		t.Fatalf("provider confirmation leaked: %+v", c)
	}
	c = c.With(PartySeeker)
	if !c.Both() || !c.Of(PartySeeker) {
		t.Fatalf("expected both confirmed: %+v", c)
	}
}

func TestNegotiationState_CanAcceptOffer(t *testing.T) {
	for _, c := range []ConfirmationStatus{{}, {Seeker: true}, {Provider: true}, {Seeker: true, Provider: true}} {
		s := NegotiationState{ConfirmationStatus: c}
		if s.CanAcceptOffer() != (c.Seeker && c.Provider) {
			t.Fatalf("CanAcceptOffer mismatch for %+v", c)
		}
	}
}

func TestNegotiationState_Clone(t *testing.T) {
	s := NegotiationState{
		OfferID:      "offer-1",
		CurrentTerms: NegotiationTerms{Scope: str("roof")},
		History:      []NegotiationHistoryEntry{{Seq: 1, Field: TermScope, NewValue: str("roof")}},
	}
	c := s.Clone()
	c.History[0].Seq = 99
	*c.CurrentTerms.Scope = "garage"
	if s.History[0].Seq != 1 || *s.CurrentTerms.Scope != "roof" {
		t.Fatalf("clone shares memory with original")
	}
	if s.LastSeq() != 1 {
		t.Fatalf("expected last seq 1, got %d", s.LastSeq())
	}
}

func TestOffer_PartyOf(t *testing.T) {
	o := Offer{ID: "offer-1", SeekerID: "u-seeker", ProviderID: "u-provider"}
	if p, ok := o.PartyOf("u-seeker"); !ok || p != PartySeeker {
		t.Fatalf("expected seeker, got %q %v", p, ok)
	}
	if p, ok := o.PartyOf("u-provider"); !ok || p != PartyProvider {
		t.Fatalf("expected provider, got %q %v", p, ok)
	}
	if _, ok := o.PartyOf("intruder"); ok {
		t.Fatalf("intruder must not resolve to a party")
	}
	if _, ok := o.PartyOf(""); ok {
		t.Fatalf("empty identity must not resolve")
	}
	if o.UserOf(PartyProvider) != "u-provider" || PartySeeker.Counterpart() != PartyProvider {
		t.Fatalf("unexpected participant mapping")
	}
}

func TestParseParty(t *testing.T) {
	if p, err := ParseParty(" Seeker "); err != nil || p != PartySeeker {
		t.Fatalf("expected seeker, got %q %v", p, err)
	}
	if _, err := ParseParty("admin"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNegotiationState_Phase(t *testing.T) {
	terms := NegotiationTerms{Scope: str("roof")}
	cases := []struct {
		name  string
		state NegotiationState
		want  NegotiationPhase
	}{
		{name: "no negotiation", state: NegotiationState{}, want: PhaseDraft},
		{name: "proposed", state: NegotiationState{OfferID: "o", CurrentTerms: terms, Status: OfferStatusOpen}, want: PhaseProposed},
		{name: "one confirmation", state: NegotiationState{OfferID: "o", CurrentTerms: terms, ConfirmationStatus: ConfirmationStatus{Seeker: true}}, want: PhaseProposed},
		{name: "mutual", state: NegotiationState{OfferID: "o", CurrentTerms: terms, ConfirmationStatus: ConfirmationStatus{Seeker: true, Provider: true}}, want: PhaseMutuallyConfirmed},
		{name: "accepted", state: NegotiationState{OfferID: "o", CurrentTerms: terms, Status: OfferStatusAccepted}, want: PhaseAccepted},
		{name: "cancelled", state: NegotiationState{OfferID: "o", Status: OfferStatusCancelled}, want: PhaseCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.Phase(); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
