package entities

// NegotiationPhase is the coordinator's view of where a negotiation stands.
type NegotiationPhase string

const (
	PhaseDraft             NegotiationPhase = "draft"
	PhaseProposed          NegotiationPhase = "proposed"
	PhaseMutuallyConfirmed NegotiationPhase = "mutually_confirmed"
	PhaseAccepted          NegotiationPhase = "accepted"
	PhaseCancelled         NegotiationPhase = "cancelled"
)

func (p NegotiationPhase) IsTerminal() bool {
	return p == PhaseAccepted || p == PhaseCancelled
}

// Phase derives the lifecycle phase from the stored state.
func (s NegotiationState) Phase() NegotiationPhase {
	switch {
	case s.Status == OfferStatusAccepted:
		return PhaseAccepted
	case s.Status == OfferStatusCancelled:
		return PhaseCancelled
	case s.OfferID == "" || (s.CurrentTerms.IsEmpty() && len(s.History) == 0):
		return PhaseDraft
	case s.ConfirmationStatus.Both():
		return PhaseMutuallyConfirmed
	}
	return PhaseProposed
}
