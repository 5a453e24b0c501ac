package memory

import (
	"context"
	"sync"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"
)

type negotiationRecord struct {
	state   entities.NegotiationState
	lastSeq int64
}

// NegotiationMemoryRepository keeps negotiations in process memory. It follows
// the same commit protocol as the durable adapters, so it is used for local
// runs and as the reference behaviour in tests.
type NegotiationMemoryRepository struct {
	mu      sync.RWMutex
	states  map[string]negotiationRecord
	history map[string]map[int64]entities.NegotiationHistoryEntry
}

var _ interfaces.INegotiationRepository = (*NegotiationMemoryRepository)(nil)

func NewNegotiationMemoryRepository() *NegotiationMemoryRepository {
	return &NegotiationMemoryRepository{
		states:  make(map[string]negotiationRecord),
		history: make(map[string]map[int64]entities.NegotiationHistoryEntry),
	}
}

func (r *NegotiationMemoryRepository) LoadState(_ context.Context, offerID string) (entities.NegotiationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.states[offerID]
	if !ok {
		return entities.NegotiationState{}, nil
	}
	out := rec.state.Clone()
	out.History = make([]entities.NegotiationHistoryEntry, 0, rec.lastSeq)
	rows := r.history[offerID]
	for seq := int64(1); seq <= rec.lastSeq; seq++ {
		e, ok := rows[seq]
		if !ok {
			break
		}
		out.History = append(out.History, e)
	}
	return out, nil
}

func (r *NegotiationMemoryRepository) LoadVersion(_ context.Context, offerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[offerID].state.Version, nil
}

func (r *NegotiationMemoryRepository) Commit(_ context.Context, state entities.NegotiationState, entries []entities.NegotiationHistoryEntry, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.states[state.OfferID]
	if !ok && expectedVersion != 0 {
		return interfaces.ErrStaleVersion
	}
	if ok && current.state.Version != expectedVersion {
		return interfaces.ErrStaleVersion
	}
	rows := r.history[state.OfferID]
	for _, e := range entries {
		if e.Seq <= current.lastSeq {
			return interfaces.ErrStaleVersion
		}
		if _, taken := rows[e.Seq]; taken {
			return interfaces.ErrStaleVersion
		}
	}

	if rows == nil {
		rows = make(map[int64]entities.NegotiationHistoryEntry)
		r.history[state.OfferID] = rows
	}
	for _, e := range entries {
		rows[e.Seq] = e
	}
	snapshot := state.Clone()
	snapshot.History = nil
	r.states[state.OfferID] = negotiationRecord{state: snapshot, lastSeq: state.LastSeq()}
	return nil
}
