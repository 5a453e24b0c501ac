// Package ledger implements the append-only negotiation history.
//
// Entries are addressed by their sequence number (1-based, dense), so an
// entry's position in the log is seq-1 and incremental readers only need to
// remember the last seq they saw. Replaying every field entry in order from
// empty terms reproduces the negotiation's current terms.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"offer_negotiation/internal/domain/entities"
)

var (
	ErrSequenceGap    = errors.New("history entry sequence is not contiguous")
	ErrTimeWentBack   = errors.New("history entry timestamp precedes the previous entry")
	ErrLedgerSealed   = errors.New("history ledger is sealed")
	ErrForeignEntry   = errors.New("history entry belongs to another offer")
	ErrReplayMismatch = errors.New("history replay does not reproduce current terms")
)

// Ledger is the history of one offer. The zero value is not usable; build one
// with New or FromEntries.
type Ledger struct {
	offerID string
	entries []entities.NegotiationHistoryEntry
	sealed  bool
}

func New(offerID string) *Ledger {
	return &Ledger{offerID: offerID}
}

// FromEntries rebuilds a ledger from persisted entries, validating ordering.
func FromEntries(offerID string, entries []entities.NegotiationHistoryEntry) (*Ledger, error) {
	l := New(offerID)
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Clone returns an independent copy that can be appended to without touching
// the original.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{offerID: l.offerID, sealed: l.sealed}
	out.entries = make([]entities.NegotiationHistoryEntry, len(l.entries))
	copy(out.entries, l.entries)
	return out
}

// Seal makes the ledger read-only. Used once the negotiation is terminal.
func (l *Ledger) Seal() {
	l.sealed = true
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) NextSeq() int64 {
	return int64(len(l.entries)) + 1
}

func (l *Ledger) LastTimestamp() time.Time {
	if len(l.entries) == 0 {
		return time.Time{}
	}
	return l.entries[len(l.entries)-1].Timestamp
}

// Append adds e to the end of the log. It fails only when the ledger is sealed
// or when e would break ordering.
func (l *Ledger) Append(e entities.NegotiationHistoryEntry) error {
	if l.sealed {
		return ErrLedgerSealed
	}
	if e.OfferID != l.offerID {
		return fmt.Errorf("%w: %s", ErrForeignEntry, e.OfferID)
	}
	if e.Seq != l.NextSeq() {
		return fmt.Errorf("%w: want %d, got %d", ErrSequenceGap, l.NextSeq(), e.Seq)
	}
	if e.Timestamp.Before(l.LastTimestamp()) {
		return ErrTimeWentBack
	}
	l.entries = append(l.entries, e)
	return nil
}

// ReadAll returns a copy of every entry in insertion order.
func (l *Ledger) ReadAll() []entities.NegotiationHistoryEntry {
	out := make([]entities.NegotiationHistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ReadSince returns the entries strictly newer than since.
func (l *Ledger) ReadSince(since time.Time) []entities.NegotiationHistoryEntry {
	// Timestamps are non-decreasing, so the first match splits the log.
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Timestamp.After(since)
	})
	out := make([]entities.NegotiationHistoryEntry, len(l.entries)-i)
	copy(out, l.entries[i:])
	return out
}

// ReadAfter returns the entries with seq > seq.
func (l *Ledger) ReadAfter(seq int64) []entities.NegotiationHistoryEntry {
	if seq < 0 {
		seq = 0
	}
	if seq >= int64(len(l.entries)) {
		return []entities.NegotiationHistoryEntry{}
	}
	out := make([]entities.NegotiationHistoryEntry, int64(len(l.entries))-seq)
	copy(out, l.entries[seq:])
	return out
}

// Replay applies every field entry in order starting from empty terms.
func (l *Ledger) Replay() (entities.NegotiationTerms, error) {
	return Replay(l.entries)
}

func Replay(entries []entities.NegotiationHistoryEntry) (entities.NegotiationTerms, error) {
	terms := entities.NegotiationTerms{}
	for _, e := range entries {
		if e.IsNote() {
			continue
		}
		var err error
		terms, err = terms.With(e.Field, e.NewValue)
		if err != nil {
			return entities.NegotiationTerms{}, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
	}
	return terms, nil
}

// Verify checks that the ledger reproduces current.
func (l *Ledger) Verify(current entities.NegotiationTerms) error {
	replayed, err := l.Replay()
	if err != nil {
		return err
	}
	if !replayed.Equal(current) {
		return ErrReplayMismatch
	}
	return nil
}
