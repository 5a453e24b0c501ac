package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/domain/ledger"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/cenkalti/backoff"
	"github.com/oklog/ulid/v2"
)

// INegotiationStore is the single authority over every offer's negotiation
// state. All mutating calls for one offer are serialized; calls for different
// offers run in parallel.
//
// Reads check the stored version first and reload when another instance has
// committed since. Mutations rely on the conditional commit instead: a commit
// that loses reloads the slot and applies the command once more.
type INegotiationStore interface {
	Get(ctx context.Context, offerID string) (entities.NegotiationState, error)
	ApplyEdit(ctx context.Context, offerID string, editor entities.Actor, proposed entities.NegotiationTerms) (entities.NegotiationState, error)
	Confirm(ctx context.Context, offerID string, actor entities.Actor) (state entities.NegotiationState, changed bool, err error)
	Reset(ctx context.Context, offerID string, initiator entities.Actor) (entities.NegotiationState, error)
	Close(ctx context.Context, offerID string, status entities.OfferStatus, requireMutualConsent bool) (entities.NegotiationState, error)
	History(ctx context.Context, offerID string) ([]entities.NegotiationHistoryEntry, error)
	HistorySince(ctx context.Context, offerID string, since time.Time) ([]entities.NegotiationHistoryEntry, error)
	HistoryAfter(ctx context.Context, offerID string, seq int64) ([]entities.NegotiationHistoryEntry, error)
}

// RetryPolicy bounds the persistence retries of one command.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 50 * time.Millisecond, MaxInterval: time.Second}
}

// negotiationSlot is the serialization point for one offer. state and history
// only ever hold durably committed data.
type negotiationSlot struct {
	mu      sync.Mutex
	offerID string
	loaded  bool
	state   entities.NegotiationState
	history *ledger.Ledger
}

func (sl *negotiationSlot) exists() bool {
	return sl.state.OfferID != ""
}

type NegotiationStore struct {
	repo  interfaces.INegotiationRepository
	retry RetryPolicy
	now   func() time.Time
	ids   *entryIDGenerator

	mu    sync.Mutex
	slots map[string]*negotiationSlot
}

var _ INegotiationStore = (*NegotiationStore)(nil)

func NewNegotiationStore(repo interfaces.INegotiationRepository, retry RetryPolicy) *NegotiationStore {
	return &NegotiationStore{
		repo:  repo,
		retry: retry,
		now:   time.Now,
		ids:   newEntryIDGenerator(),
		slots: make(map[string]*negotiationSlot),
	}
}

func (s *NegotiationStore) Get(ctx context.Context, offerID string) (entities.NegotiationState, error) {
	var out entities.NegotiationState
	err := s.read(ctx, offerID, func(sl *negotiationSlot) error {
		if !sl.exists() {
			return ErrNegotiationNotFound
		}
		out = sl.state.Clone()
		return nil
	})
	return out, err
}

// ApplyEdit merges proposed over the current terms. The negotiation is created
// on the first edit. Every changed field produces one history entry, and if
// either party had confirmed, a reset note follows them.
func (s *NegotiationStore) ApplyEdit(ctx context.Context, offerID string, editor entities.Actor, proposed entities.NegotiationTerms) (entities.NegotiationState, error) {
	if !editor.Party.Valid() {
		return entities.NegotiationState{}, ErrUnauthorizedParty
	}
	normalized, err := proposed.Normalized()
	if err != nil {
		return entities.NegotiationState{}, fmt.Errorf("%w: %w", ErrInvalidTerms, err)
	}

	var out entities.NegotiationState
	err = s.mutate(ctx, offerID, func(sl *negotiationSlot) error {
		current := sl.state
		if current.IsTerminal() {
			return ErrNegotiationTerminal
		}
		merged, changes := current.CurrentTerms.Merge(normalized)
		if len(changes) == 0 {
			return ErrNoOpEdit
		}

		ts := s.timestamp(current.LastTimestamp())
		b := s.newBatch(sl, editor, ts)
		for _, c := range changes {
			if err := b.add(entities.NegotiationHistoryEntry{Field: c.Field, OldValue: c.OldValue, NewValue: c.NewValue}); err != nil {
				return err
			}
		}
		if current.ConfirmationStatus.Any() {
			if err := b.addNote(entities.NoteConfirmationsResetByEdit); err != nil {
				return err
			}
		}

		next := current.Clone()
		if !sl.exists() {
			next.OfferID = sl.offerID
			next.Status = entities.OfferStatusOpen
			next.CreatedAt = ts
		}
		next.CurrentTerms = merged
		next.ConfirmationStatus = entities.ConfirmationStatus{}
		next.LastUpdatedBy = editor.Party
		next.LastUpdatedByUserID = editor.UserID
		next.History = b.history.ReadAll()
		next.UpdatedAt = ts

		committed, err := s.commit(ctx, sl, next, b.entries, b.history)
		if err != nil {
			return err
		}
		log.Printf("[negotiation][store] edit committed offer_id=%s party=%s fields=%d last_seq=%d version=%d",
			sl.offerID, editor.Party, len(changes), committed.LastSeq(), committed.Version)
		out = committed.Clone()
		return nil
	})
	return out, err
}

// Confirm sets the actor's own flag. Confirming twice is a no-op and reports
// changed=false without touching persistence.
func (s *NegotiationStore) Confirm(ctx context.Context, offerID string, actor entities.Actor) (entities.NegotiationState, bool, error) {
	if !actor.Party.Valid() {
		return entities.NegotiationState{}, false, ErrUnauthorizedParty
	}

	var out entities.NegotiationState
	changed := false
	err := s.mutate(ctx, offerID, func(sl *negotiationSlot) error {
		if !sl.exists() {
			return ErrNegotiationNotFound
		}
		current := sl.state
		if current.IsTerminal() {
			return ErrNegotiationTerminal
		}
		if current.ConfirmationStatus.Of(actor.Party) {
			out = current.Clone()
			changed = false
			return nil
		}

		next := current.Clone()
		next.ConfirmationStatus = current.ConfirmationStatus.With(actor.Party)
		next.UpdatedAt = s.timestamp(current.UpdatedAt)

		committed, err := s.commit(ctx, sl, next, nil, sl.history)
		if err != nil {
			return err
		}
		log.Printf("[negotiation][store] confirm committed offer_id=%s party=%s can_accept=%t version=%d",
			sl.offerID, actor.Party, committed.CanAcceptOffer(), committed.Version)
		out = committed.Clone()
		changed = true
		return nil
	})
	return out, changed, err
}

// Reset clears both flags without touching the terms.
func (s *NegotiationStore) Reset(ctx context.Context, offerID string, initiator entities.Actor) (entities.NegotiationState, error) {
	if !initiator.Party.Valid() {
		return entities.NegotiationState{}, ErrUnauthorizedParty
	}

	var out entities.NegotiationState
	err := s.mutate(ctx, offerID, func(sl *negotiationSlot) error {
		if !sl.exists() {
			return ErrNegotiationNotFound
		}
		current := sl.state
		if current.IsTerminal() {
			return ErrNegotiationTerminal
		}

		ts := s.timestamp(current.LastTimestamp())
		b := s.newBatch(sl, initiator, ts)
		if err := b.addNote(entities.NoteConfirmationsResetManually); err != nil {
			return err
		}

		next := current.Clone()
		next.ConfirmationStatus = entities.ConfirmationStatus{}
		next.History = b.history.ReadAll()
		next.UpdatedAt = ts

		committed, err := s.commit(ctx, sl, next, b.entries, b.history)
		if err != nil {
			return err
		}
		log.Printf("[negotiation][store] reset committed offer_id=%s party=%s version=%d", sl.offerID, initiator.Party, committed.Version)
		out = committed.Clone()
		return nil
	})
	return out, err
}

// Close archives the negotiation with a terminal status. Closing again with the
// same status returns the archived state so callers can retry follow-up work.
// Without mutual consent a missing negotiation is created already closed, with
// no terms and a sealed ledger, so later edits find it terminal.
func (s *NegotiationStore) Close(ctx context.Context, offerID string, status entities.OfferStatus, requireMutualConsent bool) (entities.NegotiationState, error) {
	if !status.IsTerminal() {
		return entities.NegotiationState{}, fmt.Errorf("cannot close negotiation with status %q", status)
	}

	var out entities.NegotiationState
	err := s.mutate(ctx, offerID, func(sl *negotiationSlot) error {
		if !sl.exists() && requireMutualConsent {
			return ErrNegotiationNotFound
		}
		current := sl.state
		if current.Status == status {
			out = current.Clone()
			return nil
		}
		if current.IsTerminal() {
			return ErrNegotiationTerminal
		}
		if requireMutualConsent && !current.CanAcceptOffer() {
			return ErrNotMutuallyConfirmed
		}

		next := current.Clone()
		next.Status = status
		next.UpdatedAt = s.timestamp(current.UpdatedAt)
		if !sl.exists() {
			next.OfferID = sl.offerID
			next.CreatedAt = next.UpdatedAt
		}
		history := sl.history.Clone()
		history.Seal()

		committed, err := s.commit(ctx, sl, next, nil, history)
		if err != nil {
			return err
		}
		log.Printf("[negotiation][store] negotiation closed offer_id=%s status=%s version=%d", sl.offerID, status, committed.Version)
		out = committed.Clone()
		return nil
	})
	return out, err
}

func (s *NegotiationStore) History(ctx context.Context, offerID string) ([]entities.NegotiationHistoryEntry, error) {
	return s.readHistory(ctx, offerID, (*ledger.Ledger).ReadAll)
}

func (s *NegotiationStore) HistorySince(ctx context.Context, offerID string, since time.Time) ([]entities.NegotiationHistoryEntry, error) {
	return s.readHistory(ctx, offerID, func(l *ledger.Ledger) []entities.NegotiationHistoryEntry {
		return l.ReadSince(since)
	})
}

func (s *NegotiationStore) HistoryAfter(ctx context.Context, offerID string, seq int64) ([]entities.NegotiationHistoryEntry, error) {
	return s.readHistory(ctx, offerID, func(l *ledger.Ledger) []entities.NegotiationHistoryEntry {
		return l.ReadAfter(seq)
	})
}

func (s *NegotiationStore) readHistory(ctx context.Context, offerID string, read func(*ledger.Ledger) []entities.NegotiationHistoryEntry) ([]entities.NegotiationHistoryEntry, error) {
	var out []entities.NegotiationHistoryEntry
	err := s.read(ctx, offerID, func(sl *negotiationSlot) error {
		if !sl.exists() {
			return ErrNegotiationNotFound
		}
		out = read(sl.history)
		return nil
	})
	return out, err
}

func (s *NegotiationStore) slot(offerID string) *negotiationSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[offerID]
	if !ok {
		sl = &negotiationSlot{offerID: offerID}
		s.slots[offerID] = sl
	}
	return sl
}

// locked runs fn while holding the offer's slot, loading it from persistence
// on first use. With revalidate set, a loaded slot is reloaded when the stored
// version has moved on.
func (s *NegotiationStore) locked(ctx context.Context, offerID string, revalidate bool, fn func(sl *negotiationSlot) error) error {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return ErrInvalidOfferID
	}
	sl := s.slot(offerID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.loaded && revalidate {
		if err := s.revalidate(ctx, sl); err != nil {
			return err
		}
	}
	if !sl.loaded {
		if err := s.load(ctx, sl); err != nil {
			return err
		}
	}
	return fn(sl)
}

func (s *NegotiationStore) read(ctx context.Context, offerID string, fn func(sl *negotiationSlot) error) error {
	return s.locked(ctx, offerID, true, fn)
}

// mutate runs fn under the slot lock. If the commit inside fn loses to another
// writer, the slot is reloaded and fn runs once more against the fresh state.
func (s *NegotiationStore) mutate(ctx context.Context, offerID string, fn func(sl *negotiationSlot) error) error {
	return s.locked(ctx, offerID, false, func(sl *negotiationSlot) error {
		err := fn(sl)
		if !errors.Is(err, interfaces.ErrStaleVersion) {
			return err
		}
		stale := sl.state.Version
		if err := s.load(ctx, sl); err != nil {
			return err
		}
		log.Printf("[negotiation][store] stale slot reloaded offer_id=%s from_version=%d to_version=%d", sl.offerID, stale, sl.state.Version)
		return fn(sl)
	})
}

func (s *NegotiationStore) revalidate(ctx context.Context, sl *negotiationSlot) error {
	var stored int64
	err := s.withRetry(ctx, func() error {
		var err error
		stored, err = s.repo.LoadVersion(ctx, sl.offerID)
		return err
	})
	if err != nil {
		log.Printf("[negotiation][store] version check failed offer_id=%s err=%v", sl.offerID, err)
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if stored != sl.state.Version {
		sl.loaded = false
	}
	return nil
}

func (s *NegotiationStore) load(ctx context.Context, sl *negotiationSlot) error {
	var state entities.NegotiationState
	err := s.withRetry(ctx, func() error {
		var err error
		state, err = s.repo.LoadState(ctx, sl.offerID)
		return err
	})
	if err != nil {
		log.Printf("[negotiation][store] load failed offer_id=%s err=%v", sl.offerID, err)
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	history, err := ledger.FromEntries(sl.offerID, state.History)
	if err != nil {
		log.Printf("[negotiation][store] persisted history rejected offer_id=%s err=%v", sl.offerID, err)
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if state.IsTerminal() {
		history.Seal()
	}

	sl.state = state
	sl.history = history
	sl.loaded = true
	return nil
}

// commit durably writes next and its new history entries, then publishes them
// to the slot. On failure the slot keeps its previous committed state.
func (s *NegotiationStore) commit(ctx context.Context, sl *negotiationSlot, next entities.NegotiationState, entries []entities.NegotiationHistoryEntry, history *ledger.Ledger) (entities.NegotiationState, error) {
	expected := sl.state.Version
	next.Version = expected + 1

	attempts := 0
	err := s.withRetry(ctx, func() error {
		attempts++
		err := s.repo.Commit(ctx, next, entries, expected)
		if errors.Is(err, interfaces.ErrStaleVersion) {
			return backoff.Permanent(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrStaleVersion) {
			// Someone else owns a newer snapshot; reload before the next command.
			sl.loaded = false
		}
		log.Printf("[negotiation][store] commit failed offer_id=%s attempts=%d version=%d err=%v", next.OfferID, attempts, next.Version, err)
		return entities.NegotiationState{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	sl.state = next
	sl.history = history
	return next, nil
}

func (s *NegotiationStore) withRetry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if s.retry.InitialInterval > 0 {
		b.InitialInterval = s.retry.InitialInterval
	}
	if s.retry.MaxInterval > 0 {
		b.MaxInterval = s.retry.MaxInterval
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, s.retry.MaxRetries), ctx))
}

// timestamp keeps history timestamps non-decreasing even if the wall clock
// steps back.
func (s *NegotiationStore) timestamp(notBefore time.Time) time.Time {
	ts := s.now().UTC()
	if ts.Before(notBefore) {
		return notBefore
	}
	return ts
}

// entryBatch collects the entries one command appends to a ledger copy.
type entryBatch struct {
	store   *NegotiationStore
	offerID string
	actor   entities.Actor
	at      time.Time
	history *ledger.Ledger
	entries []entities.NegotiationHistoryEntry
}

func (s *NegotiationStore) newBatch(sl *negotiationSlot, actor entities.Actor, at time.Time) *entryBatch {
	return &entryBatch{store: s, offerID: sl.offerID, actor: actor, at: at, history: sl.history.Clone()}
}

func (b *entryBatch) add(e entities.NegotiationHistoryEntry) error {
	e.Seq = b.history.NextSeq()
	e.ID = b.store.ids.next(b.at)
	e.OfferID = b.offerID
	e.ChangedBy = b.actor.Party
	e.ChangedByUserID = b.actor.UserID
	e.Timestamp = b.at
	if err := b.history.Append(e); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	b.entries = append(b.entries, e)
	return nil
}

func (b *entryBatch) addNote(note string) error {
	return b.add(entities.NegotiationHistoryEntry{Note: &note})
}

// entryIDGenerator hands out monotonic ULIDs; the entropy source is not safe
// for concurrent use on its own.
type entryIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newEntryIDGenerator() *entryIDGenerator {
	return &entryIDGenerator{entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)}
}

func (g *entryIDGenerator) next(at time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), g.entropy).String()
}
