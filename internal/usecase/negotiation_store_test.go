package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"offer_negotiation/internal/adapter/persistence/memory"
	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/domain/ledger"
	"offer_negotiation/internal/usecase/interfaces"
	mock_interfaces "offer_negotiation/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

var (
	seeker   = entities.Actor{Party: entities.PartySeeker, UserID: "user-seeker"}
	provider = entities.Actor{Party: entities.PartyProvider, UserID: "user-provider"}
)

func str(s string) *string { return &s }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func noRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 0, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func newMemoryStore() *NegotiationStore {
	return NewNegotiationStore(memory.NewNegotiationMemoryRepository(), noRetry())
}

func mustEdit(t *testing.T, s INegotiationStore, actor entities.Actor, terms entities.NegotiationTerms) entities.NegotiationState {
	t.Helper()
	st, err := s.ApplyEdit(context.Background(), "offer-1", actor, terms)
	if err != nil {
		t.Fatalf("unexpected edit error: %v", err)
	}
	return st
}

func mustConfirm(t *testing.T, s INegotiationStore, actor entities.Actor) entities.NegotiationState {
	t.Helper()
	st, _, err := s.Confirm(context.Background(), "offer-1", actor)
	if err != nil {
		t.Fatalf("unexpected confirm error: %v", err)
	}
	return st
}

func assertReplays(t *testing.T, st entities.NegotiationState) {
	t.Helper()
	replayed, err := ledger.Replay(st.History)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replayed.Equal(st.CurrentTerms) {
		t.Fatalf("history does not reproduce current terms: %+v vs %+v", replayed, st.CurrentTerms)
	}
}

func TestNegotiationStore_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		s := newMemoryStore()
		_, err := s.Get(context.Background(), "offer-1")
		if !errors.Is(err, ErrNegotiationNotFound) {
			t.Fatalf("expected ErrNegotiationNotFound, got %v", err)
		}
	})

	t.Run("blank offer id", func(t *testing.T) {
		s := newMemoryStore()
		_, err := s.Get(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidOfferID) {
			t.Fatalf("expected ErrInvalidOfferID, got %v", err)
		}
	})

	t.Run("returns an independent copy", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Scope: str("paint")})

		st, err := s.Get(context.Background(), "offer-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		*st.CurrentTerms.Scope = "mutated"
		st.History[0].NewValue = str("mutated")

		again, _ := s.Get(context.Background(), "offer-1")
		if *again.CurrentTerms.Scope != "paint" || *again.History[0].NewValue != "paint" {
			t.Fatalf("store state leaked to caller")
		}
	})
}

func TestNegotiationStore_ApplyEdit(t *testing.T) {
	t.Run("first edit creates the negotiation", func(t *testing.T) {
		s := newMemoryStore()
		st := mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})

		if st.OfferID != "offer-1" || st.Status != entities.OfferStatusOpen {
			t.Fatalf("unexpected state: %+v", st)
		}
		if st.Version != 1 || st.LastUpdatedBy != entities.PartySeeker || st.LastUpdatedByUserID != "user-seeker" {
			t.Fatalf("unexpected bookkeeping: %+v", st)
		}
		if len(st.History) != 1 {
			t.Fatalf("expected 1 history entry, got %d", len(st.History))
		}
		e := st.History[0]
		if e.Seq != 1 || e.Field != entities.TermPrice || e.OldValue != nil || *e.NewValue != "500" || e.ID == "" {
			t.Fatalf("unexpected entry: %+v", e)
		}
		if st.Phase() != entities.PhaseProposed {
			t.Fatalf("expected proposed, got %s", st.Phase())
		}
	})

	t.Run("edit after mutual confirmation resets consent", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})
		mustConfirm(t, s, provider)
		st := mustConfirm(t, s, seeker)
		if !st.CanAcceptOffer() {
			t.Fatalf("expected canAcceptOffer after both confirmations")
		}

		st = mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("450")})
		if st.CanAcceptOffer() || st.ConfirmationStatus.Any() {
			t.Fatalf("expected both flags cleared, got %+v", st.ConfirmationStatus)
		}
		if len(st.History) != 3 {
			t.Fatalf("expected 3 history entries, got %d", len(st.History))
		}
		if *st.History[0].NewValue != "500" || *st.History[1].OldValue != "500" || *st.History[1].NewValue != "450" {
			t.Fatalf("unexpected price entries: %+v", st.History[:2])
		}
		note := st.History[2]
		if !note.IsNote() || *note.Note != entities.NoteConfirmationsResetByEdit {
			t.Fatalf("expected reset note, got %+v", note)
		}
		if !note.Timestamp.Equal(st.History[1].Timestamp) {
			t.Fatalf("note should share the edit timestamp")
		}
		assertReplays(t, st)
	})

	t.Run("one entry per changed field", func(t *testing.T) {
		s := newMemoryStore()
		st := mustEdit(t, s, provider, entities.NegotiationTerms{Date: str("2024-05-01"), Time: str("14:00")})

		if len(st.History) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(st.History))
		}
		a, b := st.History[0], st.History[1]
		if a.Field != entities.TermDate || b.Field != entities.TermTime {
			t.Fatalf("unexpected field order: %s, %s", a.Field, b.Field)
		}
		if !a.Timestamp.Equal(b.Timestamp) || a.ChangedBy != b.ChangedBy || a.ChangedBy != entities.PartyProvider {
			t.Fatalf("entries should share timestamp and editor: %+v %+v", a, b)
		}
		if a.ID == b.ID {
			t.Fatalf("entry ids must be unique")
		}
	})

	t.Run("identical proposal is a no-op", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500"), Date: str("2024-05-01")})
		before := mustConfirm(t, s, provider)

		_, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Price: price("500.00")})
		if !errors.Is(err, ErrNoOpEdit) {
			t.Fatalf("expected ErrNoOpEdit, got %v", err)
		}
		after, _ := s.Get(context.Background(), "offer-1")
		if len(after.History) != len(before.History) || after.ConfirmationStatus != before.ConfirmationStatus || after.Version != before.Version {
			t.Fatalf("no-op edit changed state: before=%+v after=%+v", before, after)
		}
	})

	t.Run("empty proposal is a no-op", func(t *testing.T) {
		s := newMemoryStore()
		_, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{})
		if !errors.Is(err, ErrNoOpEdit) {
			t.Fatalf("expected ErrNoOpEdit, got %v", err)
		}
		if _, err := s.Get(context.Background(), "offer-1"); !errors.Is(err, ErrNegotiationNotFound) {
			t.Fatalf("no-op edit must not create the negotiation, got %v", err)
		}
	})

	t.Run("invalid terms", func(t *testing.T) {
		s := newMemoryStore()
		_, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Date: str("01/05/2024")})
		if !errors.Is(err, ErrInvalidTerms) || !errors.Is(err, entities.ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidTerms wrapping ErrInvalidDate, got %v", err)
		}
	})

	t.Run("invalid party", func(t *testing.T) {
		s := newMemoryStore()
		_, err := s.ApplyEdit(context.Background(), "offer-1", entities.Actor{Party: "admin"}, entities.NegotiationTerms{Scope: str("x")})
		if !errors.Is(err, ErrUnauthorizedParty) {
			t.Fatalf("expected ErrUnauthorizedParty, got %v", err)
		}
	})

	t.Run("timestamps never go back", func(t *testing.T) {
		s := newMemoryStore()
		clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return clock }
		mustEdit(t, s, seeker, entities.NegotiationTerms{Scope: str("a")})

		clock = clock.Add(-time.Hour)
		st := mustEdit(t, s, provider, entities.NegotiationTerms{Scope: str("b")})
		if st.History[1].Timestamp.Before(st.History[0].Timestamp) {
			t.Fatalf("timestamp went back: %v < %v", st.History[1].Timestamp, st.History[0].Timestamp)
		}
	})
}

func TestNegotiationStore_Invariants(t *testing.T) {
	s := newMemoryStore()
	edits := []struct {
		actor entities.Actor
		terms entities.NegotiationTerms
	}{
		{seeker, entities.NegotiationTerms{Price: price("500")}},
		{provider, entities.NegotiationTerms{Price: price("650"), Scope: str("two rooms")}},
		{seeker, entities.NegotiationTerms{Date: str("2024-05-01"), Time: str("09:00")}},
		{provider, entities.NegotiationTerms{Materials: str("paint included"), Time: str("10:30")}},
		{seeker, entities.NegotiationTerms{Price: price("600")}},
	}

	for i, e := range edits {
		if i > 0 {
			mustConfirm(t, s, provider)
			if i%2 == 0 {
				mustConfirm(t, s, seeker)
			}
		}
		st := mustEdit(t, s, e.actor, e.terms)

		if st.ConfirmationStatus.Seeker || st.ConfirmationStatus.Provider {
			t.Fatalf("edit %d left a confirmation flag set: %+v", i, st.ConfirmationStatus)
		}
		if st.CanAcceptOffer() != st.ConfirmationStatus.Both() {
			t.Fatalf("canAcceptOffer out of sync with flags")
		}
		for j, h := range st.History {
			if h.Seq != int64(j+1) {
				t.Fatalf("seq not dense at %d: %d", j, h.Seq)
			}
		}
		assertReplays(t, st)
	}
}

func TestNegotiationStore_Confirm(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		s := newMemoryStore()
		_, _, err := s.Confirm(context.Background(), "offer-1", seeker)
		if !errors.Is(err, ErrNegotiationNotFound) {
			t.Fatalf("expected ErrNegotiationNotFound, got %v", err)
		}
	})

	t.Run("sets only own flag and adds no history", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})

		st, changed, err := s.Confirm(context.Background(), "offer-1", provider)
		if err != nil || !changed {
			t.Fatalf("expected change, got changed=%t err=%v", changed, err)
		}
		if !st.ConfirmationStatus.Provider || st.ConfirmationStatus.Seeker {
			t.Fatalf("unexpected flags: %+v", st.ConfirmationStatus)
		}
		if len(st.History) != 1 || st.CanAcceptOffer() {
			t.Fatalf("unexpected state: %+v", st)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})
		once := mustConfirm(t, s, seeker)

		twice, changed, err := s.Confirm(context.Background(), "offer-1", seeker)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed {
			t.Fatalf("second confirm should not report a change")
		}
		if twice.Version != once.Version || twice.ConfirmationStatus != once.ConfirmationStatus || len(twice.History) != len(once.History) {
			t.Fatalf("second confirm changed state: %+v vs %+v", once, twice)
		}
	})

	t.Run("idempotent confirm does not touch persistence", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, noRetry())

		repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(entities.NegotiationState{
			OfferID:            "offer-1",
			Status:             entities.OfferStatusOpen,
			ConfirmationStatus: entities.ConfirmationStatus{Seeker: true},
			Version:            4,
		}, nil)

		st, changed, err := s.Confirm(context.Background(), "offer-1", seeker)
		if err != nil || changed || st.Version != 4 {
			t.Fatalf("unexpected result: changed=%t version=%d err=%v", changed, st.Version, err)
		}
	})
}

func TestNegotiationStore_Reset(t *testing.T) {
	t.Run("clears flags and appends note", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})
		mustConfirm(t, s, seeker)
		mustConfirm(t, s, provider)

		st, err := s.Reset(context.Background(), "offer-1", provider)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.ConfirmationStatus.Any() {
			t.Fatalf("expected flags cleared")
		}
		if *st.CurrentTerms.Value(entities.TermPrice) != "500" {
			t.Fatalf("reset must not change terms")
		}
		last := st.History[len(st.History)-1]
		if !last.IsNote() || *last.Note != entities.NoteConfirmationsResetManually || last.ChangedBy != entities.PartyProvider {
			t.Fatalf("unexpected note: %+v", last)
		}
		assertReplays(t, st)
	})

	t.Run("not found", func(t *testing.T) {
		s := newMemoryStore()
		_, err := s.Reset(context.Background(), "offer-1", seeker)
		if !errors.Is(err, ErrNegotiationNotFound) {
			t.Fatalf("expected ErrNegotiationNotFound, got %v", err)
		}
	})
}

func TestNegotiationStore_Close(t *testing.T) {
	t.Run("accept requires mutual confirmation", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})
		mustConfirm(t, s, seeker)

		_, err := s.Close(context.Background(), "offer-1", entities.OfferStatusAccepted, true)
		if !errors.Is(err, ErrNotMutuallyConfirmed) {
			t.Fatalf("expected ErrNotMutuallyConfirmed, got %v", err)
		}
	})

	t.Run("terminal negotiation rejects every command", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})
		mustConfirm(t, s, seeker)
		mustConfirm(t, s, provider)

		st, err := s.Close(context.Background(), "offer-1", entities.OfferStatusAccepted, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.Phase() != entities.PhaseAccepted {
			t.Fatalf("expected accepted, got %s", st.Phase())
		}

		if _, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Price: price("1")}); !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("edit: expected ErrNegotiationTerminal, got %v", err)
		}
		if _, _, err := s.Confirm(context.Background(), "offer-1", seeker); !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("confirm: expected ErrNegotiationTerminal, got %v", err)
		}
		if _, err := s.Reset(context.Background(), "offer-1", seeker); !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("reset: expected ErrNegotiationTerminal, got %v", err)
		}
		if _, err := s.Close(context.Background(), "offer-1", entities.OfferStatusCancelled, false); !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("cancel: expected ErrNegotiationTerminal, got %v", err)
		}

		history, err := s.History(context.Background(), "offer-1")
		if err != nil || len(history) != 1 {
			t.Fatalf("history should stay readable, got %d entries err=%v", len(history), err)
		}
	})

	t.Run("closing twice with the same status is idempotent", func(t *testing.T) {
		s := newMemoryStore()
		mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})

		first, err := s.Close(context.Background(), "offer-1", entities.OfferStatusCancelled, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := s.Close(context.Background(), "offer-1", entities.OfferStatusCancelled, false)
		if err != nil || second.Version != first.Version {
			t.Fatalf("expected idempotent close, got version %d err=%v", second.Version, err)
		}
	})

	t.Run("cancel without a negotiation archives an empty one", func(t *testing.T) {
		s := newMemoryStore()
		ctx := context.Background()

		if _, err := s.Close(ctx, "offer-1", entities.OfferStatusAccepted, true); !errors.Is(err, ErrNegotiationNotFound) {
			t.Fatalf("accept: expected ErrNegotiationNotFound, got %v", err)
		}
		st, err := s.Close(ctx, "offer-1", entities.OfferStatusCancelled, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.OfferID != "offer-1" || st.Version != 1 || st.Phase() != entities.PhaseCancelled || !st.CurrentTerms.IsEmpty() {
			t.Fatalf("unexpected state: %+v", st)
		}
		if _, err := s.ApplyEdit(ctx, "offer-1", seeker, entities.NegotiationTerms{Price: price("10")}); !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("expected ErrNegotiationTerminal, got %v", err)
		}
	})

	t.Run("non terminal status", func(t *testing.T) {
		s := newMemoryStore()
		if _, err := s.Close(context.Background(), "offer-1", entities.OfferStatusOpen, false); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("terminal state survives a reload", func(t *testing.T) {
		repo := memory.NewNegotiationMemoryRepository()
		s := NewNegotiationStore(repo, noRetry())
		if _, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Scope: str("x")}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := s.Close(context.Background(), "offer-1", entities.OfferStatusCancelled, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reloaded := NewNegotiationStore(repo, noRetry())
		_, err := reloaded.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Scope: str("y")})
		if !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("expected ErrNegotiationTerminal after reload, got %v", err)
		}
	})
}

func TestNegotiationStore_History(t *testing.T) {
	s := newMemoryStore()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("500")})
	clock = clock.Add(time.Minute)
	mustEdit(t, s, provider, entities.NegotiationTerms{Price: price("550"), Scope: str("kitchen")})
	clock = clock.Add(time.Minute)
	mustEdit(t, s, seeker, entities.NegotiationTerms{Materials: str("client supplies")})

	all, err := s.History(context.Background(), "offer-1")
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d err=%v", len(all), err)
	}

	since, err := s.HistorySince(context.Background(), "offer-1", all[0].Timestamp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(since) != 3 || since[0].Seq != 2 {
		t.Fatalf("unexpected since result: %+v", since)
	}

	after, err := s.HistoryAfter(context.Background(), "offer-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(after) != 1 || after[0].Field != entities.TermMaterials {
		t.Fatalf("unexpected after result: %+v", after)
	}

	if _, err := s.History(context.Background(), "offer-2"); !errors.Is(err, ErrNegotiationNotFound) {
		t.Fatalf("expected ErrNegotiationNotFound, got %v", err)
	}
}

func TestNegotiationStore_PersistenceFailure(t *testing.T) {
	t.Run("failed commit is rolled back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

		repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(entities.NegotiationState{}, nil)
		repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Len(1), int64(0)).Return(errors.New("throttled")).Times(3)
		repo.EXPECT().LoadVersion(gomock.Any(), "offer-1").Return(int64(0), nil)

		_, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Price: price("500")})
		if !errors.Is(err, ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", err)
		}
		if _, err := s.Get(context.Background(), "offer-1"); !errors.Is(err, ErrNegotiationNotFound) {
			t.Fatalf("uncommitted negotiation must not be visible, got %v", err)
		}
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, RetryPolicy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

		repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(entities.NegotiationState{}, nil)
		gomock.InOrder(
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), int64(0)).Return(errors.New("timeout")),
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), int64(0)).DoAndReturn(
				func(_ context.Context, st entities.NegotiationState, entries []entities.NegotiationHistoryEntry, _ int64) error {
					if st.Version != 1 || st.LastSeq() != 1 {
						t.Fatalf("unexpected snapshot: %+v", st)
					}
					if len(entries) != 1 || entries[0].Seq != 1 || entries[0].Field != entities.TermPrice {
						t.Fatalf("unexpected entries: %+v", entries)
					}
					return nil
				},
			),
		)

		st, err := s.ApplyEdit(context.Background(), "offer-1", seeker, entities.NegotiationTerms{Price: price("500")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if st.Version != 1 {
			t.Fatalf("expected version 1, got %d", st.Version)
		}
	})

	t.Run("stale commit reloads and applies the command once more", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, RetryPolicy{MaxRetries: 5, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

		base := entities.NegotiationState{
			OfferID: "offer-1",
			Status:  entities.OfferStatusOpen,
			Version: 2,
		}
		newer := base
		newer.Version = 3
		newer.ConfirmationStatus = entities.ConfirmationStatus{Provider: true}

		gomock.InOrder(
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(base, nil),
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), int64(2)).Return(interfaces.ErrStaleVersion),
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(newer, nil),
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), int64(3)).Return(nil),
		)

		st, changed, err := s.Confirm(context.Background(), "offer-1", seeker)
		if err != nil || !changed {
			t.Fatalf("unexpected result: changed=%t err=%v", changed, err)
		}
		if st.Version != 4 || !st.CanAcceptOffer() {
			t.Fatalf("confirm should apply on top of the reloaded state, got %+v", st)
		}
	})

	t.Run("second stale commit surfaces and forces a reload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, RetryPolicy{MaxRetries: 5, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond})

		base := entities.NegotiationState{OfferID: "offer-1", Status: entities.OfferStatusOpen, Version: 2}
		newer := base
		newer.Version = 3
		newest := base
		newest.Version = 4
		newest.ConfirmationStatus = entities.ConfirmationStatus{Seeker: true}

		gomock.InOrder(
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(base, nil),
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), int64(2)).Return(interfaces.ErrStaleVersion),
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(newer, nil),
			repo.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), int64(3)).Return(interfaces.ErrStaleVersion),
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(newest, nil),
		)

		_, _, err := s.Confirm(context.Background(), "offer-1", seeker)
		if !errors.Is(err, ErrPersistenceFailure) || !errors.Is(err, interfaces.ErrStaleVersion) {
			t.Fatalf("expected a stale persistence failure, got %v", err)
		}
		st, err := s.Get(context.Background(), "offer-1")
		if err != nil || st.Version != 4 || !st.ConfirmationStatus.Seeker {
			t.Fatalf("expected reloaded state, got %+v err=%v", st, err)
		}
	})

	t.Run("reads reload when the stored version moved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, noRetry())

		base := entities.NegotiationState{OfferID: "offer-1", Status: entities.OfferStatusOpen, Version: 1}
		newer := base
		newer.Version = 2
		newer.ConfirmationStatus = entities.ConfirmationStatus{Provider: true}

		gomock.InOrder(
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(base, nil),
			repo.EXPECT().LoadVersion(gomock.Any(), "offer-1").Return(int64(1), nil),
			repo.EXPECT().LoadVersion(gomock.Any(), "offer-1").Return(int64(2), nil),
			repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(newer, nil),
		)

		ctx := context.Background()
		if st, err := s.Get(ctx, "offer-1"); err != nil || st.Version != 1 {
			t.Fatalf("unexpected state: %+v err=%v", st, err)
		}
		if st, err := s.Get(ctx, "offer-1"); err != nil || st.Version != 1 {
			t.Fatalf("unchanged version should be served from the slot: %+v err=%v", st, err)
		}
		st, err := s.Get(ctx, "offer-1")
		if err != nil || st.Version != 2 || !st.ConfirmationStatus.Provider {
			t.Fatalf("expected the newer commit, got %+v err=%v", st, err)
		}
	})

	t.Run("load failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, noRetry())

		repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(entities.NegotiationState{}, errors.New("unreachable"))

		_, err := s.Get(context.Background(), "offer-1")
		if !errors.Is(err, ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", err)
		}
	})

	t.Run("version check failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockINegotiationRepository(ctrl)
		s := NewNegotiationStore(repo, noRetry())

		repo.EXPECT().LoadState(gomock.Any(), "offer-1").Return(entities.NegotiationState{OfferID: "offer-1", Status: entities.OfferStatusOpen, Version: 1}, nil)
		repo.EXPECT().LoadVersion(gomock.Any(), "offer-1").Return(int64(0), errors.New("unreachable"))

		if _, err := s.Get(context.Background(), "offer-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := s.History(context.Background(), "offer-1")
		if !errors.Is(err, ErrPersistenceFailure) {
			t.Fatalf("expected ErrPersistenceFailure, got %v", err)
		}
	})
}

// Two stores on one repository stand in for two service instances.
func TestNegotiationStore_SharedRepository(t *testing.T) {
	t.Run("stale instance cannot overwrite committed history", func(t *testing.T) {
		repo := memory.NewNegotiationMemoryRepository()
		a := NewNegotiationStore(repo, noRetry())
		b := NewNegotiationStore(repo, noRetry())
		ctx := context.Background()

		mustEdit(t, a, seeker, entities.NegotiationTerms{Price: price("500")})
		mustEdit(t, b, provider, entities.NegotiationTerms{Price: price("450")})

		// a still holds version 1 in its slot
		st, err := a.ApplyEdit(ctx, "offer-1", seeker, entities.NegotiationTerms{Scope: str("paint")})
		if err != nil {
			t.Fatalf("edit from the stale instance should apply after a reload: %v", err)
		}
		if st.Version != 3 || !st.CurrentTerms.Price.Equal(*price("450")) || *st.CurrentTerms.Scope != "paint" {
			t.Fatalf("unexpected state: %+v", st)
		}

		fresh, err := NewNegotiationStore(repo, noRetry()).Get(ctx, "offer-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(fresh.History) != 3 {
			t.Fatalf("expected 3 history entries, got %+v", fresh.History)
		}
		if fresh.History[1].Field != entities.TermPrice || fresh.History[1].ChangedBy != entities.PartyProvider {
			t.Fatalf("committed entry was overwritten: %+v", fresh.History[1])
		}
		if fresh.History[2].Field != entities.TermScope {
			t.Fatalf("unexpected entry: %+v", fresh.History[2])
		}
		assertReplays(t, fresh)
	})

	t.Run("reads see commits from another instance", func(t *testing.T) {
		repo := memory.NewNegotiationMemoryRepository()
		a := NewNegotiationStore(repo, noRetry())
		b := NewNegotiationStore(repo, noRetry())
		ctx := context.Background()

		mustEdit(t, a, seeker, entities.NegotiationTerms{Price: price("500")})
		mustEdit(t, b, provider, entities.NegotiationTerms{Price: price("450")})

		st, err := a.Get(ctx, "offer-1")
		if err != nil || st.Version != 2 || !st.CurrentTerms.Price.Equal(*price("450")) {
			t.Fatalf("expected the other instance's commit, got %+v err=%v", st, err)
		}
		history, err := a.HistoryAfter(ctx, "offer-1", 1)
		if err != nil || len(history) != 1 || history[0].ChangedBy != entities.PartyProvider {
			t.Fatalf("unexpected history: %+v err=%v", history, err)
		}
	})

	t.Run("edit after a close on another instance is refused", func(t *testing.T) {
		repo := memory.NewNegotiationMemoryRepository()
		a := NewNegotiationStore(repo, noRetry())
		b := NewNegotiationStore(repo, noRetry())
		ctx := context.Background()

		mustEdit(t, a, seeker, entities.NegotiationTerms{Price: price("500")})
		if _, err := b.Close(ctx, "offer-1", entities.OfferStatusCancelled, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := a.ApplyEdit(ctx, "offer-1", seeker, entities.NegotiationTerms{Price: price("400")})
		if !errors.Is(err, ErrNegotiationTerminal) {
			t.Fatalf("expected ErrNegotiationTerminal, got %v", err)
		}
	})
}

func TestNegotiationStore_ConcurrentEdits(t *testing.T) {
	s := newMemoryStore()
	mustEdit(t, s, seeker, entities.NegotiationTerms{Price: price("100")})

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := seeker
			if i%2 == 1 {
				actor = provider
			}
			p := decimal.NewFromInt(int64(200 + i))
			_, err := s.ApplyEdit(context.Background(), "offer-1", actor, entities.NegotiationTerms{Price: &p})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent edit failed: %v", err)
		}
	}

	st, err := s.Get(context.Background(), "offer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.History) != workers+1 {
		t.Fatalf("expected %d entries, got %d", workers+1, len(st.History))
	}
	last := st.History[len(st.History)-1]
	if *last.NewValue != *st.CurrentTerms.Value(entities.TermPrice) {
		t.Fatalf("current terms should equal the last applied edit: %s vs %s", *last.NewValue, *st.CurrentTerms.Value(entities.TermPrice))
	}
	assertReplays(t, st)
}

func TestNegotiationStore_OffersAreIndependent(t *testing.T) {
	s := newMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("offer-%d", i)
			if _, err := s.ApplyEdit(context.Background(), id, seeker, entities.NegotiationTerms{Scope: str(id)}); err != nil {
				t.Errorf("edit %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("offer-%d", i)
		st, err := s.Get(context.Background(), id)
		if err != nil || *st.CurrentTerms.Scope != id {
			t.Fatalf("unexpected state for %s: %+v err=%v", id, st, err)
		}
	}
}
