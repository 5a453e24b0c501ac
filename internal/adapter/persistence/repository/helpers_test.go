package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"offer_negotiation/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func str(s string) *string { return &s }

func TestTermColumns(t *testing.T) {
	t.Run("canonical strings survive the round trip", func(t *testing.T) {
		p := decimal.RequireFromString("499.90")
		in := entities.NegotiationTerms{Price: &p, Date: str("2024-05-01"), Scope: str("kitchen")}

		cols := toTermColumns(in)
		if *cols.Price != "499.9" || cols.Time != nil || cols.Materials != nil {
			t.Fatalf("unexpected columns: %+v", cols)
		}
		out, err := cols.terms()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Equal(in) {
			t.Fatalf("terms changed: %+v vs %+v", out, in)
		}
	})

	t.Run("corrupt price", func(t *testing.T) {
		_, err := termColumns{Price: str("free")}.terms()
		if !errors.Is(err, entities.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
	})
}

func TestNegotiationItem(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st := entities.NegotiationState{
		OfferID:            "offer-1",
		CurrentTerms:       entities.NegotiationTerms{Scope: str("paint")},
		ConfirmationStatus: entities.ConfirmationStatus{Provider: true},
		LastUpdatedBy:      entities.PartySeeker,
		Status:             entities.OfferStatusOpen,
		Version:            3,
		History: []entities.NegotiationHistoryEntry{
			{Seq: 1, OfferID: "offer-1", Field: entities.TermScope, NewValue: str("paint"), Timestamp: ts},
			{Seq: 2, OfferID: "offer-1", Note: str(entities.NoteConfirmationsResetManually), Timestamp: ts},
		},
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	it := toNegotiationItem(st)
	if it.LastSeq != 2 || it.Version != 3 || !it.ProviderConfirmed || it.SeekerConfirmed {
		t.Fatalf("unexpected item: %+v", it)
	}

	back, err := fromNegotiationItem(it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.History != nil {
		t.Fatalf("history is loaded separately")
	}
	if !back.CurrentTerms.Equal(st.CurrentTerms) || back.ConfirmationStatus != st.ConfirmationStatus || !back.UpdatedAt.Equal(ts) {
		t.Fatalf("unexpected state: %+v", back)
	}

	note := fromHistoryItem(toHistoryItem(st.History[1]))
	if !note.IsNote() || *note.Note != entities.NoteConfirmationsResetManually || !note.Timestamp.Equal(ts) {
		t.Fatalf("unexpected note entry: %+v", note)
	}
}

func TestCommitConflictDetection(t *testing.T) {
	t.Run("dynamodb condition failure", func(t *testing.T) {
		err := fmt.Errorf("operation error DynamoDB: TransactWriteItems: %w", &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{
				{Code: aws.String("None")},
				{Code: aws.String("ConditionalCheckFailed")},
			},
		})
		if !isConditionalCancel(err) {
			t.Fatalf("expected a conditional cancel")
		}
	})

	t.Run("dynamodb transaction conflict stays retryable", func(t *testing.T) {
		err := &types.TransactionCanceledException{
			CancellationReasons: []types.CancellationReason{{Code: aws.String("TransactionConflict")}},
		}
		if isConditionalCancel(err) {
			t.Fatalf("transaction conflicts must not be reported as stale")
		}
		if isConditionalCancel(errors.New("throttled")) {
			t.Fatalf("plain errors must not be reported as stale")
		}
	})

	t.Run("postgres duplicate history row", func(t *testing.T) {
		if !isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
			t.Fatalf("expected a unique violation")
		}
		if isUniqueViolation(&pgconn.PgError{Code: "40001"}) {
			t.Fatalf("serialization failures are not duplicates")
		}
	})
}
