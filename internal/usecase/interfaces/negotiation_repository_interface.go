package interfaces

import (
	"context"
	"errors"

	"offer_negotiation/internal/domain/entities"
)

// ErrStaleVersion is returned by Commit when the stored snapshot is not at the
// expected version or one of the history rows already exists (another writer
// committed first). Nothing is written in that case.
var ErrStaleVersion = errors.New("negotiation snapshot version conflict")

// INegotiationRepository is the durable persistence contract consumed by the
// negotiation store.
//
// Commit writes the snapshot and the command's new history rows atomically.
// The snapshot is written only if the stored version equals expectedVersion
// (0 meaning "no snapshot yet"), and every history row is insert-only: a row
// whose seq already exists fails the whole commit with ErrStaleVersion.
//
// LoadState returns a zero-value state (empty OfferID) and a nil error when no
// negotiation exists for offerID. LoadVersion returns 0 in the same case.
type INegotiationRepository interface {
	LoadState(ctx context.Context, offerID string) (entities.NegotiationState, error)
	LoadVersion(ctx context.Context, offerID string) (int64, error)
	Commit(ctx context.Context, state entities.NegotiationState, entries []entities.NegotiationHistoryEntry, expectedVersion int64) error
}
