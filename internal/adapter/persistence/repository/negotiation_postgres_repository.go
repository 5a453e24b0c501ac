package repository

import (
	"context"
	"errors"
	"fmt"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NegotiationPostgresRepository is the SQL counterpart of
// NegotiationDynamoRepository with the same commit protocol: the snapshot is
// written under a version check and the history rows are inserted in the same
// transaction.
type NegotiationPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.INegotiationRepository = (*NegotiationPostgresRepository)(nil)

func NewNegotiationPostgresRepository(pool *pgxpool.Pool) *NegotiationPostgresRepository {
	return &NegotiationPostgresRepository{pool: pool}
}

func (r *NegotiationPostgresRepository) LoadState(ctx context.Context, offerID string) (entities.NegotiationState, error) {
	var (
		st                    entities.NegotiationState
		cols                  termColumns
		lastUpdatedBy, status string
		lastSeq               int64
	)
	err := r.pool.QueryRow(ctx, `
		SELECT offer_id, price, date, time, materials, scope,
		       seeker_confirmed, provider_confirmed, last_updated_by, last_updated_by_user_id,
		       status, version, last_seq, created_at, updated_at
		FROM negotiations WHERE offer_id = $1`, offerID).Scan(
		&st.OfferID, &cols.Price, &cols.Date, &cols.Time, &cols.Materials, &cols.Scope,
		&st.ConfirmationStatus.Seeker, &st.ConfirmationStatus.Provider, &lastUpdatedBy, &st.LastUpdatedByUserID,
		&status, &st.Version, &lastSeq, &st.CreatedAt, &st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.NegotiationState{}, nil
	}
	if err != nil {
		return entities.NegotiationState{}, err
	}
	st.LastUpdatedBy = entities.Party(lastUpdatedBy)
	st.Status = entities.OfferStatus(status)
	if st.CurrentTerms, err = cols.terms(); err != nil {
		return entities.NegotiationState{}, fmt.Errorf("negotiation %s: %w", offerID, err)
	}

	st.History, err = r.loadHistory(ctx, offerID, lastSeq)
	if err != nil {
		return entities.NegotiationState{}, err
	}
	return st, nil
}

func (r *NegotiationPostgresRepository) loadHistory(ctx context.Context, offerID string, lastSeq int64) ([]entities.NegotiationHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT seq, id, field, old_value, new_value, changed_by, changed_by_user_id, ts, note
		FROM negotiation_history
		WHERE offer_id = $1 AND seq <= $2
		ORDER BY seq`, offerID, lastSeq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entities.NegotiationHistoryEntry, 0, lastSeq)
	for rows.Next() {
		var (
			e                entities.NegotiationHistoryEntry
			field, changedBy string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &field, &e.OldValue, &e.NewValue, &changedBy, &e.ChangedByUserID, &e.Timestamp, &e.Note); err != nil {
			return nil, err
		}
		e.OfferID = offerID
		e.Field = entities.TermField(field)
		e.ChangedBy = entities.Party(changedBy)
		e.Timestamp = e.Timestamp.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if int64(len(entries)) != lastSeq {
		return nil, fmt.Errorf("negotiation %s: expected %d history rows, found %d", offerID, lastSeq, len(entries))
	}
	return entries, nil
}

func (r *NegotiationPostgresRepository) LoadVersion(ctx context.Context, offerID string) (int64, error) {
	var version int64
	err := r.pool.QueryRow(ctx, `SELECT version FROM negotiations WHERE offer_id = $1`, offerID).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

// Commit runs the versioned snapshot write and the history inserts in one
// transaction. History rows are never upserted: an existing (offer_id, seq)
// means another writer got there first.
func (r *NegotiationPostgresRepository) Commit(ctx context.Context, state entities.NegotiationState, entries []entities.NegotiationHistoryEntry, expectedVersion int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := saveSnapshot(ctx, tx, state, expectedVersion); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO negotiation_history (offer_id, seq, id, field, old_value, new_value, changed_by, changed_by_user_id, ts, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			state.OfferID, e.Seq, e.ID, string(e.Field), e.OldValue, e.NewValue,
			string(e.ChangedBy), e.ChangedByUserID, e.Timestamp, e.Note)
		if isUniqueViolation(err) {
			return interfaces.ErrStaleVersion
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func saveSnapshot(ctx context.Context, tx pgx.Tx, state entities.NegotiationState, expectedVersion int64) error {
	cols := toTermColumns(state.CurrentTerms)
	args := []any{
		state.OfferID, cols.Price, cols.Date, cols.Time, cols.Materials, cols.Scope,
		state.ConfirmationStatus.Seeker, state.ConfirmationStatus.Provider,
		string(state.LastUpdatedBy), state.LastUpdatedByUserID, string(state.Status),
		state.Version, state.LastSeq(), state.CreatedAt, state.UpdatedAt,
	}

	var query string
	if expectedVersion == 0 {
		query = `
		INSERT INTO negotiations (offer_id, price, date, time, materials, scope,
			seeker_confirmed, provider_confirmed, last_updated_by, last_updated_by_user_id,
			status, version, last_seq, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (offer_id) DO NOTHING`
	} else {
		query = `
		UPDATE negotiations SET price = $2, date = $3, time = $4, materials = $5, scope = $6,
			seeker_confirmed = $7, provider_confirmed = $8, last_updated_by = $9,
			last_updated_by_user_id = $10, status = $11, version = $12, last_seq = $13,
			created_at = $14, updated_at = $15
		WHERE offer_id = $1 AND version = $16`
		args = append(args, expectedVersion)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrStaleVersion
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
