package repository

import (
	"context"
	"errors"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OfferPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.IOfferRepository = (*OfferPostgresRepository)(nil)

func NewOfferPostgresRepository(pool *pgxpool.Pool) *OfferPostgresRepository {
	return &OfferPostgresRepository{pool: pool}
}

func (r *OfferPostgresRepository) Create(ctx context.Context, o entities.Offer) (entities.Offer, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO offers (id, seeker_id, provider_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		o.ID, o.SeekerID, o.ProviderID, string(o.Status), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return entities.Offer{}, err
	}
	if tag.RowsAffected() == 0 {
		return entities.Offer{}, interfaces.ErrOfferConflict
	}
	return o, nil
}

func (r *OfferPostgresRepository) GetByID(ctx context.Context, id string) (entities.Offer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, seeker_id, provider_id, status, created_at, updated_at
		FROM offers WHERE id = $1`, id)
	return scanOffer(row)
}

func (r *OfferPostgresRepository) UpdateStatus(ctx context.Context, id string, status entities.OfferStatus) (entities.Offer, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE offers SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, seeker_id, provider_id, status, created_at, updated_at`,
		id, string(status), time.Now().UTC())
	return scanOffer(row)
}

func scanOffer(row pgx.Row) (entities.Offer, error) {
	var (
		o      entities.Offer
		status string
	)
	err := row.Scan(&o.ID, &o.SeekerID, &o.ProviderID, &status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.Offer{}, nil
	}
	if err != nil {
		return entities.Offer{}, err
	}
	o.Status = entities.OfferStatus(status)
	return o, nil
}
