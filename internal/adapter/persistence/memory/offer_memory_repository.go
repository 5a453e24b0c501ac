package memory

import (
	"context"
	"sync"
	"time"

	"offer_negotiation/internal/domain/entities"
	"offer_negotiation/internal/usecase/interfaces"
)

type OfferMemoryRepository struct {
	mu     sync.RWMutex
	offers map[string]entities.Offer
}

var _ interfaces.IOfferRepository = (*OfferMemoryRepository)(nil)

func NewOfferMemoryRepository() *OfferMemoryRepository {
	return &OfferMemoryRepository{offers: make(map[string]entities.Offer)}
}

func (r *OfferMemoryRepository) Create(_ context.Context, o entities.Offer) (entities.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[o.ID]; ok {
		return entities.Offer{}, interfaces.ErrOfferConflict
	}
	r.offers[o.ID] = o
	return o, nil
}

func (r *OfferMemoryRepository) GetByID(_ context.Context, id string) (entities.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.offers[id], nil
}

func (r *OfferMemoryRepository) UpdateStatus(_ context.Context, id string, status entities.OfferStatus) (entities.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return entities.Offer{}, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.offers[id] = o
	return o, nil
}
