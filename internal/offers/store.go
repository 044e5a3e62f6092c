package offers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/listforge/listforge/internal/shared"
)

const kvKey = "listforge:offers"

// Store owns the offer collection. All mutations are read-modify-write under
// one lock and persist the whole document before returning, so a subsequent
// read never observes a partial write.
type Store struct {
	mu     sync.Mutex
	kv     *shared.KV
	offers []Offer
	loaded bool
	now    func() time.Time
}

// NewStore constructs the offer store backed by the shared KV.
func NewStore(kv *shared.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	var offers []Offer
	found, err := s.kv.Load(ctx, kvKey, &offers)
	if err != nil {
		// Redis unreachable; stay unloaded so the next call retries.
		return
	}
	if found {
		s.offers = offers
	}
	s.loaded = true
}

func (s *Store) persist(ctx context.Context) error {
	return s.kv.Save(ctx, kvKey, s.offers)
}

// List returns a copy of every stored offer.
func (s *Store) List(ctx context.Context) []Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	out := make([]Offer, len(s.offers))
	copy(out, s.offers)
	return out
}

// Get fetches one offer by id.
func (s *Store) Get(ctx context.Context, id string) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for _, o := range s.offers {
		if o.ID == id {
			return o, nil
		}
	}
	return Offer{}, ErrOfferNotFound
}

// Create stores a new offer, stamping id and timestamps.
func (s *Store) Create(ctx context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := s.now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	s.offers = append(s.offers, o)
	if err := s.persist(ctx); err != nil {
		s.offers = s.offers[:len(s.offers)-1]
		return Offer{}, err
	}
	return o, nil
}

// Update replaces an offer in place and bumps UpdatedAt.
func (s *Store) Update(ctx context.Context, id string, update Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for i, o := range s.offers {
		if o.ID != id {
			continue
		}
		update.ID = o.ID
		update.CreatedAt = o.CreatedAt
		update.UpdatedAt = s.now().UTC()
		prev := s.offers[i]
		s.offers[i] = update
		if err := s.persist(ctx); err != nil {
			s.offers[i] = prev
			return Offer{}, err
		}
		return update, nil
	}
	return Offer{}, ErrOfferNotFound
}

// Delete removes an offer by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for i, o := range s.offers {
		if o.ID != id {
			continue
		}
		prev := s.offers
		s.offers = append(append([]Offer{}, s.offers[:i]...), s.offers[i+1:]...)
		if err := s.persist(ctx); err != nil {
			s.offers = prev
			return err
		}
		return nil
	}
	return ErrOfferNotFound
}

// ForProduct returns the eligible offers for a product right now.
func (s *Store) ForProduct(ctx context.Context, productID string) []Offer {
	return Eligible(s.List(ctx), productID, s.now())
}

// BestForProduct returns the winning offer for a product, or nil.
func (s *Store) BestForProduct(ctx context.Context, productID string) *Offer {
	return Best(s.List(ctx), productID, s.now())
}
