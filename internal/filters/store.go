package filters

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/listforge/listforge/internal/shared"
)

const kvKey = "listforge:custom_filters"

// Store owns the saved filter collection, persisting the whole document on
// every mutation.
type Store struct {
	mu      sync.Mutex
	kv      *shared.KV
	filters []CustomFilter
	loaded  bool
}

// NewStore constructs the filter store backed by the shared KV.
func NewStore(kv *shared.KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	var filters []CustomFilter
	found, err := s.kv.Load(ctx, kvKey, &filters)
	if err != nil {
		// Redis unreachable; stay unloaded so the next call retries.
		return
	}
	if found {
		s.filters = filters
	}
	s.loaded = true
}

func (s *Store) persist(ctx context.Context) error {
	return s.kv.Save(ctx, kvKey, s.filters)
}

// List returns a copy of every saved filter.
func (s *Store) List(ctx context.Context) []CustomFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	out := make([]CustomFilter, len(s.filters))
	copy(out, s.filters)
	return out
}

// Get fetches one saved filter by id.
func (s *Store) Get(ctx context.Context, id string) (CustomFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for _, f := range s.filters {
		if f.ID == id {
			return f, nil
		}
	}
	return CustomFilter{}, ErrFilterNotFound
}

// Save upserts a filter by id, stamping a fresh id when absent.
func (s *Store) Save(ctx context.Context, f CustomFilter) (CustomFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	for i := range f.Criteria {
		if f.Criteria[i].ID == "" {
			f.Criteria[i].ID = uuid.NewString()
		}
	}
	prev := append([]CustomFilter{}, s.filters...)
	replaced := false
	for i, existing := range s.filters {
		if existing.ID == f.ID {
			s.filters[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		s.filters = append(s.filters, f)
	}
	if err := s.persist(ctx); err != nil {
		s.filters = prev
		return CustomFilter{}, err
	}
	return f, nil
}

// Delete removes a saved filter by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	for i, f := range s.filters {
		if f.ID != id {
			continue
		}
		prev := s.filters
		s.filters = append(append([]CustomFilter{}, s.filters[:i]...), s.filters[i+1:]...)
		if err := s.persist(ctx); err != nil {
			s.filters = prev
			return err
		}
		return nil
	}
	return ErrFilterNotFound
}
