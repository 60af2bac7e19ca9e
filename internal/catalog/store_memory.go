package catalog

import (
	"context"
	"sync"
)

type MemStore struct {
	mu        sync.RWMutex
	products  map[string]Product
	favorites map[string]bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		products:  map[string]Product{},
		favorites: map[string]bool{},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) UpsertAll(ctx context.Context, products []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range products {
		p.IsFavorite = false
		s.products[p.Name] = p
	}
	return nil
}

func (s *MemStore) FetchAll(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		p.IsFavorite = s.favorites[p.Name]
		out = append(out, p)
	}
	return out, nil
}

func (s *MemStore) SetFavorite(ctx context.Context, name string, favorite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if favorite {
		s.favorites[name] = true
	} else {
		delete(s.favorites, name)
	}
	return nil
}

func (s *MemStore) Favorites(ctx context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.favorites))
	for k, v := range s.favorites {
		out[k] = v
	}
	return out, nil
}
