package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Source says where a refresh got its data from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// RefreshOutcome is the typed result of a refresh. A failed fetch is absorbed
// — the working set falls back to the cache and no error escapes — but the
// outcome still records what happened so callers and tests can tell "remote
// returned nothing" from "network down, serving stale data".
type RefreshOutcome struct {
	Source Source
	Count  int
	Err    error
}

// Outcome is the user-facing verdict of a product submission, shaped for the
// single modal notification the UI shows.
type Outcome struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

const (
	titleSuccess = "Success"
	titleError   = "Error"
)

// Synchronizer owns the session's working product set and reconciles it
// against the remote catalog and the local cache. All mutation entry points
// serialize on one mutex: a refresh landing concurrently with a favorite
// toggle operates on a consistent set, and two overlapping refreshes resolve
// last-writer-wins.
type Synchronizer struct {
	Remote *RemoteClient
	Store  Store
	Log    *zap.Logger

	mu      sync.Mutex
	loading bool
	working []Product
}

// Refresh replaces the working set. On a successful fetch the remote records
// win wholesale for every field except the favorite flag, which is locally
// owned: the separately stored flags are re-applied before the set is
// installed and written through to the cache. On a failed fetch the cache
// contents become the working set and the failure is absorbed.
func (s *Synchronizer) Refresh(ctx context.Context) RefreshOutcome {
	s.setLoading(true)
	defer s.setLoading(false)

	fetched, err := s.Remote.FetchAll(ctx)
	if err != nil {
		s.logWarn("fetch failed, falling back to cache", err)
		cached := s.loadCached(ctx)
		s.install(cached)
		return RefreshOutcome{Source: SourceCache, Count: len(cached), Err: err}
	}

	favorites, ferr := s.Store.Favorites(ctx)
	if ferr != nil {
		// Cache is advisory: a broken favorites read costs the flags for
		// this session but never fails the refresh.
		s.logWarn("favorites read failed", ferr)
	}
	for i := range fetched {
		fetched[i].IsFavorite = favorites[fetched[i].Name]
	}
	sortFavoritesFirst(fetched)

	s.install(fetched)

	if perr := s.Store.UpsertAll(ctx, fetched); perr != nil {
		s.logWarn("cache write failed", perr)
	}
	return RefreshOutcome{Source: SourceRemote, Count: len(fetched)}
}

// ToggleFavorite flips the flag of the named product in the working set and
// persists it, with no remote round trip. An absent name is a silent no-op;
// the return value reports whether anything changed.
func (s *Synchronizer) ToggleFavorite(ctx context.Context, name string) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.working {
		if s.working[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.working[idx].IsFavorite = !s.working[idx].IsFavorite
	favorite := s.working[idx].IsFavorite
	s.mu.Unlock()

	if err := s.Store.SetFavorite(ctx, name, favorite); err != nil {
		s.logWarn("favorite write failed", err)
	}
	return true
}

// AddProduct validates the submission, then sends it to the remote. Adding a
// product requires connectivity: there is no offline write queue, and the
// product only counts as existing once the remote acknowledged it.
func (s *Synchronizer) AddProduct(ctx context.Context, in AddProductInput, imageBytes []byte) Outcome {
	p, err := in.Validate()
	if err != nil {
		ve, _ := AsValidation(err)
		return Outcome{Success: false, Title: titleError, Message: ve.Message}
	}

	ok, err := s.Remote.Submit(ctx, p, imageBytes)
	if err != nil {
		s.logWarn("submit request could not be built", err)
		return Outcome{Success: false, Title: titleError, Message: "Failed to add product"}
	}
	if !ok {
		return Outcome{Success: false, Title: titleError, Message: "Product not added"}
	}
	return Outcome{Success: true, Title: titleSuccess, Message: "Product added successfully"}
}

// Loading reports whether a refresh is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Products returns a copy of the working set.
func (s *Synchronizer) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.working))
	copy(out, s.working)
	return out
}

// Filtered projects the working set through the search filter.
func (s *Synchronizer) Filtered(search string) []Product {
	return Project(s.Products(), search)
}

func (s *Synchronizer) loadCached(ctx context.Context) []Product {
	cached, err := s.Store.FetchAll(ctx)
	if err != nil {
		s.logWarn("cache read failed", err)
		return nil
	}
	return cached
}

func (s *Synchronizer) install(products []Product) {
	s.mu.Lock()
	s.working = products
	s.mu.Unlock()
}

func (s *Synchronizer) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Synchronizer) logWarn(msg string, err error) {
	if s.Log != nil {
		s.Log.Warn(msg, zap.Error(err))
	}
}
