package catalog

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PocketCatalog/pkg/kit"
)

// Server exposes the presentation-facing contract over HTTP: the UI layer is
// an external process that reads the working set and drives refreshes,
// favorite toggles and submissions through these routes.
type Server struct {
	Sync    *Synchronizer
	Log     *zap.Logger
	Limiter *kit.IPRateLimiter
}

const maxUploadBytes = 10 << 20

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Sync.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Post("/refresh", s.refresh)
	r.Post("/products/{name}/favorite", s.toggleFavorite)

	if s.Limiter != nil {
		r.With(s.Limiter.Middleware).Post("/products", s.add)
	} else {
		r.Post("/products", s.add)
	}

	return r
}

type listResponse struct {
	IsLoading bool      `json:"is_loading"`
	Products  []Product `json:"products"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, listResponse{
		IsLoading: s.Sync.Loading(),
		Products:  s.Sync.Filtered(r.URL.Query().Get("search")),
	})
}

type refreshResponse struct {
	Source Source `json:"source"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	out := s.Sync.Refresh(r.Context())

	resp := refreshResponse{Source: out.Source, Count: out.Count}
	if out.Err != nil {
		// Absorbed, not re-raised: the response is still 200 with whatever
		// the cache held, but the caller can see it was served stale.
		resp.Error = out.Err.Error()
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	updated := s.Sync.ToggleFavorite(r.Context(), name)
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// add accepts the same multipart form the remote service does, validates it,
// and forwards it. The outcome body, not the status code, is the contract:
// rejected submissions still answer 200 with success=false and the message
// the UI shows in its notification.
func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad multipart form", nil)
		return
	}

	in := AddProductInput{
		Name:  r.FormValue("product_name"),
		Type:  r.FormValue("product_type"),
		Price: r.FormValue("price"),
		Tax:   r.FormValue("tax"),
	}

	var imageBytes []byte
	if file, _, err := r.FormFile(imagePartName); err == nil {
		defer file.Close()
		imageBytes, err = io.ReadAll(file)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad image upload", nil)
			return
		}
	}

	kit.WriteJSON(w, http.StatusOK, s.Sync.AddProduct(r.Context(), in, imageBytes))
}
