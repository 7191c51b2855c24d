// internal/server/handlers/analysis.go

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trendxl/internal/adapter/storage"
	"trendxl/internal/domain/insight"
)

// ResultReader defines the cached-result queries the analysis handler needs
type ResultReader interface {
	GetLatestResult(ctx context.Context, owner string) (*insight.AnalysisResult, error)
}

// AnalysisHandler handles analytics HTTP requests
type AnalysisHandler struct {
	results     ResultReader
	refresher   Refresher
	cacheMaxAge time.Duration
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(results ResultReader, refresher Refresher, cacheMaxAge time.Duration) *AnalysisHandler {
	if cacheMaxAge <= 0 {
		cacheMaxAge = time.Hour
	}
	return &AnalysisHandler{
		results:     results,
		refresher:   refresher,
		cacheMaxAge: cacheMaxAge,
	}
}

// GetAnalytics returns the analysis result for a creator. A fresh cached
// result is served directly; a stale or missing one triggers the pipeline.
// With ?cached=1 only the cache is consulted.
func (h *AnalysisHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	username := normalizeUsername(chi.URLParam(r, "username"))
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}

	cachedOnly := r.URL.Query().Get("cached") == "1"

	cached, err := h.results.GetLatestResult(r.Context(), username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		respondWithError(w, http.StatusInternalServerError, "Failed to get analysis", err)
		return
	}

	if cachedOnly {
		if cached == nil {
			respondWithError(w, http.StatusNotFound, "No cached analysis", nil)
			return
		}
		respondWithJSON(w, http.StatusOK, cached)
		return
	}

	if cached != nil && time.Since(cached.GeneratedAt) < h.cacheMaxAge {
		respondWithJSON(w, http.StatusOK, cached)
		return
	}

	result, err := h.refresher.RefreshProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not tracked", nil)
			return
		}
		// A stale result beats no result when the pipeline is down
		if cached != nil {
			log.Printf("Refresh failed for @%s, serving stale analysis: %v", username, err)
			respondWithJSON(w, http.StatusOK, cached)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to run analysis", err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
