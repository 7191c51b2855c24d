// internal/server/handlers/trend.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trendxl/internal/adapter/storage"
	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

// RecordFinder defines the record queries the trend handler needs
type RecordFinder interface {
	FindRecords(ctx context.Context, filter content.Filter) ([]content.Record, error)
}

// Refresher runs the full ingestion pipeline for one creator on demand
type Refresher interface {
	RefreshProfile(ctx context.Context, username string) (*insight.AnalysisResult, error)
}

// TrendHandler handles trend-related HTTP requests
type TrendHandler struct {
	records   RecordFinder
	refresher Refresher
}

// NewTrendHandler creates a new trend handler
func NewTrendHandler(records RecordFinder, refresher Refresher) *TrendHandler {
	return &TrendHandler{
		records:   records,
		refresher: refresher,
	}
}

// GetTrends returns stored trend records matching the query filters
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	filter := content.Filter{
		Owner:   normalizeUsername(r.URL.Query().Get("username")),
		Keyword: r.URL.Query().Get("keyword"),
	}

	if v := r.URL.Query().Get("min_views"); v != "" {
		minViews, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_views", err)
			return
		}
		filter.MinViews = minViews
	}

	if v := r.URL.Query().Get("min_relevance"); v != "" {
		minRelevance, err := strconv.ParseFloat(v, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_relevance", err)
			return
		}
		filter.MinRelevance = minRelevance
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = limit
	}

	records, err := h.records.FindRecords(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get trends", err)
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GetTrendsForUser returns stored trend records for one creator
func (h *TrendHandler) GetTrendsForUser(w http.ResponseWriter, r *http.Request) {
	username := normalizeUsername(chi.URLParam(r, "username"))
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}

	records, err := h.records.FindRecords(r.Context(), content.Filter{Owner: username})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get trends", err)
		return
	}

	respondWithJSON(w, http.StatusOK, records)
}

type refreshRequest struct {
	Username string `json:"username"`
}

// RefreshTrends runs the ingestion pipeline for a creator immediately and
// returns the fresh analysis result
func (h *TrendHandler) RefreshTrends(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	username := normalizeUsername(req.Username)
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}

	result, err := h.refresher.RefreshProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not tracked", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to refresh trends", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		log.Printf("HTTP %d: %s: %v", code, message, err)
	}

	response := map[string]string{"error": message}
	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
