// internal/server/handlers/profile.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"trendxl/internal/adapter/storage"
	"trendxl/internal/domain/content"
)

// ProfileHandler handles creator profile HTTP requests
type ProfileHandler struct {
	provider    content.Provider
	labeler     content.Labeler
	store       content.Store
	searchDepth int
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(provider content.Provider, labeler content.Labeler, store content.Store, searchDepth int) *ProfileHandler {
	if searchDepth <= 0 {
		searchDepth = 2
	}
	return &ProfileHandler{
		provider:    provider,
		labeler:     labeler,
		store:       store,
		searchDepth: searchDepth,
	}
}

type trackProfileRequest struct {
	Username string `json:"username"`
}

type profileResponse struct {
	Profile  content.Profile          `json:"profile"`
	Analysis *content.ProfileAnalysis `json:"analysis,omitempty"`
}

// TrackProfile registers a creator for tracking: it fetches the profile from
// the provider, derives its analysis and persists both
func (h *ProfileHandler) TrackProfile(w http.ResponseWriter, r *http.Request) {
	var req trackProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	username := normalizeUsername(req.Username)
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}

	profile, err := h.provider.GetProfile(r.Context(), username)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to fetch profile", err)
		return
	}

	posts, err := h.provider.GetUserPosts(r.Context(), username, h.searchDepth)
	if err != nil {
		// Profile analysis still works from the bio alone
		posts = nil
	}

	analysis, err := h.labeler.AnalyzeProfile(r.Context(), *profile, posts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze profile", err)
		return
	}

	if err := h.store.SaveProfile(r.Context(), *profile, analysis); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, profileResponse{
		Profile:  *profile,
		Analysis: analysis,
	})
}

// GetProfile returns a tracked profile with its analysis
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := normalizeUsername(chi.URLParam(r, "username"))
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Missing username", nil)
		return
	}

	profile, analysis, err := h.store.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get profile", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, profileResponse{
		Profile:  *profile,
		Analysis: analysis,
	})
}

// normalizeUsername strips whitespace and a leading @
func normalizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}
