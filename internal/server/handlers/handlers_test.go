package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"trendxl/internal/adapter/storage"
	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

type fakeRecordFinder struct {
	records    []content.Record
	lastFilter content.Filter
	err        error
}

func (f *fakeRecordFinder) FindRecords(ctx context.Context, filter content.Filter) ([]content.Record, error) {
	f.lastFilter = filter
	return f.records, f.err
}

type fakeRefresher struct {
	result *insight.AnalysisResult
	err    error
	calls  int
}

func (f *fakeRefresher) RefreshProfile(ctx context.Context, username string) (*insight.AnalysisResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeResultReader struct {
	result *insight.AnalysisResult
	err    error
}

func (f *fakeResultReader) GetLatestResult(ctx context.Context, owner string) (*insight.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestGetTrends_FilterParsing(t *testing.T) {
	finder := &fakeRecordFinder{records: []content.Record{{ID: "a"}}}
	h := NewTrendHandler(finder, &fakeRefresher{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends?username=@chef&min_views=1000&min_relevance=40&keyword=pasta&limit=25", nil)
	w := httptest.NewRecorder()
	h.GetTrends(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	f := finder.lastFilter
	if f.Owner != "chef" {
		t.Errorf("owner = %q, want chef with @ stripped", f.Owner)
	}
	if f.MinViews != 1000 || f.MinRelevance != 40 || f.Keyword != "pasta" || f.Limit != 25 {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestGetTrends_InvalidParams(t *testing.T) {
	h := NewTrendHandler(&fakeRecordFinder{}, &fakeRefresher{})

	for _, query := range []string{"min_views=abc", "min_relevance=abc", "limit=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/trends?"+query, nil)
		w := httptest.NewRecorder()
		h.GetTrends(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, w.Code)
		}
	}
}

func TestGetTrendsForUser(t *testing.T) {
	finder := &fakeRecordFinder{records: []content.Record{{ID: "a"}, {ID: "b"}}}
	h := NewTrendHandler(finder, &fakeRefresher{})

	router := chi.NewRouter()
	router.Get("/trends/{username}", h.GetTrendsForUser)

	req := httptest.NewRequest(http.MethodGet, "/trends/chef", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if finder.lastFilter.Owner != "chef" {
		t.Errorf("owner = %q, want chef", finder.lastFilter.Owner)
	}

	var records []content.Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("record count = %d, want 2", len(records))
	}
}

func TestRefreshTrends(t *testing.T) {
	refresher := &fakeRefresher{result: &insight.AnalysisResult{Owner: "chef", RunID: "run-1"}}
	h := NewTrendHandler(&fakeRecordFinder{}, refresher)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/refresh", strings.NewReader(`{"username": "chef"}`))
	w := httptest.NewRecorder()
	h.RefreshTrends(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if refresher.calls != 1 {
		t.Errorf("refresher called %d times, want 1", refresher.calls)
	}

	var result insight.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.RunID != "run-1" {
		t.Errorf("run id = %q, want run-1", result.RunID)
	}
}

func TestRefreshTrends_UntrackedProfile(t *testing.T) {
	refresher := &fakeRefresher{err: fmt.Errorf("loading profile: %w", storage.ErrNotFound)}
	h := NewTrendHandler(&fakeRecordFinder{}, refresher)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/refresh", strings.NewReader(`{"username": "ghost"}`))
	w := httptest.NewRecorder()
	h.RefreshTrends(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestRefreshTrends_MissingUsername(t *testing.T) {
	h := NewTrendHandler(&fakeRecordFinder{}, &fakeRefresher{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trends/refresh", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.RefreshTrends(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func analyticsRequest(t *testing.T, h *AnalysisHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Get("/analytics/{username}", h.GetAnalytics)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetAnalytics_ServesFreshCache(t *testing.T) {
	refresher := &fakeRefresher{}
	h := NewAnalysisHandler(&fakeResultReader{
		result: &insight.AnalysisResult{Owner: "chef", RunID: "cached", GeneratedAt: time.Now()},
	}, refresher, time.Hour)

	w := analyticsRequest(t, h, "/analytics/chef")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if refresher.calls != 0 {
		t.Errorf("refresher called %d times for fresh cache, want 0", refresher.calls)
	}
}

func TestGetAnalytics_RefreshesStaleCache(t *testing.T) {
	refresher := &fakeRefresher{result: &insight.AnalysisResult{Owner: "chef", RunID: "fresh"}}
	h := NewAnalysisHandler(&fakeResultReader{
		result: &insight.AnalysisResult{Owner: "chef", RunID: "stale", GeneratedAt: time.Now().Add(-2 * time.Hour)},
	}, refresher, time.Hour)

	w := analyticsRequest(t, h, "/analytics/chef")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if refresher.calls != 1 {
		t.Errorf("refresher called %d times for stale cache, want 1", refresher.calls)
	}

	var result insight.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.RunID != "fresh" {
		t.Errorf("run id = %q, want fresh", result.RunID)
	}
}

func TestGetAnalytics_CachedOnly(t *testing.T) {
	refresher := &fakeRefresher{}
	h := NewAnalysisHandler(&fakeResultReader{err: storage.ErrNotFound}, refresher, time.Hour)

	w := analyticsRequest(t, h, "/analytics/chef?cached=1")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for empty cache", w.Code)
	}
	if refresher.calls != 0 {
		t.Errorf("refresher called %d times in cached-only mode, want 0", refresher.calls)
	}
}

func TestGetAnalytics_StaleFallbackWhenRefreshFails(t *testing.T) {
	refresher := &fakeRefresher{err: fmt.Errorf("provider unavailable")}
	h := NewAnalysisHandler(&fakeResultReader{
		result: &insight.AnalysisResult{Owner: "chef", RunID: "stale", GeneratedAt: time.Now().Add(-2 * time.Hour)},
	}, refresher, time.Hour)

	w := analyticsRequest(t, h, "/analytics/chef")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 serving stale result", w.Code)
	}

	var result insight.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if result.RunID != "stale" {
		t.Errorf("run id = %q, want stale fallback", result.RunID)
	}
}

func TestGetAnalytics_UntrackedProfile(t *testing.T) {
	refresher := &fakeRefresher{err: fmt.Errorf("loading profile: %w", storage.ErrNotFound)}
	h := NewAnalysisHandler(&fakeResultReader{err: storage.ErrNotFound}, refresher, time.Hour)

	w := analyticsRequest(t, h, "/analytics/ghost")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

type fakeProvider struct {
	profile *content.Profile
	err     error
}

func (p *fakeProvider) GetProfile(ctx context.Context, username string) (*content.Profile, error) {
	return p.profile, p.err
}

func (p *fakeProvider) GetUserPosts(ctx context.Context, username string, depth int) ([]content.Record, error) {
	return nil, nil
}

func (p *fakeProvider) SearchKeyword(ctx context.Context, keyword string, maxResults int) ([]content.Record, error) {
	return nil, nil
}

func (p *fakeProvider) SearchHashtag(ctx context.Context, hashtag string, maxResults int) ([]content.Record, error) {
	return nil, nil
}

type fakeLabeler struct {
	analysis content.ProfileAnalysis
}

func (l *fakeLabeler) AnalyzeProfile(ctx context.Context, profile content.Profile, posts []content.Record) (*content.ProfileAnalysis, error) {
	a := l.analysis
	return &a, nil
}

func (l *fakeLabeler) LabelRecords(ctx context.Context, records []content.Record, analysis content.ProfileAnalysis) ([]content.Record, error) {
	return records, nil
}

type fakeStore struct {
	profile  *content.Profile
	analysis *content.ProfileAnalysis
	saveErr  error
	getErr   error
}

func (s *fakeStore) SaveProfile(ctx context.Context, profile content.Profile, analysis *content.ProfileAnalysis) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.profile = &profile
	s.analysis = analysis
	return nil
}

func (s *fakeStore) GetProfile(ctx context.Context, username string) (*content.Profile, *content.ProfileAnalysis, error) {
	if s.getErr != nil {
		return nil, nil, s.getErr
	}
	return s.profile, s.analysis, nil
}

func (s *fakeStore) SaveRecords(ctx context.Context, owner string, records []content.Record) error {
	return nil
}

func (s *fakeStore) FindRecords(ctx context.Context, filter content.Filter) ([]content.Record, error) {
	return nil, nil
}

func TestTrackProfile(t *testing.T) {
	store := &fakeStore{}
	h := NewProfileHandler(
		&fakeProvider{profile: &content.Profile{Username: "chef", FollowerCount: 40000}},
		&fakeLabeler{analysis: content.ProfileAnalysis{Niche: "cooking"}},
		store,
		2,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(`{"username": "@chef"}`))
	w := httptest.NewRecorder()
	h.TrackProfile(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if store.profile == nil || store.profile.Username != "chef" {
		t.Error("profile not persisted")
	}
	if store.analysis == nil || store.analysis.Niche != "cooking" {
		t.Error("analysis not persisted")
	}

	var resp profileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Profile.FollowerCount != 40000 {
		t.Errorf("follower count = %d, want 40000", resp.Profile.FollowerCount)
	}
}

func TestTrackProfile_ProviderFailure(t *testing.T) {
	h := NewProfileHandler(
		&fakeProvider{err: fmt.Errorf("rate limited")},
		&fakeLabeler{},
		&fakeStore{},
		2,
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles", strings.NewReader(`{"username": "chef"}`))
	w := httptest.NewRecorder()
	h.TrackProfile(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	h := NewProfileHandler(&fakeProvider{}, &fakeLabeler{}, &fakeStore{getErr: storage.ErrNotFound}, 2)

	router := chi.NewRouter()
	router.Get("/profiles/{username}", h.GetProfile)

	req := httptest.NewRequest(http.MethodGet, "/profiles/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"@chef", "chef"},
		{"  chef  ", "chef"},
		{" @chef", "chef"},
		{"", ""},
		{"@", ""},
	}

	for _, tt := range tests {
		if got := normalizeUsername(tt.in); got != tt.want {
			t.Errorf("normalizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
