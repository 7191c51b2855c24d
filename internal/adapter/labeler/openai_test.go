package labeler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trendxl/internal/domain/content"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient(Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	})
}

func chatReply(content string) string {
	return `{"choices": [{"message": {"content": ` + content + `}}]}`
}

func TestAnalyzeProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing bearer token")
		}
		w.Write([]byte(chatReply(`"{\"niche\": \"cooking\", \"interests\": [\"food\"], \"keywords\": [\"recipes\"], \"hashtags\": [\"cooking\"], \"target_audience\": \"home cooks\", \"content_style\": \"tutorials\", \"region_focus\": \"US\"}"`)))
	})

	analysis, err := client.AnalyzeProfile(context.Background(), content.Profile{Username: "chef"}, nil)
	if err != nil {
		t.Fatalf("AnalyzeProfile returned error: %v", err)
	}

	if analysis.Niche != "cooking" {
		t.Errorf("niche = %q, want cooking", analysis.Niche)
	}
	if analysis.TargetAudience != "home cooks" {
		t.Errorf("target audience = %q", analysis.TargetAudience)
	}
}

func TestAnalyzeProfile_FencedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`"` + "```json\\n{\\\"niche\\\": \\\"fitness\\\"}\\n```" + `"`)))
	})

	analysis, err := client.AnalyzeProfile(context.Background(), content.Profile{Username: "gym"}, nil)
	if err != nil {
		t.Fatalf("AnalyzeProfile returned error: %v", err)
	}
	if analysis.Niche != "fitness" {
		t.Errorf("niche = %q, want fitness despite code fences", analysis.Niche)
	}
}

func TestAnalyzeProfile_FallsBackOnAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	analysis, err := client.AnalyzeProfile(context.Background(), content.Profile{
		Username: "gymrat",
		Bio:      "certified personal trainer, workout plans",
	}, nil)
	if err != nil {
		t.Fatalf("AnalyzeProfile returned error: %v", err)
	}
	if analysis.Niche != "fitness" {
		t.Errorf("fallback niche = %q, want fitness", analysis.Niche)
	}
}

func TestAnalyzeProfile_Disabled(t *testing.T) {
	client := NewOpenAIClient(Config{})
	if client.Enabled() {
		t.Fatal("client without API key must report disabled")
	}

	tests := []struct {
		bio  string
		want string
	}{
		{"makeup artist and skincare tips", "beauty"},
		{"daily gym workout", "fitness"},
		{"funny videos and jokes", "comedy"},
		{"home chef sharing recipes", "food"},
		{"ai and gadgets news", "tech"},
		{"just my daily life", "lifestyle"},
		{"", "lifestyle"},
	}

	for _, tt := range tests {
		analysis, err := client.AnalyzeProfile(context.Background(), content.Profile{Bio: tt.bio}, nil)
		if err != nil {
			t.Fatalf("AnalyzeProfile(%q) returned error: %v", tt.bio, err)
		}
		if analysis.Niche != tt.want {
			t.Errorf("bio %q: niche = %q, want %q", tt.bio, analysis.Niche, tt.want)
		}
		if analysis.RegionFocus != "Global" {
			t.Errorf("bio %q: region focus = %q, want Global", tt.bio, analysis.RegionFocus)
		}
	}
}

func TestLabelRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`"[{\"id\": \"a\", \"relevance_score\": 85, \"relevance_reason\": \"on niche\", \"category\": \"cooking\", \"sentiment\": \"positive\", \"audience_match\": true, \"trend_potential\": \"growing\"}]"`)))
	})

	records := []content.Record{
		{ID: "a", Description: "pasta tutorial"},
		{ID: "b", Description: "unrelated clip"},
	}

	labeled, err := client.LabelRecords(context.Background(), records, content.ProfileAnalysis{Niche: "cooking"})
	if err != nil {
		t.Fatalf("LabelRecords returned error: %v", err)
	}
	if len(labeled) != 2 {
		t.Fatalf("record count = %d, want 2", len(labeled))
	}

	a := labeled[0]
	if a.Labels.RelevanceScore == nil || *a.Labels.RelevanceScore != 85 {
		t.Errorf("relevance score = %v, want 85", a.Labels.RelevanceScore)
	}
	if a.Labels.AudienceMatch == nil || !*a.Labels.AudienceMatch {
		t.Error("audience match not set")
	}
	if a.Labels.TrendPotential == nil || *a.Labels.TrendPotential != content.PotentialGrowing {
		t.Errorf("trend potential = %v, want growing", a.Labels.TrendPotential)
	}

	// Records the model skipped stay unlabeled
	b := labeled[1]
	if b.Labels.RelevanceScore != nil {
		t.Errorf("uncovered record got relevance score %v", *b.Labels.RelevanceScore)
	}

	// Input slice must not be mutated
	if records[0].Labels.RelevanceScore != nil {
		t.Error("input records were mutated")
	}
}

func TestLabelRecords_APIFailureLeavesRecordsUntouched(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	records := []content.Record{{ID: "a"}}
	labeled, err := client.LabelRecords(context.Background(), records, content.ProfileAnalysis{})
	if err != nil {
		t.Fatalf("LabelRecords returned error: %v", err)
	}
	if len(labeled) != 1 || labeled[0].Labels.RelevanceScore != nil {
		t.Error("records should pass through unlabeled on API failure")
	}
}

func TestParseTrendPotential(t *testing.T) {
	tests := []struct {
		in   string
		want *content.TrendPotential
	}{
		{"growing", ptr(content.PotentialGrowing)},
		{"STABLE", ptr(content.PotentialStable)},
		{"declining", ptr(content.PotentialDeclining)},
		{"sideways", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseTrendPotential(tt.in)
		switch {
		case got == nil && tt.want != nil:
			t.Errorf("parseTrendPotential(%q) = nil, want %v", tt.in, *tt.want)
		case got != nil && tt.want == nil:
			t.Errorf("parseTrendPotential(%q) = %v, want nil", tt.in, *got)
		case got != nil && tt.want != nil && *got != *tt.want:
			t.Errorf("parseTrendPotential(%q) = %v, want %v", tt.in, *got, *tt.want)
		}
	}
}

func ptr(tp content.TrendPotential) *content.TrendPotential {
	return &tp
}
