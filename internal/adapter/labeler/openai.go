// internal/adapter/labeler/openai.go

package labeler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trendxl/internal/domain/content"
)

// OpenAIClient labels content through an OpenAI-compatible chat completions
// API. It implements the content.Labeler interface. With no API key the
// client stays usable: profile analysis degrades to a keyword heuristic and
// record labeling becomes a no-op.
type OpenAIClient struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// Config contains configuration for the labeling client
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewOpenAIClient creates a new labeling client
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &OpenAIClient{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether the client can reach the remote API
func (c *OpenAIClient) Enabled() bool {
	return c.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeProfile derives a niche, keywords and hashtags from a profile. When
// the API is unreachable or disabled the keyword heuristic takes over, so a
// caller always gets a usable analysis back.
func (c *OpenAIClient) AnalyzeProfile(ctx context.Context, profile content.Profile, posts []content.Record) (*content.ProfileAnalysis, error) {
	if !c.Enabled() {
		return fallbackAnalysis(profile), nil
	}

	prompt := buildProfilePrompt(profile, posts)

	raw, err := c.complete(ctx, "You are an expert in social media content strategy. Respond with JSON only.", prompt)
	if err != nil {
		return fallbackAnalysis(profile), nil
	}

	var analysis content.ProfileAnalysis
	if err := json.Unmarshal(extractJSON(raw), &analysis); err != nil {
		return fallbackAnalysis(profile), nil
	}
	if analysis.Niche == "" {
		return fallbackAnalysis(profile), nil
	}
	if analysis.RegionFocus == "" {
		analysis.RegionFocus = regionOrGlobal(profile.Region)
	}

	return &analysis, nil
}

// recordLabel is one entry in the model's labeling response
type recordLabel struct {
	ID              string   `json:"id"`
	RelevanceScore  *float64 `json:"relevance_score"`
	RelevanceReason string   `json:"relevance_reason"`
	Category        string   `json:"category"`
	Sentiment       string   `json:"sentiment"`
	Audience        string   `json:"audience"`
	AudienceMatch   *bool    `json:"audience_match"`
	TrendPotential  string   `json:"trend_potential"`
}

// LabelRecords annotates records with relevance labels. Records the model
// does not cover come back unmodified, and a full API failure returns the
// input untouched rather than an error: labeling is best effort.
func (c *OpenAIClient) LabelRecords(ctx context.Context, records []content.Record, analysis content.ProfileAnalysis) ([]content.Record, error) {
	if !c.Enabled() || len(records) == 0 {
		return records, nil
	}

	prompt := buildLabelPrompt(records, analysis)

	raw, err := c.complete(ctx, "You rate short-form video content for relevance to a creator. Respond with a JSON array only.", prompt)
	if err != nil {
		return records, nil
	}

	var labels []recordLabel
	if err := json.Unmarshal(extractJSON(raw), &labels); err != nil {
		return records, nil
	}

	byID := make(map[string]recordLabel, len(labels))
	for _, l := range labels {
		byID[l.ID] = l
	}

	labeled := make([]content.Record, len(records))
	copy(labeled, records)
	for i := range labeled {
		l, ok := byID[labeled[i].ID]
		if !ok {
			continue
		}
		labeled[i].Labels = content.Labels{
			RelevanceScore:  l.RelevanceScore,
			RelevanceReason: l.RelevanceReason,
			Category:        l.Category,
			Sentiment:       l.Sentiment,
			Audience:        l.Audience,
			AudienceMatch:   l.AudienceMatch,
			TrendPotential:  parseTrendPotential(l.TrendPotential),
		}
	}

	return labeled, nil
}

// complete performs a chat completion and returns the assistant content
func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach labeling API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("labeling API returned status code %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode labeling response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("labeling API returned no choices")
	}

	return cr.Choices[0].Message.Content, nil
}

func buildProfilePrompt(profile content.Profile, posts []content.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this creator profile and recent posts.\n\n")
	fmt.Fprintf(&b, "Username: @%s\nDisplay name: %s\nBio: %s\nFollowers: %d\nRegion: %s\n\n",
		profile.Username, profile.DisplayName, profile.Bio, profile.FollowerCount, profile.Region)

	b.WriteString("Recent posts:\n")
	for i, p := range posts {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- %s (views: %d, hashtags: %s)\n",
			p.Description, p.Statistics.Views, strings.Join(p.Hashtags, ", "))
	}

	b.WriteString(`
Return a JSON object with fields:
  "niche": primary content niche, one or two words
  "interests": up to 5 interest strings
  "keywords": up to 5 search keywords for finding similar trending content
  "hashtags": up to 5 hashtags without the # prefix
  "target_audience": short audience description
  "content_style": short style description
  "region_focus": region or "Global"
`)

	return b.String()
}

func buildLabelPrompt(records []content.Record, analysis content.ProfileAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The creator's niche is %q targeting %q.\n\nRate each item:\n\n",
		analysis.Niche, analysis.TargetAudience)

	for _, r := range records {
		fmt.Fprintf(&b, "id=%s desc=%q views=%d engagement=%.4f hashtags=%s\n",
			r.ID, r.Description, r.Statistics.Views, r.EngagementRate, strings.Join(r.Hashtags, ","))
	}

	b.WriteString(`
Return a JSON array, one object per item, with fields:
  "id": the item id
  "relevance_score": 0-100 relevance to the creator's niche
  "relevance_reason": one sentence
  "category": content category
  "sentiment": "positive", "neutral" or "negative"
  "audience": short audience description
  "audience_match": whether the item's audience overlaps the creator's
  "trend_potential": "growing", "stable" or "declining"
`)

	return b.String()
}

// niche keywords checked against the bio when the remote model is unavailable
var fallbackNiches = []struct {
	niche    string
	keywords []string
}{
	{"beauty", []string{"beauty", "makeup", "skincare", "cosmetics"}},
	{"fitness", []string{"fitness", "workout", "gym", "health"}},
	{"comedy", []string{"funny", "comedy", "humor", "jokes"}},
	{"food", []string{"food", "cooking", "recipe", "chef"}},
	{"tech", []string{"tech", "technology", "gadgets", "ai"}},
	{"lifestyle", []string{"lifestyle", "daily", "life", "vlog"}},
}

func fallbackAnalysis(profile content.Profile) *content.ProfileAnalysis {
	bio := strings.ToLower(profile.Bio)

	niche := "lifestyle"
	for _, candidate := range fallbackNiches {
		matched := false
		for _, kw := range candidate.keywords {
			if strings.Contains(bio, kw) {
				matched = true
				break
			}
		}
		if matched {
			niche = candidate.niche
			break
		}
	}

	return &content.ProfileAnalysis{
		Niche:          niche,
		Interests:      []string{niche, "trending", "viral"},
		Keywords:       []string{niche, "trending", "popular"},
		Hashtags:       []string{niche, "fyp", "viral"},
		TargetAudience: "General audience",
		ContentStyle:   "Mixed content",
		RegionFocus:    regionOrGlobal(profile.Region),
	}
}

func regionOrGlobal(region string) string {
	if region == "" {
		return "Global"
	}
	return region
}

func parseTrendPotential(s string) *content.TrendPotential {
	switch tp := content.TrendPotential(strings.ToLower(s)); tp {
	case content.PotentialGrowing, content.PotentialStable, content.PotentialDeclining:
		return &tp
	}
	return nil
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON payload
func extractJSON(s string) []byte {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return []byte(s)
}
