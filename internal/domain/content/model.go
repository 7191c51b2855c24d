package content

import (
	"time"
)

// Statistics holds the raw engagement counters for a piece of content
type Statistics struct {
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Shares    int64 `json:"shares"`
	Downloads int64 `json:"downloads"`
	Favorites int64 `json:"favorites"`
	Duration  int   `json:"duration"`
}

// TrendPotential classifies where a piece of content sits in its lifecycle
type TrendPotential string

const (
	PotentialGrowing   TrendPotential = "growing"
	PotentialStable    TrendPotential = "stable"
	PotentialDeclining TrendPotential = "declining"
)

// Labels holds the optional AI-assigned annotations for a record.
// Every field may be absent; consumers must treat absence as 0/unknown.
type Labels struct {
	RelevanceScore  *float64        `json:"relevance_score,omitempty"`
	RelevanceReason string          `json:"relevance_reason,omitempty"`
	Category        string          `json:"category,omitempty"`
	Sentiment       string          `json:"sentiment,omitempty"`
	Audience        string          `json:"audience,omitempty"`
	AudienceMatch   *bool           `json:"audience_match,omitempty"`
	TrendPotential  *TrendPotential `json:"trend_potential,omitempty"`
}

// Record represents one piece of short-form video content with its
// statistics and optional AI labels. Records are immutable once ingested.
type Record struct {
	ID              string     `json:"id"`
	Description     string     `json:"description"`
	AuthorHandle    string     `json:"author_handle"`
	AuthorNickname  string     `json:"author_nickname"`
	AuthorFollowers int64      `json:"author_followers"`
	Statistics      Statistics `json:"statistics"`
	EngagementRate  float64    `json:"engagement_rate"`
	Hashtags        []string   `json:"hashtags"`
	MusicTitle      string     `json:"music_title"`
	MusicAuthor     string     `json:"music_author"`
	VideoURL        string     `json:"video_url"`
	CoverURL        string     `json:"cover_url"`
	Labels          Labels     `json:"labels"`
	CreatedAt       time.Time  `json:"created_at"`
	SourceKeyword   string     `json:"source_keyword,omitempty"`
	SourceHashtag   string     `json:"source_hashtag,omitempty"`
}

// RelevanceScore returns the AI-assigned relevance score, or 0 when the
// labeling service never saw this record.
func (r Record) RelevanceScore() float64 {
	if r.Labels.RelevanceScore == nil {
		return 0
	}
	return *r.Labels.RelevanceScore
}

// ComputeEngagementRate derives the engagement rate for a set of statistics:
// (likes+comments+shares)/views, or 0 when there are no views.
func ComputeEngagementRate(s Statistics) float64 {
	if s.Views <= 0 {
		return 0
	}
	return float64(s.Likes+s.Comments+s.Shares) / float64(s.Views)
}

// Profile is a creator profile as returned by the data provider
type Profile struct {
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	VideoCount     int64     `json:"video_count"`
	LikesCount     int64     `json:"likes_count"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	Verified       bool      `json:"verified"`
	SecUID         string    `json:"sec_uid"`
	Region         string    `json:"region"`
	Language       string    `json:"language"`
	LastUpdated    time.Time `json:"last_updated"`
}

// ProfileAnalysis is the labeling service's reading of a creator profile,
// used to drive trend discovery
type ProfileAnalysis struct {
	Niche          string   `json:"niche"`
	Interests      []string `json:"interests"`
	Keywords       []string `json:"keywords"`
	Hashtags       []string `json:"hashtags"`
	TargetAudience string   `json:"target_audience"`
	ContentStyle   string   `json:"content_style"`
	RegionFocus    string   `json:"region_focus"`
}

// Filter defines criteria for querying stored records
type Filter struct {
	Owner        string
	MinViews     int64
	MinRelevance float64
	Keyword      string
	Limit        int
}
