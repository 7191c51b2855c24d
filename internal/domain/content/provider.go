package content

import (
	"context"
)

// Provider defines the interface for the external content data source.
// Implementations return records with statistics always present; AI labels
// are never set by a provider.
type Provider interface {
	// GetProfile fetches a creator profile by username
	GetProfile(ctx context.Context, username string) (*Profile, error)

	// GetUserPosts fetches the creator's recent posts
	GetUserPosts(ctx context.Context, username string, depth int) ([]Record, error)

	// SearchKeyword fetches trending content matching a keyword
	SearchKeyword(ctx context.Context, keyword string, maxResults int) ([]Record, error)

	// SearchHashtag fetches trending content tagged with a hashtag
	SearchHashtag(ctx context.Context, hashtag string, maxResults int) ([]Record, error)
}

// Labeler defines the interface for the external relevance-labeling service.
// The analytics engine never calls it and tolerates its absence.
type Labeler interface {
	// AnalyzeProfile derives a niche, keywords and hashtags from a profile
	AnalyzeProfile(ctx context.Context, profile Profile, posts []Record) (*ProfileAnalysis, error)

	// LabelRecords annotates records with relevance scores, categories,
	// sentiment and trend potential. Records it cannot label are returned
	// unmodified.
	LabelRecords(ctx context.Context, records []Record, analysis ProfileAnalysis) ([]Record, error)
}

// Store defines persistence for profiles and records
type Store interface {
	// SaveProfile upserts a creator profile and its analysis
	SaveProfile(ctx context.Context, profile Profile, analysis *ProfileAnalysis) error

	// GetProfile returns a stored profile with its analysis
	GetProfile(ctx context.Context, username string) (*Profile, *ProfileAnalysis, error)

	// SaveRecords upserts a batch of records for an owner
	SaveRecords(ctx context.Context, owner string, records []Record) error

	// FindRecords returns records matching the filter
	FindRecords(ctx context.Context, filter Filter) ([]Record, error)
}
