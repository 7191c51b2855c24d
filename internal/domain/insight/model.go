package insight

import (
	"time"
)

// Strength buckets the absolute value of a Pearson coefficient
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
)

// CompetitionLevel classifies how contested a keyword is
type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// CompetitivePosition classifies a niche by saturation
type CompetitivePosition string

const (
	PositionEmerging    CompetitivePosition = "emerging"
	PositionCompetitive CompetitivePosition = "competitive"
	PositionSaturated   CompetitivePosition = "saturated"
)

// CorrelationInsight describes how two performance metrics move together
type CorrelationInsight struct {
	MetricA     string   `json:"metric_a"`
	MetricB     string   `json:"metric_b"`
	Coefficient float64  `json:"coefficient"`
	Strength    Strength `json:"strength"`
	Insight     string   `json:"insight"`
	Advice      string   `json:"advice"`
}

// MetricImportance scores one performance metric against its benchmark
type MetricImportance struct {
	Metric                string   `json:"metric"`
	ImportanceScore       float64  `json:"importance_score"`
	ImpactOnSuccess       float64  `json:"impact_on_success"`
	OptimizationPotential float64  `json:"optimization_potential"`
	CurrentPerformance    float64  `json:"current_performance"`
	BenchmarkRatio        float64  `json:"benchmark_ratio"`
	Recommendations       []string `json:"recommendations"`
}

// SuccessExample is a short excerpt of a record supporting a keyword
type SuccessExample struct {
	RecordID       string  `json:"record_id"`
	Description    string  `json:"description"`
	Views          int64   `json:"views"`
	EngagementRate float64 `json:"engagement_rate"`
}

// KeywordProfile aggregates intelligence about one keyword or hashtag
type KeywordProfile struct {
	Keyword                string           `json:"keyword"`
	RelevanceScore         float64          `json:"relevance_score"`
	TrendPotential         float64          `json:"trend_potential"`
	CompetitionLevel       CompetitionLevel `json:"competition_level"`
	EstimatedSearchVolume  int64            `json:"estimated_search_volume"`
	EngagementCorrelation  float64          `json:"engagement_correlation"`
	RelatedHashtags        []string         `json:"related_hashtags"`
	SuccessExamples        []SuccessExample `json:"success_examples"`
}

// ContentGap is an under-served topic within a niche
type ContentGap struct {
	Topic             string  `json:"topic"`
	OpportunityScore  float64 `json:"opportunity_score"`
	Rationale         string  `json:"rationale"`
	SuggestedApproach string  `json:"suggested_approach"`
}

// NicheInsight carries aggregate niche-level signals. Saturation, growth
// and the demographic split are heuristic placeholders pending a real
// demographics source; callers must not present them as measured facts.
type NicheInsight struct {
	PrimaryNiche      string              `json:"primary_niche"`
	Saturation        float64             `json:"saturation"`
	GrowthOpportunity float64             `json:"growth_opportunity"`
	Demographics      map[string]float64  `json:"demographics"`
	ThemeCounts       map[string]int      `json:"theme_counts"`
	ContentGaps       []ContentGap        `json:"content_gaps"`
	Position          CompetitivePosition `json:"competitive_position"`
}

// IdeaRecommendation is a ranked content concept
type IdeaRecommendation struct {
	Title              string   `json:"title"`
	Concept            string   `json:"concept"`
	TargetKeywords     []string `json:"target_keywords"`
	EstimatedReach     int64    `json:"estimated_reach"`
	DifficultyScore    int      `json:"difficulty_score"`
	TrendingFactor     float64  `json:"trending_factor"`
	BestTiming         string   `json:"best_timing"`
	SuccessProbability float64  `json:"success_probability"`
	SupportingEvidence []SuccessExample `json:"supporting_evidence"`
}

// Context carries the caller-supplied inputs an analysis run needs beyond
// the record set itself
type Context struct {
	Owner         string `json:"owner"`
	PrimaryNiche  string `json:"primary_niche"`
	FollowerCount int64  `json:"follower_count"`
}

// AnalysisResult bundles every derived output of one analysis invocation.
// All fields are owned by the invocation; the engine keeps no state.
type AnalysisResult struct {
	RunID           string               `json:"run_id"`
	Owner           string               `json:"owner"`
	Correlations    []CorrelationInsight `json:"correlations"`
	MetricRankings  []MetricImportance   `json:"metric_rankings"`
	KeywordProfiles []KeywordProfile     `json:"keyword_profiles"`
	Niche           *NicheInsight        `json:"niche,omitempty"`
	Ideas           []IdeaRecommendation `json:"ideas"`
	RecordsAnalyzed int                  `json:"records_analyzed"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
