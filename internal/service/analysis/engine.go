package analysis

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

// EngineConfig contains configuration for the analytics engine
type EngineConfig struct {
	// MaxRecords truncates the input set to bound latency. Zero disables
	// the cap. This is a latency bound, not a correctness requirement.
	MaxRecords int

	// TopIdeaKeywords is how many keywords, by match frequency, the idea
	// generator targets
	TopIdeaKeywords int
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxRecords:      500,
		TopIdeaKeywords: 3,
	}
}

// Engine implements the insight.Engine interface. It holds only immutable
// configuration, so one Engine may serve concurrent callers.
type Engine struct {
	config EngineConfig
}

// NewEngine creates a new analytics engine
func NewEngine(config EngineConfig) *Engine {
	if config.TopIdeaKeywords <= 0 {
		config.TopIdeaKeywords = 3
	}
	return &Engine{config: config}
}

// Analyze runs the full pipeline over a record set: series extraction feeds
// the correlation and importance stages, keyword intelligence runs from the
// raw records alongside them, then the niche and idea stages consume the
// earlier outputs in order. Empty input yields an empty, structurally valid
// result rather than an error.
func (e *Engine) Analyze(records []content.Record, actx insight.Context) insight.AnalysisResult {
	result := insight.AnalysisResult{
		RunID:           uuid.New().String(),
		Owner:           actx.Owner,
		Correlations:    []insight.CorrelationInsight{},
		MetricRankings:  []insight.MetricImportance{},
		KeywordProfiles: []insight.KeywordProfile{},
		Ideas:           []insight.IdeaRecommendation{},
		GeneratedAt:     time.Now().UTC(),
	}

	if len(records) == 0 {
		return result
	}

	if e.config.MaxRecords > 0 && len(records) > e.config.MaxRecords {
		records = records[:e.config.MaxRecords]
	}
	result.RecordsAnalyzed = len(records)

	series := ExtractSeries(records)
	candidates := CandidateKeywords(records)

	// The metric stages and keyword intelligence are independent of each
	// other, so run them concurrently within the invocation.
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		result.Correlations = AnalyzeCorrelations(series)
	}()

	go func() {
		defer wg.Done()
		result.MetricRankings = RankMetricImportance(records)
	}()

	go func() {
		defer wg.Done()
		result.KeywordProfiles = ProfileKeywords(records, candidates)
	}()

	wg.Wait()

	result.Niche = BuildNicheInsight(actx.PrimaryNiche, records, result.KeywordProfiles)

	topKeywords := topKeywordsByFrequency(records, candidates, e.config.TopIdeaKeywords)
	result.Ideas = GenerateIdeas(actx.PrimaryNiche, topKeywords, actx.FollowerCount, records)

	return result
}

// topKeywordsByFrequency ranks candidates by how many records each one
// matches, keeping candidate order on ties
func topKeywordsByFrequency(records []content.Record, candidates []string, n int) []string {
	type freq struct {
		keyword string
		count   int
	}

	freqs := make([]freq, 0, len(candidates))
	for _, kw := range candidates {
		count := 0
		for _, r := range records {
			if recordMatchesKeyword(r, kw) {
				count++
			}
		}
		freqs = append(freqs, freq{keyword: kw, count: count})
	}

	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].count > freqs[j].count
	})

	top := make([]string, 0, n)
	for _, f := range freqs {
		if len(top) >= n {
			break
		}
		top = append(top, f.keyword)
	}

	return top
}
