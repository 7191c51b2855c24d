package analysis

import (
	"trendxl/internal/domain/content"
)

// Metric names a numeric series extracted from a record set
type Metric string

const (
	MetricViews          Metric = "views"
	MetricLikes          Metric = "likes"
	MetricComments       Metric = "comments"
	MetricShares         Metric = "shares"
	MetricEngagementRate Metric = "engagement_rate"
	MetricRelevanceScore Metric = "relevance_score"
)

// ExtractSeries projects a record collection into aligned numeric series,
// one sample per record in insertion order. Every returned series has the
// same length as the input. Missing relevance scores become 0 rather than
// gaps, so downstream correlation stays aligned. An empty input yields an
// empty map; callers must check length before running analysis.
func ExtractSeries(records []content.Record) map[Metric][]float64 {
	if len(records) == 0 {
		return map[Metric][]float64{}
	}

	series := map[Metric][]float64{
		MetricViews:          make([]float64, 0, len(records)),
		MetricLikes:          make([]float64, 0, len(records)),
		MetricComments:       make([]float64, 0, len(records)),
		MetricShares:         make([]float64, 0, len(records)),
		MetricEngagementRate: make([]float64, 0, len(records)),
		MetricRelevanceScore: make([]float64, 0, len(records)),
	}

	for _, r := range records {
		series[MetricViews] = append(series[MetricViews], float64(r.Statistics.Views))
		series[MetricLikes] = append(series[MetricLikes], float64(r.Statistics.Likes))
		series[MetricComments] = append(series[MetricComments], float64(r.Statistics.Comments))
		series[MetricShares] = append(series[MetricShares], float64(r.Statistics.Shares))

		rate := r.EngagementRate
		if rate == 0 {
			rate = content.ComputeEngagementRate(r.Statistics)
		}
		series[MetricEngagementRate] = append(series[MetricEngagementRate], rate)
		series[MetricRelevanceScore] = append(series[MetricRelevanceScore], r.RelevanceScore())
	}

	return series
}
