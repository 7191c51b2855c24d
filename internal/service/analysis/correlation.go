package analysis

import (
	"math"

	"trendxl/internal/domain/insight"
)

// minCorrelationRecords is the smallest record set worth correlating.
// Below this the analyzer reports nothing rather than misleading numbers.
const minCorrelationRecords = 5

// minReportableCoefficient filters pairs too weak to act on
const minReportableCoefficient = 0.2

// metricPair is one semantically meaningful pairing with its fixed
// narrative templates. The analyzer only examines these pairs, never
// all-pairs, to keep the output interpretable.
type metricPair struct {
	a, b    Metric
	insight string
	advice  string
}

var correlationPairs = []metricPair{
	{
		a:       MetricViews,
		b:       MetricEngagementRate,
		insight: "Videos that reach more viewers also hold their attention: view count and engagement rate move together in this sample.",
		advice:  "Lean into the formats that earned your widest reach; their hooks are also driving interaction.",
	},
	{
		a:       MetricLikes,
		b:       MetricComments,
		insight: "Likes and comments rise and fall together, so content that earns approval also sparks conversation.",
		advice:  "Add a direct question or prompt to high-performing posts to convert passive likes into comment threads.",
	},
	{
		a:       MetricRelevanceScore,
		b:       MetricShares,
		insight: "Content rated most relevant to your niche is the content viewers pass along.",
		advice:  "Stay close to your core niche topics; off-topic posts are measurably less shareable for this audience.",
	},
	{
		a:       MetricComments,
		b:       MetricShares,
		insight: "Discussion and sharing travel together: posts people argue about are posts people forward.",
		advice:  "Take a clear stance or pose a debate in your captions to fuel both comment and share loops.",
	},
}

// pearson computes the Pearson correlation coefficient for two equal-length
// series. A zero denominator (constant series) yields 0, never NaN.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	fn := float64(n)
	denom := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))
	if denom == 0 {
		return 0
	}

	return (fn*sumXY - sumX*sumY) / denom
}

// classifyStrength buckets an absolute coefficient
func classifyStrength(r float64) insight.Strength {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return insight.StrengthStrong
	case abs >= 0.4:
		return insight.StrengthModerate
	default:
		return insight.StrengthWeak
	}
}

// AnalyzeCorrelations computes Pearson correlation for the fixed set of
// metric pairs and reports the pairs strong enough to matter. Series must
// be aligned (same length per metric). Fewer than minCorrelationRecords
// samples yields an empty list.
func AnalyzeCorrelations(series map[Metric][]float64) []insight.CorrelationInsight {
	insights := []insight.CorrelationInsight{}

	if len(series[MetricViews]) < minCorrelationRecords {
		return insights
	}

	for _, pair := range correlationPairs {
		x, okA := series[pair.a]
		y, okB := series[pair.b]
		if !okA || !okB || len(x) != len(y) {
			continue
		}

		r := pearson(x, y)
		if math.Abs(r) <= minReportableCoefficient {
			continue
		}

		insights = append(insights, insight.CorrelationInsight{
			MetricA:     string(pair.a),
			MetricB:     string(pair.b),
			Coefficient: r,
			Strength:    classifyStrength(r),
			Insight:     pair.insight,
			Advice:      pair.advice,
		})
	}

	return insights
}
