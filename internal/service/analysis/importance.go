package analysis

import (
	"math"
	"sort"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

// metricBenchmark pairs a ratio metric with its fixed reference performance
// and the static weights reflecting how strongly it predicts success.
// These are configuration data, tuned independently of the scoring code.
type metricBenchmark struct {
	name            string
	benchmark       float64
	importanceScore float64
	impactOnSuccess float64
	recommendations []string
	observe         func(s content.Statistics) (num, denom int64)
}

var metricBenchmarks = []metricBenchmark{
	{
		name:            "engagement_rate",
		benchmark:       0.06,
		importanceScore: 95,
		impactOnSuccess: 0.9,
		recommendations: []string{
			"Hook viewers in the first two seconds; most drop-off happens before the payoff.",
			"End with an explicit call to action asking viewers to like or comment.",
			"Reply to early comments within the first hour to keep the thread alive.",
			"Post when your audience is online; check your follower activity windows.",
		},
		observe: func(s content.Statistics) (int64, int64) {
			return s.Likes + s.Comments + s.Shares, s.Views
		},
	},
	{
		name:            "view_to_like_ratio",
		benchmark:       0.05,
		importanceScore: 85,
		impactOnSuccess: 0.8,
		recommendations: []string{
			"Tighten your edits; likes track how satisfying the full watch feels.",
			"Deliver on the promise of the hook instead of stretching the reveal.",
			"Study your top-liked posts and repeat their pacing and framing.",
		},
		observe: func(s content.Statistics) (int64, int64) {
			return s.Likes, s.Views
		},
	},
	{
		name:            "comment_engagement_ratio",
		benchmark:       0.01,
		importanceScore: 75,
		impactOnSuccess: 0.7,
		recommendations: []string{
			"Ask one specific question per video rather than a generic 'thoughts?'.",
			"Pin a comment that seeds the discussion you want.",
			"Make content with a debatable angle; consensus content earns fewer replies.",
		},
		observe: func(s content.Statistics) (int64, int64) {
			return s.Comments, s.Views
		},
	},
	{
		name:            "share_rate",
		benchmark:       0.005,
		importanceScore: 70,
		impactOnSuccess: 0.65,
		recommendations: []string{
			"Package advice as something viewers would send to a friend.",
			"Use relatable, situation-specific scenarios; shares are social signals.",
			"Add a save-worthy summary frame at the end of tutorial content.",
		},
		observe: func(s content.Statistics) (int64, int64) {
			return s.Shares, s.Views
		},
	},
}

// RankMetricImportance compares each of the four fixed metrics against its
// benchmark and returns them sorted by importance. The output always has
// exactly one entry per benchmark for non-empty input. When total views are
// zero the ratios are undefined: performance reports 0 and optimization
// potential pins to maximum, signalling "needs more data" rather than
// dividing by zero.
func RankMetricImportance(records []content.Record) []insight.MetricImportance {
	if len(records) == 0 {
		return []insight.MetricImportance{}
	}

	rankings := make([]insight.MetricImportance, 0, len(metricBenchmarks))
	for _, mb := range metricBenchmarks {
		var num, denom int64
		for _, r := range records {
			n, d := mb.observe(r.Statistics)
			num += n
			denom += d
		}

		var performance, potential float64
		if denom == 0 {
			performance = 0
			potential = 100
		} else {
			observed := float64(num) / float64(denom)
			performance = observed / mb.benchmark * 100
			potential = math.Max(0, math.Min(100, 100-performance))
		}

		rankings = append(rankings, insight.MetricImportance{
			Metric:                mb.name,
			ImportanceScore:       mb.importanceScore,
			ImpactOnSuccess:       mb.impactOnSuccess,
			OptimizationPotential: potential,
			CurrentPerformance:    performance,
			BenchmarkRatio:        mb.benchmark,
			Recommendations:       mb.recommendations,
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].ImportanceScore > rankings[j].ImportanceScore
	})

	return rankings
}
