package analysis

import (
	"testing"

	"trendxl/internal/domain/content"
)

func TestRankMetricImportance_EmptyInput(t *testing.T) {
	if got := RankMetricImportance(nil); len(got) != 0 {
		t.Fatalf("expected no rankings for empty input, got %d", len(got))
	}
}

func TestRankMetricImportance_FixedSetSorted(t *testing.T) {
	records := []content.Record{
		makeRecord("a", 10000, 600, 120, 60),
		makeRecord("b", 20000, 400, 100, 40),
	}

	rankings := RankMetricImportance(records)

	if len(rankings) != 4 {
		t.Fatalf("expected exactly 4 metrics, got %d", len(rankings))
	}

	for i := 1; i < len(rankings); i++ {
		if rankings[i].ImportanceScore > rankings[i-1].ImportanceScore {
			t.Errorf("rankings not sorted descending at index %d", i)
		}
	}

	if rankings[0].Metric != "engagement_rate" {
		t.Errorf("top metric = %s, want engagement_rate", rankings[0].Metric)
	}

	for _, mi := range rankings {
		if len(mi.Recommendations) < 3 {
			t.Errorf("metric %s has %d recommendations, want at least 3", mi.Metric, len(mi.Recommendations))
		}
		if mi.BenchmarkRatio <= 0 {
			t.Errorf("metric %s has no benchmark", mi.Metric)
		}
	}
}

func TestRankMetricImportance_AboveBenchmark(t *testing.T) {
	// 12% engagement against a 6% benchmark: performance 200, no
	// optimization potential left.
	records := []content.Record{
		makeRecord("a", 1000, 100, 10, 10),
	}

	rankings := RankMetricImportance(records)

	var engagement *struct {
		perf, potential float64
	}
	for _, mi := range rankings {
		if mi.Metric == "engagement_rate" {
			engagement = &struct{ perf, potential float64 }{mi.CurrentPerformance, mi.OptimizationPotential}
		}
	}

	if engagement == nil {
		t.Fatal("engagement_rate missing from rankings")
	}
	if engagement.perf != 200 {
		t.Errorf("current performance = %v, want 200", engagement.perf)
	}
	if engagement.potential != 0 {
		t.Errorf("optimization potential above benchmark = %v, want 0", engagement.potential)
	}
}

func TestRankMetricImportance_ZeroViews(t *testing.T) {
	records := []content.Record{
		makeRecord("a", 0, 0, 0, 0),
		makeRecord("b", 0, 0, 0, 0),
	}

	rankings := RankMetricImportance(records)

	if len(rankings) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(rankings))
	}

	for _, mi := range rankings {
		if mi.CurrentPerformance != 0 {
			t.Errorf("metric %s performance = %v with zero views, want 0", mi.Metric, mi.CurrentPerformance)
		}
		if mi.OptimizationPotential != 100 {
			t.Errorf("metric %s potential = %v with zero views, want 100", mi.Metric, mi.OptimizationPotential)
		}
	}
}

func TestRankMetricImportance_WideMarginHighPotential(t *testing.T) {
	// 1% engagement against 6%: performance under 20, potential over 70.
	records := []content.Record{
		makeRecord("a", 10000, 80, 10, 10),
	}

	rankings := RankMetricImportance(records)
	for _, mi := range rankings {
		if mi.Metric != "engagement_rate" {
			continue
		}
		if mi.CurrentPerformance >= 30 {
			t.Errorf("performance = %v, want well under benchmark", mi.CurrentPerformance)
		}
		if mi.OptimizationPotential < 70 {
			t.Errorf("potential = %v, want >= 70 for a wide miss", mi.OptimizationPotential)
		}
	}
}
