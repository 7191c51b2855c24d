package analysis

import (
	"fmt"
	"reflect"
	"testing"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

func TestEngine_EmptyRecordSet(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())

	result := engine.Analyze(nil, insight.Context{PrimaryNiche: "cooking", FollowerCount: 1000})

	if len(result.Correlations) != 0 {
		t.Errorf("correlations not empty: %d", len(result.Correlations))
	}
	if len(result.MetricRankings) != 0 {
		t.Errorf("rankings not empty: %d", len(result.MetricRankings))
	}
	if len(result.KeywordProfiles) != 0 {
		t.Errorf("keyword profiles not empty: %d", len(result.KeywordProfiles))
	}
	if result.Niche != nil {
		t.Errorf("niche insight should be nil for empty input")
	}
	if len(result.Ideas) != 0 {
		t.Errorf("ideas not empty: %d", len(result.Ideas))
	}
	if result.RecordsAnalyzed != 0 {
		t.Errorf("records analyzed = %d, want 0", result.RecordsAnalyzed)
	}
}

func TestEngine_ViewEngagementScenario(t *testing.T) {
	// 6 records at 500k views / 8% engagement, 4 at 50k views / 1%:
	// views and engagement rate should correlate positively, at least
	// moderately.
	var records []content.Record
	for i := 0; i < 6; i++ {
		records = append(records, content.Record{
			ID:             fmt.Sprintf("big-%d", i),
			Statistics:     content.Statistics{Views: 500000, Likes: 30000, Comments: 6000, Shares: 4000},
			EngagementRate: 0.08,
		})
	}
	for i := 0; i < 4; i++ {
		records = append(records, content.Record{
			ID:             fmt.Sprintf("small-%d", i),
			Statistics:     content.Statistics{Views: 50000, Likes: 400, Comments: 60, Shares: 40},
			EngagementRate: 0.01,
		})
	}

	engine := NewEngine(DefaultEngineConfig())
	result := engine.Analyze(records, insight.Context{PrimaryNiche: "tech", FollowerCount: 20000})

	var found *insight.CorrelationInsight
	for i := range result.Correlations {
		c := result.Correlations[i]
		if c.MetricA == string(MetricViews) && c.MetricB == string(MetricEngagementRate) {
			found = &c
		}
	}

	if found == nil {
		t.Fatal("views/engagement correlation missing from result")
	}
	if found.Coefficient <= 0 {
		t.Errorf("coefficient = %v, want positive", found.Coefficient)
	}
	if found.Strength == insight.StrengthWeak {
		t.Errorf("strength = weak, want moderate or strong")
	}

	if len(result.MetricRankings) != 4 {
		t.Errorf("rankings length = %d, want 4", len(result.MetricRankings))
	}
	if result.Niche == nil {
		t.Fatal("niche insight missing")
	}
	if result.Niche.PrimaryNiche != "tech" {
		t.Errorf("niche = %q, want tech", result.Niche.PrimaryNiche)
	}
	if len(result.Ideas) == 0 {
		t.Error("no ideas generated")
	}
	if result.RecordsAnalyzed != 10 {
		t.Errorf("records analyzed = %d, want 10", result.RecordsAnalyzed)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	records := []content.Record{
		taggedRecord("a", "how to cook pasta", 200000, "cooking", "pasta"),
		taggedRecord("b", "kitchen tour vlog", 80000, "cooking", "kitchen"),
		taggedRecord("c", "review of my knives", 120000, "cooking", "knives"),
		taggedRecord("d", "grocery haul", 60000, "food"),
		taggedRecord("e", "meal prep sunday", 150000, "mealprep", "cooking"),
	}
	actx := insight.Context{Owner: "chef", PrimaryNiche: "cooking", FollowerCount: 75000}

	engine := NewEngine(DefaultEngineConfig())
	a := engine.Analyze(records, actx)
	b := engine.Analyze(records, actx)

	// RunID and GeneratedAt vary per invocation; every analytic output
	// must be bit-identical.
	if !reflect.DeepEqual(a.Correlations, b.Correlations) {
		t.Error("correlations differ between identical runs")
	}
	if !reflect.DeepEqual(a.MetricRankings, b.MetricRankings) {
		t.Error("metric rankings differ between identical runs")
	}
	if !reflect.DeepEqual(a.KeywordProfiles, b.KeywordProfiles) {
		t.Error("keyword profiles differ between identical runs")
	}
	if !reflect.DeepEqual(a.Niche, b.Niche) {
		t.Error("niche insight differs between identical runs")
	}
	if !reflect.DeepEqual(a.Ideas, b.Ideas) {
		t.Error("ideas differ between identical runs")
	}
}

func TestEngine_MaxRecordsCap(t *testing.T) {
	var records []content.Record
	for i := 0; i < 20; i++ {
		records = append(records, makeRecord(fmt.Sprintf("r-%d", i), 1000, 50, 10, 5))
	}

	engine := NewEngine(EngineConfig{MaxRecords: 10, TopIdeaKeywords: 3})
	result := engine.Analyze(records, insight.Context{PrimaryNiche: "x", FollowerCount: 100})

	if result.RecordsAnalyzed != 10 {
		t.Errorf("records analyzed = %d, want capped 10", result.RecordsAnalyzed)
	}
}
