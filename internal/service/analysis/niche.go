package analysis

import (
	"fmt"
	"math"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

// gapTemplate pairs a recurring under-served topic shape with its fixed
// opportunity score. Templates are parameterized by the niche label.
type gapTemplate struct {
	topicFormat       string
	opportunityScore  float64
	rationale         string
	suggestedApproach string
}

var gapTemplates = []gapTemplate{
	{
		topicFormat:       "Advanced %s techniques",
		opportunityScore:  82,
		rationale:         "Most creators target beginners, leaving experienced viewers under-served.",
		suggestedApproach: "Publish a deep-dive series assuming the basics and going one level further.",
	},
	{
		topicFormat:       "Beginner-friendly %s explainers",
		opportunityScore:  74,
		rationale:         "Newcomer search demand stays steady while established creators drift toward advanced content.",
		suggestedApproach: "Answer the questions beginners are embarrassed to ask, one per video.",
	},
	{
		topicFormat:       "%s myths and mistakes",
		opportunityScore:  68,
		rationale:         "Correction content earns outsized comment engagement in every niche.",
		suggestedApproach: "Debunk one common misconception per video with a concrete demonstration.",
	},
}

// demographicSplit is a fixed illustrative distribution. It is a placeholder
// pending a real demographics source, not computed from audience data.
var demographicSplit = map[string]float64{
	"13-17": 15,
	"18-24": 35,
	"25-34": 30,
	"35-44": 15,
	"45+":   5,
}

// BuildNicheInsight derives aggregate niche-level signals from the keyword
// intelligence and the raw record set. Saturation, growth and demographics
// are bounded heuristics for decision support, not measurements.
func BuildNicheInsight(niche string, records []content.Record, keywords []insight.KeywordProfile) *insight.NicheInsight {
	if niche == "" {
		niche = "general"
	}

	saturation := estimateSaturation(keywords)
	growth := estimateGrowth(saturation, records)

	demographics := make(map[string]float64, len(demographicSplit))
	for k, v := range demographicSplit {
		demographics[k] = v
	}

	gaps := make([]insight.ContentGap, 0, len(gapTemplates))
	for _, tmpl := range gapTemplates {
		gaps = append(gaps, insight.ContentGap{
			Topic:             fmt.Sprintf(tmpl.topicFormat, niche),
			OpportunityScore:  tmpl.opportunityScore,
			Rationale:         tmpl.rationale,
			SuggestedApproach: tmpl.suggestedApproach,
		})
	}

	return &insight.NicheInsight{
		PrimaryNiche:      niche,
		Saturation:        saturation,
		GrowthOpportunity: growth,
		Demographics:      demographics,
		ThemeCounts:       CountThemes(records),
		ContentGaps:       gaps,
		Position:          classifyPosition(saturation),
	}
}

// estimateSaturation scores how contested the niche looks from keyword
// competition levels, bounded to [10,95]
func estimateSaturation(keywords []insight.KeywordProfile) float64 {
	saturation := 35.0
	for _, kp := range keywords {
		switch kp.CompetitionLevel {
		case insight.CompetitionHigh:
			saturation += 15
		case insight.CompetitionMedium:
			saturation += 7
		}
	}
	return math.Max(10, math.Min(95, saturation))
}

// estimateGrowth inverts saturation and credits the share of records the
// labeling service marked as growing, bounded to [5,95]
func estimateGrowth(saturation float64, records []content.Record) float64 {
	growth := 100 - saturation

	if len(records) > 0 {
		growing := 0
		for _, r := range records {
			if r.Labels.TrendPotential != nil && *r.Labels.TrendPotential == content.PotentialGrowing {
				growing++
			}
		}
		growth += 20 * float64(growing) / float64(len(records))
	}

	return math.Max(5, math.Min(95, growth))
}

func classifyPosition(saturation float64) insight.CompetitivePosition {
	switch {
	case saturation < 40:
		return insight.PositionEmerging
	case saturation < 70:
		return insight.PositionCompetitive
	default:
		return insight.PositionSaturated
	}
}
