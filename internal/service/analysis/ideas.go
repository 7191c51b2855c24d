package analysis

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

// audienceShare is the fraction of a creator's followers a single post
// typically reaches before any multiplier
const audienceShare = 0.05

// evidenceEngagementFactor selects the high-engagement subset used as
// supporting evidence: records above this multiple of the set average
const evidenceEngagementFactor = 1.2

// maxSupportingEvidence caps the evidence excerpts per idea
const maxSupportingEvidence = 3

// ideaTemplate is one fixed content concept shape. Difficulty runs 1-5;
// reachMultiplier scales the baseline audience share.
type ideaTemplate struct {
	kind            string
	titleFormat     string
	conceptFormat   string
	difficulty      int
	reachMultiplier float64
	bestTiming      string
}

var ideaTemplates = []ideaTemplate{
	{
		kind:            "trend-challenge",
		titleFormat:     "Put a %s spin on the current challenge",
		conceptFormat:   "Join the trending challenge format but anchor it in %s, using %s to stay discoverable while the trend is hot.",
		difficulty:      2,
		reachMultiplier: 3.0,
		bestTiming:      "Within 48 hours of a challenge surfacing; trends decay fast.",
	},
	{
		kind:            "educational",
		titleFormat:     "60-second %s lesson",
		conceptFormat:   "Teach one narrow, practical %s skill per video; searchable topics like %s compound over time.",
		difficulty:      3,
		reachMultiplier: 2.0,
		bestTiming:      "Weekday mornings, when how-to search intent peaks.",
	},
	{
		kind:            "behind-the-scenes",
		titleFormat:     "What making %s content actually looks like",
		conceptFormat:   "Show the unpolished process behind your %s posts; authenticity converts viewers into followers around %s.",
		difficulty:      1,
		reachMultiplier: 1.5,
		bestTiming:      "Evenings and weekends, when audiences browse casually.",
	},
	{
		kind:            "collaboration",
		titleFormat:     "Collab with another %s creator",
		conceptFormat:   "Trade appearances with a similar-sized %s creator so both audiences discover each other through %s.",
		difficulty:      4,
		reachMultiplier: 2.5,
		bestTiming:      "Launch both halves of the collab within the same 24 hours.",
	},
	{
		kind:            "reaction",
		titleFormat:     "React to what's moving in %s",
		conceptFormat:   "Give a fast, opinionated take on notable %s moments; riding %s keeps production cost near zero.",
		difficulty:      1,
		reachMultiplier: 1.8,
		bestTiming:      "Same day as the source content; reaction windows are short.",
	},
}

// GenerateIdeas ranks the fixed idea templates for a creator. Reach scales
// with follower count, success probability with the template constants, and
// the trending factor is seeded deterministically from the niche and
// keywords so identical inputs always produce identical output.
func GenerateIdeas(niche string, topKeywords []string, followerCount int64, records []content.Record) []insight.IdeaRecommendation {
	if niche == "" {
		niche = "general"
	}

	keywordPhrase := "your core hashtags"
	if len(topKeywords) > 0 {
		keywordPhrase = "#" + strings.Join(topKeywords, ", #")
	}

	evidence := supportingEvidence(records)

	ideas := make([]insight.IdeaRecommendation, 0, len(ideaTemplates))
	for _, tmpl := range ideaTemplates {
		reach := int64(float64(followerCount) * audienceShare * tmpl.reachMultiplier)
		success := math.Min(95, 60+tmpl.reachMultiplier*10+float64(5-tmpl.difficulty)*5)

		ideas = append(ideas, insight.IdeaRecommendation{
			Title:              fmt.Sprintf(tmpl.titleFormat, niche),
			Concept:            fmt.Sprintf(tmpl.conceptFormat, niche, keywordPhrase),
			TargetKeywords:     topKeywords,
			EstimatedReach:     reach,
			DifficultyScore:    tmpl.difficulty,
			TrendingFactor:     trendingFactor(niche, topKeywords, tmpl.kind),
			BestTiming:         tmpl.bestTiming,
			SuccessProbability: success,
			SupportingEvidence: evidence,
		})
	}

	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].SuccessProbability > ideas[j].SuccessProbability
	})

	return ideas
}

// trendingFactor maps an FNV-1a hash of the inputs into [0.8, 1.2]. The
// factor is illustrative; hashing keeps repeat runs bit-identical where a
// random draw would not be.
func trendingFactor(niche string, keywords []string, kind string) float64 {
	h := fnv.New32a()
	h.Write([]byte(niche))
	h.Write([]byte(kind))
	for _, kw := range keywords {
		h.Write([]byte(kw))
	}
	return 0.8 + float64(h.Sum32()%41)/100.0
}

// supportingEvidence extracts excerpts from the records whose engagement
// beats the set average by evidenceEngagementFactor
func supportingEvidence(records []content.Record) []insight.SuccessExample {
	evidence := []insight.SuccessExample{}
	if len(records) == 0 {
		return evidence
	}

	var total float64
	rates := make([]float64, len(records))
	for i, r := range records {
		rate := r.EngagementRate
		if rate == 0 {
			rate = content.ComputeEngagementRate(r.Statistics)
		}
		rates[i] = rate
		total += rate
	}
	threshold := total / float64(len(records)) * evidenceEngagementFactor

	for i, r := range records {
		if rates[i] <= threshold {
			continue
		}
		evidence = append(evidence, insight.SuccessExample{
			RecordID:       r.ID,
			Description:    truncate(r.Description, exampleDescriptionLimit),
			Views:          r.Statistics.Views,
			EngagementRate: rates[i],
		})
		if len(evidence) >= maxSupportingEvidence {
			break
		}
	}

	return evidence
}
