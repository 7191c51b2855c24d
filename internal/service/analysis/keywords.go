package analysis

import (
	"strings"

	"trendxl/internal/domain/content"
	"trendxl/internal/domain/insight"
)

const (
	// maxKeywordCandidates caps how many keywords one run profiles
	maxKeywordCandidates = 8

	// maxRelatedHashtags caps the related-hashtag list per keyword
	maxRelatedHashtags = 5

	// maxSuccessExamples caps the supporting record excerpts per keyword
	maxSuccessExamples = 3

	// exampleDescriptionLimit truncates example descriptions for display
	exampleDescriptionLimit = 80
)

// CandidateKeywords collects keyword candidates from the records' source
// keywords and hashtag sets, deduplicated case-insensitively in first-seen
// order, capped at maxKeywordCandidates.
func CandidateKeywords(records []content.Record) []string {
	seen := make(map[string]bool)
	candidates := []string{}

	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" || len(candidates) >= maxKeywordCandidates {
			return
		}
		key := strings.ToLower(kw)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, kw)
	}

	for _, r := range records {
		add(r.SourceKeyword)
		add(r.SourceHashtag)
	}
	for _, r := range records {
		for _, tag := range r.Hashtags {
			add(tag)
		}
	}

	return candidates
}

// recordMatchesKeyword reports whether a record's description or hashtag
// set contains the keyword, case-insensitively
func recordMatchesKeyword(r content.Record, keyword string) bool {
	kw := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(r.Description), kw) {
		return true
	}
	for _, tag := range r.Hashtags {
		if strings.Contains(strings.ToLower(tag), kw) {
			return true
		}
	}
	return false
}

// ProfileKeywords derives a KeywordProfile for each candidate keyword from
// the current record set. A keyword matching zero records yields a profile
// with zeroed numbers, low competition and no examples; that is a valid
// result, not an error.
func ProfileKeywords(records []content.Record, keywords []string) []insight.KeywordProfile {
	profiles := make([]insight.KeywordProfile, 0, len(keywords))

	for _, keyword := range keywords {
		var matched []content.Record
		for _, r := range records {
			if recordMatchesKeyword(r, keyword) {
				matched = append(matched, r)
			}
		}

		profiles = append(profiles, buildKeywordProfile(keyword, matched))
	}

	return profiles
}

func buildKeywordProfile(keyword string, matched []content.Record) insight.KeywordProfile {
	profile := insight.KeywordProfile{
		Keyword:          keyword,
		CompetitionLevel: insight.CompetitionLow,
		RelatedHashtags:  []string{},
		SuccessExamples:  []insight.SuccessExample{},
	}

	if len(matched) == 0 {
		return profile
	}

	var totalViews int64
	var totalEngagement float64
	for _, r := range matched {
		totalViews += r.Statistics.Views
		rate := r.EngagementRate
		if rate == 0 {
			rate = content.ComputeEngagementRate(r.Statistics)
		}
		totalEngagement += rate
	}

	avgViews := float64(totalViews) / float64(len(matched))
	avgEngagement := totalEngagement / float64(len(matched))

	profile.RelevanceScore = minFloat(95, float64(len(matched))*10+avgEngagement*100)
	profile.TrendPotential = minFloat(90, avgViews/10000)
	profile.EngagementCorrelation = avgEngagement
	profile.EstimatedSearchVolume = totalViews

	switch {
	case avgViews > 1_000_000:
		profile.CompetitionLevel = insight.CompetitionHigh
	case avgViews > 100_000:
		profile.CompetitionLevel = insight.CompetitionMedium
	}

	profile.RelatedHashtags = relatedHashtags(matched, keyword)

	for _, r := range matched[:minInt(maxSuccessExamples, len(matched))] {
		rate := r.EngagementRate
		if rate == 0 {
			rate = content.ComputeEngagementRate(r.Statistics)
		}
		profile.SuccessExamples = append(profile.SuccessExamples, insight.SuccessExample{
			RecordID:       r.ID,
			Description:    truncate(r.Description, exampleDescriptionLimit),
			Views:          r.Statistics.Views,
			EngagementRate: rate,
		})
	}

	return profile
}

// relatedHashtags gathers up to maxRelatedHashtags distinct tags from the
// matched records, excluding the keyword itself
func relatedHashtags(matched []content.Record, keyword string) []string {
	seen := make(map[string]bool)
	related := []string{}
	kw := strings.ToLower(keyword)

	for _, r := range matched {
		for _, tag := range r.Hashtags {
			key := strings.ToLower(tag)
			if key == kw || seen[key] {
				continue
			}
			seen[key] = true
			related = append(related, tag)
			if len(related) >= maxRelatedHashtags {
				return related
			}
		}
	}

	return related
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
