package analysis

import (
	"strings"

	"trendxl/internal/domain/content"
)

// ContentTheme tags the broad editorial category of a record's description
type ContentTheme string

const (
	ThemeLifestyle     ContentTheme = "lifestyle"
	ThemeEducational   ContentTheme = "educational"
	ThemeEntertainment ContentTheme = "entertainment"
	ThemeReview        ContentTheme = "review"
	ThemeTrending      ContentTheme = "trending"
)

// themeKeywords maps description substrings to themes. This is an explicit
// lookup table, not NLP: the first theme whose substring appears wins, in
// the table's order.
var themeKeywords = []struct {
	theme    ContentTheme
	keywords []string
}{
	{ThemeEducational, []string{"how to", "tutorial", "learn", "tips", "guide", "explain"}},
	{ThemeReview, []string{"review", "unboxing", "testing", "vs", "comparison", "honest"}},
	{ThemeTrending, []string{"challenge", "trend", "viral", "duet", "stitch"}},
	{ThemeEntertainment, []string{"funny", "comedy", "prank", "reaction", "pov", "skit"}},
	{ThemeLifestyle, []string{"day in", "routine", "vlog", "grwm", "life", "daily"}},
}

// ClassifyTheme tags a single description. Descriptions matching no table
// entry fall through to lifestyle, the broadest bucket.
func ClassifyTheme(description string) ContentTheme {
	desc := strings.ToLower(description)
	for _, entry := range themeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(desc, kw) {
				return entry.theme
			}
		}
	}
	return ThemeLifestyle
}

// CountThemes builds the content-theme histogram for a record set
func CountThemes(records []content.Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[string(ClassifyTheme(r.Description))]++
	}
	return counts
}
