package analysis

import "strings"

// Normalize clamps scores to 0..100, forces exactly KeywordCount keywords
// and tidies the free-text fields in place.
func Normalize(a *Analysis) {
	for _, k := range ScoreKeys {
		p := a.Scores.field(k)
		*p = max(0, min(*p, 100))
	}

	keywords := make([]string, 0, KeywordCount)
	for _, k := range a.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
		if len(keywords) == KeywordCount {
			break
		}
	}
	for len(keywords) < KeywordCount {
		keywords = append(keywords, KeywordFiller)
	}
	a.Keywords = keywords

	a.Current.Catchphrase = strings.TrimSpace(a.Current.Catchphrase)
	a.Current.Features = strings.TrimSpace(a.Current.Features)
	a.Ideal.Catchphrase = strings.TrimSpace(a.Ideal.Catchphrase)
	a.Ideal.Features = strings.TrimSpace(a.Ideal.Features)

	advice := strings.ReplaceAll(a.RoadmapAdvice, "\r\n", "\n")
	// Some models return the bullet separators escaped.
	advice = strings.ReplaceAll(advice, `\n`, "\n")
	a.RoadmapAdvice = strings.TrimSpace(advice)

	var steps []string
	for _, s := range a.RoadmapSteps {
		if s = strings.TrimSpace(s); s != "" && len(steps) < MaxRoadmapSteps {
			steps = append(steps, s)
		}
	}
	a.RoadmapSteps = steps
}
