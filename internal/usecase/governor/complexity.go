package governor

import "github.com/zoeklicht/zoeklicht/internal/domain/analysis"

// Complexity estimates how much analytical value an LLM insight call would
// add for the given data. Three sub-domains are scored independently and
// averaged over exactly three terms; an absent technical or content section
// scores zero, while the backlink sub-score is always evaluated (absent Moz
// data reads as zero metrics, which itself signals a weak backlink profile).
func Complexity(in *analysis.Input) float64 {
	if in == nil {
		in = &analysis.Input{}
	}

	technical := technicalComplexity(in.TechnicalSEO)
	content := contentComplexity(in.ScrapedData)
	backlink := backlinkComplexity(in.MozData)

	return (technical + content + backlink) / 3
}

// technicalComplexity accumulates penalties over the applicable meta-tag and
// heading factors. Each present section contributes two factors to the
// divisor whether or not its penalties fire.
func technicalComplexity(t *analysis.TechnicalSEO) float64 {
	if t == nil {
		return 0
	}

	var score float64
	factors := 0

	if t.MetaTags != nil {
		if t.MetaTags.Description == "" {
			score += 0.8 // missing meta description
		}
		if len(t.MetaTags.Title) > 60 {
			score += 0.6 // overlong title
		}
		factors += 2
	}

	if t.Headings != nil {
		if t.Headings.H1() != 1 {
			score += 0.7 // incorrect H1 usage
		}
		if t.Headings.Total() > 15 {
			score += 0.5 // convoluted heading structure
		}
		factors += 2
	}

	if factors == 0 {
		return 0
	}
	return score / float64(factors)
}

// contentComplexity penalizes very long or very short content and dense
// paragraph structure. The paragraph factor applies only when a paragraph
// count was actually measured.
func contentComplexity(s *analysis.ScrapedData) float64 {
	if s == nil || s.Content == nil {
		return 0
	}

	var score float64
	factors := 0

	switch wc := s.Content.WordCount; {
	case wc > 1000:
		score += 0.8
	case wc < 300:
		score += 0.6
	}
	factors++

	if s.Content.Paragraphs != nil {
		if *s.Content.Paragraphs > 10 {
			score += 0.7
		}
		factors++
	}

	return score / float64(factors)
}

// backlinkComplexity always evaluates two factors; there is no presence gate,
// so missing Moz data is scored as a zero-link, zero-spam profile.
func backlinkComplexity(m *analysis.MozData) float64 {
	var totalLinks int
	var spamScore float64
	if m != nil && m.Metrics != nil {
		totalLinks = m.Metrics.TotalLinks
		spamScore = m.Metrics.SpamScore
	}

	var score float64
	switch {
	case totalLinks < 10:
		score += 0.9 // thin backlink profile requires attention
	case totalLinks > 50:
		score += 0.5 // large profile needs detailed analysis
	}
	if spamScore > 20 {
		score += 0.7
	}

	return score / 2
}
