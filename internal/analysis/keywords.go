package analysis

import (
	"regexp"

	"github.com/kailas-cloud/resumatch/internal/similarity"
)

// keywordRegex selects keyword candidates: alphabetic tokens of four letters or more.
var keywordRegex = regexp.MustCompile(`\b[a-z]{4,}\b`)

// KeywordGap is the overlap between a résumé and a description vocabulary.
type KeywordGap struct {
	// MatchScore is the share of description keywords found in the résumé, 0-100, one decimal.
	MatchScore float64
	// Missing lists description keywords absent from the résumé, in order of
	// first appearance in the description.
	Missing []string
}

// KeywordGap compares the keyword vocabularies of two cleaned texts.
// An empty description vocabulary yields a zero score and no missing terms.
func (a *Analyzer) KeywordGap(cleanedResume, cleanedDescription string) KeywordGap {
	desc := vocabulary(cleanedDescription)
	if len(desc) == 0 {
		return KeywordGap{Missing: []string{}}
	}

	resume := make(map[string]struct{})
	for _, term := range vocabulary(cleanedResume) {
		resume[term] = struct{}{}
	}

	matched := 0
	missing := make([]string, 0, min(len(desc), a.cfg.MissingLimit))
	for _, term := range desc {
		if _, ok := resume[term]; ok {
			matched++
			continue
		}
		if len(missing) < a.cfg.MissingLimit {
			missing = append(missing, term)
		}
	}

	score := float64(matched) / float64(len(desc)) * 100
	return KeywordGap{
		MatchScore: similarity.Round1(similarity.Clamp(score)),
		Missing:    missing,
	}
}

// vocabulary returns the distinct keywords of text in first-appearance order.
func vocabulary(text string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range keywordRegex.FindAllString(text, -1) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}
