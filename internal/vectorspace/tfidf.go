package vectorspace

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern selects tokens of two or more word characters.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// TFIDF is a frozen term-frequency / inverse-document-frequency vectorizer.
// It is read-only after construction and safe for concurrent use.
type TFIDF struct {
	vocabulary map[string]int
	idf        []float64
	sublinear  bool
	l2         bool
}

func newTFIDF(vocabulary map[string]int, idf []float64, sublinear, l2 bool) *TFIDF {
	return &TFIDF{vocabulary: vocabulary, idf: idf, sublinear: sublinear, l2: l2}
}

// Dimensions returns the length of produced vectors.
func (t *TFIDF) Dimensions() int { return len(t.idf) }

// VocabularySize returns the number of known terms.
func (t *TFIDF) VocabularySize() int { return len(t.vocabulary) }

// Vectorize maps text onto the dense feature space. Unknown terms are ignored,
// so text without known terms yields the zero vector.
func (t *TFIDF) Vectorize(text string) ([]float32, error) {
	vec := make([]float32, len(t.idf))

	counts := make(map[int]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if col, ok := t.vocabulary[tok]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return vec, nil
	}

	weights := make(map[int]float64, len(counts))
	var sumSq float64
	for col, n := range counts {
		tf := float64(n)
		if t.sublinear {
			tf = 1 + math.Log(tf)
		}
		w := tf * t.idf[col]
		weights[col] = w
		sumSq += w * w
	}

	norm := 1.0
	if t.l2 && sumSq > 0 {
		norm = math.Sqrt(sumSq)
	}
	for col, w := range weights {
		vec[col] = float32(w / norm)
	}
	return vec, nil
}
