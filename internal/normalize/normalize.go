// Package normalize turns raw document text into the canonical token stream
// shared by vectorization and keyword analysis.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlRegex   = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	emailRegex = regexp.MustCompile(`\S*@\S*\s?`)
)

// Normalizer cleans text: lowercase, URLs and emails removed, letters only,
// stopwords dropped, tokens lemmatized and joined by single spaces.
// Normalize is idempotent and safe for concurrent use.
type Normalizer struct {
	lemmatizer Lemmatizer
	stopwords  wordSet
}

// New creates a Normalizer. A nil lemmatizer disables lemmatization.
func New(lemmatizer Lemmatizer) *Normalizer {
	if lemmatizer == nil {
		lemmatizer = IdentityLemmatizer{}
	}
	return &Normalizer{lemmatizer: lemmatizer, stopwords: englishStopwords}
}

// Normalize returns the cleaned form of text. Empty input yields "".
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = urlRegex.ReplaceAllString(text, "")
	text = emailRegex.ReplaceAllString(text, "")
	text = strings.Map(keepLetterOrSpace, text)

	tokens := strings.Fields(text)
	cleaned := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.stopwords.has(tok) || urlRegex.MatchString(tok) {
			continue
		}
		cleaned = append(cleaned, n.lemma(tok))
	}
	return strings.Join(cleaned, " ")
}

// IsStopword reports whether word is in the stopword set.
func (n *Normalizer) IsStopword(word string) bool {
	return n.stopwords.has(word)
}

// lemma accepts a base form only if it is itself a fixed point and would
// survive another cleaning pass unchanged.
func (n *Normalizer) lemma(tok string) string {
	l := n.lemmatizer.Lemma(tok)
	if l == tok || l == "" {
		return tok
	}
	if !isLowerAlpha(l) || n.stopwords.has(l) || urlRegex.MatchString(l) {
		return tok
	}
	if n.lemmatizer.Lemma(l) != l {
		return tok
	}
	return l
}

func keepLetterOrSpace(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r
	}
	if unicode.IsSpace(r) {
		return ' '
	}
	return -1
}

func isLowerAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
