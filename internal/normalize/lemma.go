package normalize

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a lowercase word to its dictionary base form.
// Unknown words are returned unchanged. Implementations must be safe for concurrent use.
type Lemmatizer interface {
	Lemma(word string) string
}

// IdentityLemmatizer returns every word unchanged.
type IdentityLemmatizer struct{}

// Lemma implements Lemmatizer.
func (IdentityLemmatizer) Lemma(word string) string { return word }

type golemLemmatizer struct {
	l *golem.Lemmatizer
}

// NewEnglishLemmatizer loads the English golem dictionary.
func NewEnglishLemmatizer() (Lemmatizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return &golemLemmatizer{l: l}, nil
}

func (g *golemLemmatizer) Lemma(word string) string {
	return g.l.Lemma(word)
}
