package vectorspace

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

var validate = validator.New()

// tfidfArtifact is the JSON export of a fitted TF-IDF vectorizer.
type tfidfArtifact struct {
	Vocabulary  map[string]int `json:"vocabulary" validate:"required,min=1,dive,keys,required,endkeys,gte=0"`
	IDF         []float64      `json:"idf" validate:"required,min=1,dive,gte=0"`
	SublinearTF bool           `json:"sublinear_tf"`
	Norm        string         `json:"norm" validate:"omitempty,oneof=l2 none"`
}

// linearArtifact is the JSON export of a fitted one-vs-rest linear classifier.
// ProbA/ProbB are per-class Platt scaling parameters; both absent means hard labels only.
type linearArtifact struct {
	Classes   []string    `json:"classes" validate:"required,min=2,unique,dive,required"`
	Coef      [][]float64 `json:"coef" validate:"required,min=2,dive,required,min=1"`
	Intercept []float64   `json:"intercept" validate:"required,min=2"`
	ProbA     []float64   `json:"prob_a,omitempty"`
	ProbB     []float64   `json:"prob_b,omitempty"`
}

// ReadTFIDF decodes and validates a TF-IDF vectorizer artifact.
func ReadTFIDF(r io.Reader) (*TFIDF, error) {
	var a tfidfArtifact
	if err := decodeArtifact(r, &a); err != nil {
		return nil, err
	}
	for term, col := range a.Vocabulary {
		if col >= len(a.IDF) {
			return nil, fmt.Errorf("%w: term %q maps to column %d, idf has %d entries",
				domain.ErrInvalidArtifact, term, col, len(a.IDF))
		}
	}
	return newTFIDF(a.Vocabulary, a.IDF, a.SublinearTF, a.Norm != "none"), nil
}

// ReadLinear decodes and validates a linear classifier artifact.
func ReadLinear(r io.Reader) (*Linear, error) {
	var a linearArtifact
	if err := decodeArtifact(r, &a); err != nil {
		return nil, err
	}

	n := len(a.Classes)
	if len(a.Coef) != n || len(a.Intercept) != n {
		return nil, fmt.Errorf("%w: %d classes, %d coef rows, %d intercepts",
			domain.ErrInvalidArtifact, n, len(a.Coef), len(a.Intercept))
	}
	dims := len(a.Coef[0])
	for i, row := range a.Coef {
		if len(row) != dims {
			return nil, fmt.Errorf("%w: coef row %d has %d columns, want %d",
				domain.ErrInvalidArtifact, i, len(row), dims)
		}
	}
	if (a.ProbA == nil) != (a.ProbB == nil) {
		return nil, fmt.Errorf("%w: prob_a and prob_b must be set together", domain.ErrInvalidArtifact)
	}
	if a.ProbA != nil && (len(a.ProbA) != n || len(a.ProbB) != n) {
		return nil, fmt.Errorf("%w: probability parameters must have %d entries",
			domain.ErrInvalidArtifact, n)
	}

	classes := make([]domain.Category, n)
	for i, c := range a.Classes {
		classes[i] = domain.Category(c)
	}
	return newLinear(classes, a.Coef, a.Intercept, a.ProbA, a.ProbB), nil
}

func decodeArtifact(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %w", domain.ErrInvalidArtifact, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArtifact, err)
	}
	return nil
}
