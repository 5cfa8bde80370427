package scoring

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/analysis"
	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Normalizer produces the cleaned form of raw text.
type Normalizer interface {
	Normalize(text string) string
}

// Models queries the frozen vectorizer and classifier.
type Models interface {
	Vectorize(ctx context.Context, cleaned string) ([]float32, error)
	Classify(ctx context.Context, vec []float32) (domain.Prediction, error)
}

// Embedder produces the semantic vectors compared by similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ReferenceCatalog resolves the canonical description of a category.
type ReferenceCatalog interface {
	Lookup(category domain.Category) (string, bool)
	Describe(category domain.Category) string
}

// Analyzer runs the rule-based checks.
type Analyzer interface {
	Structure(raw string) analysis.StructuralChecks
	KeywordGap(cleanedResume, cleanedDescription string) analysis.KeywordGap
}
