// Package vectorspace wraps frozen vectorizer and classifier artifacts into
// the query surface used by scoring: vectorize, classify and embed.
package vectorspace

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// ModelSource provides the shared model artifacts. Either may be absent.
type ModelSource interface {
	Vectorizer() (domain.Vectorizer, bool)
	Classifier() (domain.Classifier, bool)
}

type staticSource struct {
	vectorizer domain.Vectorizer
	classifier domain.Classifier
}

// StaticModels returns a ModelSource over already loaded models. Nil means absent.
func StaticModels(v domain.Vectorizer, c domain.Classifier) ModelSource {
	return staticSource{vectorizer: v, classifier: c}
}

func (s staticSource) Vectorizer() (domain.Vectorizer, bool) { return s.vectorizer, s.vectorizer != nil }
func (s staticSource) Classifier() (domain.Classifier, bool) { return s.classifier, s.classifier != nil }

// Adapter is a read-only query surface over the loaded models.
type Adapter struct {
	models ModelSource
}

// NewAdapter creates an adapter.
func NewAdapter(models ModelSource) *Adapter {
	return &Adapter{models: models}
}

// Vectorize maps cleaned text to a feature vector.
// Returns domain.ErrModelNotLoaded when no vectorizer is loaded.
func (a *Adapter) Vectorize(_ context.Context, cleaned string) ([]float32, error) {
	v, ok := a.models.Vectorizer()
	if !ok {
		return nil, domain.ErrModelNotLoaded
	}
	vec, err := v.Vectorize(cleaned)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}
	return vec, nil
}

// Classify predicts the category of vec. Without a classifier it returns the
// Unknown prediction and no error.
func (a *Adapter) Classify(_ context.Context, vec []float32) (domain.Prediction, error) {
	c, ok := a.models.Classifier()
	if !ok {
		return domain.UnknownPrediction(), nil
	}
	pred, err := c.Classify(vec)
	if err != nil {
		return domain.UnknownPrediction(), fmt.Errorf("classify: %w", err)
	}
	return pred, nil
}

// Embed implements domain.Embedder with the local vectorizer.
func (a *Adapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.Vectorize(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// Categories returns the classifier's classes, or nil without a classifier.
func (a *Adapter) Categories() []domain.Category {
	c, ok := a.models.Classifier()
	if !ok {
		return nil
	}
	return c.Classes()
}

// Ready reports whether a vectorizer is loaded.
func (a *Adapter) Ready() bool {
	_, ok := a.models.Vectorizer()
	return ok
}

// ClassifierReady reports whether a classifier is loaded.
func (a *Adapter) ClassifierReady() bool {
	_, ok := a.models.Classifier()
	return ok
}
