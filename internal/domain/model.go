package domain

// Vectorizer maps cleaned text onto the fixed feature space of a frozen model.
// A loaded Vectorizer is read-only and shared by all requests.
type Vectorizer interface {
	Vectorize(text string) ([]float32, error)
	Dimensions() int
}

// Classifier predicts a category from a feature vector produced by the
// Vectorizer it was trained with.
type Classifier interface {
	Classify(vec []float32) (Prediction, error)
	Classes() []Category
}
