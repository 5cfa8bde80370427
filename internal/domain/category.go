package domain

// Category is a role label drawn from the classifier's class set.
// The set is defined by the loaded artifact, not at compile time.
type Category string

// CategoryUnknown is reported when no classifier is available or the document has no signal.
const CategoryUnknown Category = "Unknown"

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// IsUnknown reports whether c is the Unknown sentinel or empty.
func (c Category) IsUnknown() bool { return c == "" || c == CategoryUnknown }

// Prediction is a classifier output. Confidence is in [0,100] and only
// meaningful when HasConfidence is set.
type Prediction struct {
	Category      Category
	Confidence    float64
	HasConfidence bool
}

// UnknownPrediction is the fallback prediction with undefined confidence.
func UnknownPrediction() Prediction {
	return Prediction{Category: CategoryUnknown}
}
