package vectorspace

import (
	"math"
	"slices"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Linear is a frozen one-vs-rest linear classifier.
type Linear struct {
	classes   []domain.Category
	coef      [][]float64
	intercept []float64
	probA     []float64
	probB     []float64
}

func newLinear(classes []domain.Category, coef [][]float64, intercept, probA, probB []float64) *Linear {
	return &Linear{classes: classes, coef: coef, intercept: intercept, probA: probA, probB: probB}
}

// Dimensions returns the expected input vector length.
func (l *Linear) Dimensions() int { return len(l.coef[0]) }

// Classes returns a copy of the class labels in model order.
func (l *Linear) Classes() []domain.Category { return slices.Clone(l.classes) }

// HasProbabilities reports whether the model carries probability calibration.
func (l *Linear) HasProbabilities() bool { return l.probA != nil }

// Classify returns the class with the highest decision value. Confidence is
// the highest calibrated class probability, defined only for calibrated models.
func (l *Linear) Classify(vec []float32) (domain.Prediction, error) {
	if len(vec) != l.Dimensions() {
		return domain.Prediction{}, domain.NewDimensionError(l.Dimensions(), len(vec))
	}

	decisions := l.decisions(vec)
	pred := domain.Prediction{Category: l.classes[argmax(decisions)]}
	if !l.HasProbabilities() {
		return pred, nil
	}

	probs := l.probabilities(decisions)
	pred.Confidence = probs[argmax(probs)] * 100
	pred.HasConfidence = true
	return pred, nil
}

func (l *Linear) decisions(vec []float32) []float64 {
	out := make([]float64, len(l.classes))
	for k, row := range l.coef {
		d := l.intercept[k]
		for i, w := range row {
			if vec[i] != 0 {
				d += w * float64(vec[i])
			}
		}
		out[k] = d
	}
	return out
}

// probabilities applies per-class Platt scaling and normalizes across classes.
func (l *Linear) probabilities(decisions []float64) []float64 {
	probs := make([]float64, len(decisions))
	var sum float64
	for k, d := range decisions {
		p := 1 / (1 + math.Exp(l.probA[k]*d+l.probB[k]))
		probs[k] = p
		sum += p
	}
	if sum == 0 {
		for k := range probs {
			probs[k] = 1 / float64(len(probs))
		}
		return probs
	}
	for k := range probs {
		probs[k] /= sum
	}
	return probs
}

func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
