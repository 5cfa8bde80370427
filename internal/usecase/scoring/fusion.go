package scoring

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
)

const weightTolerance = 1e-6

// Weights is the outer fusion of classifier confidence, rule-based and semantic scores.
type Weights struct {
	Confidence float64
	RuleBased  float64
	Semantic   float64
}

// DefaultWeights returns the 30/40/30 fusion.
func DefaultWeights() Weights {
	return Weights{Confidence: 0.3, RuleBased: 0.4, Semantic: 0.3}
}

// Validate checks the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	return validateWeights("weights", w.Confidence, w.RuleBased, w.Semantic)
}

// RuleWeights is the inner blend of presence, impact and keyword scores.
type RuleWeights struct {
	Presence float64
	Impact   float64
	Keyword  float64
}

// DefaultRuleWeights returns the 25/15/60 blend.
func DefaultRuleWeights() RuleWeights {
	return RuleWeights{Presence: 0.25, Impact: 0.15, Keyword: 0.60}
}

// Validate checks the weights are non-negative and sum to 1.
func (w RuleWeights) Validate() error {
	return validateWeights("rule weights", w.Presence, w.Impact, w.Keyword)
}

func validateWeights(name string, ws ...float64) error {
	var sum float64
	for _, w := range ws {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("%s must be non-negative: %w", name, domain.ErrInvalidRequest)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%s must sum to 1, got %.4f: %w", name, sum, domain.ErrInvalidRequest)
	}
	return nil
}

// RuleBased blends presence, impact and keyword scores, rounded and clamped.
func RuleBased(presence, impact, keyword float64, w RuleWeights) float64 {
	return report.Normalize(presence*w.Presence + impact*w.Impact + keyword*w.Keyword)
}

// Composite fuses the sub-scores, rounded and clamped. When confidence is
// undefined its weight is dropped and the others are rescaled to sum to 1.
func Composite(confidence float64, hasConfidence bool, ruleBased, semantic float64, w Weights) float64 {
	if hasConfidence {
		return report.Normalize(confidence*w.Confidence + ruleBased*w.RuleBased + semantic*w.Semantic)
	}
	total := w.RuleBased + w.Semantic
	if total == 0 {
		return 0
	}
	return report.Normalize((ruleBased*w.RuleBased + semantic*w.Semantic) / total)
}
