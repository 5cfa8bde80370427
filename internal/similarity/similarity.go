// Package similarity scores the angle between two feature vectors on a 0-100 scale.
package similarity

import "math"

// Score returns the cosine similarity of a and b scaled to [0,100].
// Vectors of different length, empty vectors and zero-magnitude vectors score 0.
func Score(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return Clamp(dot / (math.Sqrt(normA) * math.Sqrt(normB)) * 100)
}

// Clamp bounds a score to [0,100]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
