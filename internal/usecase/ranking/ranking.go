// Package ranking orders score reports for presentation.
package ranking

import (
	"sort"

	"github.com/kailas-cloud/resumatch/internal/domain/report"
)

// Rank returns reports ordered by descending rank score. Reports with equal
// scores keep their input order. The input slice is left untouched.
func Rank(reports []report.ScoreReport) []report.ScoreReport {
	ranked := make([]report.ScoreReport, len(reports))
	copy(ranked, reports)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankScore() > ranked[j].RankScore()
	})
	return ranked
}
