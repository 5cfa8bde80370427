package batch

import (
	"slices"

	"github.com/kailas-cloud/resumatch/internal/domain/report"
)

// Ranked is a batch of reports in presentation order.
type Ranked struct {
	mode    report.Mode
	reports []report.ScoreReport
}

// NewRanked creates a ranked batch. reports must already be ordered.
func NewRanked(mode report.Mode, reports []report.ScoreReport) Ranked {
	return Ranked{mode: mode, reports: slices.Clone(reports)}
}

// Mode returns the scoring mode shared by all reports.
func (b Ranked) Mode() report.Mode { return b.mode }

// Reports returns a copy of the ordered reports.
func (b Ranked) Reports() []report.ScoreReport { return slices.Clone(b.reports) }

// Len returns the number of reports.
func (b Ranked) Len() int { return len(b.reports) }

// Top returns the best ranked report.
func (b Ranked) Top() (report.ScoreReport, bool) {
	if len(b.reports) == 0 {
		return report.ScoreReport{}, false
	}
	return b.reports[0], true
}

// Unreadable returns the ids of documents that produced no text or failed to score.
func (b Ranked) Unreadable() []string {
	var ids []string
	for _, r := range b.reports {
		if r.Status() == report.StatusEmpty || r.Status() == report.StatusFailed {
			ids = append(ids, r.DocumentID())
		}
	}
	return ids
}
