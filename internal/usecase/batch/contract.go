package batch

import (
	"context"

	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
	"github.com/kailas-cloud/resumatch/internal/usecase/scoring"
)

// Scorer scores single documents against a shared target.
type Scorer interface {
	Prepare(ctx context.Context, description string) *scoring.Target
	ScoreAgainst(ctx context.Context, doc domdoc.Document, target *scoring.Target) report.ScoreReport
}
