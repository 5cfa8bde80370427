package chi

import (
	"context"
	"io"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
)

// Scorer scores a single résumé.
type Scorer interface {
	Score(ctx context.Context, doc domdoc.Document, description string) report.ScoreReport
}

// Ranker scores and ranks a batch of résumés.
type Ranker interface {
	Rank(ctx context.Context, items []batchuc.Item, description string) (dombatch.Ranked, error)
	MaxBatchSize() int
}

// Extractor converts uploaded files to text.
type Extractor interface {
	ExtractText(ctx context.Context, r io.Reader, filename string) (string, error)
}

// CategorySource lists the categories known to the classifier.
type CategorySource interface {
	Categories() []domain.Category
}

// Describer returns the reference description of a category.
type Describer interface {
	Categories() []domain.Category
	Describe(category domain.Category) string
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
