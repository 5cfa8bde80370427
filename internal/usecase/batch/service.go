package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
	"github.com/kailas-cloud/resumatch/internal/logger"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/usecase/ranking"
	"github.com/kailas-cloud/resumatch/internal/usecase/scoring"
)

// Defaults for the batch limits.
const (
	DefaultMaxBatchSize = 50
	DefaultConcurrency  = 4
)

// Item is one résumé of a batch.
type Item struct {
	// ID names the document in reports, usually the uploaded file name.
	// A random id is assigned when empty.
	ID string
	// Text is the raw résumé text.
	Text string
	// Extracted marks text produced by a file extractor, where blank text
	// means the file could not be read.
	Extracted bool
}

// Service scores a batch of résumés against one description and ranks them.
// One document failing never affects the others.
type Service struct {
	scorer       Scorer
	maxBatchSize int
	concurrency  int
}

// New creates a batch service.
func New(scorer Scorer) *Service {
	return &Service{
		scorer:       scorer,
		maxBatchSize: DefaultMaxBatchSize,
		concurrency:  DefaultConcurrency,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// WithConcurrency configures how many documents are scored in parallel.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// MaxBatchSize returns the configured batch limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Rank scores every item against description and returns the ranked batch.
// A blank description ranks by profile strength.
func (s *Service) Rank(ctx context.Context, items []Item, description string) (dombatch.Ranked, error) {
	if len(items) == 0 {
		return dombatch.Ranked{}, fmt.Errorf("batch has no documents: %w", domain.ErrInvalidRequest)
	}
	if len(items) > s.maxBatchSize {
		return dombatch.Ranked{}, fmt.Errorf("batch size %d exceeds %d: %w",
			len(items), s.maxBatchSize, domain.ErrBatchTooLarge)
	}
	metrics.BatchSize.Observe(float64(len(items)))

	target := s.scorer.Prepare(ctx, description)
	reports := make([]report.ScoreReport, len(items))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, item := range items {
		g.Go(func() error {
			reports[i] = s.scoreItem(ctx, item, target)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	ranked := dombatch.NewRanked(target.Mode(), ranking.Rank(reports))
	if unreadable := ranked.Unreadable(); len(unreadable) > 0 {
		logger.FromContext(ctx).Warn("Batch contains unreadable documents",
			zap.Strings("document_ids", unreadable),
		)
	}
	return ranked, nil
}

// scoreItem builds the document and scores it, turning invalid input and
// panics into failed reports.
func (s *Service) scoreItem(ctx context.Context, item Item, target *scoring.Target) (rep report.ScoreReport) {
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("Batch item panicked",
				zap.String("document_id", id),
				zap.Any("panic", r),
			)
			rep = failed(id, target.Mode(), fmt.Sprintf("panic: %v", r))
		}
	}()

	var (
		doc domdoc.Document
		err error
	)
	if item.Extracted {
		doc, err = domdoc.NewExtracted(id, item.Text)
	} else {
		doc, err = domdoc.New(id, item.Text)
	}
	if err != nil {
		return failed(id, target.Mode(), err.Error())
	}
	return s.scorer.ScoreAgainst(ctx, doc, target)
}

func failed(id string, mode report.Mode, detail string) report.ScoreReport {
	return report.New(report.Fields{
		DocumentID:   id,
		Mode:         mode,
		Status:       report.StatusFailed,
		Detail:       detail,
		Prediction:   domain.UnknownPrediction(),
		HasComposite: mode == report.ModeJobMatch,
	})
}
