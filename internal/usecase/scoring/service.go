// Package scoring fuses classifier confidence, semantic similarity and the
// rule-based checks into one report per résumé.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
	"github.com/kailas-cloud/resumatch/internal/logger"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/similarity"
)

// DefaultExcerptLength is the excerpt size in runes.
const DefaultExcerptLength = 200

// Config tunes fusion and presentation.
type Config struct {
	Weights       Weights
	RuleWeights   RuleWeights
	ExcerptLength int
}

// DefaultConfig returns the default fusion.
func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		RuleWeights:   DefaultRuleWeights(),
		ExcerptLength: DefaultExcerptLength,
	}
}

// Validate checks both weight sets.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return c.RuleWeights.Validate()
}

// Service scores documents. It holds only read-only collaborators and is
// safe for concurrent use.
type Service struct {
	normalizer Normalizer
	models     Models
	embed      Embedder
	catalog    ReferenceCatalog
	analyzer   Analyzer
	cfg        Config
}

// New creates a scoring service.
func New(
	normalizer Normalizer, models Models, embed Embedder,
	catalog ReferenceCatalog, analyzer Analyzer, cfg Config,
) *Service {
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = DefaultExcerptLength
	}
	return &Service{
		normalizer: normalizer,
		models:     models,
		embed:      embed,
		catalog:    catalog,
		analyzer:   analyzer,
		cfg:        cfg,
	}
}

// Target is a prepared comparison text. A job description target is shared
// by every document of a batch so it is cleaned and embedded once.
type Target struct {
	mode    report.Mode
	cleaned string
	vec     []float32
	err     error
}

// Mode returns the scoring mode the target implies.
func (t *Target) Mode() report.Mode {
	if t == nil {
		return report.ModeProfileStrength
	}
	return t.mode
}

// Prepare builds the comparison target for description. A blank description
// selects profile strength mode, where each document is compared against the
// reference description of its predicted category.
func (s *Service) Prepare(ctx context.Context, description string) *Target {
	if strings.TrimSpace(description) == "" {
		return &Target{mode: report.ModeProfileStrength}
	}
	return s.target(ctx, report.ModeJobMatch, description)
}

func (s *Service) target(ctx context.Context, mode report.Mode, text string) *Target {
	t := &Target{mode: mode, cleaned: s.normalizer.Normalize(text)}
	if t.cleaned != "" {
		t.vec, t.err = s.embedVector(ctx, t.cleaned)
	}
	return t
}

// Score scores doc against description. It never fails: every failure is
// reported through the report status.
func (s *Service) Score(ctx context.Context, doc domdoc.Document, description string) report.ScoreReport {
	return s.ScoreAgainst(ctx, doc, s.Prepare(ctx, description))
}

// ScoreAgainst scores doc against a prepared target. A nil target means profile strength mode.
func (s *Service) ScoreAgainst(ctx context.Context, doc domdoc.Document, target *Target) (rep report.ScoreReport) {
	if target == nil {
		target = &Target{mode: report.ModeProfileStrength}
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("Scoring panicked",
				zap.String("document_id", doc.ID()),
				zap.Any("panic", r),
			)
			rep = s.zeroReport(doc.ID(), target.mode, report.StatusFailed, fmt.Sprintf("panic: %v", r))
		}
		s.observe(ctx, rep, time.Since(start))
	}()

	if doc.IsEmpty() || doc.ExtractionFailed() {
		return s.zeroReport(doc.ID(), target.mode, report.StatusEmpty, domain.ErrEmptyDocument.Error())
	}
	return s.score(ctx, doc, target)
}

func (s *Service) score(ctx context.Context, doc domdoc.Document, target *Target) report.ScoreReport {
	log := logger.FromContext(ctx).With(zap.String("document_id", doc.ID()))

	status, detail := report.StatusOK, ""
	degrade := func(err error) {
		log.Warn("Scoring degraded", zap.Error(err))
		if status == report.StatusOK {
			status, detail = report.StatusDegraded, err.Error()
		}
	}

	cleaned := s.normalizer.Normalize(doc.Text())
	checks := s.analyzer.Structure(doc.Text())

	pred := domain.UnknownPrediction()
	vectorized := cleaned != ""
	if vectorized {
		var err error
		if pred, err = s.predict(ctx, cleaned); err != nil {
			degrade(err)
			vectorized = !errors.Is(err, errVectorize)
		}
	}

	comparison := target
	if target.mode == report.ModeProfileStrength {
		comparison = s.reference(ctx, pred.Category)
	}

	var semantic float64
	// A classifier fault leaves the semantic signal intact.
	if vectorized {
		var err error
		if semantic, err = s.semantic(ctx, cleaned, comparison); err != nil {
			degrade(err)
		}
	}

	gap := s.analyzer.KeywordGap(cleaned, comparison.cleaned)

	presence := report.Normalize(checks.PresenceScore)
	impact := report.Normalize(checks.ImpactScore)
	keyword := report.Normalize(gap.MatchScore)
	semantic = report.Normalize(semantic)
	if pred.HasConfidence {
		pred.Confidence = report.Normalize(pred.Confidence)
	}
	ruleBased := RuleBased(presence, impact, keyword, s.cfg.RuleWeights)

	fields := report.Fields{
		DocumentID:             doc.ID(),
		Mode:                   target.mode,
		Status:                 status,
		Detail:                 detail,
		Prediction:             pred,
		SemanticScore:          semantic,
		PresenceScore:          presence,
		ImpactScore:            impact,
		KeywordScore:           keyword,
		RuleBasedScore:         ruleBased,
		MissingKeywords:        gap.Missing,
		RecommendedDescription: s.catalog.Describe(pred.Category),
		Excerpt:                excerpt(cleaned, s.cfg.ExcerptLength),
		Checks: report.Checks{
			Email:       checks.Email,
			Phone:       checks.Phone,
			Network:     checks.Network,
			Education:   checks.Education,
			Experience:  checks.Experience,
			Skills:      checks.Skills,
			Projects:    checks.Projects,
			ActionVerbs: checks.ActionVerbs,
		},
	}
	if target.mode == report.ModeJobMatch {
		fields.HasComposite = true
		fields.CompositeScore = Composite(pred.Confidence, pred.HasConfidence, ruleBased, semantic, s.cfg.Weights)
	}
	return report.New(fields)
}

// errVectorize marks predict failures raised before classification.
var errVectorize = errors.New("vectorize")

// predict vectorizes and classifies cleaned text. An absent model yields the
// Unknown prediction without error. Vectorization failures wrap errVectorize.
func (s *Service) predict(ctx context.Context, cleaned string) (domain.Prediction, error) {
	vec, err := s.models.Vectorize(ctx, cleaned)
	if errors.Is(err, domain.ErrModelNotLoaded) {
		return domain.UnknownPrediction(), nil
	}
	if err != nil {
		return domain.UnknownPrediction(), fmt.Errorf("%w: %w", errVectorize, err)
	}

	pred, err := s.models.Classify(ctx, vec)
	if err != nil {
		return domain.UnknownPrediction(), fmt.Errorf("classify: %w", err)
	}
	if pred.Category.IsUnknown() {
		return domain.UnknownPrediction(), nil
	}
	return pred, nil
}

// reference builds the profile strength target for category. Categories
// without a reference description yield an empty target.
func (s *Service) reference(ctx context.Context, category domain.Category) *Target {
	desc, ok := s.catalog.Lookup(category)
	if !ok {
		return &Target{mode: report.ModeProfileStrength}
	}
	return s.target(ctx, report.ModeProfileStrength, desc)
}

// semantic returns the similarity between cleaned text and the target.
// An absent vectorizer scores 0 without error.
func (s *Service) semantic(ctx context.Context, cleaned string, target *Target) (float64, error) {
	if errors.Is(target.err, domain.ErrModelNotLoaded) {
		return 0, nil
	}
	if target.err != nil {
		return 0, fmt.Errorf("embed description: %w", target.err)
	}
	if target.vec == nil {
		return 0, nil
	}

	vec, err := s.embedVector(ctx, cleaned)
	if errors.Is(err, domain.ErrModelNotLoaded) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("embed resume: %w", err)
	}
	return similarity.Score(vec, target.vec), nil
}

func (s *Service) embedVector(ctx context.Context, text string) ([]float32, error) {
	res, err := s.embed.Embed(ctx, text)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by callers
	}
	return res.Embedding, nil
}

// zeroReport is the all-zero report of a document that could not be scored.
func (s *Service) zeroReport(id string, mode report.Mode, status report.Status, detail string) report.ScoreReport {
	return report.New(report.Fields{
		DocumentID:             id,
		Mode:                   mode,
		Status:                 status,
		Detail:                 detail,
		Prediction:             domain.UnknownPrediction(),
		HasComposite:           mode == report.ModeJobMatch,
		RecommendedDescription: s.catalog.Describe(domain.CategoryUnknown),
	})
}

func (s *Service) observe(ctx context.Context, r report.ScoreReport, d time.Duration) {
	mode := string(r.Mode())
	metrics.DocumentsScoredTotal.WithLabelValues(mode, string(r.Status())).Inc()
	metrics.ScoringDuration.WithLabelValues(mode).Observe(d.Seconds())
	metrics.ScoreDistribution.WithLabelValues("semantic").Observe(r.SemanticScore())
	metrics.ScoreDistribution.WithLabelValues("rule_based").Observe(r.RuleBasedScore())
	metrics.ScoreDistribution.WithLabelValues("keyword").Observe(r.KeywordScore())
	if c, ok := r.CompositeScore(); ok {
		metrics.ScoreDistribution.WithLabelValues("composite").Observe(c)
	}

	logger.FromContext(ctx).Debug("Document scored",
		zap.String("document_id", r.DocumentID()),
		zap.String("mode", mode),
		zap.String("status", string(r.Status())),
		zap.String("category", r.Category().String()),
		zap.Float64("rank_score", r.RankScore()),
		zap.Duration("duration", d),
	)
}

// excerpt returns the first limit runes of s, with an ellipsis when truncated.
func excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
