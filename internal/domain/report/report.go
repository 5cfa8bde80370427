// Package report holds the per-document scoring outcome.
package report

import (
	"math"
	"slices"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Mode selects what a résumé is compared against.
type Mode string

// Scoring modes.
const (
	// ModeJobMatch compares against a supplied job description.
	ModeJobMatch Mode = "job_match"
	// ModeProfileStrength compares against the reference description of the predicted category.
	ModeProfileStrength Mode = "profile_strength"
)

// Status is the processing outcome of one document.
type Status string

// Report status values.
const (
	StatusOK       Status = "ok"
	StatusEmpty    Status = "empty"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Score labels shown to users.
const (
	LabelJobMatch        = "ATS Match (vs Job)"
	labelProfileStrength = "Profile Strength"
)

// Checks is the presentation copy of the structural checks.
type Checks struct {
	Email       bool
	Phone       bool
	Network     bool
	Education   bool
	Experience  bool
	Skills      bool
	Projects    bool
	ActionVerbs int
}

// Fields carries the values of a new ScoreReport.
type Fields struct {
	DocumentID             string
	Mode                   Mode
	Status                 Status
	Detail                 string
	Prediction             domain.Prediction
	SemanticScore          float64
	PresenceScore          float64
	ImpactScore            float64
	KeywordScore           float64
	RuleBasedScore         float64
	CompositeScore         float64
	HasComposite           bool
	MissingKeywords        []string
	RecommendedDescription string
	Excerpt                string
	Checks                 Checks
}

// ScoreReport is the immutable scoring outcome of one document.
// All scores are in [0,100] with one decimal.
type ScoreReport struct {
	documentID    string
	mode          Mode
	status        Status
	detail        string
	category      domain.Category
	confidence    float64
	hasConfidence bool
	semantic      float64
	presence      float64
	impact        float64
	keyword       float64
	ruleBased     float64
	composite     float64
	hasComposite  bool
	missing       []string
	recommended   string
	excerpt       string
	checks        Checks
}

// New creates a report, rounding and clamping every score.
func New(f Fields) ScoreReport {
	category := f.Prediction.Category
	if category == "" {
		category = domain.CategoryUnknown
	}
	missing := slices.Clone(f.MissingKeywords)
	if missing == nil {
		missing = []string{}
	}
	r := ScoreReport{
		documentID:    f.DocumentID,
		mode:          f.Mode,
		status:        f.Status,
		detail:        f.Detail,
		category:      category,
		hasConfidence: f.Prediction.HasConfidence,
		semantic:      Normalize(f.SemanticScore),
		presence:      Normalize(f.PresenceScore),
		impact:        Normalize(f.ImpactScore),
		keyword:       Normalize(f.KeywordScore),
		ruleBased:     Normalize(f.RuleBasedScore),
		hasComposite:  f.HasComposite,
		missing:       missing,
		recommended:   f.RecommendedDescription,
		excerpt:       f.Excerpt,
		checks:        f.Checks,
	}
	if r.hasConfidence {
		r.confidence = Normalize(f.Prediction.Confidence)
	}
	if r.hasComposite {
		r.composite = Normalize(f.CompositeScore)
	}
	if r.status == "" {
		r.status = StatusOK
	}
	return r
}

// Normalize clamps v to [0,100] and rounds it to one decimal. NaN maps to 0.
func Normalize(v float64) float64 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 100:
		return 100
	}
	return math.Round(v*10) / 10
}

// DocumentID returns the identifier of the scored document.
func (r ScoreReport) DocumentID() string { return r.documentID }

// Mode returns the scoring mode.
func (r ScoreReport) Mode() Mode { return r.mode }

// Status returns the processing outcome.
func (r ScoreReport) Status() Status { return r.status }

// Detail returns the reason for a non-ok status, if any.
func (r ScoreReport) Detail() string { return r.detail }

// Category returns the predicted category.
func (r ScoreReport) Category() domain.Category { return r.category }

// Confidence returns the classifier confidence and whether it is defined.
func (r ScoreReport) Confidence() (float64, bool) { return r.confidence, r.hasConfidence }

// SemanticScore returns the vector similarity to the comparison description.
func (r ScoreReport) SemanticScore() float64 { return r.semantic }

// PresenceScore returns the contact and section presence score.
func (r ScoreReport) PresenceScore() float64 { return r.presence }

// ImpactScore returns the action-verb score.
func (r ScoreReport) ImpactScore() float64 { return r.impact }

// KeywordScore returns the raw keyword overlap score.
func (r ScoreReport) KeywordScore() float64 { return r.keyword }

// RuleBasedScore returns the blend of presence, impact and keyword scores.
func (r ScoreReport) RuleBasedScore() float64 { return r.ruleBased }

// CompositeScore returns the fused score and whether it is defined.
func (r ScoreReport) CompositeScore() (float64, bool) { return r.composite, r.hasComposite }

// RankScore is the ordering key: the composite when defined, otherwise the semantic score.
func (r ScoreReport) RankScore() float64 {
	if r.hasComposite {
		return r.composite
	}
	return r.semantic
}

// MissingKeywords returns a copy of the missing description keywords.
func (r ScoreReport) MissingKeywords() []string { return slices.Clone(r.missing) }

// RecommendedDescription returns the reference description of the predicted category.
func (r ScoreReport) RecommendedDescription() string { return r.recommended }

// Excerpt returns the beginning of the cleaned résumé text.
func (r ScoreReport) Excerpt() string { return r.excerpt }

// Checks returns the structural checks.
func (r ScoreReport) Checks() Checks { return r.checks }

// ScoreLabel names the headline score for display.
func (r ScoreReport) ScoreLabel() string {
	if r.mode == ModeProfileStrength {
		return labelProfileStrength + " (" + r.category.String() + ")"
	}
	return LabelJobMatch
}
