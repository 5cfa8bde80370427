package report

import "encoding/json"

type checksJSON struct {
	Email       bool `json:"email"`
	Phone       bool `json:"phone"`
	Network     bool `json:"network"`
	Education   bool `json:"education"`
	Experience  bool `json:"experience"`
	Skills      bool `json:"skills"`
	Projects    bool `json:"projects"`
	ActionVerbs int  `json:"action_verbs"`
}

type reportJSON struct {
	DocumentID             string     `json:"document_id"`
	Mode                   Mode       `json:"mode"`
	Status                 Status     `json:"status"`
	Detail                 string     `json:"detail,omitempty"`
	ScoreLabel             string     `json:"score_label"`
	Category               string     `json:"category"`
	Confidence             *float64   `json:"confidence"`
	SemanticScore          float64    `json:"semantic_score"`
	PresenceScore          float64    `json:"presence_score"`
	ImpactScore            float64    `json:"impact_score"`
	KeywordScore           float64    `json:"keyword_score"`
	RuleBasedScore         float64    `json:"rule_based_score"`
	CompositeScore         *float64   `json:"composite_score"`
	RankScore              float64    `json:"rank_score"`
	MissingKeywords        []string   `json:"missing_keywords"`
	RecommendedDescription string     `json:"recommended_description"`
	Excerpt                string     `json:"excerpt"`
	Checks                 checksJSON `json:"checks"`
}

// MarshalJSON encodes the report with snake_case field names.
// Undefined confidence and composite scores are encoded as null.
func (r ScoreReport) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		DocumentID:             r.documentID,
		Mode:                   r.mode,
		Status:                 r.status,
		Detail:                 r.detail,
		ScoreLabel:             r.ScoreLabel(),
		Category:               r.category.String(),
		SemanticScore:          r.semantic,
		PresenceScore:          r.presence,
		ImpactScore:            r.impact,
		KeywordScore:           r.keyword,
		RuleBasedScore:         r.ruleBased,
		RankScore:              r.RankScore(),
		MissingKeywords:        r.MissingKeywords(),
		RecommendedDescription: r.recommended,
		Excerpt:                r.excerpt,
		Checks:                 checksJSON(r.checks),
	}
	if out.MissingKeywords == nil {
		out.MissingKeywords = []string{}
	}
	if r.hasConfidence {
		c := r.confidence
		out.Confidence = &c
	}
	if r.hasComposite {
		c := r.composite
		out.CompositeScore = &c
	}
	return json.Marshal(out)
}
