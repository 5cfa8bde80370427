// Package analysis implements the rule-based résumé checks: contact and
// section presence, action-verb impact, and keyword overlap with a description.
package analysis

// Defaults for Config.
const (
	DefaultVerbPoints   = 5
	DefaultVerbCap      = 100
	DefaultMissingLimit = 10
)

// Config tunes the rule-based scores.
type Config struct {
	// VerbPoints is awarded per distinct action verb.
	VerbPoints int
	// VerbCap is the impact score ceiling.
	VerbCap int
	// MissingLimit bounds the number of reported missing keywords.
	MissingLimit int
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		VerbPoints:   DefaultVerbPoints,
		VerbCap:      DefaultVerbCap,
		MissingLimit: DefaultMissingLimit,
	}
}

// Analyzer runs the rule-based checks. It holds no mutable state.
type Analyzer struct {
	cfg Config
}

// New creates an analyzer. Non-positive fields fall back to defaults.
func New(cfg Config) *Analyzer {
	if cfg.VerbPoints <= 0 {
		cfg.VerbPoints = DefaultVerbPoints
	}
	if cfg.VerbCap <= 0 || cfg.VerbCap > 100 {
		cfg.VerbCap = DefaultVerbCap
	}
	if cfg.MissingLimit <= 0 {
		cfg.MissingLimit = DefaultMissingLimit
	}
	return &Analyzer{cfg: cfg}
}

var defaultAnalyzer = New(DefaultConfig())

// AnalyzeStructure runs Structure with the default configuration.
func AnalyzeStructure(raw string) StructuralChecks {
	return defaultAnalyzer.Structure(raw)
}

// AnalyzeKeywords runs KeywordGap with the default configuration.
func AnalyzeKeywords(cleanedResume, cleanedDescription string) KeywordGap {
	return defaultAnalyzer.KeywordGap(cleanedResume, cleanedDescription)
}
