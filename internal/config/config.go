package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the resumatch configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Models    ModelsConfig    `yaml:"models"`
	Semantic  SemanticConfig  `yaml:"semantic"`
	Cache     CacheConfig     `yaml:"cache"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Batch     BatchConfig     `yaml:"batch"`
	Reference ReferenceConfig `yaml:"reference"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. An empty key list disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
}

// ModelsConfig points at the frozen vectorizer and classifier artifacts.
type ModelsConfig struct {
	VectorizerPath string `yaml:"vectorizer_path"`
	ClassifierPath string `yaml:"classifier_path"`
	Lazy           bool   `yaml:"lazy"` // load on first use instead of at startup
}

// SemanticConfig selects the embedder used for the semantic score.
type SemanticConfig struct {
	Provider   string `yaml:"provider"` // tfidf (default), openai
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
}

// CacheConfig holds the semantic-vector cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none (default), redis, valkey
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// WeightsConfig is the outer fusion of confidence, rule-based and semantic scores.
type WeightsConfig struct {
	Confidence float64 `yaml:"confidence"`
	RuleBased  float64 `yaml:"rule_based"`
	Semantic   float64 `yaml:"semantic"`
}

// RuleWeightsConfig is the inner blend of presence, impact and keyword scores.
type RuleWeightsConfig struct {
	Presence float64 `yaml:"presence"`
	Impact   float64 `yaml:"impact"`
	Keyword  float64 `yaml:"keyword"`
}

// ScoringConfig tunes the scoring engine.
type ScoringConfig struct {
	Weights       WeightsConfig     `yaml:"weights"`
	RuleWeights   RuleWeightsConfig `yaml:"rule_weights"`
	VerbPoints    int               `yaml:"verb_points"`
	VerbCap       int               `yaml:"verb_cap"`
	MissingLimit  int               `yaml:"missing_limit"`
	ExcerptLength int               `yaml:"excerpt_length"`
}

// BatchConfig bounds batch ranking.
type BatchConfig struct {
	MaxSize     int `yaml:"max_size"`
	Concurrency int `yaml:"concurrency"`
}

// ReferenceConfig overrides the embedded reference descriptions.
type ReferenceConfig struct {
	DescriptionsPath string `yaml:"descriptions_path"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = 64 << 20
	}
	if c.Semantic.Provider == "" {
		c.Semantic.Provider = "tfidf"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "none"
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "resumatch:"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Scoring.Weights == (WeightsConfig{}) {
		c.Scoring.Weights = WeightsConfig{Confidence: 0.3, RuleBased: 0.4, Semantic: 0.3}
	}
	if c.Scoring.RuleWeights == (RuleWeightsConfig{}) {
		c.Scoring.RuleWeights = RuleWeightsConfig{Presence: 0.25, Impact: 0.15, Keyword: 0.6}
	}
	if c.Scoring.VerbPoints <= 0 {
		c.Scoring.VerbPoints = 5
	}
	if c.Scoring.VerbCap <= 0 {
		c.Scoring.VerbCap = 100
	}
	if c.Scoring.MissingLimit <= 0 {
		c.Scoring.MissingLimit = 10
	}
	if c.Scoring.ExcerptLength <= 0 {
		c.Scoring.ExcerptLength = 200
	}
	if c.Batch.MaxSize <= 0 {
		c.Batch.MaxSize = 50
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Semantic.Provider {
	case "tfidf":
	case "openai":
		if c.Semantic.Model == "" {
			return fmt.Errorf("semantic.model is required for provider openai")
		}
		if c.Semantic.APIKey == "" {
			return fmt.Errorf("semantic.api_key is required for provider openai")
		}
	default:
		return fmt.Errorf("semantic.provider must be \"tfidf\" or \"openai\", got %q", c.Semantic.Provider)
	}

	switch c.Cache.Driver {
	case "none":
	case "redis", "valkey":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %s", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"redis\" or \"valkey\", got %q", c.Cache.Driver)
	}

	w := c.Scoring.Weights
	if err := checkSum("scoring.weights", w.Confidence, w.RuleBased, w.Semantic); err != nil {
		return err
	}
	rw := c.Scoring.RuleWeights
	if err := checkSum("scoring.rule_weights", rw.Presence, rw.Impact, rw.Keyword); err != nil {
		return err
	}
	if c.Scoring.VerbCap > 100 {
		return fmt.Errorf("scoring.verb_cap must not exceed 100, got %d", c.Scoring.VerbCap)
	}
	return nil
}

func checkSum(name string, ws ...float64) error {
	var sum float64
	for _, w := range ws {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%s must sum to 1, got %.4f", name, sum)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
