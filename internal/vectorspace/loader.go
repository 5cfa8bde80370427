package vectorspace

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// Loader loads the vectorizer and classifier artifacts exactly once.
// A missing or invalid artifact is logged and treated as absent.
type Loader struct {
	vectorizerPath string
	classifierPath string
	logger         *zap.Logger

	once       sync.Once
	vectorizer domain.Vectorizer
	classifier domain.Classifier
}

// NewLoader creates a loader. Empty paths mean the artifact is not configured.
func NewLoader(vectorizerPath, classifierPath string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		vectorizerPath: vectorizerPath,
		classifierPath: classifierPath,
		logger:         logger,
	}
}

// Load reads the artifacts if they have not been read yet.
// Call it at startup for eager loading; otherwise the first accessor triggers it.
func (l *Loader) Load() {
	l.once.Do(l.load)
}

// Vectorizer returns the loaded vectorizer.
func (l *Loader) Vectorizer() (domain.Vectorizer, bool) {
	l.Load()
	return l.vectorizer, l.vectorizer != nil
}

// Classifier returns the loaded classifier.
func (l *Loader) Classifier() (domain.Classifier, bool) {
	l.Load()
	return l.classifier, l.classifier != nil
}

func (l *Loader) load() {
	if v, err := loadTFIDF(l.vectorizerPath); err != nil {
		l.logArtifactError("vectorizer", l.vectorizerPath, err)
	} else {
		l.vectorizer = v
		l.logger.Info("Vectorizer loaded",
			zap.String("path", l.vectorizerPath),
			zap.Int("dimensions", v.Dimensions()),
			zap.Int("vocabulary", v.VocabularySize()),
		)
	}

	if l.vectorizer == nil {
		if l.classifierPath != "" {
			l.logger.Warn("Classifier skipped: no vectorizer loaded", zap.String("path", l.classifierPath))
		}
		return
	}

	c, err := loadLinear(l.classifierPath)
	if err != nil {
		l.logArtifactError("classifier", l.classifierPath, err)
		return
	}
	if c.Dimensions() != l.vectorizer.Dimensions() {
		l.logArtifactError("classifier", l.classifierPath,
			domain.NewDimensionError(l.vectorizer.Dimensions(), c.Dimensions()))
		return
	}
	l.classifier = c
	l.logger.Info("Classifier loaded",
		zap.String("path", l.classifierPath),
		zap.Int("classes", len(c.Classes())),
		zap.Bool("probabilities", c.HasProbabilities()),
	)
}

func (l *Loader) logArtifactError(kind, path string, err error) {
	if errors.Is(err, domain.ErrModelNotLoaded) {
		l.logger.Warn("Model artifact not configured", zap.String("kind", kind))
		return
	}
	l.logger.Error("Failed to load model artifact",
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Error(err),
	)
}

func loadTFIDF(path string) (*TFIDF, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadTFIDF(f)
}

func loadLinear(path string) (*Linear, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadLinear(f)
}

func openArtifact(path string) (*os.File, error) {
	if path == "" {
		return nil, domain.ErrModelNotLoaded
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}
