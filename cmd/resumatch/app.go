package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/analysis"
	"github.com/kailas-cloud/resumatch/internal/config"
	"github.com/kailas-cloud/resumatch/internal/db"
	dbRedis "github.com/kailas-cloud/resumatch/internal/db/redis"
	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/ingestion"
	"github.com/kailas-cloud/resumatch/internal/metrics"
	"github.com/kailas-cloud/resumatch/internal/normalize"
	"github.com/kailas-cloud/resumatch/internal/reference"
	"github.com/kailas-cloud/resumatch/internal/repository/embcache"
	openaiEmb "github.com/kailas-cloud/resumatch/internal/transport/openai"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	embeddinguc "github.com/kailas-cloud/resumatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	"github.com/kailas-cloud/resumatch/internal/usecase/scoring"
	"github.com/kailas-cloud/resumatch/internal/vectorspace"
)

const (
	providerTFIDF  = "tfidf"
	providerOpenAI = "openai"
	driverNone     = "none"
)

// app is the composition root shared by the server and the CLI commands.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	models    *vectorspace.Adapter
	catalog   *reference.Catalog
	extractor *ingestion.Extractor
	scorer    *scoring.Service
	ranker    *batchuc.Service
	health    *healthuc.Service
	store     db.Store
}

func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterScoringMetrics()
	metrics.RegisterEmbeddingMetrics()

	loader := vectorspace.NewLoader(cfg.Models.VectorizerPath, cfg.Models.ClassifierPath, logger)
	if !cfg.Models.Lazy {
		loader.Load()
	}
	models := vectorspace.NewAdapter(loader)

	catalog, err := reference.LoadFile(cfg.Reference.DescriptionsPath)
	if err != nil {
		return nil, fmt.Errorf("load reference catalog: %w", err)
	}

	lemmatizer, err := normalize.NewEnglishLemmatizer()
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		models:    models,
		catalog:   catalog,
		extractor: ingestion.NewExtractor(logger),
	}

	if cfg.Cache.Driver != driverNone {
		store, err := connectStore(ctx, cfg.Cache, logger)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	embedder, provider := a.buildEmbedder()

	scoreCfg := scoring.Config{
		Weights: scoring.Weights{
			Confidence: cfg.Scoring.Weights.Confidence,
			RuleBased:  cfg.Scoring.Weights.RuleBased,
			Semantic:   cfg.Scoring.Weights.Semantic,
		},
		RuleWeights: scoring.RuleWeights{
			Presence: cfg.Scoring.RuleWeights.Presence,
			Impact:   cfg.Scoring.RuleWeights.Impact,
			Keyword:  cfg.Scoring.RuleWeights.Keyword,
		},
		ExcerptLength: cfg.Scoring.ExcerptLength,
	}
	if err := scoreCfg.Validate(); err != nil {
		a.Close()
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	analyzer := analysis.New(analysis.Config{
		VerbPoints:   cfg.Scoring.VerbPoints,
		VerbCap:      cfg.Scoring.VerbCap,
		MissingLimit: cfg.Scoring.MissingLimit,
	})

	a.scorer = scoring.New(normalize.New(lemmatizer), models, embedder, catalog, analyzer, scoreCfg)
	a.ranker = batchuc.New(a.scorer).
		WithMaxBatchSize(cfg.Batch.MaxSize).
		WithConcurrency(cfg.Batch.Concurrency)

	// Pass nil interfaces, not typed nil pointers, for absent components.
	var cache healthuc.CachePinger
	if a.store != nil {
		cache = a.store
	}
	var remote healthuc.EmbeddingChecker
	if hc, ok := provider.(domain.HealthChecker); ok {
		remote = hc
	}
	a.health = healthuc.New(models, cache, remote)

	return a, nil
}

// buildEmbedder assembles the decorator chain: provider -> cached -> instrumented.
// It also returns the bare provider for health checks.
func (a *app) buildEmbedder() (domain.Embedder, domain.Embedder) {
	sem := a.cfg.Semantic

	var (
		base  domain.Embedder
		model string
	)
	switch sem.Provider {
	case providerOpenAI:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     sem.APIKey,
			BaseURL:    sem.BaseURL,
			Model:      sem.Model,
			Dimensions: sem.Dimensions,
			Provider:   providerOpenAI,
			Logger:     a.logger,
		})
		model = sem.Model
	default:
		base = a.models
		model = providerTFIDF
	}

	// Local vectors are cheaper to recompute than to fetch.
	embedder := base
	cached := a.store != nil && sem.Provider == providerOpenAI
	if cached {
		embedder = embcache.New(base, a.store, embcache.Options{
			KeyPrefix: a.cfg.Cache.KeyPrefix,
			Namespace: sem.Provider + ":" + model,
			TTL:       time.Duration(a.cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, a.logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, sem.Provider, model, a.logger)

	a.logger.Info("Semantic embedder created",
		zap.String("provider", sem.Provider),
		zap.String("model", model),
		zap.Bool("cached", cached),
	)
	return embedder, base
}

func connectStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	// Valkey speaks the Redis protocol; one client serves both drivers.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s not ready: %w", cfg.Driver, err)
	}
	logger.Info("Connected to vector cache",
		zap.String("driver", cfg.Driver),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store, nil
}

// Close releases the cache connection.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
