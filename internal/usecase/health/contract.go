package health

import "context"

// ModelChecker reports which model artifacts are loaded.
type ModelChecker interface {
	Ready() bool
	ClassifierReady() bool
}

// CachePinger checks vector cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
