package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Scoring still answers, possibly with zeroed model scores.
	Degraded Status = "degraded"
	// Unhealthy indicates no model artifact is loaded.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates an artifact that is not loaded.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	models    ModelChecker
	cache     CachePinger
	embedding EmbeddingChecker
}

// New creates a Service. cache and embedding can be nil.
func New(models ModelChecker, cache CachePinger, embedding EmbeddingChecker) *Service {
	return &Service{models: models, cache: cache, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	vectorizer, classifier := s.models.Ready(), s.models.ClassifierReady()
	checks["vectorizer"] = loaded(vectorizer)
	checks["classifier"] = loaded(classifier)

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}

	if !vectorizer && !classifier {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func loaded(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckMissing
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
