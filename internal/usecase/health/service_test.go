package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockModels struct {
	vectorizer bool
	classifier bool
}

func (m mockModels) Ready() bool           { return m.vectorizer }
func (m mockModels) ClassifierReady() bool { return m.classifier }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(mockModels{true, true}, &mockPinger{}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"vectorizer", "classifier", "cache", "embedding"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_OptionalComponentsOmitted(t *testing.T) {
	svc := New(mockModels{true, true}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be omitted")
	}
	if _, ok := r.Checks["embedding"]; ok {
		t.Error("embedding check should be omitted")
	}
}

func TestCheck_ClassifierMissing(t *testing.T) {
	svc := New(mockModels{vectorizer: true}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["classifier"] != CheckMissing {
		t.Errorf("expected classifier %q, got %q", CheckMissing, r.Checks["classifier"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(mockModels{true, true}, &mockPinger{err: errors.New("conn refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(mockModels{true, true}, nil, &mockEmbeddingChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks["embedding"])
	}
}

func TestCheck_NoModels(t *testing.T) {
	svc := New(mockModels{}, &mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["vectorizer"] != CheckMissing || r.Checks["classifier"] != CheckMissing {
		t.Errorf("unexpected checks %v", r.Checks)
	}
}
