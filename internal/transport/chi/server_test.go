package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
	"github.com/kailas-cloud/resumatch/internal/export"
	"github.com/kailas-cloud/resumatch/internal/schemas"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
)

// --- fakes ---

func modeFor(description string) report.Mode {
	if strings.TrimSpace(description) == "" {
		return report.ModeProfileStrength
	}
	return report.ModeJobMatch
}

type fakeScorer struct{}

func (fakeScorer) Score(_ context.Context, doc domdoc.Document, description string) report.ScoreReport {
	mode := modeFor(description)
	return report.New(report.Fields{
		DocumentID:     doc.ID(),
		Mode:           mode,
		Prediction:     domain.Prediction{Category: "Data Science", Confidence: 80, HasConfidence: true},
		SemanticScore:  61.23,
		RuleBasedScore: 55,
		CompositeScore: 64.25,
		HasComposite:   mode == report.ModeJobMatch,
		Excerpt:        doc.Text(),
	})
}

type fakeRanker struct {
	mu          sync.Mutex
	items       []batchuc.Item
	description string
	err         error
	max         int
}

func (f *fakeRanker) Rank(_ context.Context, items []batchuc.Item, description string) (dombatch.Ranked, error) {
	f.mu.Lock()
	f.items = items
	f.description = description
	f.mu.Unlock()
	if f.err != nil {
		return dombatch.Ranked{}, f.err
	}

	mode := modeFor(description)
	reports := make([]report.ScoreReport, len(items))
	for i, it := range items {
		status := report.StatusOK
		if strings.TrimSpace(it.Text) == "" {
			status = report.StatusEmpty
		}
		reports[i] = report.New(report.Fields{
			DocumentID:    it.ID,
			Mode:          mode,
			Status:        status,
			SemanticScore: float64(90 - 10*i),
			HasComposite:  mode == report.ModeJobMatch,
		})
	}
	return dombatch.NewRanked(mode, reports), nil
}

func (f *fakeRanker) MaxBatchSize() int {
	if f.max == 0 {
		return 50
	}
	return f.max
}

type fakeExtractor struct{}

func (fakeExtractor) ExtractText(_ context.Context, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if string(data) == "corrupt" {
		return "", errors.New("corrupt file")
	}
	return string(data), nil
}

type fakeCategories struct{ cats []domain.Category }

func (f fakeCategories) Categories() []domain.Category { return f.cats }

type fakeCatalog struct{}

func (fakeCatalog) Categories() []domain.Category {
	return []domain.Category{"Accountant", "Designer"}
}

func (fakeCatalog) Describe(c domain.Category) string { return "About " + c.String() }

type fakeHealth struct{ report healthuc.Report }

func (f fakeHealth) Check(context.Context) healthuc.Report { return f.report }

type fixture struct {
	ranker  *fakeRanker
	handler http.Handler
}

func newFixture(t *testing.T, keys ...string) *fixture {
	t.Helper()
	f := &fixture{ranker: &fakeRanker{}}
	srv := NewServer(
		fakeScorer{},
		f.ranker,
		fakeExtractor{},
		fakeCategories{},
		fakeCatalog{},
		fakeHealth{report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"vectorizer": healthuc.CheckOK, "classifier": healthuc.CheckMissing},
		}},
	)
	f.handler = NewRouter(srv, keys, nil)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

type uploadPart struct {
	field, name, content string
}

func multipartBody(t *testing.T, fields map[string]string, parts ...uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// --- tests ---

func TestScore_JobMatch(t *testing.T) {
	f := newFixture(t)
	body := `{"id":"cv-1","text":"Python developer","description":"Looking for Python"}`

	rr := f.do(t, http.MethodPost, "/v1/score", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, schemas.ValidateReport(rr.Body.Bytes()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "cv-1", got["document_id"])
	assert.Equal(t, "job_match", got["mode"])
	assert.Equal(t, report.LabelJobMatch, got["score_label"])
	assert.InDelta(t, 64.3, got["composite_score"], 1e-9)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestScore_ProfileStrengthAssignsID(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/v1/score", strings.NewReader(`{"text":"Designer"}`), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, schemas.ValidateReport(rr.Body.Bytes()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.NotEmpty(t, got["document_id"])
	assert.Equal(t, "profile_strength", got["mode"])
	assert.Nil(t, got["composite_score"])
}

func TestScore_BadBodies(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"malformed json", `{"text":`, ErrorCodeBadRequest},
		{"unknown field", `{"resume":"x"}`, ErrorCodeBadRequest},
		{"control chars in id", `{"id":"a\u0001b","text":"x"}`, ErrorCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPost, "/v1/score", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}
}

func TestScore_PayloadTooLarge(t *testing.T) {
	f := &fixture{ranker: &fakeRanker{}}
	srv := NewServer(fakeScorer{}, f.ranker, fakeExtractor{}, fakeCategories{}, fakeCatalog{},
		fakeHealth{report: healthuc.Report{Status: healthuc.Healthy}}).WithMaxUploadBytes(16)
	f.handler = NewRouter(srv, nil, nil)

	body := `{"text":"` + strings.Repeat("a", 64) + `"}`
	rr := f.do(t, http.MethodPost, "/v1/score", strings.NewReader(body), "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, ErrorCodePayloadTooLarge, decodeError(t, rr).Code)
}

func TestRank_JSON(t *testing.T) {
	f := newFixture(t)
	body := `{"description":"Go engineer","documents":[{"id":"a","text":"Go"},{"id":"b","text":""}]}`

	rr := f.do(t, http.MethodPost, "/v1/rank", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Mode       string            `json:"mode"`
		Count      int               `json:"count"`
		Unreadable []string          `json:"unreadable"`
		Items      []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "job_match", resp.Mode)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"b"}, resp.Unreadable)
	require.Len(t, resp.Items, 2)
	for _, item := range resp.Items {
		require.NoError(t, schemas.ValidateReport(item))
	}

	assert.Equal(t, "Go engineer", f.ranker.description)
	assert.False(t, f.ranker.items[0].Extracted)
}

func TestRank_UnreadableNeverNull(t *testing.T) {
	f := newFixture(t)
	body := `{"documents":[{"id":"a","text":"Go"}]}`

	rr := f.do(t, http.MethodPost, "/v1/rank", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"unreadable":[]`)
	assert.Contains(t, rr.Body.String(), `"mode":"profile_strength"`)
}

func TestRank_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"too large", domain.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, ErrorCodeBatchTooLarge},
		{"empty batch", domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"provider", domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeProviderError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ranker.err = tt.err

			rr := f.do(t, http.MethodPost, "/v1/rank", strings.NewReader(`{"documents":[]}`), "application/json")
			assert.Equal(t, tt.status, rr.Code)
			resp := decodeError(t, rr)
			assert.Equal(t, tt.code, resp.Code)
			if tt.code == ErrorCodeInternalError {
				assert.Equal(t, "internal error", resp.Message)
			}
		})
	}
}

func TestRank_XLSX(t *testing.T) {
	f := newFixture(t)
	body := `{"documents":[{"id":"a","text":"Go"},{"id":"b","text":"Rust"}]}`

	rr := f.do(t, http.MethodPost, "/v1/rank?format=xlsx", strings.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "ranking.xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows(export.RankingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[1][1])
}

func TestRankUpload(t *testing.T) {
	f := newFixture(t)
	body, ct := multipartBody(t, nil,
		uploadPart{"description_file", "job.txt", "Senior Go engineer"},
		uploadPart{"files", "alice.txt", "Go and Kubernetes"},
		uploadPart{"files", "scan.pdf", "corrupt"},
		uploadPart{"files", "notes.xyz", "whatever"},
	)

	rr := f.do(t, http.MethodPost, "/v1/rank/upload", body, ct)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "Senior Go engineer", f.ranker.description)
	require.Len(t, f.ranker.items, 3)
	assert.Equal(t, batchuc.Item{ID: "alice.txt", Text: "Go and Kubernetes", Extracted: true}, f.ranker.items[0])
	assert.Equal(t, batchuc.Item{ID: "scan.pdf", Extracted: true}, f.ranker.items[1])
	assert.Equal(t, batchuc.Item{ID: "notes.xyz", Extracted: true}, f.ranker.items[2])
}

func TestRankUpload_DescriptionField(t *testing.T) {
	f := newFixture(t)
	body, ct := multipartBody(t, map[string]string{"description": "Accountant"},
		uploadPart{"files", "bob.txt", "Ledgers"},
	)

	rr := f.do(t, http.MethodPost, "/v1/rank/upload", body, ct)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Accountant", f.ranker.description)
}

func TestRankUpload_Rejections(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		f := newFixture(t)
		body, ct := multipartBody(t, map[string]string{"description": "x"})
		rr := f.do(t, http.MethodPost, "/v1/rank/upload", body, ct)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, ErrorCodeValidationFailed, decodeError(t, rr).Code)
	})

	t.Run("too many files", func(t *testing.T) {
		f := newFixture(t)
		f.ranker.max = 1
		body, ct := multipartBody(t, nil,
			uploadPart{"files", "a.txt", "a"},
			uploadPart{"files", "b.txt", "b"},
		)
		rr := f.do(t, http.MethodPost, "/v1/rank/upload", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Equal(t, ErrorCodeBatchTooLarge, decodeError(t, rr).Code)
		assert.Nil(t, f.ranker.items)
	})

	t.Run("unsupported description file", func(t *testing.T) {
		f := newFixture(t)
		body, ct := multipartBody(t, nil,
			uploadPart{"description_file", "job.exe", "MZ"},
			uploadPart{"files", "a.txt", "a"},
		)
		rr := f.do(t, http.MethodPost, "/v1/rank/upload", body, ct)
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
		assert.Equal(t, ErrorCodeUnsupportedFormat, decodeError(t, rr).Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodPost, "/v1/rank/upload", strings.NewReader("{}"), "application/json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListCategories(t *testing.T) {
	t.Run("catalog fallback", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodGet, "/v1/categories", http.NoBody, "")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp CategoryListResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, []Category{
			{Name: "Accountant", Description: "About Accountant"},
			{Name: "Designer", Description: "About Designer"},
		}, resp.Items)
	})

	t.Run("model classes", func(t *testing.T) {
		srv := NewServer(fakeScorer{}, &fakeRanker{}, fakeExtractor{},
			fakeCategories{cats: []domain.Category{"Data Science"}}, fakeCatalog{},
			fakeHealth{report: healthuc.Report{Status: healthuc.Healthy}})
		rr := httptest.NewRecorder()
		NewRouter(srv, nil, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/categories", http.NoBody))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp CategoryListResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, []Category{{Name: "Data Science", Description: "About Data Science"}}, resp.Items)
	})
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, "secret")

	rr := f.do(t, http.MethodGet, "/health", http.NoBody, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "missing", resp.Checks["classifier"])
	assert.NotEmpty(t, resp.Version)
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	srv := NewServer(fakeScorer{}, &fakeRanker{}, fakeExtractor{}, fakeCategories{}, fakeCatalog{},
		fakeHealth{report: healthuc.Report{Status: healthuc.Unhealthy}})
	rr := httptest.NewRecorder()
	NewRouter(srv, nil, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRouter_AuthAndFallbacks(t *testing.T) {
	f := newFixture(t, "secret")

	rr := f.do(t, http.MethodPost, "/v1/score", strings.NewReader(`{"text":"x"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(t, http.MethodGet, "/v1/nope", http.NoBody, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	g := newFixture(t)
	rr = g.do(t, http.MethodGet, "/v1/nope", http.NoBody, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = g.do(t, http.MethodGet, "/v1/score", http.NoBody, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

type panicScorer struct{}

func (panicScorer) Score(context.Context, domdoc.Document, string) report.ScoreReport {
	panic("kaboom")
}

func TestRouter_RecoversPanics(t *testing.T) {
	srv := NewServer(panicScorer{}, &fakeRanker{}, fakeExtractor{}, fakeCategories{}, fakeCatalog{},
		fakeHealth{report: healthuc.Report{Status: healthuc.Healthy}})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/score", strings.NewReader(`{"text":"x"}`))
	NewRouter(srv, nil, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, ErrorCodeInternalError, decodeError(t, rr).Code)
}
