// Package chi exposes scoring and ranking over HTTP.
package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/export"
	"github.com/kailas-cloud/resumatch/internal/ingestion"
	"github.com/kailas-cloud/resumatch/internal/logger"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	"github.com/kailas-cloud/resumatch/internal/version"
)

const (
	// DefaultMaxUploadBytes bounds request bodies.
	DefaultMaxUploadBytes = 64 << 20
	// multipartMemory is the part of a multipart form kept in memory; the rest spills to disk.
	multipartMemory = 32 << 20

	formatXLSX = "xlsx"
)

// Server implements the HTTP handlers.
type Server struct {
	scorer         Scorer
	ranker         Ranker
	extractor      Extractor
	models         CategorySource
	catalog        Describer
	health         HealthChecker
	maxUploadBytes int64
	now            func() time.Time
}

// NewServer creates an HTTP API server.
func NewServer(
	scorer Scorer,
	ranker Ranker,
	extractor Extractor,
	models CategorySource,
	catalog Describer,
	health HealthChecker,
) *Server {
	return &Server{
		scorer:         scorer,
		ranker:         ranker,
		extractor:      extractor,
		models:         models,
		catalog:        catalog,
		health:         health,
		maxUploadBytes: DefaultMaxUploadBytes,
		now:            time.Now,
	}
}

// WithMaxUploadBytes configures the request body limit.
func (s *Server) WithMaxUploadBytes(n int64) *Server {
	if n > 0 {
		s.maxUploadBytes = n
	}
	return s
}

// Score handles POST /v1/score.
func (s *Server) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.decodeError(w, r, err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	doc, err := domdoc.New(id, req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.scorer.Score(r.Context(), doc, req.Description))
}

// Rank handles POST /v1/rank.
func (s *Server) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := s.decode(w, r, &req); err != nil {
		s.decodeError(w, r, err)
		return
	}

	items := make([]batchuc.Item, len(req.Documents))
	for i, d := range req.Documents {
		items[i] = batchuc.Item{ID: d.ID, Text: d.Text}
	}

	ranked, err := s.ranker.Rank(r.Context(), items, req.Description)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	s.writeRanked(w, r, ranked)
}

// RankUpload handles POST /v1/rank/upload: multipart "files" plus an optional
// "description" field or "description_file" upload.
func (s *Server) RankUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.decodeError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "at least one file is required")
		return
	}
	if len(files) > s.ranker.MaxBatchSize() {
		handleDomainError(w, r, fmt.Errorf("batch size %d exceeds %d: %w",
			len(files), s.ranker.MaxBatchSize(), domain.ErrBatchTooLarge))
		return
	}

	description := r.FormValue("description")
	if dfs := r.MultipartForm.File["description_file"]; len(dfs) > 0 {
		text, err := s.extractFile(r, dfs[0])
		if err != nil {
			handleDomainError(w, r, fmt.Errorf("description file: %w", err))
			return
		}
		description = text
	}

	items := make([]batchuc.Item, len(files))
	for i, fh := range files {
		items[i] = batchuc.Item{ID: fh.Filename, Extracted: true}
		text, err := s.extractFile(r, fh)
		if err != nil {
			logger.FromContext(r.Context()).Warn("Unreadable upload",
				zap.String("file", fh.Filename),
				zap.Error(err),
			)
			continue
		}
		items[i].Text = text
	}

	ranked, err := s.ranker.Rank(r.Context(), items, description)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	s.writeRanked(w, r, ranked)
}

// ListCategories handles GET /v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	cats := s.models.Categories()
	if len(cats) == 0 {
		cats = s.catalog.Categories()
	}

	items := make([]Category, len(cats))
	for i, c := range cats {
		items[i] = Category{Name: c.String(), Description: s.catalog.Describe(c)}
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) decodeError(w http.ResponseWriter, r *http.Request, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		handleDomainError(w, r, err)
		return
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
}

func (s *Server) extractFile(r *http.Request, fh *multipart.FileHeader) (string, error) {
	if !ingestion.Supported(fh.Filename) {
		return "", fmt.Errorf("%q: %w", fh.Filename, domain.ErrUnsupportedFormat)
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.extractor.ExtractText(r.Context(), f, fh.Filename)
}

func (s *Server) writeRanked(w http.ResponseWriter, r *http.Request, ranked dombatch.Ranked) {
	if r.URL.Query().Get("format") == formatXLSX {
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, ranked, s.now()); err != nil {
			handleDomainError(w, r, fmt.Errorf("export ranking: %w", err))
			return
		}
		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="ranking.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	unreadable := ranked.Unreadable()
	if unreadable == nil {
		unreadable = []string{}
	}
	writeJSON(w, http.StatusOK, RankResponse{
		Mode:       ranked.Mode(),
		Count:      ranked.Len(),
		Unreadable: unreadable,
		Items:      ranked.Reports(),
	})
}
