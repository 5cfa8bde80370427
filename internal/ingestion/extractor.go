// Package ingestion turns uploaded résumé files into raw text.
// Extraction never fails loudly: unreadable input yields empty text.
package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

const (
	// DefaultMaxFileSize bounds the bytes read from one upload.
	DefaultMaxFileSize = 10 << 20
	// binarySampleSize is the number of bytes sampled for binary detection.
	binarySampleSize = 1000
	// binaryThreshold is the share of control bytes that marks data as binary.
	binaryThreshold = 0.3
)

// SupportedExtensions lists the accepted file extensions.
var SupportedExtensions = []string{".pdf", ".docx", ".txt", ".html", ".htm"}

// Supported reports whether filename has an accepted extension.
func Supported(filename string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(filename)))
}

// Extractor converts documents to text by file extension.
type Extractor struct {
	pdftotext   string
	maxFileSize int64
	logger      *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPDFToText sets the pdftotext binary used for PDF files.
func WithPDFToText(path string) Option {
	return func(e *Extractor) {
		if path != "" {
			e.pdftotext = path
		}
	}
}

// WithMaxFileSize sets the upload size limit in bytes.
func WithMaxFileSize(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxFileSize = n
		}
	}
}

// NewExtractor creates an extractor.
func NewExtractor(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		pdftotext:   "pdftotext",
		maxFileSize: DefaultMaxFileSize,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the text of the document read from r. Any failure is
// logged and yields "".
func (e *Extractor) Extract(ctx context.Context, r io.Reader, filename string) string {
	text, err := e.ExtractText(ctx, r, filename)
	if err != nil {
		e.logger.Warn("Text extraction failed", zap.String("file", filename), zap.Error(err))
		return ""
	}
	return text
}

// ExtractText is Extract with the failure reason.
func (e *Extractor) ExtractText(ctx context.Context, r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(SupportedExtensions, ext) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, e.maxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > e.maxFileSize {
		return "", fmt.Errorf("file exceeds %d bytes", e.maxFileSize)
	}
	if len(data) == 0 {
		return "", nil
	}

	var text string
	switch ext {
	case ".pdf":
		text, err = e.extractPDF(ctx, data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".html", ".htm":
		text, err = extractHTML(data)
	default:
		text, err = extractPlain(data)
	}
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(text, " "), nil
}

func extractPlain(data []byte) (string, error) {
	if isBinary(data) {
		return "", fmt.Errorf("plain text upload looks binary")
	}
	return string(data), nil
}

// isBinary detects PDF/ZIP magic numbers or a high share of control bytes.
func isBinary(data []byte) bool {
	if bytes.HasPrefix(data, []byte("%PDF-")) || bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return true
	}
	sample := data[:min(binarySampleSize, len(data))]
	control := 0
	for _, b := range sample {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			control++
		}
	}
	return float64(control)/float64(len(sample)) > binaryThreshold
}

// cleanWhitespace trims every line and drops blank ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
