package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxContentSize is the maximum raw text size in bytes.
const MaxContentSize = 512 * 1024

// Origin tags where a text came from.
type Origin string

// Origin values.
const (
	OriginResume      Origin = "resume"
	OriginDescription Origin = "description"
)

// Document is raw extracted text (immutable value object).
// Empty text is valid: it represents a document whose extraction produced nothing.
type Document struct {
	id               string
	origin           Origin
	text             string
	extractionFailed bool
}

// New validates and creates a résumé Document.
// ID: 1-256 chars, no control characters. Text: valid UTF-8, max 512KB, may be empty.
func New(id, text string) (Document, error) {
	return newDocument(id, OriginResume, text)
}

// NewDescription validates and creates a description Document.
func NewDescription(id, text string) (Document, error) {
	return newDocument(id, OriginDescription, text)
}

// NewExtracted creates a résumé Document from an ingestion result.
// An empty text marks the document as an extraction failure so presenters can name it.
func NewExtracted(id, text string) (Document, error) {
	doc, err := newDocument(id, OriginResume, text)
	if err != nil {
		return Document{}, err
	}
	doc.extractionFailed = strings.TrimSpace(text) == ""
	return doc, nil
}

func newDocument(id string, origin Origin, text string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if strings.ContainsFunc(id, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return Document{}, fmt.Errorf("document ID must not contain control characters")
	}
	if len(text) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, " ")
	}
	return Document{id: id, origin: origin, text: text}, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Origin returns where the text came from.
func (d *Document) Origin() Origin { return d.origin }

// Text returns the raw text.
func (d *Document) Text() string { return d.text }

// IsEmpty reports whether the document carries no text.
func (d *Document) IsEmpty() bool { return strings.TrimSpace(d.text) == "" }

// ExtractionFailed reports whether ingestion produced no text for this document.
func (d *Document) ExtractionFailed() bool { return d.extractionFailed }
