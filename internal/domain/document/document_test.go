package document

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	doc, err := New("cv-1.pdf", "Java developer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "cv-1.pdf" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Text() != "Java developer" {
		t.Errorf("Text() = %q", doc.Text())
	}
	if doc.Origin() != OriginResume {
		t.Errorf("Origin() = %q, want %q", doc.Origin(), OriginResume)
	}
	if doc.IsEmpty() || doc.ExtractionFailed() {
		t.Error("document with text must not be empty")
	}
}

func TestNew_EmptyTextAllowed(t *testing.T) {
	doc, err := New("cv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.IsEmpty() {
		t.Error("expected empty document")
	}
	if doc.ExtractionFailed() {
		t.Error("New must not flag extraction failure")
	}
}

func TestNewExtracted_FlagsEmpty(t *testing.T) {
	doc, err := NewExtracted("scan.pdf", "  \n ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.ExtractionFailed() {
		t.Error("expected extraction failure flag for whitespace-only text")
	}
}

func TestNewDescription_Origin(t *testing.T) {
	doc, err := NewDescription("jd", "We are hiring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Origin() != OriginDescription {
		t.Errorf("Origin() = %q", doc.Origin())
	}
}

func TestNew_InvalidID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("a", 257)},
		{"control char", "cv\n1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.id, "text"); err == nil {
				t.Errorf("expected error for id %q", tt.id)
			}
		})
	}
}

func TestNew_ContentTooLarge(t *testing.T) {
	if _, err := New("cv", strings.Repeat("x", MaxContentSize+1)); err == nil {
		t.Fatal("expected error for oversized content")
	}
}

func TestNew_InvalidUTF8Replaced(t *testing.T) {
	doc, err := New("cv", "java\xffspring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text() != "java spring" {
		t.Errorf("Text() = %q", doc.Text())
	}
}
