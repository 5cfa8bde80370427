package reference

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	cats := c.Categories()
	if len(cats) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(cats))
	}
	if cats[0] != "Java Developer" || cats[7] != "DevOps" {
		t.Errorf("unexpected order: %v", cats)
	}

	desc, ok := c.Lookup("Data Science")
	if !ok {
		t.Fatal("Data Science must have a reference description")
	}
	if !strings.HasPrefix(desc, "We are looking for a Data Scientist") {
		t.Errorf("unexpected description start: %q", desc[:40])
	}
	if !strings.Contains(desc, "\n- Experience in data mining.") {
		t.Error("description lines must be preserved")
	}
}

func TestDescribe_Fallback(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if _, ok := c.Lookup(domain.CategoryUnknown); ok {
		t.Error("Unknown must not have a reference description")
	}
	if got := c.Describe(domain.CategoryUnknown); got != DefaultFallback {
		t.Errorf("Describe(Unknown) = %q, want fallback", got)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"custom", "categories:\n  - name: QA\n    description: Test things.\n", false},
		{"missing description", "categories:\n  - name: QA\n", true},
		{"duplicate", "categories:\n  - name: QA\n    description: a\n  - name: QA\n    description: b\n", true},
		{"malformed", "categories: [", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(strings.NewReader(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.Describe("Other") != DefaultFallback {
				t.Error("empty fallback must default")
			}
		})
	}
}

func TestLoadFile_EmptyPathIsDefault(t *testing.T) {
	c, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if len(c.Categories()) != 8 {
		t.Errorf("expected built-in catalog")
	}
}
