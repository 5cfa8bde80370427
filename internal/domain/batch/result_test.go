package batch

import (
	"testing"

	"github.com/kailas-cloud/resumatch/internal/domain/report"
)

func TestRanked(t *testing.T) {
	reports := []report.ScoreReport{
		report.New(report.Fields{DocumentID: "a.pdf", SemanticScore: 80}),
		report.New(report.Fields{DocumentID: "b.docx", Status: report.StatusEmpty}),
		report.New(report.Fields{DocumentID: "c.txt", Status: report.StatusDegraded}),
		report.New(report.Fields{DocumentID: "d.pdf", Status: report.StatusFailed}),
	}
	b := NewRanked(report.ModeProfileStrength, reports)

	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}
	if b.Mode() != report.ModeProfileStrength {
		t.Errorf("Mode() = %q", b.Mode())
	}
	top, ok := b.Top()
	if !ok || top.DocumentID() != "a.pdf" {
		t.Errorf("Top() = %q/%v, want a.pdf", top.DocumentID(), ok)
	}

	got := b.Unreadable()
	if len(got) != 2 || got[0] != "b.docx" || got[1] != "d.pdf" {
		t.Errorf("Unreadable() = %v, want [b.docx d.pdf]", got)
	}

	reports[0] = report.New(report.Fields{DocumentID: "replaced"})
	if top, _ := b.Top(); top.DocumentID() != "a.pdf" {
		t.Error("batch must not share the caller's slice")
	}
}

func TestRanked_Empty(t *testing.T) {
	b := NewRanked(report.ModeJobMatch, nil)
	if _, ok := b.Top(); ok {
		t.Error("Top() on empty batch must report false")
	}
	if b.Unreadable() != nil {
		t.Error("expected no unreadable documents")
	}
}
