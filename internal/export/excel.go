// Package export renders ranked batches as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
)

// Sheet names.
const (
	RankingSheet = "Ranked Candidates"
	SummarySheet = "Summary"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var rankingHeader = []string{
	"Rank", "Document", "Status", "Score", "Label", "Category", "Confidence",
	"Composite", "Semantic", "Rule Based", "Presence", "Impact", "Keyword", "Missing Keywords",
}

// WriteXLSX writes the ranked batch as an xlsx workbook to w.
func WriteXLSX(w io.Writer, batch dombatch.Ranked, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", RankingSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeRanking(f, batch); err != nil {
		return fmt.Errorf("write ranking sheet: %w", err)
	}
	if err := writeSummary(f, batch, generatedAt); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRanking(f *excelize.File, batch dombatch.Ranked) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := setRow(f, RankingSheet, 1, toAny(rankingHeader)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(rankingHeader), 1)
	if err := f.SetCellStyle(RankingSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range batch.Reports() {
		if err := setRow(f, RankingSheet, i+2, rankingRow(i+1, r)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(RankingSheet, "B", "B", 30); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(RankingSheet, "N", "N", 60); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return f.SetPanes(RankingSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

func rankingRow(rank int, r report.ScoreReport) []any {
	var confidence, composite any = "", ""
	if c, ok := r.Confidence(); ok {
		confidence = c
	}
	if c, ok := r.CompositeScore(); ok {
		composite = c
	}
	return []any{
		rank,
		r.DocumentID(),
		string(r.Status()),
		r.RankScore(),
		r.ScoreLabel(),
		r.Category().String(),
		confidence,
		composite,
		r.SemanticScore(),
		r.RuleBasedScore(),
		r.PresenceScore(),
		r.ImpactScore(),
		r.KeywordScore(),
		strings.Join(r.MissingKeywords(), ", "),
	}
}

func writeSummary(f *excelize.File, batch dombatch.Ranked, generatedAt time.Time) error {
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("label style: %w", err)
	}

	var total float64
	for _, r := range batch.Reports() {
		total += r.RankScore()
	}
	average := 0.0
	if batch.Len() > 0 {
		average = report.Normalize(total / float64(batch.Len()))
	}
	top := ""
	if r, ok := batch.Top(); ok {
		top = r.DocumentID()
	}

	rows := [][]any{
		{"Mode", string(batch.Mode())},
		{"Generated", generatedAt.UTC().Format(time.RFC3339)},
		{"Documents", batch.Len()},
		{"Top Document", top},
		{"Average Score", average},
		{"Unreadable", strings.Join(batch.Unreadable(), ", ")},
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStyle(SummarySheet, cell, cell, labelStyle); err != nil {
			return fmt.Errorf("style label: %w", err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 28)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
