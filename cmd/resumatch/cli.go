package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/resumatch/internal/domain/batch"
	domdoc "github.com/kailas-cloud/resumatch/internal/domain/document"
	"github.com/kailas-cloud/resumatch/internal/domain/report"
	"github.com/kailas-cloud/resumatch/internal/export"
	"github.com/kailas-cloud/resumatch/internal/ingestion"
	"github.com/kailas-cloud/resumatch/internal/schemas"
	batchuc "github.com/kailas-cloud/resumatch/internal/usecase/batch"
)

type descriptionFlags struct {
	text string
	file string
}

func (d *descriptionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.text, "description", "", "job description text")
	cmd.Flags().StringVar(&d.file, "description-file", "", "job description file (pdf, docx, txt, html)")
	cmd.MarkFlagsMutuallyExclusive("description", "description-file")
}

func (d *descriptionFlags) resolve(ctx context.Context, a *app) (string, error) {
	if d.file == "" {
		return d.text, nil
	}
	text, err := extractPath(ctx, a.extractor, d.file)
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return text, nil
}

func newScoreCommand(opts *rootOptions) *cobra.Command {
	var desc descriptionFlags
	cmd := &cobra.Command{
		Use:   "score <resume>",
		Short: "Score one résumé and print the report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				description, err := desc.resolve(ctx, a)
				if err != nil {
					return err
				}
				text, err := extractPath(ctx, a.extractor, args[0])
				if err != nil {
					a.logger.Warn("Unreadable résumé", zap.String("file", args[0]), zap.Error(err))
				}
				doc, err := domdoc.NewExtracted(filepath.Base(args[0]), text)
				if err != nil {
					return fmt.Errorf("build document: %w", err)
				}

				rep := a.scorer.Score(ctx, doc, description)
				return printReport(cmd.OutOrStdout(), rep, a.logger)
			})
		},
	}
	desc.register(cmd)
	return cmd
}

func newRankCommand(opts *rootOptions) *cobra.Command {
	var (
		desc     descriptionFlags
		xlsxPath string
	)
	cmd := &cobra.Command{
		Use:   "rank <resume>...",
		Short: "Rank résumés against a description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(ctx context.Context, a *app) error {
				description, err := desc.resolve(ctx, a)
				if err != nil {
					return err
				}

				items := make([]batchuc.Item, len(args))
				for i, path := range args {
					items[i] = batchuc.Item{ID: filepath.Base(path), Extracted: true}
					text, err := extractPath(ctx, a.extractor, path)
					if err != nil {
						a.logger.Warn("Unreadable résumé", zap.String("file", path), zap.Error(err))
						continue
					}
					items[i].Text = text
				}

				ranked, err := a.ranker.Rank(ctx, items, description)
				if err != nil {
					return fmt.Errorf("rank: %w", err)
				}
				if xlsxPath != "" {
					if err := writeWorkbook(xlsxPath, ranked); err != nil {
						return err
					}
				}
				return printRanking(cmd.OutOrStdout(), ranked)
			})
		},
	}
	desc.register(cmd)
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the ranking to this spreadsheet")
	return cmd
}

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List known categories and their reference descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(_ context.Context, a *app) error {
				cats := a.models.Categories()
				if len(cats) == 0 {
					cats = a.catalog.Categories()
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, c := range cats {
					_, _ = fmt.Fprintf(tw, "%s\t%s\n", c, excerpt(a.catalog.Describe(c), 80))
				}
				return tw.Flush()
			})
		},
	}
}

// withApp loads config, builds the app and runs fn.
func withApp(ctx context.Context, opts *rootOptions, fn func(context.Context, *app) error) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func extractPath(ctx context.Context, ex *ingestion.Extractor, path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ex.ExtractText(ctx, f, path)
}

func printReport(w io.Writer, rep report.ScoreReport, logger *zap.Logger) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := schemas.ValidateReport(data); err != nil {
		logger.Warn("Report does not match schema", zap.Error(err))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRanking(w io.Writer, ranked dombatch.Ranked) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "RANK\tDOCUMENT\tSTATUS\tSCORE\tCATEGORY\tMISSING\n")
	for i, r := range ranked.Reports() {
		missing := r.MissingKeywords()
		if len(missing) > 3 {
			missing = missing[:3]
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\t%v\n",
			i+1, r.DocumentID(), r.Status(), r.RankScore(), r.Category(), missing)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	if unreadable := ranked.Unreadable(); len(unreadable) > 0 {
		_, _ = fmt.Fprintf(w, "\nUnreadable: %v\n", unreadable)
	}
	return nil
}

func writeWorkbook(path string, ranked dombatch.Ranked) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := export.WriteXLSX(f, ranked, time.Now()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
