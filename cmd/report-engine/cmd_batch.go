package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/report-engine/internal/contracts"
	"github.com/kingrea/report-engine/internal/engine"
)

var (
	batchJobs     int
	batchOutDir   string
	batchFailFast bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [request-file...]",
	Short: "Generate many reports concurrently",
	Long: `Generates one report per request file using a bounded worker pool.
Reports are written to --out as <name>.report.json. Every report emits
telemetry, so a batch followed by aggregate gives adoption and fallback
rates for the whole set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 4, "Maximum reports generated at once")
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "", "Directory for generated reports (default: print summary only)")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "Stop scheduling new reports after the first failure")
}

const (
	batchOK        = "ok"
	batchViolation = "violation"
	batchError     = "error"
)

type batchResult struct {
	Input    string
	ReportID string
	Status   string
	Merged   int
	Err      error
}

func runBatch(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	eng, err := newEngine(snap)
	if err != nil {
		return err
	}
	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]batchResult, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, batchJobs))
	for i, input := range args {
		i, input := i, input
		g.Go(func() error {
			results[i] = generateOne(gctx, eng, input)
			if batchFailFast && results[i].Status != batchOK {
				return fmt.Errorf("%s: %s", input, results[i].Status)
			}
			return nil
		})
	}
	waitErr := g.Wait()

	printBatch(cmd.OutOrStdout(), results)
	failed := 0
	for _, res := range results {
		if res.Status != batchOK {
			failed++
		}
	}
	if waitErr != nil {
		return waitErr
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(args))
	}
	return nil
}

func generateOne(ctx context.Context, eng *engine.Engine, input string) batchResult {
	res := batchResult{Input: input}
	if err := ctx.Err(); err != nil {
		res.Status, res.Err = batchError, err
		return res
	}
	req, err := readRequest(input)
	if err != nil {
		res.Status, res.Err = batchError, err
		return res
	}
	report, err := eng.Generate(ctx, req)
	var violation *contracts.ViolationError
	switch {
	case err == nil:
		res.Status = batchOK
	case errors.As(err, &violation):
		res.Status, res.Err = batchViolation, err
	default:
		res.Status, res.Err = batchError, err
		return res
	}
	res.ReportID = report.ReportID
	res.Merged = len(report.Sources.Merged())
	if batchOutDir != "" {
		if err := writeReportFile(report, input); err != nil {
			res.Status, res.Err = batchError, err
		}
	}
	logger.Debug("batch report", zap.String("input", input), zap.String("status", res.Status))
	return res
}

func writeReportFile(report *engine.Report, input string) error {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".report.json"
	file, err := os.Create(filepath.Join(batchOutDir, name))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	defer file.Close()
	return writeJSON(file, report)
}

func printBatch(w io.Writer, results []batchResult) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("BATCH · %d reports", len(results))))
	for _, res := range results {
		status := okStyle.Render(res.Status)
		if res.Status != batchOK {
			status = failStyle.Render(res.Status)
		}
		line := fmt.Sprintf("%s  %s", status, res.Input)
		if res.ReportID != "" {
			line += fmt.Sprintf("  report=%s merged=%d", res.ReportID, res.Merged)
		}
		if res.Err != nil {
			line += "  " + res.Err.Error()
		}
		fmt.Fprintln(w, line)
	}
}
