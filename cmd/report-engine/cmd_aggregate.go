package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kingrea/report-engine/internal/telemetry"
)

var aggregateJSON bool

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [telemetry-file...]",
	Short: "Summarize telemetry records into fallback, adoption and co-occurrence rates",
	Long: `Reads every [REPORT_ENGINE_TELEMETRY] line from the given files (or the
configured telemetry sink when none are given) and prints rate-based
summaries.`,
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().BoolVar(&aggregateJSON, "json", false, "Print the summary as JSON")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		path := telemetryPath
		if path == "" {
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}
			path = snap.Engine.TelemetryPath
		}
		if path == "" {
			return fmt.Errorf("no telemetry files given and no telemetry_path configured")
		}
		files = []string{path}
	}
	var records []telemetry.Record
	for _, file := range files {
		recs, err := telemetry.ReadFile(file)
		if err != nil {
			return err
		}
		records = append(records, recs...)
	}
	sum := telemetry.Aggregate(records)
	if aggregateJSON {
		return writeJSON(cmd.OutOrStdout(), sum)
	}
	printSummary(cmd.OutOrStdout(), sum)
	return nil
}

func printSummary(w io.Writer, sum telemetry.Summary) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("TELEMETRY · %d reports", sum.Reports)))
	section := func(title string, rates map[string]float64) {
		if len(rates) == 0 {
			return
		}
		fmt.Fprintln(w, "\n"+headingStyle.Render(title))
		for _, key := range sortedKeys(rates) {
			fmt.Fprintf(w, "  %-44s %6.1f%%\n", key, rates[key]*100)
		}
	}
	section("FALLBACK RATE", sum.FallbackRate)
	section("MERGED ADOPTION", sum.MergedAdoption)
	section("MODULE CO-OCCURRENCE", sum.ModuleCoOccurrence)
	if len(sum.ProfileCounts) > 0 {
		fmt.Fprintln(w, "\n"+headingStyle.Render("PROFILES"))
		profiles := make([]string, 0, len(sum.ProfileCounts))
		for p := range sum.ProfileCounts {
			profiles = append(profiles, p)
		}
		sort.Strings(profiles)
		for _, p := range profiles {
			fmt.Fprintf(w, "  %-44s %6d\n", p, sum.ProfileCounts[p])
		}
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
