package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/report-engine/internal/preflight"
)

var preflightJSON bool

var preflightCmd = &cobra.Command{
	Use:   "preflight [request-file]",
	Short: "Show evidence warnings, severity and subscription lead for one request",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreflight,
}

func init() {
	preflightCmd.Flags().BoolVar(&preflightJSON, "json", false, "Print the raw preflight result as JSON")
}

func runPreflight(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	req, err := readRequest(args[0])
	if err != nil {
		return err
	}
	eng, err := newEngine(snap)
	if err != nil {
		return err
	}
	p, err := eng.Plan(req.Plan, req.Record)
	if err != nil {
		return err
	}
	if p.Debug.Preflight == nil {
		return fmt.Errorf("preflight did not run")
	}
	if preflightJSON {
		return writeJSON(cmd.OutOrStdout(), p.Debug.Preflight)
	}
	printPreflight(cmd.OutOrStdout(), *p.Debug.Preflight)
	return nil
}

func printPreflight(w io.Writer, res preflight.Result) {
	sum := res.Summary
	lines := []string{
		headingStyle.Render("PREFLIGHT"),
		row("severity", severityStyle(sum.Severity).Render(string(sum.Severity))),
		row("stress level", string(sum.StressLevel)),
	}
	if sum.TariffSource != "" {
		lines = append(lines, row("tariff", sum.TariffSource))
	}
	lines = append(lines,
		row("coverage", fmt.Sprintf("baseline=%s circuits=%s assets=%s lifecycle=%s",
			sum.Coverage.Baseline, sum.Coverage.Circuits, sum.Coverage.Assets, sum.Coverage.Lifecycle)),
	)
	lead := "no"
	if sum.SubscriptionLead {
		lead = okStyle.Render("yes") + " (" + strings.Join(sum.SubscriptionReasons, ", ") + ")"
	}
	lines = append(lines, row("subscription lead", lead))
	if len(res.Warnings) == 0 {
		lines = append(lines, "", okStyle.Render("No warnings."))
	} else {
		lines = append(lines, "", headingStyle.Render("WARNINGS"))
		for _, warn := range res.Warnings {
			lines = append(lines, failStyle.Render(warn.Code)+"  "+warn.Message)
		}
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
