package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/report-engine/internal/contracts"
)

var validateCmd = &cobra.Command{
	Use:   "validate [slots-file...]",
	Short: "Check final slot records (YAML or JSON) against the report contract",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, path := range args {
		report, err := contracts.ValidateReportFile(path)
		if err != nil {
			return err
		}
		if report.IsValid() {
			fmt.Fprintf(out, "%s  %s\n", okStyle.Render("valid"), path)
			continue
		}
		invalid++
		fmt.Fprintf(out, "%s  %s\n", failStyle.Render("invalid"), path)
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d slot records violate the report contract", invalid, len(args))
	}
	return nil
}
