package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/contracts"
)

var planCmd = &cobra.Command{
	Use:   "plan [request-file]",
	Short: "Build the report plan for one request and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

var injectCmd = &cobra.Command{
	Use:   "inject [request-file]",
	Short: "Generate a full report: plan, slot injection, contract and telemetry",
	Long: `Builds the plan, injects merged content into the legacy slot record
according to the configured flags, enforces the report contract and
emits a telemetry record. The report is printed as JSON even when the
contract is violated; the command then exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runInject,
}

func runPlan(cmd *cobra.Command, args []string) error {
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
	logger.Debug("plan built", zap.String("profile", string(p.Profile)), zap.Int("findings", len(p.Merged.Findings)))
	return writeJSON(cmd.OutOrStdout(), p)
}

func runInject(cmd *cobra.Command, args []string) error {
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
	report, genErr := eng.Generate(context.Background(), req)
	if report == nil {
		return genErr
	}
	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	var violation *contracts.ViolationError
	if errors.As(genErr, &violation) {
		return fmt.Errorf("report %s blocked: %d contract violation(s)", violation.ReportID, len(violation.Errors))
	}
	return genErr
}
