package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kingrea/report-engine/internal/contracts"
	"github.com/kingrea/report-engine/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [request-file]",
	Short: "Browse a generated report plan in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func runView(cmd *cobra.Command, args []string) error {
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
	report, err := eng.Generate(context.Background(), req)
	var violation *contracts.ViolationError
	if err != nil && !errors.As(err, &violation) {
		return err
	}
	return tui.Run(tui.NewApp(report.Plan, tui.WithReport(report)))
}
