package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/config"
	"github.com/kingrea/report-engine/internal/logging"
)

var (
	// Global flags
	verbose       bool
	configPath    string
	logDir        string
	telemetryPath string
	profileFlag   string
	moduleFlags   []string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "report-engine",
	Short: "Build inspection report plans and inject them into report slots",
	Long: `report-engine turns a raw inspection record into a report plan:
per-module findings, executive summary lines, narrative and CapEx rows,
merged, ordered for the requested profile and checked by preflight.

The inject command then decides slot by slot whether merged content
replaces the legacy template value, enforces the report contract and
emits one telemetry record per report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Options{Verbose: verbose, Dir: logDir})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.FileName, "Engine configuration file")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Also write logs to <dir>/"+logging.FileName)
	rootCmd.PersistentFlags().StringVar(&telemetryPath, "telemetry", "", "Telemetry sink file (overrides telemetry_path)")
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "Override the request profile (investor, owner, tenant)")
	rootCmd.PersistentFlags().StringSliceVarP(&moduleFlags, "module", "m", nil, "Override the request module selection (repeatable)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(preflightCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(viewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
