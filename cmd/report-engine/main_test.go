package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/telemetry"
)

const requestYAML = `request:
  profile: owner
  modules: [safety, capacity, lifecycle]
record:
  inspection_id: INS-7
  measured:
    voltage_v: 230
    peak_current_a: 58
  inspection:
    switchboard:
      main_switch_a: 63
      type: rewireable fuses
    rcd:
      coverage: none
`

const allInjectedConfig = `version: 1
default_profile: owner
injection:
  executive_summary: true
  what_this_means: true
  capex: true
  findings: true
`

// setupCLI points the global flags at a temp workspace and returns it.
func setupCLI(t *testing.T, cfg string) string {
	t.Helper()
	dir := t.TempDir()
	logger = zap.NewNop()
	configPath = filepath.Join(dir, "report-engine.yaml")
	telemetryPath = filepath.Join(dir, "telemetry.log")
	profileFlag = ""
	moduleFlags = nil
	if cfg != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	}
	t.Cleanup(func() {
		configPath, telemetryPath, profileFlag, moduleFlags = "", "", "", nil
	})
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunPlanPrintsPlan(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	req := writeFile(t, dir, "req.yaml", requestYAML)

	cmd, out := newTestCmd()
	require.NoError(t, runPlan(cmd, []string{req}))

	var p struct {
		Profile            string   `json:"profile"`
		Modules            []string `json:"modules"`
		HasExplicitModules bool     `json:"hasExplicitModules"`
		InspectionID       string   `json:"inspectionId"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	require.Equal(t, "owner", p.Profile)
	require.True(t, p.HasExplicitModules)
	require.Equal(t, "INS-7", p.InspectionID)
}

func TestProfileFlagOverridesRequest(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	req := writeFile(t, dir, "req.yaml", requestYAML)
	profileFlag = "investor"

	cmd, out := newTestCmd()
	require.NoError(t, runPlan(cmd, []string{req}))
	require.Contains(t, out.String(), `"profile": "investor"`)
}

func TestRunInjectEmitsTelemetry(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	req := writeFile(t, dir, "req.yaml", requestYAML)

	cmd, out := newTestCmd()
	require.NoError(t, runInject(cmd, []string{req}))
	require.Contains(t, out.String(), `"reportId"`)

	records, err := telemetry.ReadFile(telemetryPath)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "owner", records[0].Profile)
}

func TestRunInjectReportsViolation(t *testing.T) {
	// No config file: every flag is off and the empty legacy record fails
	// the contract.
	dir := setupCLI(t, "")
	req := writeFile(t, dir, "req.yaml", requestYAML)

	cmd, out := newTestCmd()
	err := runInject(cmd, []string{req})
	require.Error(t, err)
	require.Contains(t, err.Error(), "contract violation")
	require.Contains(t, out.String(), `"violations"`)
}

func TestRunPreflightText(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	req := writeFile(t, dir, "req.yaml", requestYAML)

	cmd, out := newTestCmd()
	require.NoError(t, runPreflight(cmd, []string{req}))
	require.Contains(t, out.String(), "PREFLIGHT")
	require.Contains(t, out.String(), "severity")
}

func TestRunBatchWritesReports(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	first := writeFile(t, dir, "first.yaml", requestYAML)
	second := writeFile(t, dir, "second.yaml", requestYAML)
	batchOutDir = filepath.Join(dir, "out")
	batchJobs = 2
	t.Cleanup(func() { batchOutDir = "" })

	cmd, out := newTestCmd()
	require.NoError(t, runBatch(cmd, []string{first, second}))
	require.Contains(t, out.String(), "BATCH · 2 reports")
	require.FileExists(t, filepath.Join(batchOutDir, "first.report.json"))
	require.FileExists(t, filepath.Join(batchOutDir, "second.report.json"))

	records, err := telemetry.ReadFile(telemetryPath)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestRunBatchCountsFailures(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	good := writeFile(t, dir, "good.yaml", requestYAML)
	missing := filepath.Join(dir, "missing.yaml")

	cmd, out := newTestCmd()
	err := runBatch(cmd, []string{good, missing})
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 reports failed")
	require.Contains(t, out.String(), "missing.yaml")
}

func TestRunAggregateJSON(t *testing.T) {
	dir := setupCLI(t, allInjectedConfig)
	req := writeFile(t, dir, "req.yaml", requestYAML)
	injectOut, _ := newTestCmd()
	require.NoError(t, runInject(injectOut, []string{req}))
	require.NoError(t, runInject(injectOut, []string{req}))

	aggregateJSON = true
	t.Cleanup(func() { aggregateJSON = false })
	cmd, out := newTestCmd()
	require.NoError(t, runAggregate(cmd, nil))

	var sum telemetry.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &sum))
	require.Equal(t, 2, sum.Reports)
	require.Equal(t, 2, sum.ProfileCounts["owner"])
}

func TestRunAggregateRequiresInput(t *testing.T) {
	setupCLI(t, "")
	telemetryPath = ""
	cmd, _ := newTestCmd()
	err := runAggregate(cmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no telemetry files")
}

func TestRunValidate(t *testing.T) {
	dir := setupCLI(t, "")
	valid := writeFile(t, dir, "valid.yaml", strings.Join([]string{
		"REPORT_ID: r-1",
		"PROFILE: owner",
		"EXECUTIVE_SUMMARY_TEXT: |",
		"  - Overall risk: urgent safety work",
		"  - Budget: capex planning required",
		"WHAT_THIS_MEANS_TEXT: Plan the switchboard upgrade.",
		"FINDING_PAGES_HTML: <h3>RCD</h3>",
	}, "\n"))
	invalid := writeFile(t, dir, "invalid.yaml", "REPORT_ID: r-2\nPROFILE: landlord\n")

	cmd, out := newTestCmd()
	require.NoError(t, runValidate(cmd, []string{valid}))
	require.Contains(t, out.String(), "valid")

	cmd, out = newTestCmd()
	err := runValidate(cmd, []string{valid, invalid})
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2")
	require.Contains(t, out.String(), "unknown profile")
}
