package preflight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/signals"
)

var allModules = []string{"safety", "capacity", "energy", "lifecycle"}

func TestTwoCircuitsWithoutTariffUsesDefault(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"observed": map[string]any{"circuits": []any{
			map[string]any{"label": "Hot water", "current_a": 16},
			map[string]any{"label": "Kitchen", "current_a": 18},
		}},
	})
	res := Run(Input{Modules: allModules, Signals: sig})
	require.False(t, res.Flags.EnhancedInsufficient)
	require.True(t, res.Flags.TariffDefaultUsed)
	require.True(t, res.HasWarning(CodeTariffDefaultUsed))
	require.False(t, res.HasWarning(CodeEnhancedInsufficient))
	require.Equal(t, "default", res.Summary.TariffSource)
}

func TestEnergyWarningsGatedOnActiveModule(t *testing.T) {
	sig := signals.Extract(map[string]any{})
	res := Run(Input{Modules: []string{"safety", "capacity", "lifecycle"}, Signals: sig})
	require.True(t, res.Flags.EnhancedInsufficient)
	require.False(t, res.HasWarning(CodeEnhancedInsufficient))
	require.True(t, res.HasWarning(CodeBaselineInsufficient))
	require.True(t, res.HasWarning(CodeAssetsCoverageUnknown))
	require.True(t, res.HasWarning(CodeLifecycleUnclassified))
	require.Equal(t, SeverityMedium, res.Summary.Severity)
	require.NotContains(t, res.Summary.SubscriptionReasons, LeadEnhancedDataGap)
}

func TestContradictionIsHighAndBlocksLead(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"measured":   map[string]any{"peak_current_a": 60},
		"inspection": map[string]any{"switchboard": map[string]any{"main_switch_a": 63}},
	})
	merged := content.Sections{Findings: []content.Finding{
		{ID: "LOAD_STRESS_TEST_RESULT"},
		{ID: "EV_CHARGER_READINESS"},
	}}
	res := Run(Input{Modules: allModules, Signals: sig, Merged: merged})
	require.True(t, res.Flags.Contradiction)
	require.True(t, res.HasWarning(CodeStressWithoutBaseline))
	require.Equal(t, SeverityHigh, res.Summary.Severity)
	require.Contains(t, res.Summary.SubscriptionReasons, LeadEVReadiness)
	require.Contains(t, res.Summary.SubscriptionReasons, LeadHighStress)
	require.False(t, res.Summary.SubscriptionLead)
}

func TestLeadWithLowSeverity(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"measured":   map[string]any{"voltage_v": 230, "peak_current_a": 55},
		"inspection": map[string]any{"switchboard": map[string]any{"main_switch_a": 63}},
		"observed":   map[string]any{"assets": map[string]any{"solar_pv": false, "battery": false, "ev_charger": false}},
	})
	merged := content.Sections{Findings: []content.Finding{{ID: "LOAD_MONITORING_JUSTIFICATION"}}}
	res := Run(Input{Modules: []string{"safety", "capacity"}, Signals: sig, Merged: merged})
	require.Empty(t, res.Warnings)
	require.Equal(t, SeverityNone, res.Summary.Severity)
	require.Equal(t, []string{LeadLoadMonitoring, LeadHighStress}, res.Summary.SubscriptionReasons)
	require.True(t, res.Summary.SubscriptionLead)
	require.Equal(t, content.CoverageMeasured, res.Summary.Coverage.Baseline)
}

func TestMainSwitchMissing(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"measured": map[string]any{"voltage_v": 230, "peak_current_a": 30},
	})
	res := Run(Input{Modules: []string{"capacity"}, Signals: sig})
	require.True(t, res.HasWarning(CodeMainSwitchRatingMissing))
	require.Equal(t, SeverityLow, Classify([]Warning{{Code: CodeMainSwitchRatingMissing}}))
}

func TestClassifyPrecedence(t *testing.T) {
	require.Equal(t, SeverityNone, Classify(nil))
	require.Equal(t, SeverityLow, Classify([]Warning{{Code: CodeTariffDefaultUsed}}))
	require.Equal(t, SeverityMedium, Classify([]Warning{{Code: CodeTariffDefaultUsed}, {Code: CodeBaselineInsufficient}}))
	require.Equal(t, SeverityHigh, Classify([]Warning{{Code: CodeBaselineInsufficient}, {Code: CodeCostBandWithoutEnhanced}}))
}
