package capacity

import (
	"testing"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

func baselineRecord(peak float64) map[string]any {
	return map[string]any{
		"measured":   map[string]any{"voltage_v": 230, "peak_current_a": peak},
		"inspection": map[string]any{"switchboard": map[string]any{"main_switch_a": 63}},
	}
}

func findByID(out content.ComputeOutput, id string) (content.Finding, bool) {
	for _, f := range out.Findings {
		if f.ID == id {
			return f, true
		}
	}
	return content.Finding{}, false
}

func TestModerateStressProducesSingleStressFinding(t *testing.T) {
	sig := signals.Extract(baselineRecord(41))
	out := New().Compute(sig, content.ProfileInvestor, module.DefaultEnv())
	if len(out.Findings) != 1 {
		t.Fatalf("expected one finding, got %d", len(out.Findings))
	}
	f := out.Findings[0]
	if f.ID != FindingLoadStress || f.Priority != content.PriorityPlan {
		t.Fatalf("unexpected finding %+v", f)
	}
	if f.EvidenceCoverage != content.CoverageMeasured {
		t.Fatalf("expected measured coverage, got %s", f.EvidenceCoverage)
	}
	if len(out.CapexRows) != 0 {
		t.Fatalf("moderate stress should not cost an upgrade: %+v", out.CapexRows)
	}
}

func TestStressPriority(t *testing.T) {
	cases := map[signals.StressLevel]content.Priority{
		signals.StressLow:      content.PriorityPlan,
		signals.StressModerate: content.PriorityPlan,
		signals.StressHigh:     content.PriorityRecommended,
		signals.StressCritical: content.PriorityUrgent,
	}
	for level, want := range cases {
		if got := stressPriority(level); got != want {
			t.Fatalf("stressPriority(%s) = %s, want %s", level, got, want)
		}
	}
}

func TestHighStressAddsReadinessAndMonitoring(t *testing.T) {
	sig := signals.Extract(baselineRecord(55))
	out := New().Compute(sig, content.ProfileOwner, module.DefaultEnv())
	for _, id := range []string{FindingLoadStress, FindingEVReadiness, FindingMonitoringJustified} {
		if _, ok := findByID(out, id); !ok {
			t.Fatalf("expected %s in %+v", id, out.Findings)
		}
	}
	keys := map[string]content.Contribution{}
	for _, row := range out.CapexRows {
		keys[row.RowKey] = row
	}
	if _, ok := keys["capex:capacity:main-switch-upgrade"]; !ok {
		t.Fatalf("missing main switch upgrade row: %+v", out.CapexRows)
	}
	if row := keys["capex:capacity:ev-load-management"]; !row.AmountIsTBD {
		t.Fatalf("expected EV row to be TBD: %+v", row)
	}
}

func TestReadinessSkippedWhenEVExplicitlyAbsent(t *testing.T) {
	record := baselineRecord(55)
	record["observed"] = map[string]any{"assets": map[string]any{"ev_charger": false}}
	out := New().Compute(signals.Extract(record), content.ProfileOwner, module.DefaultEnv())
	if _, ok := findByID(out, FindingEVReadiness); ok {
		t.Fatalf("readiness should be suppressed when EV is explicitly absent")
	}
}

func TestAssetOverviewOwnerOnly(t *testing.T) {
	record := map[string]any{
		"job": map[string]any{"assets": map[string]any{"solar_pv": true, "battery": "yes"}},
	}
	sig := signals.Extract(record)

	owner := New().Compute(sig, content.ProfileOwner, module.DefaultEnv())
	overview, ok := findByID(owner, FindingAssetOverview)
	if !ok {
		t.Fatalf("expected overview for owner")
	}
	if overview.Priority != content.PriorityUnranked {
		t.Fatalf("overview should be unranked, got %q", overview.Priority)
	}
	if _, ok := findByID(owner, FindingMonitoringJustified); !ok {
		t.Fatalf("two assets with declared circuits should justify monitoring")
	}

	tenant := New().Compute(sig, content.ProfileTenant, module.DefaultEnv())
	if _, ok := findByID(tenant, FindingAssetOverview); ok {
		t.Fatalf("overview must not be emitted for tenant")
	}
}

func TestEmptyRecordEmitsNothing(t *testing.T) {
	out := New().Compute(signals.Extract(map[string]any{}), content.ProfileOwner, module.DefaultEnv())
	if !out.Empty() {
		t.Fatalf("expected empty output, got %+v", out)
	}
}
