package energy

import (
	"testing"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

func twoCircuitRecord() map[string]any {
	return map[string]any{
		"observed": map[string]any{
			"circuits": []any{
				map[string]any{"label": "Hot water", "current_a": 16},
				map[string]any{"label": "Kitchen", "current_a": 18},
			},
		},
	}
}

func TestApplies(t *testing.T) {
	m := New()
	cases := []struct {
		name string
		sel  module.Selection
		want bool
	}{
		{"owner default", module.Selection{Profile: content.ProfileOwner}, true},
		{"investor default", module.Selection{Profile: content.ProfileInvestor, Modules: []string{"energy"}}, false},
		{"investor explicit", module.Selection{Profile: content.ProfileInvestor, Modules: []string{"energy"}, Explicit: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Applies(tc.sel); got != tc.want {
				t.Fatalf("Applies = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRankContributorsBreaksTiesByLabel(t *testing.T) {
	ranked := RankContributors([]signals.Circuit{
		{Label: "B", CurrentA: 10},
		{Label: "A", CurrentA: 10},
		{Label: "C", CurrentA: 20},
	}, 230)
	got := []string{ranked[0].Label, ranked[1].Label, ranked[2].Label}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if ranked[0].Share != 0.5 {
		t.Fatalf("expected 50%% share, got %v", ranked[0].Share)
	}
}

func TestTwoCircuitsDefaultTariff(t *testing.T) {
	sig := signals.Extract(twoCircuitRecord())
	band, ok := EstimateCostBand(sig, module.DefaultEnv())
	if !ok {
		t.Fatalf("expected a cost band")
	}
	if band.TariffSource != signals.TariffDefault {
		t.Fatalf("expected default tariff, got %s", band.TariffSource)
	}
	if band.Low != 260 || band.High != 600 {
		t.Fatalf("unexpected band %+v", band)
	}

	out := New().Compute(sig, content.ProfileOwner, module.DefaultEnv())
	ids := map[string]content.Priority{}
	for _, f := range out.Findings {
		ids[f.ID] = f.Priority
	}
	if ids[FindingCircuitBreakdown] != content.PriorityPlan || ids[FindingCostBand] != content.PriorityPlan {
		t.Fatalf("unexpected findings %+v", ids)
	}
	if _, ok := ids[FindingHighDraw]; ok {
		t.Fatalf("high draw finding without flag")
	}
}

func TestSingleCircuitWithoutTariffIsInactive(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"observed": map[string]any{"circuits": []any{map[string]any{"label": "Oven", "current_a": 20}}},
	})
	if Active(sig.Circuits) {
		t.Fatalf("one circuit and no tariff should not activate")
	}
	if out := New().Compute(sig, content.ProfileOwner, module.DefaultEnv()); !out.Empty() {
		t.Fatalf("expected empty output, got %+v", out)
	}
}

func TestHighDrawFlag(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"observed": map[string]any{"unknown_high_draw": true},
	})
	out := New().Compute(sig, content.ProfileTenant, module.DefaultEnv())
	if len(out.Findings) != 1 || out.Findings[0].ID != FindingHighDraw {
		t.Fatalf("unexpected findings %+v", out.Findings)
	}
	if len(out.CapexRows) != 1 || out.CapexRows[0].RowKey != "capex:energy:high-draw-investigation" {
		t.Fatalf("unexpected capex rows %+v", out.CapexRows)
	}
}

func TestHighDrawWithSingleCircuitSkipsEnhancedFindings(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"measured":   map[string]any{"voltage_v": 230, "peak_current_a": 30},
		"inspection": map[string]any{"switchboard": map[string]any{"main_switch_a": 63}},
		"observed": map[string]any{
			"unknown_high_draw": true,
			"circuits":          []any{map[string]any{"label": "Oven", "current_a": 12}},
		},
	})
	if !Active(sig.Circuits) || sig.Circuits.Enhanced() {
		t.Fatalf("high draw should activate without enhanced data: %+v", sig.Circuits)
	}
	if _, ok := EstimateCostBand(sig, module.DefaultEnv()); ok {
		t.Fatalf("cost band needs enhanced circuit data")
	}
	out := New().Compute(sig, content.ProfileOwner, module.DefaultEnv())
	if len(out.Findings) != 1 || out.Findings[0].ID != FindingHighDraw {
		t.Fatalf("unexpected findings %+v", out.Findings)
	}
	for _, c := range out.ExecutiveSummary {
		if c.Key == "energy:cost-band" || c.Key == "energy:top-circuit" {
			t.Fatalf("enhanced summary line %q without enhanced data", c.Key)
		}
	}
}

func TestTariffOnlyEstimatesFromBaseline(t *testing.T) {
	sig := signals.Extract(map[string]any{
		"measured":   map[string]any{"voltage_v": 230, "peak_current_a": 30},
		"inspection": map[string]any{"switchboard": map[string]any{"main_switch_a": 63}},
		"job":        map[string]any{"energy": map[string]any{"tariff_c_per_kwh": 32}},
	})
	if !sig.Circuits.Enhanced() {
		t.Fatalf("a supplied tariff makes circuit data enhanced")
	}
	band, ok := EstimateCostBand(sig, module.DefaultEnv())
	if !ok || band.TariffSource != signals.TariffInput {
		t.Fatalf("expected supplied-tariff band, got %+v ok=%v", band, ok)
	}
}

func TestSupportingEntriesCarryFindingID(t *testing.T) {
	sig := signals.Extract(twoCircuitRecord())
	out := New().Compute(sig, content.ProfileOwner, module.DefaultEnv())
	want := map[string]string{
		"energy:top-circuit": FindingCircuitBreakdown,
		"energy:cost-band":   FindingCostBand,
	}
	for _, c := range out.ExecutiveSummary {
		if id, ok := want[c.Key]; ok && c.FindingID != id {
			t.Fatalf("%s supports %q, want %q", c.Key, c.FindingID, id)
		}
	}
}
