package signals

import (
	"math"
	"testing"

	"github.com/kingrea/report-engine/internal/content"
)

func TestClassifyPathPrecedence(t *testing.T) {
	tests := []struct {
		path string
		want content.Coverage
	}{
		{"measured.voltage_v", content.CoverageMeasured},
		{"stress_test.total_current_a", content.CoverageMeasured},
		{"inspection.measured.voltage", content.CoverageMeasured},
		{"observed.assets.solar_pv", content.CoverageObserved},
		{"inspection.switchboard.type", content.CoverageObserved},
		{"job.loads.circuits", content.CoverageDeclared},
		{"job.assets.ev", content.CoverageDeclared},
		{"energy.tariff_c_per_kwh", content.CoverageObserved},
		{"jobsite.notes", content.CoverageObserved},
		{"", content.CoverageUnknown},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			if got := ClassifyPath(test.path); got != test.want {
				t.Fatalf("ClassifyPath(%q)=%s want %s", test.path, got, test.want)
			}
		})
	}
}

func TestBestPrefersMostAuthoritative(t *testing.T) {
	got := Best(content.CoverageDeclared, content.CoverageMeasured, content.CoverageObserved)
	if got != content.CoverageMeasured {
		t.Fatalf("expected measured, got %s", got)
	}
	if Best() != content.CoverageUnknown {
		t.Fatalf("expected unknown for no classes")
	}
}

func TestLookupUnwrapsValueWrapperOnce(t *testing.T) {
	tree := NewTree(map[string]any{
		"inspection": map[string]any{
			"supply": map[string]any{
				"voltage_v": map[string]any{"value": 231.0, "status": "ok"},
			},
			"rcd": map[string]any{
				"coverage": map[string]any{"value": "partial", "status": "not_tested"},
			},
			"nested": map[string]any{
				"value": map[string]any{"value": 5.0},
			},
		},
	})
	raw, ok := tree.Lookup("inspection.supply.voltage_v")
	if !ok || raw != 231.0 {
		t.Fatalf("expected unwrapped voltage, got %v ok=%v", raw, ok)
	}
	if _, ok := tree.Lookup("inspection.rcd.coverage"); ok {
		t.Fatalf("not_tested wrapper must count as missing")
	}
	inner, ok := tree.Lookup("inspection.nested")
	if !ok {
		t.Fatalf("expected nested wrapper value")
	}
	if _, isMap := inner.(map[string]any); !isMap {
		t.Fatalf("only one wrapper level should be removed, got %T", inner)
	}
}

func TestResolveReturnsFirstNonEmptyWithPath(t *testing.T) {
	tree := NewTree(map[string]any{
		"measured": map[string]any{"voltage_v": ""},
		"job":      map[string]any{"supply": map[string]any{"voltage_v": "240V"}},
	})
	v, ok := Resolve(tree, voltagePaths...)
	if !ok {
		t.Fatalf("expected a voltage")
	}
	if v.Path != "job.supply.voltage_v" {
		t.Fatalf("unexpected path %s", v.Path)
	}
	f, ok := v.Float()
	if !ok || f != 240 {
		t.Fatalf("expected 240, got %v", f)
	}
	if v.Coverage() != content.CoverageDeclared {
		t.Fatalf("expected declared coverage, got %s", v.Coverage())
	}
}

func TestExtractBaselineModerateStress(t *testing.T) {
	raw := map[string]any{
		"stress_test": map[string]any{"voltage_v": 230.0, "total_current_a": 41.0},
		"inspection":  map[string]any{"switchboard": map[string]any{"main_switch_a": 63.0}},
	}
	b := ExtractBaseline(NewTree(raw))
	if b.Insufficient {
		t.Fatalf("baseline should be sufficient")
	}
	if b.StressRatio == nil || math.Abs(*b.StressRatio-41.0/63.0) > 1e-9 {
		t.Fatalf("unexpected ratio %v", b.StressRatio)
	}
	if b.StressLevel != StressModerate {
		t.Fatalf("expected moderate, got %s", b.StressLevel)
	}
	if b.EstimatedKW == nil || math.Abs(*b.EstimatedKW-9.43) > 1e-9 {
		t.Fatalf("unexpected power %v", b.EstimatedKW)
	}
	if b.CurrentCoverage != content.CoverageMeasured {
		t.Fatalf("expected measured current coverage, got %s", b.CurrentCoverage)
	}
}

func TestExtractBaselineThreePhaseSumsPhases(t *testing.T) {
	raw := map[string]any{
		"inspection": map[string]any{"supply": map[string]any{"phase": "3-phase", "voltage_v": 230.0}},
		"stress_test": map[string]any{
			"l1_current_a": 20.0,
			"l2_current_a": 30.0,
			"l3_current_a": 10.0,
			"l2_voltage_v": 240.0,
		},
	}
	b := ExtractBaseline(NewTree(raw))
	if b.Phase != PhaseThree {
		t.Fatalf("expected three phase, got %s", b.Phase)
	}
	want := (230*20 + 240*30 + 230*10) / 1000.0
	if b.EstimatedKW == nil || math.Abs(*b.EstimatedKW-want) > 1e-9 {
		t.Fatalf("expected %.3f kW, got %v", want, b.EstimatedKW)
	}
	if b.PeakCurrent == nil || b.PeakCurrent.Value != 30 || b.PeakCurrent.Path != "stress_test.l2_current_a" {
		t.Fatalf("unexpected peak %+v", b.PeakCurrent)
	}
	if b.StressLevel != StressUnknown {
		t.Fatalf("stress must be unknown without a main switch rating, got %s", b.StressLevel)
	}
}

func TestClassifyStressThresholds(t *testing.T) {
	tests := []struct {
		ratio float64
		want  StressLevel
	}{
		{0.59, StressLow},
		{0.6, StressModerate},
		{0.79, StressModerate},
		{0.8, StressHigh},
		{0.949, StressHigh},
		{0.95, StressCritical},
		{1.3, StressCritical},
	}
	for _, test := range tests {
		if got := ClassifyStress(test.ratio); got != test.want {
			t.Fatalf("ClassifyStress(%v)=%s want %s", test.ratio, got, test.want)
		}
	}
}

func TestExtractEmptyRecordIsInsufficient(t *testing.T) {
	c := Extract(map[string]any{})
	if !c.Baseline.Insufficient || !c.Circuits.Insufficient || !c.Assets.Insufficient || !c.Lifecycle.Insufficient {
		t.Fatalf("every bundle should be insufficient: %+v", c)
	}
	if c.Baseline.StressLevel != StressUnknown {
		t.Fatalf("expected unknown stress, got %s", c.Baseline.StressLevel)
	}
	if c.Baseline.Coverage != content.CoverageUnknown || c.Assets.Coverage != content.CoverageUnknown {
		t.Fatalf("insufficient bundles must report unknown coverage")
	}
}

func TestExtractCircuitsAndTariff(t *testing.T) {
	raw := map[string]any{
		"stress_test": map[string]any{
			"circuits": []any{
				map[string]any{"label": "Hot water", "current_a": 16.0},
				map[string]any{"name": "Kitchen", "current_a": map[string]any{"value": "18A"}},
				map[string]any{"label": "Spare"},
			},
		},
	}
	c := ExtractCircuits(NewTree(raw))
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 circuits with readings, got %+v", c.Items)
	}
	if c.Items[1].Label != "Kitchen" || c.Items[1].CurrentA != 18 {
		t.Fatalf("unexpected second circuit %+v", c.Items[1])
	}
	if c.Coverage != content.CoverageMeasured {
		t.Fatalf("expected measured coverage, got %s", c.Coverage)
	}
	cents, source := c.ResolveTariff(30)
	if cents != 30 || source != TariffDefault {
		t.Fatalf("expected default tariff, got %v %s", cents, source)
	}
}

func TestClassifyLifecycleKeywords(t *testing.T) {
	if got := ClassifyAgeBand("Pre-1970 brick"); got != AgePre1970 {
		t.Fatalf("age text: got %s", got)
	}
	if got := ClassifyAgeBand(1985.0); got != Age1970_1990 {
		t.Fatalf("age year: got %s", got)
	}
	if got := ClassifyAgeBand("1962"); got != AgePre1970 {
		t.Fatalf("age year text: got %s", got)
	}
	if got := ClassifySwitchboard("Ceramic fuse board"); got != SwitchboardRewireable {
		t.Fatalf("switchboard: got %s", got)
	}
	if got := ClassifySwitchboard("Circuit breakers with RCBO"); got != SwitchboardRCBO {
		t.Fatalf("switchboard rcbo: got %s", got)
	}
	if got := ClassifyRCD("No RCD fitted"); got != RCDNone {
		t.Fatalf("rcd none: got %s", got)
	}
	if got := ClassifyRCD(true); got != RCDFull {
		t.Fatalf("rcd bool: got %s", got)
	}
	if got := ClassifyRCD("some circuits"); got != RCDPartial {
		t.Fatalf("rcd partial: got %s", got)
	}
}

func TestExtractAssetsTriState(t *testing.T) {
	raw := map[string]any{
		"job": map[string]any{"assets": map[string]any{"solar_pv": "yes", "ev": false}},
	}
	a := ExtractAssets(NewTree(raw))
	if a.Count() != 1 {
		t.Fatalf("expected one asset, got %d", a.Count())
	}
	if !a.EVExplicitlyAbsent() {
		t.Fatalf("expected EV explicitly absent")
	}
	if a.Battery != nil {
		t.Fatalf("battery should be unrecorded")
	}
	if a.Coverage != content.CoverageDeclared {
		t.Fatalf("expected declared coverage, got %s", a.Coverage)
	}
}
