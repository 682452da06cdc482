package contracts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validSlots() map[string]string {
	return map[string]string{
		SlotReportID:         "R-1",
		SlotProfile:          "owner",
		SlotExecutiveSummary: "- Overall risk: 1 urgent item.\n- CapEx: Estimated $800–$1,500 across 1 item.",
		SlotWhatThisMeans:    "Install RCDs.",
		SlotFindings:         "<!--REPORT_ENGINE_FINDINGS:v1-->\n<section class=\"finding\"><h3>x</h3></section>",
	}
}

func TestValidateReport(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		want   []string
	}{
		{name: "valid", mutate: func(map[string]string) {}},
		{
			name:   "missing required",
			mutate: func(s map[string]string) { delete(s, SlotReportID); s[SlotWhatThisMeans] = "  " },
			want:   []string{"REPORT_ID is required", "WHAT_THIS_MEANS_TEXT is required"},
		},
		{
			name:   "placeholder token",
			mutate: func(s map[string]string) { s["EXTRA"] = "Value: undefined" },
			want:   []string{`EXTRA contains placeholder token "undefined"`},
		},
		{
			name:   "single bullet without cost",
			mutate: func(s map[string]string) { s[SlotExecutiveSummary] = "- Overall risk: 1 urgent item." },
			want:   []string{"needs at least 2 bullets", "does not cover the cost theme"},
		},
		{
			name:   "no risk theme",
			mutate: func(s map[string]string) { s[SlotExecutiveSummary] = "- Kitchen uses most load.\n- CapEx: none." },
			want:   []string{"does not cover the risk theme"},
		},
		{
			name:   "major heading",
			mutate: func(s map[string]string) { s[SlotFindings] += "<h2>Findings</h2>" },
			want:   []string{"must not contain h1 or h2"},
		},
		{
			name:   "unknown profile",
			mutate: func(s map[string]string) { s[SlotProfile] = "landlord" },
			want:   []string{"unknown profile"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			slots := validSlots()
			test.mutate(slots)
			errs := ValidateReport(slots)
			if len(errs) != len(test.want) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(test.want))
			}
			for i, want := range test.want {
				if !strings.Contains(errs[i].Error(), want) {
					t.Fatalf("error %d = %q, want substring %q", i, errs[i], want)
				}
			}
		})
	}
}

func TestEnforceListsEveryRule(t *testing.T) {
	if err := Enforce(validSlots()); err != nil {
		t.Fatalf("Enforce valid: %v", err)
	}
	slots := validSlots()
	slots[SlotExecutiveSummary] = "- {{summary}}"
	err := Enforce(slots)
	var verr *ViolationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ViolationError, got %v", err)
	}
	if verr.ReportID != "R-1" || len(verr.Errors) < 3 {
		t.Fatalf("unexpected violation %+v", verr)
	}
	if !strings.Contains(err.Error(), "placeholder token") {
		t.Fatalf("message should list the token rule: %v", err)
	}
}

func TestValidateReportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	body := "REPORT_ID: R-9\nPROFILE: tenant\nEXECUTIVE_SUMMARY_TEXT: |-\n  - Overall risk: none.\n  - CapEx: no items.\nWHAT_THIS_MEANS_TEXT: Fine.\nFINDING_PAGES_HTML: <p>ok</p>\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write temp report: %v", err)
	}
	report, err := ValidateReportFile(path)
	if err != nil {
		t.Fatalf("validate report file: %v", err)
	}
	if !report.IsValid() || report.ReportID != "R-9" {
		t.Fatalf("valid=%v errors=%v", report.IsValid(), report.Errors)
	}
}

func TestContractRulesAreDescribed(t *testing.T) {
	for _, slot := range RequiredSlots {
		contract, ok := ContractForSlot(slot)
		if !ok || contract.Slot != slot || !contract.Required {
			t.Fatalf("missing contract for %s", slot)
		}
		for _, rule := range contract.Rules {
			if rule.Description == "" || rule.Check == nil {
				t.Fatalf("%s has an incomplete rule %+v", slot, rule)
			}
			if err := rule.Check(validSlots()[slot]); err != nil {
				t.Fatalf("%s rule %q rejects a valid value: %v", slot, rule.Description, err)
			}
		}
	}
}

func TestRuleViolationsNameTheSlot(t *testing.T) {
	slots := validSlots()
	slots[SlotFindings] = "<h1>Report</h1>"
	errs := ValidateReport(slots)
	if len(errs) != 1 || !strings.HasPrefix(errs[0].Error(), SlotFindings+" ") {
		t.Fatalf("unexpected errors %v", errs)
	}
}
