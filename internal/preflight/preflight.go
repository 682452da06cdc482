// Package preflight scores data completeness for a plan and flags internal
// contradictions between the canonical signals and the emitted findings.
package preflight

import (
	"fmt"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/signals"
)

// Warning codes.
const (
	CodeBaselineInsufficient    = "BASELINE_INSUFFICIENT"
	CodeMainSwitchRatingMissing = "MAIN_SWITCH_RATING_MISSING"
	CodeEnhancedInsufficient    = "ENHANCED_INSUFFICIENT"
	CodeTariffDefaultUsed       = "TARIFF_DEFAULT_USED"
	CodeAssetsCoverageUnknown   = "ASSETS_COVERAGE_UNKNOWN"
	CodeLifecycleUnclassified   = "LIFECYCLE_UNCLASSIFIED"
	CodeCostBandWithoutEnhanced = "CONTRADICTION_COST_BAND_WITHOUT_ENHANCED"
	CodeStressWithoutBaseline   = "CONTRADICTION_STRESS_WITHOUT_BASELINE"
)

// Subscription-lead reason codes.
const (
	LeadEVReadiness     = "EV_READINESS"
	LeadLoadMonitoring  = "LOAD_MONITORING"
	LeadHighStress      = "HIGH_STRESS"
	LeadEnhancedDataGap = "ENHANCED_DATA_GAP"
)

// Finding ids the cross-checks key on.
const (
	findingCostBand    = "ESTIMATED_COST_BAND"
	findingLoadStress  = "LOAD_STRESS_TEST_RESULT"
	findingEVReadiness = "EV_CHARGER_READINESS"
	findingMonitoring  = "LOAD_MONITORING_JUSTIFICATION"
)

// Severity buckets a preflight result.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Warning is one completeness or consistency problem.
type Warning struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Flags are the raw booleans behind the warnings.
type Flags struct {
	BaselineInsufficient  bool `json:"baselineInsufficient"`
	MainSwitchMissing     bool `json:"mainSwitchMissing"`
	EnhancedInsufficient  bool `json:"enhancedInsufficient"`
	TariffDefaultUsed     bool `json:"tariffDefaultUsed"`
	AssetsCoverageUnknown bool `json:"assetsCoverageUnknown"`
	LifecycleUnclassified bool `json:"lifecycleUnclassified"`
	Contradiction         bool `json:"contradiction"`
}

// Coverage is the evidence class of each signal bundle.
type Coverage struct {
	Baseline  content.Coverage `json:"baseline"`
	Circuits  content.Coverage `json:"circuits"`
	Assets    content.Coverage `json:"assets"`
	Lifecycle content.Coverage `json:"lifecycle"`
}

// Summary aggregates the warnings for downstream routing.
type Summary struct {
	WarningCounts       map[string]int      `json:"warningCounts"`
	Severity            Severity            `json:"severity"`
	Coverage            Coverage            `json:"coverage"`
	StressLevel         signals.StressLevel `json:"stressLevel"`
	TariffSource        string              `json:"tariffSource,omitempty"`
	SubscriptionLead    bool                `json:"subscriptionLead"`
	SubscriptionReasons []string            `json:"subscriptionReasons"`
}

// Result is the full preflight outcome.
type Result struct {
	Warnings []Warning `json:"warnings"`
	Flags    Flags     `json:"flags"`
	Summary  Summary   `json:"summary"`
}

// HasWarning reports whether code was raised.
func (r Result) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Input is everything preflight inspects. Modules is the list of modules
// that actually ran; Merged is the plan before profile rendering so hidden
// findings still count.
type Input struct {
	Modules []string
	Signals signals.Canonical
	Merged  content.Sections
}

func (in Input) active(id string) bool {
	for _, m := range in.Modules {
		if m == id {
			return true
		}
	}
	return false
}

// Run computes warnings, flags and the summary. It never fails.
func Run(in Input) Result {
	var (
		res      Result
		sig      = in.Signals
		b        = sig.Baseline
		circuits = sig.Circuits
	)
	warn := func(code, message string, meta map[string]string) {
		res.Warnings = append(res.Warnings, Warning{Code: code, Message: message, Meta: meta})
	}

	baselineRelevant := in.active("capacity") || in.active("safety")
	res.Flags.BaselineInsufficient = b.Voltage == nil || !b.HasCurrent()
	if baselineRelevant && res.Flags.BaselineInsufficient {
		warn(CodeBaselineInsufficient, "Supply voltage or a current reading is missing, so load stress cannot be fully assessed.", nil)
	}
	res.Flags.MainSwitchMissing = b.HasCurrent() && b.MainSwitchA == nil
	if baselineRelevant && res.Flags.MainSwitchMissing {
		warn(CodeMainSwitchRatingMissing, "A current reading was captured but the main switch rating was not recorded.", nil)
	}

	energy := in.active("energy")
	hasTariff := circuits.HasTariff()
	res.Flags.EnhancedInsufficient = !circuits.Enhanced()
	if energy && res.Flags.EnhancedInsufficient {
		warn(CodeEnhancedInsufficient, "Fewer than two circuit readings and no tariff were supplied.",
			map[string]string{"circuits": fmt.Sprint(len(circuits.Items))})
	}
	if energy && !hasTariff && !res.Flags.EnhancedInsufficient {
		res.Flags.TariffDefaultUsed = true
		res.Summary.TariffSource = string(signals.TariffDefault)
		warn(CodeTariffDefaultUsed, "No tariff was supplied; cost estimates use the default tariff.", nil)
	} else if energy && hasTariff {
		res.Summary.TariffSource = string(signals.TariffInput)
	}

	res.Flags.AssetsCoverageUnknown = sig.Assets.Coverage == content.CoverageUnknown
	if in.active("capacity") && res.Flags.AssetsCoverageUnknown {
		warn(CodeAssetsCoverageUnknown, "Solar, battery and EV presence were not recorded.", nil)
	}

	res.Flags.LifecycleUnclassified = !sig.Lifecycle.Classified()
	if in.active("lifecycle") && res.Flags.LifecycleUnclassified {
		warn(CodeLifecycleUnclassified, "Property age, switchboard type and RCD coverage could not be classified.", nil)
	}

	if in.Merged.HasFinding(findingCostBand) && res.Flags.EnhancedInsufficient {
		res.Flags.Contradiction = true
		warn(CodeCostBandWithoutEnhanced, "A cost band was produced although enhanced circuit data is insufficient.",
			map[string]string{"findingId": findingCostBand})
	}
	if in.Merged.HasFinding(findingLoadStress) && res.Flags.BaselineInsufficient {
		res.Flags.Contradiction = true
		warn(CodeStressWithoutBaseline, "A load stress result was produced although baseline data is insufficient.",
			map[string]string{"findingId": findingLoadStress})
	}

	res.Summary.WarningCounts = map[string]int{}
	for _, w := range res.Warnings {
		res.Summary.WarningCounts[w.Code]++
	}
	if res.Warnings == nil {
		res.Warnings = []Warning{}
	}
	res.Summary.Severity = Classify(res.Warnings)
	res.Summary.Coverage = Coverage{
		Baseline:  b.Coverage,
		Circuits:  circuits.Coverage,
		Assets:    sig.Assets.Coverage,
		Lifecycle: sig.Lifecycle.Coverage,
	}
	res.Summary.StressLevel = b.StressLevel
	res.Summary.SubscriptionReasons = leadReasons(in, res)
	res.Summary.SubscriptionLead = len(res.Summary.SubscriptionReasons) > 0 && res.Summary.Severity != SeverityHigh
	return res
}

// Classify applies the severity precedence: contradictions are high,
// insufficient baseline is medium, any other warning is low.
func Classify(warnings []Warning) Severity {
	severity := SeverityNone
	for _, w := range warnings {
		switch w.Code {
		case CodeCostBandWithoutEnhanced, CodeStressWithoutBaseline:
			return SeverityHigh
		case CodeBaselineInsufficient:
			severity = SeverityMedium
		default:
			if severity == SeverityNone {
				severity = SeverityLow
			}
		}
	}
	return severity
}

func leadReasons(in Input, res Result) []string {
	reasons := []string{}
	if in.Merged.HasFinding(findingEVReadiness) {
		reasons = append(reasons, LeadEVReadiness)
	}
	if in.Merged.HasFinding(findingMonitoring) {
		reasons = append(reasons, LeadLoadMonitoring)
	}
	if in.Signals.Baseline.StressLevel.Elevated() {
		reasons = append(reasons, LeadHighStress)
	}
	if in.active("energy") && res.Flags.EnhancedInsufficient {
		reasons = append(reasons, LeadEnhancedDataGap)
	}
	return reasons
}
