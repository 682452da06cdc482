package capacity

import (
	"fmt"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

func stressPriority(level signals.StressLevel) content.Priority {
	switch level {
	case signals.StressCritical:
		return content.PriorityUrgent
	case signals.StressHigh:
		return content.PriorityRecommended
	default:
		return content.PriorityPlan
	}
}

var stressNarrative = map[signals.StressLevel]string{
	signals.StressLow:      "Measured demand sits comfortably within the supply rating, leaving headroom for additional appliances.",
	signals.StressModerate: "Measured demand uses a meaningful share of the supply rating. Large new loads such as an EV charger or heat pump should be assessed before installation.",
	signals.StressHigh:     "Measured demand is close to the supply rating. Adding major loads without load management is likely to trip the main switch.",
	signals.StressCritical: "Measured demand meets or exceeds the supply rating. The installation has no spare capacity until load is reduced or the supply is upgraded.",
}

func computeBaseline(out *module.Emitter, sig signals.Canonical, env module.Env) {
	b := sig.Baseline
	if b.Insufficient || b.StressLevel == signals.StressUnknown || b.StressRatio == nil {
		return
	}
	ratio := *b.StressRatio
	priority := stressPriority(b.StressLevel)
	refs := []string{b.PeakCurrent.Path, b.MainSwitchA.Path}
	if b.Voltage != nil {
		refs = append(refs, b.Voltage.Path)
	}
	out.Finding(content.Finding{
		ID:       FindingLoadStress,
		Title:    "Load stress test result",
		Priority: priority,
		Rationale: fmt.Sprintf("Peak current of %.1f A against a %.0f A main switch gives a stress ratio of %.2f (%s).",
			b.PeakCurrent.Value, b.MainSwitchA.Value, ratio, b.StressLevel),
		EvidenceRefs:     refs,
		Photos:           sig.PhotosFor("main_switch", "stress_test"),
		EvidenceCoverage: b.CurrentCoverage,
		Score:            content.Float(ratio),
	})
	out.Summary("load-stress", fmt.Sprintf("Peak load reached %.0f%% of the main switch rating (%s stress).", ratio*100, b.StressLevel), priority)
	out.Narrative("load-stress", stressNarrative[b.StressLevel])
	if b.StressLevel.Elevated() {
		out.Capex("main-switch-upgrade", "Main switch and consumer mains capacity upgrade", priority, 1200, 2500, env.Currency)
	}
}
