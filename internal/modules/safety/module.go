package safety

import (
	"fmt"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

const (
	moduleID      = "safety"
	moduleVersion = "1.0.0"
)

// Finding identifiers emitted by this module.
const (
	FindingRCDAbsent          = "SAFETY_RCD_ABSENT"
	FindingRCDPartial         = "SAFETY_RCD_PARTIAL"
	FindingMainSwitchOverload = "SAFETY_MAIN_SWITCH_OVERLOAD"
)

// Module reports immediate electrical safety concerns.
type Module struct {
	module.Base
}

// Register installs the safety module.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(New())
}

// New constructs the safety module.
func New() *Module {
	return &Module{Base: module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Electrical Safety",
		Description: "Residual-current protection and overload hazards.",
		Version:     moduleVersion,
	})}
}

// Compute emits RCD and overload findings when the evidence supports them.
func (m *Module) Compute(sig signals.Canonical, profile content.Profile, env module.Env) content.ComputeOutput {
	out := module.NewEmitter(moduleID)
	lc := sig.Lifecycle
	switch lc.RCD {
	case signals.RCDNone:
		out.Finding(content.Finding{
			ID:               FindingRCDAbsent,
			Title:            "No residual current device protection",
			Priority:         content.PriorityUrgent,
			Rationale:        "No RCD (safety switch) protection was recorded on the switchboard.",
			EvidenceRefs:     []string{lc.RCDPath},
			Photos:           sig.PhotosFor("rcd", "switchboard"),
			EvidenceCoverage: signals.ClassifyPath(lc.RCDPath),
		})
		out.Summary("rcd", rcdSummary(profile, "No RCD protection was recorded"), content.PriorityUrgent)
		out.Narrative("rcd", "Without RCD protection an earth fault can persist long enough to cause a fatal electric shock. Installing RCDs is the single most effective safety upgrade for this property.")
		out.Capex("rcd-installation", "Install RCD protection on all final circuits", content.PriorityUrgent, 800, 1500, env.Currency)
	case signals.RCDPartial:
		out.Finding(content.Finding{
			ID:               FindingRCDPartial,
			Title:            "Partial residual current device protection",
			Priority:         content.PriorityRecommended,
			Rationale:        "RCD protection was recorded on some circuits only.",
			EvidenceRefs:     []string{lc.RCDPath},
			Photos:           sig.PhotosFor("rcd", "switchboard"),
			EvidenceCoverage: signals.ClassifyPath(lc.RCDPath),
		})
		out.Summary("rcd", rcdSummary(profile, "RCD protection covers only some circuits"), content.PriorityRecommended)
		out.Narrative("rcd", "Circuits without RCD protection leave occupants exposed to shock from faulty appliances or damaged cabling. Extending protection to every final circuit closes that gap.")
		out.Capex("rcd-installation", "Extend RCD protection to unprotected circuits", content.PriorityRecommended, 400, 900, env.Currency)
	}

	if b := sig.Baseline; b.StressLevel == signals.StressCritical && b.StressRatio != nil {
		out.Finding(content.Finding{
			ID:       FindingMainSwitchOverload,
			Title:    "Main switch operating at or above its rating",
			Priority: content.PriorityUrgent,
			Rationale: fmt.Sprintf("Peak current of %.1f A reached %.0f%% of the %.0f A main switch rating.",
				b.PeakCurrent.Value, *b.StressRatio*100, b.MainSwitchA.Value),
			EvidenceRefs:     []string{b.PeakCurrent.Path, b.MainSwitchA.Path},
			Photos:           sig.PhotosFor("main_switch", "switchboard"),
			EvidenceCoverage: b.CurrentCoverage,
			Score:            content.Float(*b.StressRatio),
		})
		out.Summary("overload", "The main switch is operating at or above its rated capacity, which risks nuisance tripping and overheating.", content.PriorityUrgent)
		out.Narrative("overload", "A main switch running at its limit can overheat its terminals. Load should be reduced or the supply capacity reviewed before further appliances are added.")
	}
	return out.Output()
}

func rcdSummary(profile content.Profile, lead string) string {
	switch profile {
	case content.ProfileTenant:
		return lead + "; ask the property manager to arrange an electrician as a safety priority."
	case content.ProfileInvestor:
		return lead + "; budget for RCD installation as a compliance and liability priority."
	default:
		return lead + "; installing RCDs should be treated as a safety priority."
	}
}
