// Package lifecycle implements the lifecycle module: property age, switchboard
// technology and residual-current protection as indicators of remaining
// service life.
package lifecycle

import (
	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

const (
	moduleID      = "lifecycle"
	moduleVersion = "1.0.0"
)

// Finding identifiers emitted by this module.
const (
	FindingAgeWiringReview    = "PROPERTY_AGE_WIRING_REVIEW"
	FindingSwitchboardEndLife = "SWITCHBOARD_END_OF_LIFE"
)

// Module reports ageing installation components.
type Module struct {
	module.Base
}

// Register installs the lifecycle module.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(New())
}

// New constructs the lifecycle module.
func New() *Module {
	return &Module{Base: module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Installation Lifecycle",
		Description: "Property age, switchboard technology and RCD coverage.",
		Version:     moduleVersion,
	})}
}

type ageRule struct {
	priority  content.Priority
	rationale string
	summary   string
	narrative string
	tbd       bool
}

var ageRules = map[signals.AgeBand]ageRule{
	signals.AgePre1970: {
		priority:  content.PriorityRecommended,
		rationale: "The property was built before 1970, when rubber and early PVC insulated cabling was common.",
		summary:   "Original wiring in a pre-1970 property is likely near the end of its service life and should be assessed.",
		narrative: "Cabling from this era becomes brittle with age. A rewire assessment establishes how much original wiring remains and what replacing it would involve.",
		tbd:       true,
	},
	signals.Age1970_1990: {
		priority:  content.PriorityPlan,
		rationale: "The property was built between 1970 and 1990, so original wiring is now several decades old.",
		summary:   "Wiring dating from 1970 to 1990 should be reviewed when other electrical work is planned.",
		narrative: "Wiring of this age is usually serviceable but was installed to older standards. Reviewing it alongside other upgrades avoids repeat call-outs.",
	},
}

type switchboardRule struct {
	priority  content.Priority
	rationale string
	summary   string
	low       float64
	high      float64
}

var switchboardRules = map[signals.SwitchboardType]switchboardRule{
	signals.SwitchboardRewireable: {
		priority:  content.PriorityRecommended,
		rationale: "The switchboard uses rewireable (ceramic) fuses, which offer limited fault protection and are no longer installed.",
		summary:   "The rewireable-fuse switchboard has reached end of life and should be replaced with circuit breakers.",
		low:       1800,
		high:      3500,
	},
	signals.SwitchboardCartridge: {
		priority:  content.PriorityPlan,
		rationale: "The switchboard uses cartridge fuses, an older technology that offers no residual-current protection.",
		summary:   "The cartridge-fuse switchboard should be scheduled for replacement with modern breakers.",
		low:       1500,
		high:      3000,
	},
}

// Compute emits age and switchboard findings. Nothing is emitted when no
// lifecycle signal classifies.
func (m *Module) Compute(sig signals.Canonical, profile content.Profile, env module.Env) content.ComputeOutput {
	out := module.NewEmitter(moduleID)
	lc := sig.Lifecycle
	if lc.Insufficient || !lc.Classified() {
		return out.Output()
	}

	if rule, ok := ageRules[lc.AgeBand]; ok {
		out.Finding(content.Finding{
			ID:               FindingAgeWiringReview,
			Title:            "Property age wiring review",
			Priority:         rule.priority,
			Rationale:        rule.rationale,
			EvidenceRefs:     []string{lc.AgePath},
			Photos:           sig.PhotosFor("wiring"),
			EvidenceCoverage: signals.ClassifyPath(lc.AgePath),
		})
		out.Summary("age", rule.summary, rule.priority)
		out.Narrative("age", rule.narrative)
		if rule.tbd {
			out.CapexTBD("rewire-assessment", "Rewire assessment of original cabling", rule.priority, env.Currency)
		}
	}

	if rule, ok := switchboardRules[lc.Switchboard]; ok {
		out.Finding(content.Finding{
			ID:               FindingSwitchboardEndLife,
			Title:            "Switchboard at end of service life",
			Priority:         rule.priority,
			Rationale:        rule.rationale,
			EvidenceRefs:     []string{lc.SwitchboardPath},
			Photos:           sig.PhotosFor("switchboard"),
			EvidenceCoverage: signals.ClassifyPath(lc.SwitchboardPath),
		})
		out.Summary("switchboard", rule.summary, rule.priority)
		out.Narrative("switchboard", switchboardNarrative(profile))
		out.Capex("switchboard-replacement", "Replace switchboard with circuit breakers and RCD protection", rule.priority, rule.low, rule.high, env.Currency)
	}

	if lc.RCD == signals.RCDFull {
		out.Narrative("rcd", "Every circuit is protected by an RCD, so shock protection is already at current standard.")
	}
	return out.Output()
}

func switchboardNarrative(profile content.Profile) string {
	switch profile {
	case content.ProfileInvestor:
		return "A switchboard replacement is a predictable capital item. Budgeting for it now avoids an unplanned cost when insurers or future buyers flag it."
	case content.ProfileTenant:
		return "An older switchboard is the landlord's responsibility to replace. Report any scorching, buzzing or frequently blown fuses straight away."
	default:
		return "Replacing an old switchboard is usually combined with adding RCD protection, which addresses both ageing equipment and shock risk in one job."
	}
}
