// Package energy implements the enhanced energy module: circuit contribution
// ranking and monthly cost estimation.
package energy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

const (
	moduleID      = "energy"
	moduleVersion = "1.0.0"

	maxListedContributors = 3
)

// Finding identifiers emitted by this module.
const (
	FindingCircuitBreakdown = "CIRCUIT_CONTRIBUTION_BREAKDOWN"
	FindingCostBand         = "ESTIMATED_COST_BAND"
	FindingHighDraw         = "UNKNOWN_HIGH_DRAW_INVESTIGATION"
)

// Module estimates where energy goes and what it costs.
type Module struct {
	module.Base
}

// Register installs the energy module.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(New())
}

// New constructs the energy module.
func New() *Module {
	return &Module{Base: module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Energy Insights",
		Description: "Circuit contribution ranking and monthly cost band.",
		Version:     moduleVersion,
	})}
}

// Applies excludes the investor profile unless energy was asked for by name.
func (m *Module) Applies(sel module.Selection) bool {
	if sel.Profile == content.ProfileInvestor {
		return sel.ExplicitlyRequested(moduleID)
	}
	return true
}

// Active reports whether the circuits bundle carries enough evidence for the
// engine to run. The high-draw flag on its own only yields the high-draw
// finding; breakdown and cost band need enhanced circuit data.
func Active(c signals.Circuits) bool {
	return c.Enhanced() || c.HighDraw
}

// Contributor is one circuit's estimated share of load.
type Contributor struct {
	Label string
	KW    float64
	Share float64
}

// RankContributors orders circuits by estimated kW descending, ties by label.
func RankContributors(circuits []signals.Circuit, nominalVoltage float64) []Contributor {
	out := make([]Contributor, 0, len(circuits))
	total := 0.0
	for _, c := range circuits {
		kw := c.CurrentA * nominalVoltage / 1000
		total += kw
		out = append(out, Contributor{Label: c.Label, KW: kw})
	}
	if total > 0 {
		for i := range out {
			out[i].Share = out[i].KW / total
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].KW != out[j].KW {
			return out[i].KW > out[j].KW
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// CostBand is a monthly cost estimate range.
type CostBand struct {
	PeakKW       float64
	TariffCents  float64
	TariffSource signals.TariffSource
	Low          float64
	High         float64
}

// EstimateCostBand derives a monthly cost range from peak load, the two
// utilisation factors and the resolved tariff. It reports false unless the
// circuit data is enhanced.
func EstimateCostBand(sig signals.Canonical, env module.Env) (CostBand, bool) {
	if !sig.Circuits.Enhanced() {
		return CostBand{}, false
	}
	peak := 0.0
	if sig.Baseline.EstimatedKW != nil {
		peak = *sig.Baseline.EstimatedKW
	} else {
		for _, c := range RankContributors(sig.Circuits.Items, env.NominalVoltage) {
			peak += c.KW
		}
	}
	if peak <= 0 {
		return CostBand{}, false
	}
	cents, source := sig.Circuits.ResolveTariff(env.DefaultTariffCents)
	if cents <= 0 {
		return CostBand{}, false
	}
	monthly := func(factor float64) float64 {
		return content.RoundTo(peak*factor*env.HoursPerMonth*cents/100, 10)
	}
	return CostBand{
		PeakKW:       peak,
		TariffCents:  cents,
		TariffSource: source,
		Low:          monthly(env.UtilizationLow),
		High:         monthly(env.UtilizationHigh),
	}, true
}

// Compute emits contribution, cost and high-draw findings.
func (m *Module) Compute(sig signals.Canonical, profile content.Profile, env module.Env) content.ComputeOutput {
	out := module.NewEmitter(moduleID)
	c := sig.Circuits
	if c.Insufficient || !Active(c) {
		return out.Output()
	}

	if c.Enhanced() && len(c.Items) > 0 {
		ranked := RankContributors(c.Items, env.NominalVoltage)
		listed := ranked
		if len(listed) > maxListedContributors {
			listed = listed[:maxListedContributors]
		}
		parts := make([]string, 0, len(listed))
		for _, r := range listed {
			parts = append(parts, fmt.Sprintf("%s %.0f%% (%.1f kW)", r.Label, r.Share*100, r.KW))
		}
		out.Finding(content.Finding{
			ID:               FindingCircuitBreakdown,
			Title:            "Circuit contribution breakdown",
			Priority:         content.PriorityPlan,
			Rationale:        "Largest estimated contributors: " + strings.Join(parts, ", ") + ".",
			EvidenceRefs:     []string{c.Path},
			Photos:           sig.PhotosFor("circuits"),
			EvidenceCoverage: c.Coverage,
		})
		top := ranked[0]
		out.Support(FindingCircuitBreakdown, func() {
			out.Summary("top-circuit", fmt.Sprintf("The %s circuit accounts for about %.0f%% of estimated load.", top.Label, top.Share*100), content.PriorityPlan)
			out.Narrative("breakdown", "Knowing which circuits dominate demand shows where efficiency upgrades or changes in usage will have the biggest effect.")
		})
	}

	if band, ok := EstimateCostBand(sig, env); ok {
		source := "supplied"
		if band.TariffSource == signals.TariffDefault {
			source = "default"
		}
		refs := append([]string(nil), sig.Baseline.Sources...)
		if c.Path != "" {
			refs = append(refs, c.Path)
		}
		if c.TariffCents != nil {
			refs = append(refs, c.TariffCents.Path)
		}
		out.Finding(content.Finding{
			ID:       FindingCostBand,
			Title:    "Estimated monthly energy cost band",
			Priority: content.PriorityPlan,
			Rationale: fmt.Sprintf("At %.1f kW peak load and a %s tariff of %.1f c/kWh, monthly cost is estimated between %s.",
				band.PeakKW, source, band.TariffCents, content.FormatBand(band.Low, band.High, env.Currency)),
			EvidenceRefs:     refs,
			EvidenceCoverage: signals.Best(sig.Baseline.CurrentCoverage, c.Coverage),
		})
		out.Support(FindingCostBand, func() {
			out.Summary("cost-band", fmt.Sprintf("Estimated monthly energy cost: %s (%s tariff).", content.FormatBand(band.Low, band.High, env.Currency), source), content.PriorityPlan)
			out.Narrative("cost-band", costNarrative(profile))
		})
	}

	if c.HighDraw {
		out.Finding(content.Finding{
			ID:               FindingHighDraw,
			Title:            "Unexplained high electrical draw",
			Priority:         content.PriorityRecommended,
			Rationale:        "The inspection recorded a high draw that could not be attributed to a known appliance.",
			EvidenceRefs:     []string{c.HighDrawPath},
			Photos:           sig.PhotosFor("circuits"),
			EvidenceCoverage: signals.ClassifyPath(c.HighDrawPath),
		})
		out.Summary("high-draw", "An unexplained high draw was recorded and should be traced to its source.", content.PriorityRecommended)
		out.Capex("high-draw-investigation", "Trace and resolve unexplained high draw", content.PriorityRecommended, 250, 500, env.Currency)
	}
	return out.Output()
}

func costNarrative(profile content.Profile) string {
	switch profile {
	case content.ProfileTenant:
		return "The cost band is a guide to what running the home is likely to cost each month, not a bill forecast."
	default:
		return "The cost band combines measured peak demand with typical utilisation, so it indicates scale rather than predicting a bill."
	}
}
