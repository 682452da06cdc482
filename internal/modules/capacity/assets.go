package capacity

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

func assetNames(a signals.Assets) []string {
	var names []string
	if a.Solar != nil && *a.Solar {
		names = append(names, "solar PV")
	}
	if a.Battery != nil && *a.Battery {
		names = append(names, "home battery")
	}
	if a.EV != nil && *a.EV {
		names = append(names, "EV charging")
	}
	return names
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func computeAssets(out *module.Emitter, sig signals.Canonical, profile content.Profile, env module.Env) {
	a := sig.Assets
	stress := sig.Baseline.StressLevel
	names := assetNames(a)

	if profile == content.ProfileOwner && len(names) > 0 {
		out.Finding(content.Finding{
			ID:               FindingAssetOverview,
			Title:            "Distributed energy assets on site",
			Rationale:        "Recorded assets: " + joinNames(names) + ".",
			EvidenceRefs:     append([]string(nil), a.Sources...),
			Photos:           sig.PhotosFor("assets"),
			EvidenceCoverage: a.Coverage,
			SortKey:          "zz-overview",
		})
		out.Narrative("der-overview", "Your "+joinNames(names)+" change how and when the property draws from the grid, so load readings should be interpreted alongside generation and storage.")
	}

	if stress.Elevated() && !a.EVExplicitlyAbsent() {
		refs := []string{sig.Baseline.PeakCurrent.Path}
		refs = append(refs, a.Sources...)
		out.Finding(content.Finding{
			ID:               FindingEVReadiness,
			Title:            "EV charger readiness",
			Priority:         content.PriorityRecommended,
			Rationale:        "Measured demand is " + string(stress) + " relative to the main switch, so an EV charger would need load management or a supply upgrade.",
			EvidenceRefs:     refs,
			Photos:           sig.PhotosFor("assets", "main_switch"),
			EvidenceCoverage: signals.Best(sig.Baseline.CurrentCoverage, a.Coverage),
		})
		out.Summary("ev-readiness", "An EV charger cannot be added safely without dynamic load management or a supply upgrade.", content.PriorityRecommended)
		out.CapexTBD("ev-load-management", "EV charger with dynamic load management", content.PriorityRecommended, env.Currency)
	}

	multiAsset := a.Count() >= 2 && sig.Circuits.Coverage != content.CoverageMeasured
	if stress.Elevated() || multiAsset {
		rationale := "Demand is close to the supply rating, so continuous monitoring would show when and why peaks occur."
		if !stress.Elevated() {
			rationale = "Several energy assets interact on this supply but circuit loads were not measured, so monitoring would replace estimates with data."
		}
		refs := append([]string(nil), sig.Baseline.Sources...)
		refs = append(refs, a.Sources...)
		out.Finding(content.Finding{
			ID:               FindingMonitoringJustified,
			Title:            "Load monitoring recommended",
			Priority:         content.PriorityPlan,
			Rationale:        rationale,
			EvidenceRefs:     refs,
			EvidenceCoverage: signals.Best(sig.Baseline.Coverage, a.Coverage),
		})
		out.Support(FindingMonitoringJustified, func() {
			out.Narrative("monitoring", "A circuit-level energy monitor turns a single stress test into an ongoing picture of demand, which is the basis for sizing upgrades correctly.")
			out.Capex("load-monitoring", "Circuit-level energy monitoring", content.PriorityPlan, 300, 600, env.Currency)
		})
	}
}
