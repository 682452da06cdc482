// Package profile holds the audience-specific presentation rules: module rank
// tables, default module sets, hidden findings and the owner weight table.
package profile

import (
	"sort"

	"github.com/kingrea/report-engine/internal/content"
)

var rankTables = map[content.Profile][]string{
	content.ProfileInvestor: {"capacity", "safety", "lifecycle", "energy"},
	content.ProfileOwner:    {"energy", "capacity", "safety", "lifecycle"},
	content.ProfileTenant:   {"safety", "lifecycle", "capacity", "energy"},
}

var defaultModules = map[content.Profile][]string{
	content.ProfileInvestor: {"safety", "capacity", "lifecycle"},
	content.ProfileOwner:    {"safety", "capacity", "energy", "lifecycle"},
	content.ProfileTenant:   {"safety", "capacity", "energy", "lifecycle"},
}

// Internal-only signals an investor report never shows.
var hidden = map[content.Profile]map[string]struct{}{
	content.ProfileInvestor: {
		"CIRCUIT_CONTRIBUTION_BREAKDOWN": {},
		"ESTIMATED_COST_BAND":            {},
		"LOAD_MONITORING_JUSTIFICATION":  {},
	},
}

// Lower weights sort first among owner findings that share module rank and
// priority.
var ownerWeights = map[string]int{
	"ESTIMATED_COST_BAND":             10,
	"CIRCUIT_CONTRIBUTION_BREAKDOWN":  20,
	"UNKNOWN_HIGH_DRAW_INVESTIGATION": 30,
	"LOAD_STRESS_TEST_RESULT":         10,
	"EV_CHARGER_READINESS":            20,
	"LOAD_MONITORING_JUSTIFICATION":   30,
	"DER_ASSET_OVERVIEW":              40,
	"SAFETY_MAIN_SWITCH_OVERLOAD":     10,
	"SAFETY_RCD_ABSENT":               20,
	"SAFETY_RCD_PARTIAL":              30,
	"SWITCHBOARD_END_OF_LIFE":         10,
	"PROPERTY_AGE_WIRING_REVIEW":      20,
}

const unweighted = 100

// RankTable returns the module order for p. Unknown profiles get nil.
func RankTable(p content.Profile) []string {
	return append([]string(nil), rankTables[p]...)
}

// ModuleRank is the position of moduleID in p's rank table. Modules missing
// from the table rank after every listed module.
func ModuleRank(p content.Profile, moduleID string) int {
	table := rankTables[p]
	for i, id := range table {
		if id == moduleID {
			return i
		}
	}
	return len(table)
}

// DefaultModules is the module set used when a request names none.
func DefaultModules(p content.Profile) []string {
	return append([]string(nil), defaultModules[p]...)
}

// Hidden reports whether findingID is suppressed for p.
func Hidden(p content.Profile, findingID string) bool {
	_, ok := hidden[p][findingID]
	return ok
}

// Weight is the owner tie-break weight for findingID.
func Weight(findingID string) int {
	if w, ok := ownerWeights[findingID]; ok {
		return w
	}
	return unweighted
}

// Result is the outcome of rendering merged findings for a profile.
type Result struct {
	Findings []content.Finding
	Hidden   []string
}

// Render removes hidden findings and, for the owner profile, re-sorts each
// group of equal module rank and priority by weight. The input order is
// otherwise preserved.
func Render(p content.Profile, findings []content.Finding) Result {
	res := Result{Findings: make([]content.Finding, 0, len(findings))}
	for _, f := range findings {
		if Hidden(p, f.ID) {
			res.Hidden = append(res.Hidden, f.ID)
			continue
		}
		res.Findings = append(res.Findings, f)
	}
	if p == content.ProfileOwner {
		applyWeights(p, res.Findings)
	}
	return res
}

// Withhold drops contributions that support a finding hidden for p and
// returns the remaining entries plus the keys it removed.
func Withhold(p content.Profile, items []content.Contribution) (kept []content.Contribution, withheld []string) {
	kept = make([]content.Contribution, 0, len(items))
	for _, c := range items {
		if c.FindingID != "" && Hidden(p, c.FindingID) {
			withheld = append(withheld, c.Key)
			continue
		}
		kept = append(kept, c)
	}
	return kept, withheld
}

// applyWeights sorts each contiguous run of findings sharing module rank and
// priority by weight.
func applyWeights(p content.Profile, findings []content.Finding) {
	for start := 0; start < len(findings); {
		end := start + 1
		for end < len(findings) && sameGroup(p, findings[start], findings[end]) {
			end++
		}
		group := findings[start:end]
		sort.SliceStable(group, func(i, j int) bool {
			return Weight(group[i].ID) < Weight(group[j].ID)
		})
		start = end
	}
}

func sameGroup(p content.Profile, a, b content.Finding) bool {
	return ModuleRank(p, a.ModuleID) == ModuleRank(p, b.ModuleID) && a.Priority.Rank() == b.Priority.Rank()
}
