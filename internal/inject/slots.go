// Package inject decides, slot by slot, whether merged plan content replaces
// the legacy template value, and records why.
package inject

// Managed slot names.
const (
	SlotExecutiveSummary = "EXECUTIVE_SUMMARY_TEXT"
	SlotWhatThisMeans    = "WHAT_THIS_MEANS_TEXT"
	SlotCapexRows        = "CAPEX_TABLE_ROWS"
	SlotCapexSnapshot    = "CAPEX_SNAPSHOT"
	SlotFindings         = "FINDING_PAGES_HTML"
)

// ManagedSlots lists every slot the resolver decides, in a stable order.
var ManagedSlots = []string{
	SlotExecutiveSummary,
	SlotWhatThisMeans,
	SlotCapexRows,
	SlotCapexSnapshot,
	SlotFindings,
}

// Source is where a slot's final value came from.
type Source string

const (
	SourceLegacy Source = "legacy"
	SourceMerged Source = "merged"
)

// Reason codes.
const (
	ReasonInjected          = "INJECTED"
	ReasonFlagDisabled      = "FLAG_DISABLED"
	ReasonNoExplicitModules = "NO_EXPLICIT_MODULES"
	ReasonMergedEmpty       = "MERGED_EMPTY"
	ReasonValidationPrefix  = "VALIDATION_FAILED:"
)

// SlotSource is the audit entry for one slot.
type SlotSource struct {
	Source Source `json:"source"`
	Reason string `json:"reason"`
}

// SlotSourceMap has exactly one entry per managed slot.
type SlotSourceMap map[string]SlotSource

// Merged lists slots that took merged content, in ManagedSlots order.
func (m SlotSourceMap) Merged() []string {
	var out []string
	for _, slot := range ManagedSlots {
		if m[slot].Source == SourceMerged {
			out = append(out, slot)
		}
	}
	return out
}

// FallbackReasons lists the reason of every legacy slot, in ManagedSlots
// order.
func (m SlotSourceMap) FallbackReasons() []string {
	var out []string
	for _, slot := range ManagedSlots {
		if entry, ok := m[slot]; ok && entry.Source == SourceLegacy {
			out = append(out, entry.Reason)
		}
	}
	return out
}

// Flags enable injection per slot group. Capex covers both CapEx slots.
type Flags struct {
	ExecutiveSummary bool `json:"executive_summary" yaml:"executive_summary"`
	WhatThisMeans    bool `json:"what_this_means" yaml:"what_this_means"`
	Capex            bool `json:"capex" yaml:"capex"`
	Findings         bool `json:"findings" yaml:"findings"`
}

// AllFlags enables every group.
func AllFlags() Flags {
	return Flags{ExecutiveSummary: true, WhatThisMeans: true, Capex: true, Findings: true}
}

// Injection modes reported in telemetry.
const (
	ModeOff     = "off"
	ModePartial = "partial"
	ModeFull    = "full"
)

// Mode summarizes the flag set.
func (f Flags) Mode() string {
	on := 0
	for _, v := range []bool{f.ExecutiveSummary, f.WhatThisMeans, f.Capex, f.Findings} {
		if v {
			on++
		}
	}
	switch on {
	case 0:
		return ModeOff
	case 4:
		return ModeFull
	default:
		return ModePartial
	}
}
