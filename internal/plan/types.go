package plan

import (
	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/merge"
	"github.com/kingrea/report-engine/internal/preflight"
	"github.com/kingrea/report-engine/internal/priority"
)

// Options tune merge clipping and CapEx presentation.
type Options struct {
	NarrativeDensity content.Density    `json:"narrativeDensity,omitempty" yaml:"narrative_density,omitempty"`
	BudgetBias       content.BudgetBias `json:"budgetBias,omitempty" yaml:"budget_bias,omitempty"`
}

func (o Options) normalized() Options {
	return Options{
		NarrativeDensity: content.ParseDensity(string(o.NarrativeDensity)),
		BudgetBias:       content.ParseBudgetBias(string(o.BudgetBias)),
	}
}

// Override is a manual priority decision for one finding id.
type Override struct {
	FindingID     string           `json:"findingId" yaml:"finding_id"`
	Final         content.Priority `json:"final,omitempty" yaml:"final,omitempty"`
	Selected      content.Priority `json:"selected,omitempty" yaml:"selected,omitempty"`
	Justification string           `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// Request describes one report to plan.
type Request struct {
	Profile           string     `json:"profile" yaml:"profile"`
	Modules           []string   `json:"modules,omitempty" yaml:"modules,omitempty"`
	Options           Options    `json:"options" yaml:"options"`
	PriorityOverrides []Override `json:"priorityOverrides,omitempty" yaml:"priority_overrides,omitempty"`
}

// Skip records a module that was selected but did not run.
type Skip struct {
	ModuleID string `json:"moduleId"`
	Reason   string `json:"reason"`
}

// Skip reasons.
const (
	SkipUnregistered  = "UNREGISTERED"
	SkipNotApplicable = "NOT_APPLICABLE"
)

// Debug carries audit detail that never feeds back into content.
type Debug struct {
	Preflight          *preflight.Result          `json:"preflight,omitempty"`
	Dropped            []merge.Drop               `json:"dropped"`
	Hidden             []string                   `json:"hidden"`
	Withheld           []string                   `json:"withheld"`
	Skipped            []Skip                     `json:"skipped"`
	PrioritySources    map[string]priority.Source `json:"prioritySources"`
	TruncatedFindings  int                        `json:"truncatedFindings"`
	TruncatedNarrative int                        `json:"truncatedNarrative"`
}

// Plan is the per-request report plan. Raw lists hold every module
// contribution before merge; Merged holds the final ordered content.
type Plan struct {
	Profile            content.Profile        `json:"profile"`
	Modules            []string               `json:"modules"`
	HasExplicitModules bool                   `json:"hasExplicitModules"`
	Options            Options                `json:"options"`
	InspectionID       string                 `json:"inspectionId,omitempty"`
	SummaryFocus       []content.Contribution `json:"summaryFocus"`
	WhatThisMeansFocus []content.Contribution `json:"whatThisMeansFocus"`
	CapexRows          []content.Contribution `json:"capexRows"`
	FindingsBlocks     []content.Finding      `json:"findingsBlocks"`
	Merged             content.Sections       `json:"merged"`
	Debug              Debug                  `json:"debug"`
}

// Metrics are the merged-plan counts reported through telemetry.
type Metrics struct {
	ExecutiveSummary int `json:"executiveSummary"`
	WhatThisMeans    int `json:"whatThisMeans"`
	CapexRows        int `json:"capexRows"`
	Findings         int `json:"findings"`
	Dropped          int `json:"dropped"`
	Hidden           int `json:"hidden"`
	Truncated        int `json:"truncated"`
}

// Metrics counts the merged sections.
func (p *Plan) Metrics() Metrics {
	return Metrics{
		ExecutiveSummary: len(p.Merged.ExecutiveSummary),
		WhatThisMeans:    len(p.Merged.WhatThisMeans),
		CapexRows:        len(p.Merged.CapexRows),
		Findings:         len(p.Merged.Findings),
		Dropped:          len(p.Debug.Dropped),
		Hidden:           len(p.Debug.Hidden),
		Truncated:        p.Debug.TruncatedFindings + p.Debug.TruncatedNarrative,
	}
}
