package content

import (
	"fmt"
	"strings"
)

// Profile names the audience a report is written for.
type Profile string

const (
	ProfileInvestor Profile = "investor"
	ProfileOwner    Profile = "owner"
	ProfileTenant   Profile = "tenant"
)

// Profiles lists every supported profile in a stable order.
var Profiles = []Profile{ProfileInvestor, ProfileOwner, ProfileTenant}

// ParseProfile normalizes a profile name and rejects unknown values.
func ParseProfile(value string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(value)))
	switch p {
	case ProfileInvestor, ProfileOwner, ProfileTenant:
		return p, nil
	case "":
		return "", fmt.Errorf("content: profile is required")
	default:
		return "", fmt.Errorf("content: unknown profile %q", value)
	}
}

// Priority ranks how soon a finding or CapEx item needs attention.
type Priority string

const (
	PriorityUrgent      Priority = "urgent"
	PriorityRecommended Priority = "recommended"
	PriorityPlan        Priority = "plan"
	PriorityUnranked    Priority = ""
)

// Rank orders priorities: urgent < recommended < plan < unranked.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityRecommended:
		return 1
	case PriorityPlan:
		return 2
	default:
		return 3
	}
}

// Label is the human-facing form used in rendered output.
func (p Priority) Label() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityRecommended:
		return "Recommended"
	case PriorityPlan:
		return "Plan"
	default:
		return "For information"
	}
}

// ParsePriority maps free-form values onto the known priorities. Anything
// unrecognised is unranked.
func ParsePriority(value string) Priority {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "urgent", "immediate", "high":
		return PriorityUrgent
	case "recommended", "medium", "soon":
		return PriorityRecommended
	case "plan", "planned", "low", "monitor":
		return PriorityPlan
	default:
		return PriorityUnranked
	}
}

// Coverage classifies how directly a signal was obtained.
type Coverage string

const (
	CoverageMeasured Coverage = "measured"
	CoverageObserved Coverage = "observed"
	CoverageDeclared Coverage = "declared"
	CoverageUnknown  Coverage = "unknown"
)

// Rank returns a larger number for more authoritative coverage.
func (c Coverage) Rank() int {
	switch c {
	case CoverageMeasured:
		return 3
	case CoverageObserved:
		return 2
	case CoverageDeclared:
		return 1
	default:
		return 0
	}
}

// Contribution is one unit of generated content: a summary line, a narrative
// paragraph or a CapEx row. Key is the dedupe handle.
type Contribution struct {
	Key             string   `json:"key"`
	Text            string   `json:"text"`
	RowKey          string   `json:"rowKey,omitempty"`
	AmountLow       *float64 `json:"amountLow,omitempty"`
	AmountHigh      *float64 `json:"amountHigh,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	AmountIsTBD     bool     `json:"amountIsTbd,omitempty"`
	ModuleID        string   `json:"moduleId,omitempty"`
	Importance      Priority `json:"importance,omitempty"`
	AllowDuplicates bool     `json:"allowDuplicates,omitempty"`
	SortKey         string   `json:"sortKey,omitempty"`
	// FindingID names the finding this entry supports, if any.
	FindingID       string   `json:"findingId,omitempty"`
}

// Finding is a single finding block. ID is stable across runs and is what
// profile filtering and telemetry key on.
type Finding struct {
	Key              string   `json:"key"`
	ID               string   `json:"id"`
	ModuleID         string   `json:"moduleId"`
	Title            string   `json:"title"`
	Priority         Priority `json:"priority,omitempty"`
	Rationale        string   `json:"rationale"`
	EvidenceRefs     []string `json:"evidenceRefs"`
	Photos           []string `json:"photos"`
	HTML             string   `json:"html"`
	EvidenceCoverage Coverage `json:"evidenceCoverage,omitempty"`
	Score            *float64 `json:"score,omitempty"`
	SortKey          string   `json:"sortKey,omitempty"`
}

// ComputeOutput is what one module emits for one request.
type ComputeOutput struct {
	ExecutiveSummary []Contribution `json:"executiveSummary"`
	WhatThisMeans    []Contribution `json:"whatThisMeans"`
	CapexRows        []Contribution `json:"capexRows"`
	Findings         []Finding      `json:"findings"`
}

// Empty reports whether the module contributed nothing.
func (o ComputeOutput) Empty() bool {
	return len(o.ExecutiveSummary) == 0 && len(o.WhatThisMeans) == 0 && len(o.CapexRows) == 0 && len(o.Findings) == 0
}

// Sections is the merged shape of a plan.
type Sections struct {
	ExecutiveSummary []Contribution `json:"executiveSummary"`
	WhatThisMeans    []Contribution `json:"whatThisMeans"`
	CapexRows        []Contribution `json:"capexRows"`
	Findings         []Finding      `json:"findings"`
}

// HasFinding reports whether a finding with the given id is present.
func (s Sections) HasFinding(id string) bool {
	for _, f := range s.Findings {
		if f.ID == id {
			return true
		}
	}
	return false
}

// FindingIDs returns finding identifiers in list order.
func (s Sections) FindingIDs() []string {
	ids := make([]string, 0, len(s.Findings))
	for _, f := range s.Findings {
		ids = append(ids, f.ID)
	}
	return ids
}

// FindingMeta is configuration-supplied copy for a finding id.
type FindingMeta struct {
	ID                string   `json:"id" yaml:"id"`
	Title             string   `json:"title,omitempty" yaml:"title,omitempty"`
	WhyItMatters      string   `json:"why_it_matters,omitempty" yaml:"why_it_matters,omitempty"`
	RecommendedAction string   `json:"recommended_action,omitempty" yaml:"recommended_action,omitempty"`
	LegacyPriority    Priority `json:"legacy_priority,omitempty" yaml:"legacy_priority,omitempty"`
}

// MetadataSource resolves finding metadata. Implementations must be safe for
// concurrent use.
type MetadataSource interface {
	FindingMeta(id string) (FindingMeta, bool)
}

// MetadataFunc adapts a function into a MetadataSource.
type MetadataFunc func(id string) (FindingMeta, bool)

// FindingMeta calls f(id).
func (f MetadataFunc) FindingMeta(id string) (FindingMeta, bool) {
	if f == nil {
		return FindingMeta{}, false
	}
	return f(id)
}
