// Package merge combines per-module contributions into one deduplicated,
// ordered plan.
package merge

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// Drop reasons recorded for sanitized contributions.
const (
	ReasonForbiddenToken = "FORBIDDEN_TOKEN"
	ReasonReservedMarker = "RESERVED_MARKER"
	ReasonInvalidRowKey  = "INVALID_ROW_KEY"
	ReasonEmpty          = "EMPTY"
)

// Section names used in drop records.
const (
	SectionExecutiveSummary = "executiveSummary"
	SectionWhatThisMeans    = "whatThisMeans"
	SectionCapexRows        = "capexRows"
	SectionFindings         = "findings"
)

// Drop records one contribution removed before merge.
type Drop struct {
	Section  string `json:"section"`
	ModuleID string `json:"moduleId,omitempty"`
	Key      string `json:"key"`
	Reason   string `json:"reason"`
	Token    string `json:"token,omitempty"`
}

// Options selects the profile ordering and clipping caps.
type Options struct {
	Profile content.Profile
	Density content.Density
}

// Result is the merged plan plus audit detail.
type Result struct {
	Sections           content.Sections
	Dropped            []Drop
	TruncatedFindings  int
	TruncatedNarrative int
}

// Merge deduplicates and orders raw contributions. raw lists must already be
// in module-then-emission order. The output depends only on its inputs.
func Merge(raw content.ComputeOutput, opts Options) Result {
	density := opts.Density
	if density == "" {
		density = content.DensityStandard
	}
	var res Result

	res.Sections.ExecutiveSummary = dedupeText(sanitizeText(SectionExecutiveSummary, raw.ExecutiveSummary, &res.Dropped))

	narrative := dedupeText(sanitizeText(SectionWhatThisMeans, raw.WhatThisMeans, &res.Dropped))
	if limit := density.NarrativeCap(); len(narrative) > limit {
		res.TruncatedNarrative = len(narrative) - limit
		narrative = narrative[:limit]
	}
	res.Sections.WhatThisMeans = narrative

	res.Sections.CapexRows = mergeCapex(opts.Profile, sanitizeCapex(raw.CapexRows, &res.Dropped))

	findings := orderFindings(opts.Profile, dedupeFindings(sanitizeFindings(raw.Findings, &res.Dropped)))
	if limit := density.FindingCap(); len(findings) > limit {
		res.TruncatedFindings = len(findings) - limit
		findings = findings[:limit]
	}
	res.Sections.Findings = findings
	return res
}

// Normalize is the comparison form used for text dedupe: lowercase,
// collapsed whitespace and no trailing punctuation.
func Normalize(text string) string {
	collapsed := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return strings.TrimRight(collapsed, ".!?;:, ")
}

func inspect(text string) (reason, token string, bad bool) {
	if strings.TrimSpace(text) == "" {
		return ReasonEmpty, "", true
	}
	if tok, found := content.ForbiddenToken(text); found {
		return ReasonForbiddenToken, tok, true
	}
	if tok, found := content.ReservedMarker(text); found {
		return ReasonReservedMarker, tok, true
	}
	return "", "", false
}

func sanitizeText(section string, items []content.Contribution, dropped *[]Drop) []content.Contribution {
	out := make([]content.Contribution, 0, len(items))
	for _, c := range items {
		if reason, tok, bad := inspect(c.Text); bad {
			*dropped = append(*dropped, Drop{Section: section, ModuleID: c.ModuleID, Key: c.Key, Reason: reason, Token: tok})
			continue
		}
		out = append(out, c)
	}
	return out
}

func dedupeText(items []content.Contribution) []content.Contribution {
	seen := make(map[string]struct{}, len(items))
	out := make([]content.Contribution, 0, len(items))
	for _, c := range items {
		norm := Normalize(c.Text)
		if _, dup := seen[norm]; dup && !c.AllowDuplicates {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, c)
	}
	return out
}
