package module

import (
	"regexp"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

var rowKeyPattern = regexp.MustCompile(`^capex:([a-z0-9_-]+):([a-z0-9][a-z0-9-]*)$`)

// RowKey builds a CapEx row key of the form capex:<moduleId>:<slug>.
func RowKey(moduleID, slug string) string {
	return "capex:" + moduleID + ":" + slug
}

// ParseRowKey splits a row key into module id and slug.
func ParseRowKey(key string) (moduleID, slug string, ok bool) {
	m := rowKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Emitter accumulates one module's contributions in emission order and
// stamps every entry with the module id.
type Emitter struct {
	moduleID string
	out      content.ComputeOutput
}

// NewEmitter starts an empty output for moduleID.
func NewEmitter(moduleID string) *Emitter {
	return &Emitter{moduleID: moduleID}
}

// Summary adds an executive-summary line.
func (e *Emitter) Summary(key, text string, importance content.Priority) {
	e.out.ExecutiveSummary = append(e.out.ExecutiveSummary, content.Contribution{
		Key:        e.scoped(key),
		Text:       strings.TrimSpace(text),
		ModuleID:   e.moduleID,
		Importance: importance,
	})
}

// Narrative adds a "what this means" paragraph.
func (e *Emitter) Narrative(key, text string) {
	e.out.WhatThisMeans = append(e.out.WhatThisMeans, content.Contribution{
		Key:      e.scoped(key),
		Text:     strings.TrimSpace(text),
		ModuleID: e.moduleID,
	})
}

// Capex adds a costed CapEx row.
func (e *Emitter) Capex(slug, item string, importance content.Priority, low, high float64, currency string) {
	key := RowKey(e.moduleID, slug)
	e.out.CapexRows = append(e.out.CapexRows, content.Contribution{
		Key:        key,
		Text:       strings.TrimSpace(item),
		RowKey:     key,
		AmountLow:  content.Float(low),
		AmountHigh: content.Float(high),
		Currency:   currency,
		ModuleID:   e.moduleID,
		Importance: importance,
	})
}

// CapexTBD adds a CapEx row whose cost needs a site quote.
func (e *Emitter) CapexTBD(slug, item string, importance content.Priority, currency string) {
	key := RowKey(e.moduleID, slug)
	e.out.CapexRows = append(e.out.CapexRows, content.Contribution{
		Key:         key,
		Text:        strings.TrimSpace(item),
		RowKey:      key,
		Currency:    currency,
		AmountIsTBD: true,
		ModuleID:    e.moduleID,
		Importance:  importance,
	})
}

// Support ties every summary, narrative and CapEx entry added by fn to
// findingID. Profiles that hide the finding withhold those entries too.
func (e *Emitter) Support(findingID string, fn func()) {
	summary, narrative, capex := len(e.out.ExecutiveSummary), len(e.out.WhatThisMeans), len(e.out.CapexRows)
	fn()
	tag := func(items []content.Contribution) {
		for i := range items {
			items[i].FindingID = findingID
		}
	}
	tag(e.out.ExecutiveSummary[summary:])
	tag(e.out.WhatThisMeans[narrative:])
	tag(e.out.CapexRows[capex:])
}

// Finding adds a finding block. Key defaults to <module>:<id>.
func (e *Emitter) Finding(f content.Finding) {
	f.ModuleID = e.moduleID
	if f.Key == "" {
		f.Key = e.scoped(f.ID)
	}
	if f.EvidenceRefs == nil {
		f.EvidenceRefs = []string{}
	}
	if f.Photos == nil {
		f.Photos = []string{}
	}
	e.out.Findings = append(e.out.Findings, f)
}

// Output returns the accumulated contributions.
func (e *Emitter) Output() content.ComputeOutput {
	return e.out
}

func (e *Emitter) scoped(key string) string {
	if strings.HasPrefix(key, e.moduleID+":") {
		return key
	}
	return e.moduleID + ":" + key
}
