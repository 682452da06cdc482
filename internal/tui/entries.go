package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/engine"
	"github.com/kingrea/report-engine/internal/inject"
	"github.com/kingrea/report-engine/internal/plan"
	"github.com/kingrea/report-engine/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	priorityColors = map[content.Priority]lipgloss.Color{
		content.PriorityUrgent:      lipgloss.Color("#FF6B6B"),
		content.PriorityRecommended: lipgloss.Color("#F5A623"),
		content.PriorityPlan:        lipgloss.Color("#5B8DEF"),
	}
)

func boxStyle(focused bool) lipgloss.Style {
	border := lipgloss.Color("#444444")
	if focused {
		border = lipgloss.Color("#5B8DEF")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// entry implements list.Item for one browsable part of the plan.
type entry struct {
	title string
	desc  string
	body  string
}

func (e entry) Title() string       { return e.title }
func (e entry) Description() string { return e.desc }
func (e entry) FilterValue() string { return e.title + " " + e.desc }

func buildEntries(p *plan.Plan, report *engine.Report) []list.Item {
	if p == nil {
		return []list.Item{entry{title: "No plan", desc: "nothing to show", body: "No plan was loaded."}}
	}
	items := []list.Item{
		preflightEntry(p),
		textEntry("Executive summary", p.Merged.ExecutiveSummary, render.ExecutiveSummary(p.Merged.ExecutiveSummary)),
		textEntry("What this means", p.Merged.WhatThisMeans, render.WhatThisMeans(p.Merged.WhatThisMeans)),
		capexEntry(p),
	}
	for _, f := range p.Merged.Findings {
		items = append(items, findingEntry(f))
	}
	if report != nil {
		items = append(items, slotsEntry(report))
	}
	items = append(items, debugEntry(p))
	return items
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func textEntry(title string, items []content.Contribution, text string) entry {
	if text == "" {
		text = mutedStyle.Render("No merged content.")
	}
	return entry{title: title, desc: countLabel(len(items), "item"), body: text}
}

func capexEntry(p *plan.Plan) entry {
	snap := render.CapexSnapshot(p.Merged.CapexRows, p.Options.BudgetBias)
	var b strings.Builder
	b.WriteString(snap.Text)
	if rows := render.CapexRows(p.Merged.CapexRows); rows != "" {
		b.WriteString("\n\n")
		b.WriteString(rows)
	}
	return entry{title: "CapEx", desc: fmt.Sprintf("%d costed · %d quote", snap.Costed, snap.TBD), body: b.String()}
}

func findingEntry(f content.Finding) entry {
	label := f.Priority.Label()
	style := lipgloss.NewStyle().Bold(true)
	if color, ok := priorityColors[f.Priority]; ok {
		style = style.Foreground(color)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", style.Render(label))
	fmt.Fprintf(&b, "%s\n\n", f.Rationale)
	fmt.Fprintf(&b, "id: %s\nmodule: %s\n", f.ID, f.ModuleID)
	if f.EvidenceCoverage != "" {
		fmt.Fprintf(&b, "coverage: %s\n", f.EvidenceCoverage)
	}
	if f.Score != nil {
		fmt.Fprintf(&b, "score: %.2f\n", *f.Score)
	}
	if len(f.EvidenceRefs) > 0 {
		fmt.Fprintf(&b, "\nevidence:\n  %s\n", strings.Join(f.EvidenceRefs, "\n  "))
	}
	if len(f.Photos) > 0 {
		fmt.Fprintf(&b, "\nphotos:\n  %s\n", strings.Join(f.Photos, "\n  "))
	}
	return entry{
		title: f.Title,
		desc:  fmt.Sprintf("%s · %s", label, f.ModuleID),
		body:  b.String(),
	}
}

func preflightEntry(p *plan.Plan) entry {
	pf := p.Debug.Preflight
	if pf == nil {
		return entry{title: "Preflight", desc: "not run", body: mutedStyle.Render("No preflight result.")}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "severity: %s\n", pf.Summary.Severity)
	fmt.Fprintf(&b, "stress: %s\n", pf.Summary.StressLevel)
	if pf.Summary.TariffSource != "" {
		fmt.Fprintf(&b, "tariff: %s\n", pf.Summary.TariffSource)
	}
	fmt.Fprintf(&b, "subscription lead: %t", pf.Summary.SubscriptionLead)
	if len(pf.Summary.SubscriptionReasons) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(pf.Summary.SubscriptionReasons, ", "))
	}
	b.WriteString("\n")
	if len(pf.Warnings) > 0 {
		b.WriteString("\nwarnings:\n")
		for _, w := range pf.Warnings {
			fmt.Fprintf(&b, "  %s  %s\n", w.Code, w.Message)
		}
	}
	return entry{
		title: "Preflight",
		desc:  fmt.Sprintf("%s severity · %s", pf.Summary.Severity, countLabel(len(pf.Warnings), "warning")),
		body:  b.String(),
	}
}

func slotsEntry(r *engine.Report) entry {
	var b strings.Builder
	for _, slot := range inject.ManagedSlots {
		src := r.Sources[slot]
		fmt.Fprintf(&b, "%-24s %-7s %s\n", slot, src.Source, src.Reason)
	}
	if len(r.Violations) > 0 {
		b.WriteString("\ncontract violations:\n")
		for _, v := range r.Violations {
			fmt.Fprintf(&b, "  %s\n", v)
		}
	}
	return entry{
		title: "Slot sources",
		desc:  fmt.Sprintf("%d merged · %s", len(r.Sources.Merged()), r.Telemetry.InjectionMode),
		body:  b.String(),
	}
}

func debugEntry(p *plan.Plan) entry {
	var b strings.Builder
	m := p.Metrics()
	fmt.Fprintf(&b, "summary %d · narrative %d · capex %d · findings %d\n",
		m.ExecutiveSummary, m.WhatThisMeans, m.CapexRows, m.Findings)
	fmt.Fprintf(&b, "truncated findings %d · truncated narrative %d\n", p.Debug.TruncatedFindings, p.Debug.TruncatedNarrative)
	if len(p.Debug.Skipped) > 0 {
		b.WriteString("\nskipped modules:\n")
		for _, s := range p.Debug.Skipped {
			fmt.Fprintf(&b, "  %s  %s\n", s.ModuleID, s.Reason)
		}
	}
	if len(p.Debug.Hidden) > 0 {
		fmt.Fprintf(&b, "\nhidden findings: %s\n", strings.Join(p.Debug.Hidden, ", "))
	}
	if len(p.Debug.Dropped) > 0 {
		b.WriteString("\ndropped contributions:\n")
		for _, d := range p.Debug.Dropped {
			fmt.Fprintf(&b, "  %s %s/%s  %s\n", d.Section, d.ModuleID, d.Key, d.Reason)
		}
	}
	if len(p.Debug.PrioritySources) > 0 {
		ids := make([]string, 0, len(p.Debug.PrioritySources))
		for id := range p.Debug.PrioritySources {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		b.WriteString("\npriority sources:\n")
		for _, id := range ids {
			fmt.Fprintf(&b, "  %s  %s\n", id, p.Debug.PrioritySources[id])
		}
	}
	return entry{title: "Debug", desc: countLabel(m.Dropped, "dropped contribution"), body: b.String()}
}
