// Package plan builds a report plan: it resolves the module selection, runs
// each applicable module, merges their contributions and scores the result.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/merge"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/preflight"
	"github.com/kingrea/report-engine/internal/priority"
	"github.com/kingrea/report-engine/internal/profile"
	"github.com/kingrea/report-engine/internal/render"
	"github.com/kingrea/report-engine/internal/signals"
)

// CoreModuleID tags the summary lines the builder contributes itself.
const CoreModuleID = "core"

var errNoRegistry = errors.New("plan: registry is required")

// Builder turns requests into plans. A Builder is safe for concurrent use
// once constructed.
type Builder struct {
	registry *module.Registry
	env      module.Env
	meta     content.MetadataSource
	logger   *zap.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithEnv overrides the compute environment.
func WithEnv(env module.Env) Option {
	return func(b *Builder) {
		b.env = env
	}
}

// WithMetadata sets the finding metadata source used for legacy priorities
// and rendered copy.
func WithMetadata(src content.MetadataSource) Option {
	return func(b *Builder) {
		if src != nil {
			b.meta = src
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder prepares a builder over reg.
func NewBuilder(reg *module.Registry, opts ...Option) *Builder {
	b := &Builder{
		registry: reg,
		env:      module.DefaultEnv(),
		meta:     content.MetadataFunc(nil),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build plans one report from a request and a decoded inspection record.
// Only an invalid request returns an error; missing evidence yields a
// smaller plan.
func (b *Builder) Build(req Request, raw any) (*Plan, error) {
	if b.registry == nil {
		return nil, errNoRegistry
	}
	prof, err := content.ParseProfile(req.Profile)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	opts := req.Options.normalized()
	selection, skipped := b.resolveModules(prof, req.Modules)

	p := &Plan{
		Profile:            prof,
		Modules:            []string{},
		HasExplicitModules: selection.Explicit,
		Options:            opts,
		Debug: Debug{
			Dropped:         []merge.Drop{},
			Hidden:          []string{},
			Withheld:        []string{},
			Skipped:         skipped,
			PrioritySources: map[string]priority.Source{},
		},
	}
	sig := signals.Extract(raw)
	p.InspectionID = sig.InspectionID
	overrides := indexOverrides(req.PriorityOverrides)

	var rawOut content.ComputeOutput
	for _, id := range b.registry.IDs() {
		if !selection.Requested(id) {
			continue
		}
		m, _ := b.registry.Lookup(id)
		if !m.Applies(selection) {
			p.Debug.Skipped = append(p.Debug.Skipped, Skip{ModuleID: id, Reason: SkipNotApplicable})
			continue
		}
		out := m.Compute(sig, prof, b.env)
		for i := range out.Findings {
			f := &out.Findings[i]
			ov := overrides[f.ID]
			meta, _ := b.meta.FindingMeta(f.ID)
			resolved, source := priority.Resolve(priority.Input{
				Final:         ov.Final,
				Selected:      ov.Selected,
				Computed:      f.Priority,
				Legacy:        meta.LegacyPriority,
				Justification: ov.Justification,
			})
			if source == priority.SourceDefault {
				// Nothing ranked this finding; it stays unranked and sorts last.
				continue
			}
			f.Priority = resolved
			p.Debug.PrioritySources[f.Key] = source
		}
		b.logger.Debug("module computed",
			zap.String("module", id),
			zap.Int("summary", len(out.ExecutiveSummary)),
			zap.Int("narrative", len(out.WhatThisMeans)),
			zap.Int("capex", len(out.CapexRows)),
			zap.Int("findings", len(out.Findings)))
		p.Modules = append(p.Modules, id)
		rawOut.ExecutiveSummary = append(rawOut.ExecutiveSummary, out.ExecutiveSummary...)
		rawOut.WhatThisMeans = append(rawOut.WhatThisMeans, out.WhatThisMeans...)
		rawOut.CapexRows = append(rawOut.CapexRows, out.CapexRows...)
		rawOut.Findings = append(rawOut.Findings, out.Findings...)
	}
	p.SummaryFocus = nonNilContributions(rawOut.ExecutiveSummary)
	p.WhatThisMeansFocus = nonNilContributions(rawOut.WhatThisMeans)
	p.CapexRows = nonNilContributions(rawOut.CapexRows)
	p.FindingsBlocks = nonNilFindings(rawOut.Findings)

	merged := merge.Merge(rawOut, merge.Options{Profile: prof, Density: opts.NarrativeDensity})
	p.Debug.Dropped = append(p.Debug.Dropped, merged.Dropped...)
	p.Debug.TruncatedFindings = merged.TruncatedFindings
	p.Debug.TruncatedNarrative = merged.TruncatedNarrative
	for _, d := range merged.Dropped {
		b.logger.Debug("contribution dropped", zap.String("module", d.ModuleID), zap.String("key", d.Key), zap.String("reason", d.Reason))
	}

	rendered := profile.Render(prof, merged.Sections.Findings)
	if len(rendered.Hidden) > 0 {
		p.Debug.Hidden = rendered.Hidden
	}
	for i := range rendered.Findings {
		rendered.Findings[i].HTML, _ = render.FindingBlock(rendered.Findings[i], render.FindingsOptions{Metadata: b.meta})
	}

	summary := b.withhold(p, prof, merged.Sections.ExecutiveSummary)
	narrative := b.withhold(p, prof, merged.Sections.WhatThisMeans)
	rows := b.withhold(p, prof, merged.Sections.CapexRows)
	p.Merged = content.Sections{
		ExecutiveSummary: coreSummary(summary, rendered.Findings, rows, opts.BudgetBias),
		WhatThisMeans:    narrative,
		CapexRows:        rows,
		Findings:         rendered.Findings,
	}

	pre := preflight.Run(preflight.Input{Modules: p.Modules, Signals: sig, Merged: merged.Sections})
	p.Debug.Preflight = &pre
	b.logger.Info("plan built",
		zap.String("profile", string(prof)),
		zap.Strings("modules", p.Modules),
		zap.Bool("explicit", p.HasExplicitModules),
		zap.Int("findings", len(p.Merged.Findings)),
		zap.String("severity", string(pre.Summary.Severity)))
	return p, nil
}

func (b *Builder) withhold(p *Plan, prof content.Profile, items []content.Contribution) []content.Contribution {
	kept, withheld := profile.Withhold(prof, items)
	for _, key := range withheld {
		b.logger.Debug("contribution withheld", zap.String("key", key))
	}
	p.Debug.Withheld = append(p.Debug.Withheld, withheld...)
	return kept
}

// resolveModules applies the explicit list when one is given, otherwise the
// profile default. Names are filtered to registered modules.
func (b *Builder) resolveModules(prof content.Profile, requested []string) (module.Selection, []Skip) {
	sel := module.Selection{Profile: prof}
	skipped := []Skip{}
	names := normalizeNames(requested)
	if len(names) > 0 {
		sel.Explicit = true
	} else {
		names = profile.DefaultModules(prof)
	}
	for _, name := range names {
		if !b.registry.Has(name) {
			skipped = append(skipped, Skip{ModuleID: name, Reason: SkipUnregistered})
			continue
		}
		sel.Modules = append(sel.Modules, name)
	}
	// Registry order, independent of request order.
	ordered := make([]string, 0, len(sel.Modules))
	for _, id := range b.registry.IDs() {
		for _, name := range sel.Modules {
			if name == id {
				ordered = append(ordered, id)
				break
			}
		}
	}
	sel.Modules = ordered
	return sel, skipped
}

func normalizeNames(names []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func indexOverrides(list []Override) map[string]Override {
	out := make(map[string]Override, len(list))
	for _, ov := range list {
		id := strings.TrimSpace(ov.FindingID)
		if id == "" {
			continue
		}
		ov.Final = content.ParsePriority(string(ov.Final))
		ov.Selected = content.ParsePriority(string(ov.Selected))
		out[id] = ov
	}
	return out
}

// coreSummary frames the module lines with an overall risk tally first and a
// CapEx total last.
func coreSummary(lines []content.Contribution, findings []content.Finding, rows []content.Contribution, bias content.BudgetBias) []content.Contribution {
	out := make([]content.Contribution, 0, len(lines)+2)
	out = append(out, content.Contribution{
		Key:        CoreModuleID + ":overall",
		Text:       overallLine(findings),
		ModuleID:   CoreModuleID,
		Importance: topPriority(findings),
	})
	out = append(out, lines...)
	out = append(out, content.Contribution{
		Key:      CoreModuleID + ":capex",
		Text:     "CapEx: " + render.CapexSnapshot(rows, bias).Text,
		ModuleID: CoreModuleID,
	})
	return out
}

func overallLine(findings []content.Finding) string {
	counts := map[content.Priority]int{}
	for _, f := range findings {
		counts[f.Priority]++
	}
	urgent, recommended, planned := counts[content.PriorityUrgent], counts[content.PriorityRecommended], counts[content.PriorityPlan]
	if urgent+recommended+planned == 0 {
		return "Overall risk: no items requiring action were identified."
	}
	return fmt.Sprintf("Overall risk: %d urgent, %d recommended and %d planned %s.",
		urgent, recommended, planned, plural(urgent+recommended+planned, "item", "items"))
}

func topPriority(findings []content.Finding) content.Priority {
	top := content.PriorityUnranked
	for _, f := range findings {
		if f.Priority.Rank() < top.Rank() {
			top = f.Priority
		}
	}
	return top
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func nonNilContributions(in []content.Contribution) []content.Contribution {
	if in == nil {
		return []content.Contribution{}
	}
	return in
}

func nonNilFindings(in []content.Finding) []content.Finding {
	if in == nil {
		return []content.Finding{}
	}
	return in
}
