package inject

import (
	"errors"

	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/plan"
	"github.com/kingrea/report-engine/internal/render"
)

// PhotoConfig is what the findings renderer needs to sign photo links.
type PhotoConfig struct {
	BaseURL string
	Secret  string
	Signer  render.PhotoSigner
}

// Resolver applies flags and safety guards to a plan.
type Resolver struct {
	flags  Flags
	photos PhotoConfig
	meta   content.MetadataSource
	logger *zap.Logger
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithPhotos enables photo link signing.
func WithPhotos(cfg PhotoConfig) Option {
	return func(r *Resolver) {
		r.photos = cfg
	}
}

// WithMetadata sets finding copy used by the findings renderer.
func WithMetadata(src content.MetadataSource) Option {
	return func(r *Resolver) {
		if src != nil {
			r.meta = src
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver prepares a resolver for one flag set.
func NewResolver(flags Flags, opts ...Option) *Resolver {
	r := &Resolver{flags: flags, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Flags returns the resolver's flag set.
func (r *Resolver) Flags() Flags {
	return r.flags
}

// Result is the updated slot record and its audit trail.
type Result struct {
	Slots        map[string]string    `json:"slots"`
	Sources      SlotSourceMap        `json:"slotSourceMap"`
	Validation   map[string]bool      `json:"validationFlags"`
	SignFailures []render.SignFailure `json:"signFailures,omitempty"`
}

// Resolve returns a copy of legacy with merged content injected where every
// guard passes. legacy is never modified.
func (r *Resolver) Resolve(legacy map[string]string, p *plan.Plan) Result {
	res := Result{
		Slots:      make(map[string]string, len(legacy)+len(ManagedSlots)),
		Sources:    make(SlotSourceMap, len(ManagedSlots)),
		Validation: map[string]bool{},
	}
	for k, v := range legacy {
		res.Slots[k] = v
	}
	if p == nil {
		for _, slot := range ManagedSlots {
			res.Sources[slot] = SlotSource{Source: SourceLegacy, Reason: ReasonMergedEmpty}
		}
		return res
	}

	r.single(&res, SlotExecutiveSummary, r.flags.ExecutiveSummary, false, p, func() (string, error) {
		text := render.ExecutiveSummary(p.Merged.ExecutiveSummary)
		if text == "" {
			return "", nil
		}
		return text, render.ValidateExecutiveSummary(text)
	})
	r.single(&res, SlotWhatThisMeans, r.flags.WhatThisMeans, false, p, func() (string, error) {
		text := render.WhatThisMeans(p.Merged.WhatThisMeans)
		if text == "" {
			return "", nil
		}
		return text, render.ValidateWhatThisMeans(text)
	})
	r.capex(&res, p)
	r.single(&res, SlotFindings, r.flags.Findings, true, p, func() (string, error) {
		doc, failures := render.FindingsHTML(p.Merged.Findings, render.FindingsOptions{
			InspectionID: p.InspectionID,
			BaseURL:      r.photos.BaseURL,
			Secret:       r.photos.Secret,
			Signer:       r.photos.Signer,
			Metadata:     r.meta,
			Logger:       r.logger,
		})
		res.SignFailures = failures
		if doc == "" {
			return "", nil
		}
		return doc, render.ValidateFindingsHTML(doc, len(p.Merged.Findings))
	})
	for _, slot := range ManagedSlots {
		src := res.Sources[slot]
		r.logger.Debug("slot resolved", zap.String("slot", slot), zap.String("source", string(src.Source)), zap.String("reason", src.Reason))
	}
	return res
}

// guard returns the fallback reason when a slot group may not inject.
func (r *Resolver) guard(enabled, needsExplicit bool, p *plan.Plan) (string, bool) {
	if !enabled {
		return ReasonFlagDisabled, false
	}
	if needsExplicit && !p.HasExplicitModules {
		return ReasonNoExplicitModules, false
	}
	return "", true
}

func (r *Resolver) single(res *Result, slot string, enabled, needsExplicit bool, p *plan.Plan, build func() (string, error)) {
	if reason, ok := r.guard(enabled, needsExplicit, p); !ok {
		res.Sources[slot] = SlotSource{Source: SourceLegacy, Reason: reason}
		return
	}
	value, err := build()
	if value == "" {
		res.Sources[slot] = SlotSource{Source: SourceLegacy, Reason: ReasonMergedEmpty}
		return
	}
	res.Validation[slot] = err == nil
	if err != nil {
		res.Sources[slot] = SlotSource{Source: SourceLegacy, Reason: validationReason(err)}
		return
	}
	res.Slots[slot] = value
	res.Sources[slot] = SlotSource{Source: SourceMerged, Reason: ReasonInjected}
}

// capex resolves both CapEx slots together so the table and its total never
// disagree.
func (r *Resolver) capex(res *Result, p *plan.Plan) {
	set := func(source Source, reason string) {
		res.Sources[SlotCapexRows] = SlotSource{Source: source, Reason: reason}
		res.Sources[SlotCapexSnapshot] = SlotSource{Source: source, Reason: reason}
	}
	if reason, ok := r.guard(r.flags.Capex, true, p); !ok {
		set(SourceLegacy, reason)
		return
	}
	rows := p.Merged.CapexRows
	if len(rows) == 0 {
		set(SourceLegacy, ReasonMergedEmpty)
		return
	}
	table := render.CapexRows(rows)
	snapshot := render.CapexSnapshot(rows, p.Options.BudgetBias).Text
	err := render.ValidateCapexRows(table, len(rows))
	if err == nil {
		err = render.ValidateSnapshot(snapshot)
	}
	res.Validation[SlotCapexRows] = err == nil
	res.Validation[SlotCapexSnapshot] = err == nil
	if err != nil {
		set(SourceLegacy, validationReason(err))
		return
	}
	res.Slots[SlotCapexRows] = table
	res.Slots[SlotCapexSnapshot] = snapshot
	set(SourceMerged, ReasonInjected)
}

func validationReason(err error) string {
	var verr *render.ValidationError
	if errors.As(err, &verr) {
		return ReasonValidationPrefix + verr.Rule
	}
	return ReasonValidationPrefix + "UNKNOWN"
}
