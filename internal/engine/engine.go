// Package engine runs the full report pipeline for one request: plan, slot
// injection, contract enforcement and telemetry.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/config"
	"github.com/kingrea/report-engine/internal/contracts"
	"github.com/kingrea/report-engine/internal/inject"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/modules"
	"github.com/kingrea/report-engine/internal/plan"
	"github.com/kingrea/report-engine/internal/telemetry"
)

// Request is one report generation request.
type Request struct {
	ReportID string            `json:"reportId,omitempty" yaml:"report_id,omitempty"`
	Plan     plan.Request      `json:"request" yaml:"request"`
	Record   any               `json:"record" yaml:"record"`
	Legacy   map[string]string `json:"legacy" yaml:"legacy"`
}

// Report is the outcome of one generation.
type Report struct {
	ReportID     string               `json:"reportId"`
	Plan         *plan.Plan           `json:"plan"`
	Slots        map[string]string    `json:"slots"`
	Sources      inject.SlotSourceMap `json:"slotSourceMap"`
	Validation   map[string]bool      `json:"validationFlags"`
	Telemetry    telemetry.Record     `json:"telemetry"`
	Violations   []string             `json:"violations,omitempty"`
	SignFailures int                  `json:"signFailures,omitempty"`
}

// Engine wires the pipeline stages together. It is safe for concurrent use.
type Engine struct {
	registry *module.Registry
	snap     *config.Snapshot
	flags    *inject.Flags
	emitter  *telemetry.Emitter
	logger   *zap.Logger
	clock    func() time.Time
	newID    func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in module registry.
func WithRegistry(reg *module.Registry) Option {
	return func(e *Engine) {
		if reg != nil {
			e.registry = reg
		}
	}
}

// WithFlags overrides the injection flags from the snapshot.
func WithFlags(flags inject.Flags) Option {
	return func(e *Engine) {
		e.flags = &flags
	}
}

// WithEmitter sets the telemetry emitter.
func WithEmitter(em *telemetry.Emitter) Option {
	return func(e *Engine) {
		e.emitter = em
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the telemetry timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithIDGenerator overrides how missing report IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New prepares an engine over snap. A nil snapshot uses the defaults.
func New(snap *config.Snapshot, opts ...Option) *Engine {
	if snap == nil {
		snap = config.DefaultSnapshot()
	}
	e := &Engine{
		registry: modules.NewRegistry(),
		snap:     snap,
		emitter:  telemetry.NewEmitter(),
		logger:   zap.NewNop(),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flags returns the injection flags in effect.
func (e *Engine) Flags() inject.Flags {
	if e.flags != nil {
		return *e.flags
	}
	return e.snap.Flags()
}

// Plan builds the report plan only.
func (e *Engine) Plan(req plan.Request, record any) (*plan.Plan, error) {
	if strings.TrimSpace(req.Profile) == "" {
		req.Profile = e.snap.Engine.DefaultProfile
	}
	builder := plan.NewBuilder(e.registry,
		plan.WithEnv(e.snap.ModuleEnv()),
		plan.WithMetadata(e.snap),
		plan.WithLogger(e.logger),
	)
	return builder.Build(req, record)
}

// Generate runs the whole pipeline. A contract violation returns the report
// together with a *contracts.ViolationError so callers can inspect what was
// assembled; any other error returns a nil report.
func (e *Engine) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := e.Plan(req.Plan, req.Record)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	flags := e.Flags()
	photos := e.snap.Photos()
	resolver := inject.NewResolver(flags,
		inject.WithPhotos(photos),
		inject.WithMetadata(e.snap),
		inject.WithLogger(e.logger),
	)
	res := resolver.Resolve(req.Legacy, p)

	reportID := e.reportID(req)
	res.Slots[contracts.SlotReportID] = reportID
	res.Slots[contracts.SlotProfile] = string(p.Profile)

	rec := telemetry.NewRecord(reportID, p, flags, res, e.clock())
	if err := e.emitter.Emit(rec); err != nil {
		e.logger.Warn("telemetry emit failed", zap.String("report_id", reportID), zap.Error(err))
	}

	report := &Report{
		ReportID:     reportID,
		Plan:         p,
		Slots:        res.Slots,
		Sources:      res.Sources,
		Validation:   res.Validation,
		Telemetry:    rec,
		SignFailures: len(res.SignFailures),
	}
	if err := contracts.Enforce(res.Slots); err != nil {
		var violation *contracts.ViolationError
		if errors.As(err, &violation) {
			for _, v := range violation.Errors {
				report.Violations = append(report.Violations, v.Error())
			}
		}
		e.logger.Error("report contract violated", zap.String("report_id", reportID), zap.Error(err))
		return report, err
	}
	e.logger.Info("report generated",
		zap.String("report_id", reportID),
		zap.String("profile", string(p.Profile)),
		zap.Strings("modules", p.Modules),
		zap.String("injection_mode", flags.Mode()),
	)
	return report, nil
}

func (e *Engine) reportID(req Request) string {
	if id := strings.TrimSpace(req.ReportID); id != "" {
		return id
	}
	if id := strings.TrimSpace(req.Legacy[contracts.SlotReportID]); id != "" {
		return id
	}
	return e.newID()
}
