// Package capacity implements the capacity module: baseline load stress and
// distributed-energy readiness.
package capacity

import (
	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/signals"
)

const (
	moduleID      = "capacity"
	moduleVersion = "1.0.0"
)

// Finding identifiers emitted by this module.
const (
	FindingLoadStress          = "LOAD_STRESS_TEST_RESULT"
	FindingAssetOverview       = "DER_ASSET_OVERVIEW"
	FindingEVReadiness         = "EV_CHARGER_READINESS"
	FindingMonitoringJustified = "LOAD_MONITORING_JUSTIFICATION"
)

// Module reports supply capacity against measured load.
type Module struct {
	module.Base
}

// Register installs the capacity module.
func Register(reg *module.Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(New())
}

// New constructs the capacity module.
func New() *Module {
	return &Module{Base: module.NewBase(module.Info{
		ID:          moduleID,
		Name:        "Supply Capacity",
		Description: "Load stress against the main switch and distributed-energy readiness.",
		Version:     moduleVersion,
	})}
}

// Compute runs the baseline-load engine followed by the distributed-assets
// engine.
func (m *Module) Compute(sig signals.Canonical, profile content.Profile, env module.Env) content.ComputeOutput {
	out := module.NewEmitter(moduleID)
	computeBaseline(out, sig, env)
	computeAssets(out, sig, profile, env)
	return out.Output()
}
