package modules

import (
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/modules/capacity"
	"github.com/kingrea/report-engine/internal/modules/energy"
	"github.com/kingrea/report-engine/internal/modules/lifecycle"
	"github.com/kingrea/report-engine/internal/modules/safety"
)

// RegisterBuiltins installs the built-in content modules. Registration order
// is the compute order used by the plan builder; presentation order comes
// from the profile rank tables.
func RegisterBuiltins(reg *module.Registry) {
	if reg == nil {
		return
	}
	safety.Register(reg)
	capacity.Register(reg)
	energy.Register(reg)
	lifecycle.Register(reg)
}

// NewRegistry returns a registry populated with the built-in modules.
func NewRegistry() *module.Registry {
	reg := module.NewRegistry()
	RegisterBuiltins(reg)
	return reg
}
