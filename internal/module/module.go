package module

import (
	"fmt"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/signals"
)

// Info describes a module's identity.
type Info struct {
	ID          string
	Name        string
	Description string
	Version     string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("module: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("module: name is required for %s", i.ID)
	}
	if i.Version == "" {
		return fmt.Errorf("module: version is required for %s", i.ID)
	}
	return nil
}

// Selection is the resolved module choice for one request.
type Selection struct {
	Profile  content.Profile
	Modules  []string
	Explicit bool
}

// Requested reports whether id is part of the selection.
func (s Selection) Requested(id string) bool {
	for _, m := range s.Modules {
		if strings.EqualFold(m, id) {
			return true
		}
	}
	return false
}

// ExplicitlyRequested reports whether the caller named id themselves.
func (s Selection) ExplicitlyRequested(id string) bool {
	return s.Explicit && s.Requested(id)
}

// Env is the already-resolved configuration a module computes against.
type Env struct {
	NominalVoltage     float64
	DefaultTariffCents float64
	Currency           string
	UtilizationLow     float64
	UtilizationHigh    float64
	HoursPerMonth      float64
}

// DefaultEnv returns the built-in estimation factors.
func DefaultEnv() Env {
	return Env{
		NominalVoltage:     230,
		DefaultTariffCents: 30,
		Currency:           content.DefaultCurrency,
		UtilizationLow:     0.15,
		UtilizationHigh:    0.35,
		HoursPerMonth:      730,
	}
}

// Module is implemented by every content module. Compute must be a pure
// function of its arguments: no clocks, randomness or shared state.
type Module interface {
	Info() Info
	Applies(sel Selection) bool
	Compute(sig signals.Canonical, profile content.Profile, env Env) content.ComputeOutput
}
