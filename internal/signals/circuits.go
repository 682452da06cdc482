package signals

import (
	"fmt"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// TariffSource records where the energy tariff came from.
type TariffSource string

const (
	TariffInput   TariffSource = "input"
	TariffDefault TariffSource = "default"
)

// Circuit is one labelled circuit reading.
type Circuit struct {
	Label    string  `json:"label"`
	CurrentA float64 `json:"currentA"`
}

// Circuits holds per-circuit readings and the energy-pricing inputs.
type Circuits struct {
	Items        []Circuit        `json:"items,omitempty"`
	Path         string           `json:"path,omitempty"`
	Coverage     content.Coverage `json:"coverage"`
	TariffCents  *Reading         `json:"tariffCents,omitempty"`
	HighDraw     bool             `json:"highDraw"`
	HighDrawPath string           `json:"highDrawPath,omitempty"`
	Insufficient bool             `json:"insufficient"`
}

// ResolveTariff returns the input tariff when present, otherwise the
// supplied default.
func (c Circuits) ResolveTariff(defaultCents float64) (float64, TariffSource) {
	if c.TariffCents != nil && c.TariffCents.Value > 0 {
		return c.TariffCents.Value, TariffInput
	}
	return defaultCents, TariffDefault
}

// HasTariff reports whether a positive tariff was supplied.
func (c Circuits) HasTariff() bool {
	return c.TariffCents != nil && c.TariffCents.Value > 0
}

// Enhanced reports whether there is enough circuit data for contribution
// ranking and cost estimation: at least two readings or a supplied tariff.
func (c Circuits) Enhanced() bool {
	return len(c.Items) >= 2 || c.HasTariff()
}

// ExtractCircuits reads the circuit list, tariff and high-draw flag.
func ExtractCircuits(t Tree) Circuits {
	c := Circuits{Coverage: content.CoverageUnknown}
	if v, ok := Resolve(t, circuitListPaths...); ok {
		c.Items = parseCircuits(v.Raw)
		if len(c.Items) > 0 {
			c.Path = v.Path
			c.Coverage = v.Coverage()
		}
	}
	c.TariffCents = ResolveReading(t, tariffPaths...)
	if flag, path := ResolveFlag(t, highDrawPaths...); flag != nil {
		c.HighDraw = *flag
		c.HighDrawPath = path
	}
	c.Insufficient = c.Path == "" && c.TariffCents == nil && c.HighDrawPath == ""
	return c
}

func parseCircuits(raw any) []Circuit {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Circuit, 0, len(list))
	for i, entry := range list {
		node := NewTree(entry)
		current := ResolveReading(node, "current_a", "current", "amps")
		if current == nil {
			continue
		}
		label := ""
		if v, ok := Resolve(node, "label", "name", "circuit"); ok {
			label = v.String()
		}
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("Circuit %d", i+1)
		}
		out = append(out, Circuit{Label: label, CurrentA: current.Value})
	}
	return out
}
