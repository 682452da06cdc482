package signals

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// Phase is the supply configuration.
type Phase string

const (
	PhaseSingle  Phase = "single"
	PhaseThree   Phase = "three"
	PhaseUnknown Phase = "unknown"
)

// StressLevel buckets peak current against the main switch rating.
type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
	StressCritical StressLevel = "critical"
	StressUnknown  StressLevel = "unknown"
)

// Elevated reports whether the level is high or critical.
func (s StressLevel) Elevated() bool {
	return s == StressHigh || s == StressCritical
}

// ClassifyStress maps a peak/rating ratio onto a stress level.
func ClassifyStress(ratio float64) StressLevel {
	switch {
	case ratio < 0.6:
		return StressLow
	case ratio < 0.8:
		return StressModerate
	case ratio < 0.95:
		return StressHigh
	default:
		return StressCritical
	}
}

// Baseline holds supply and load readings used for stress analysis.
type Baseline struct {
	Voltage       *Reading    `json:"voltage,omitempty"`
	MainSwitchA   *Reading    `json:"mainSwitchA,omitempty"`
	Phase         Phase       `json:"phase"`
	PhasePath     string      `json:"phasePath,omitempty"`
	TotalCurrent  *Reading    `json:"totalCurrent,omitempty"`
	PhaseCurrents [3]*Reading `json:"phaseCurrents"`
	PhaseVoltages [3]*Reading `json:"phaseVoltages"`

	PeakCurrent     *Reading         `json:"peakCurrent,omitempty"`
	CurrentCoverage content.Coverage `json:"currentCoverage"`
	StressRatio     *float64         `json:"stressRatio,omitempty"`
	StressLevel     StressLevel      `json:"stressLevel"`
	EstimatedKW     *float64         `json:"estimatedKw,omitempty"`

	Coverage     content.Coverage `json:"coverage"`
	Sources      []string         `json:"sources,omitempty"`
	Insufficient bool             `json:"insufficient"`
}

// HasCurrent reports whether any current reading resolved.
func (b Baseline) HasCurrent() bool {
	return b.PeakCurrent != nil
}

func parsePhase(raw string) Phase {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return PhaseUnknown
	case strings.Contains(v, "three"), strings.HasPrefix(v, "3"), strings.Contains(v, "poly"):
		return PhaseThree
	case strings.Contains(v, "single"), strings.HasPrefix(v, "1"):
		return PhaseSingle
	default:
		return PhaseUnknown
	}
}

// ExtractBaseline reads supply and load signals.
func ExtractBaseline(t Tree) Baseline {
	b := Baseline{
		Voltage:     ResolveReading(t, voltagePaths...),
		MainSwitchA: ResolveReading(t, mainSwitchPaths...),
		Phase:       PhaseUnknown,
		StressLevel: StressUnknown,
	}
	if v, ok := Resolve(t, phasePaths...); ok {
		b.Phase = parsePhase(v.String())
		b.PhasePath = v.Path
	}
	b.TotalCurrent = ResolveReading(t, totalCurrentPaths...)
	for i := range phaseCurrentPaths {
		b.PhaseCurrents[i] = ResolveReading(t, phaseCurrentPaths[i]...)
		b.PhaseVoltages[i] = ResolveReading(t, phaseVoltagePaths[i]...)
	}
	if b.Phase == PhaseUnknown && b.PhaseCurrents[1] != nil && b.PhaseCurrents[2] != nil {
		b.Phase = PhaseThree
	}

	var currentPaths []string
	for _, r := range append([]*Reading{b.TotalCurrent}, b.PhaseCurrents[:]...) {
		if r == nil {
			continue
		}
		currentPaths = append(currentPaths, r.Path)
		if b.PeakCurrent == nil || r.Value > b.PeakCurrent.Value {
			peak := *r
			b.PeakCurrent = &peak
		}
	}
	b.CurrentCoverage = BestOfPaths(currentPaths...)

	if b.PeakCurrent != nil && b.MainSwitchA != nil && b.MainSwitchA.Value > 0 {
		ratio := b.PeakCurrent.Value / b.MainSwitchA.Value
		b.StressRatio = &ratio
		b.StressLevel = ClassifyStress(ratio)
	}
	if kw, ok := b.estimatePower(); ok {
		b.EstimatedKW = &kw
	}

	for _, r := range []*Reading{b.Voltage, b.MainSwitchA} {
		if r != nil {
			b.Sources = append(b.Sources, r.Path)
		}
	}
	if b.PhasePath != "" {
		b.Sources = append(b.Sources, b.PhasePath)
	}
	b.Sources = append(b.Sources, currentPaths...)
	for _, r := range b.PhaseVoltages {
		if r != nil {
			b.Sources = append(b.Sources, r.Path)
		}
	}
	b.Coverage = BestOfPaths(b.Sources...)
	b.Insufficient = len(b.Sources) == 0 && b.StressRatio == nil && b.EstimatedKW == nil
	return b
}

// estimatePower sums per-phase V·A terms for three-phase supplies and uses a
// single V·A term otherwise.
func (b Baseline) estimatePower() (float64, bool) {
	if b.Phase == PhaseThree {
		total := 0.0
		terms := 0
		for i, current := range b.PhaseCurrents {
			if current == nil {
				continue
			}
			voltage := b.PhaseVoltages[i]
			if voltage == nil {
				voltage = b.Voltage
			}
			if voltage == nil {
				continue
			}
			total += voltage.Value * current.Value / 1000
			terms++
		}
		if terms > 0 {
			return total, true
		}
	}
	if b.Voltage == nil || b.PeakCurrent == nil {
		return 0, false
	}
	return b.Voltage.Value * b.PeakCurrent.Value / 1000, true
}
