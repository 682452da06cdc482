package content

import "strings"

// Density controls how much of the merged plan survives clipping.
type Density string

const (
	DensityCompact  Density = "compact"
	DensityStandard Density = "standard"
	DensityDetailed Density = "detailed"
)

// ParseDensity normalizes a density name, defaulting to standard.
func ParseDensity(value string) Density {
	switch Density(strings.ToLower(strings.TrimSpace(value))) {
	case DensityCompact:
		return DensityCompact
	case DensityDetailed:
		return DensityDetailed
	default:
		return DensityStandard
	}
}

// FindingCap is the maximum number of merged findings retained.
func (d Density) FindingCap() int {
	switch d {
	case DensityCompact:
		return 8
	case DensityDetailed:
		return 24
	default:
		return 16
	}
}

// NarrativeCap is the maximum number of "what this means" paragraphs retained.
func (d Density) NarrativeCap() int {
	switch d {
	case DensityCompact:
		return 4
	case DensityDetailed:
		return 12
	default:
		return 8
	}
}

// BudgetBias selects which end of a CapEx band the snapshot leads with.
type BudgetBias string

const (
	BudgetConservative BudgetBias = "conservative"
	BudgetBalanced     BudgetBias = "balanced"
	BudgetAggressive   BudgetBias = "aggressive"
)

// ParseBudgetBias normalizes a bias name, defaulting to balanced.
func ParseBudgetBias(value string) BudgetBias {
	switch BudgetBias(strings.ToLower(strings.TrimSpace(value))) {
	case BudgetConservative:
		return BudgetConservative
	case BudgetAggressive:
		return BudgetAggressive
	default:
		return BudgetBalanced
	}
}
