// Package priority resolves the effective priority of a single finding from
// its competing sources.
package priority

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// Source names which input supplied the resolved priority.
type Source string

const (
	SourceFinal    Source = "final"
	SourceSelected Source = "selected"
	SourceComputed Source = "computed"
	SourceLegacy   Source = "legacy"
	SourceDefault  Source = "default"
)

// Default is used when no source supplies a priority.
const Default = content.PriorityPlan

// Input carries every candidate priority for one finding. Unranked values
// count as absent.
type Input struct {
	Final         content.Priority
	Selected      content.Priority
	Computed      content.Priority
	Legacy        content.Priority
	Justification string
}

// Resolve applies the fixed precedence: final, then a manual selection that
// differs from the computed value and carries a justification, then
// computed, then legacy, then Default.
func Resolve(in Input) (content.Priority, Source) {
	switch {
	case in.Final != content.PriorityUnranked:
		return in.Final, SourceFinal
	case in.Selected != content.PriorityUnranked && in.Selected != in.Computed && strings.TrimSpace(in.Justification) != "":
		return in.Selected, SourceSelected
	case in.Computed != content.PriorityUnranked:
		return in.Computed, SourceComputed
	case in.Legacy != content.PriorityUnranked:
		return in.Legacy, SourceLegacy
	default:
		return Default, SourceDefault
	}
}
