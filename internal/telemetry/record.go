// Package telemetry records one observability record per generated report and
// reduces collections of them into adoption and fallback rates.
package telemetry

import (
	"sort"
	"time"

	"github.com/kingrea/report-engine/internal/inject"
	"github.com/kingrea/report-engine/internal/plan"
)

// Tag prefixes every emitted telemetry line.
const Tag = "[REPORT_ENGINE_TELEMETRY]"

// Record is the per-report telemetry document.
type Record struct {
	ReportID        string               `json:"reportId"`
	Profile         string               `json:"profile"`
	Modules         []string             `json:"modules"`
	InjectionMode   string               `json:"injectionMode"`
	SlotSourceMap   inject.SlotSourceMap `json:"slotSourceMap"`
	FallbackReasons []string             `json:"fallbackReasons"`
	MergedMetrics   plan.Metrics         `json:"mergedMetrics"`
	ValidationFlags map[string]bool      `json:"validationFlags"`
	Timestamp       time.Time            `json:"timestamp"`
}

// NewRecord assembles a record from a plan and its injection result.
func NewRecord(reportID string, p *plan.Plan, flags inject.Flags, res inject.Result, at time.Time) Record {
	rec := Record{
		ReportID:        reportID,
		Modules:         []string{},
		InjectionMode:   flags.Mode(),
		SlotSourceMap:   res.Sources,
		FallbackReasons: res.Sources.FallbackReasons(),
		ValidationFlags: res.Validation,
		Timestamp:       at.UTC(),
	}
	if p != nil {
		rec.Profile = string(p.Profile)
		rec.Modules = append(rec.Modules, p.Modules...)
		rec.MergedMetrics = p.Metrics()
	}
	if rec.FallbackReasons == nil {
		rec.FallbackReasons = []string{}
	}
	if rec.ValidationFlags == nil {
		rec.ValidationFlags = map[string]bool{}
	}
	return rec
}

// Summary is the rate-based reduction of many records.
type Summary struct {
	Reports int `json:"reports"`
	// FallbackRate is legacy slot decisions per reason over every slot
	// decision made.
	FallbackRate map[string]float64 `json:"fallbackRate"`
	// MergedAdoption is the share of reports where each slot took merged
	// content.
	MergedAdoption map[string]float64 `json:"mergedAdoption"`
	// ModuleCoOccurrence is the share of reports that ran both modules of
	// each pair. Pair keys are "a+b" with a < b.
	ModuleCoOccurrence map[string]float64 `json:"moduleCoOccurrence"`
	ProfileCounts      map[string]int     `json:"profileCounts"`
	ModeCounts         map[string]int     `json:"modeCounts"`
}

// Aggregate reduces records into a Summary. It only counts.
func Aggregate(records []Record) Summary {
	sum := Summary{
		Reports:            len(records),
		FallbackRate:       map[string]float64{},
		MergedAdoption:     map[string]float64{},
		ModuleCoOccurrence: map[string]float64{},
		ProfileCounts:      map[string]int{},
		ModeCounts:         map[string]int{},
	}
	if len(records) == 0 {
		return sum
	}

	fallbacks := map[string]int{}
	merged := map[string]int{}
	pairs := map[string]int{}
	decisions := 0
	for _, rec := range records {
		sum.ProfileCounts[rec.Profile]++
		sum.ModeCounts[rec.InjectionMode]++
		for slot, src := range rec.SlotSourceMap {
			decisions++
			switch src.Source {
			case inject.SourceMerged:
				merged[slot]++
			default:
				fallbacks[src.Reason]++
			}
		}
		for _, key := range modulePairs(rec.Modules) {
			pairs[key]++
		}
	}

	for _, slot := range inject.ManagedSlots {
		sum.MergedAdoption[slot] = float64(merged[slot]) / float64(len(records))
	}
	if decisions > 0 {
		for reason, n := range fallbacks {
			sum.FallbackRate[reason] = float64(n) / float64(decisions)
		}
	}
	for key, n := range pairs {
		sum.ModuleCoOccurrence[key] = float64(n) / float64(len(records))
	}
	return sum
}

func modulePairs(modules []string) []string {
	uniq := make([]string, 0, len(modules))
	seen := map[string]bool{}
	for _, m := range modules {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		uniq = append(uniq, m)
	}
	sort.Strings(uniq)
	var out []string
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			out = append(out, uniq[i]+"+"+uniq[j])
		}
	}
	return out
}
