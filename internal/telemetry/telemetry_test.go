package telemetry

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/inject"
	"github.com/kingrea/report-engine/internal/plan"
)

func sources(merged ...string) inject.SlotSourceMap {
	out := inject.SlotSourceMap{}
	for _, slot := range inject.ManagedSlots {
		out[slot] = inject.SlotSource{Source: inject.SourceLegacy, Reason: inject.ReasonFlagDisabled}
	}
	for _, slot := range merged {
		out[slot] = inject.SlotSource{Source: inject.SourceMerged, Reason: inject.ReasonInjected}
	}
	return out
}

func TestNewRecord(t *testing.T) {
	p := &plan.Plan{Profile: content.ProfileOwner, Modules: []string{"capacity", "energy"}}
	res := inject.Result{Sources: sources(inject.SlotExecutiveSummary)}
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))

	rec := NewRecord("r-1", p, inject.Flags{ExecutiveSummary: true}, res, at)

	require.Equal(t, "r-1", rec.ReportID)
	require.Equal(t, "owner", rec.Profile)
	require.Equal(t, []string{"capacity", "energy"}, rec.Modules)
	require.Equal(t, inject.ModePartial, rec.InjectionMode)
	require.Len(t, rec.FallbackReasons, 4)
	require.NotNil(t, rec.ValidationFlags)
	require.Equal(t, time.UTC, rec.Timestamp.Location())
}

func TestNewRecordWithoutPlan(t *testing.T) {
	rec := NewRecord("r-2", nil, inject.Flags{}, inject.Result{}, time.Unix(0, 0))
	require.Empty(t, rec.Profile)
	require.NotNil(t, rec.Modules)
	require.NotNil(t, rec.FallbackReasons)
	require.Equal(t, inject.ModeOff, rec.InjectionMode)
}

func TestAggregate(t *testing.T) {
	records := []Record{
		{Profile: "owner", InjectionMode: "full", Modules: []string{"energy", "capacity"}, SlotSourceMap: sources(inject.ManagedSlots...)},
		{Profile: "owner", InjectionMode: "off", Modules: []string{"capacity", "safety", "capacity"}, SlotSourceMap: sources()},
		{Profile: "tenant", InjectionMode: "partial", Modules: []string{"capacity", "energy"}, SlotSourceMap: sources(inject.SlotExecutiveSummary)},
		{Profile: "investor", InjectionMode: "off", Modules: nil, SlotSourceMap: sources()},
	}

	sum := Aggregate(records)

	require.Equal(t, 4, sum.Reports)
	require.Equal(t, map[string]int{"owner": 2, "tenant": 1, "investor": 1}, sum.ProfileCounts)
	require.Equal(t, 2, sum.ModeCounts["off"])
	require.InDelta(t, 0.5, sum.MergedAdoption[inject.SlotExecutiveSummary], 1e-9)
	require.InDelta(t, 0.25, sum.MergedAdoption[inject.SlotFindings], 1e-9)
	// 20 decisions, 14 legacy FLAG_DISABLED
	require.InDelta(t, 14.0/20.0, sum.FallbackRate[inject.ReasonFlagDisabled], 1e-9)
	require.InDelta(t, 0.5, sum.ModuleCoOccurrence["capacity+energy"], 1e-9)
	require.InDelta(t, 0.25, sum.ModuleCoOccurrence["capacity+safety"], 1e-9)
	require.NotContains(t, sum.ModuleCoOccurrence, "capacity+capacity")
}

func TestAggregateEmpty(t *testing.T) {
	sum := Aggregate(nil)
	require.Zero(t, sum.Reports)
	require.Empty(t, sum.FallbackRate)
	require.NotNil(t, sum.MergedAdoption)
}

func TestEmitterRoundTripThroughSink(t *testing.T) {
	sink, err := NewSink(filepath.Join(t.TempDir(), "nested", "telemetry.log"))
	require.NoError(t, err)
	emitter := NewEmitter(WithSink(sink))

	for _, id := range []string{"a", "b"} {
		require.NoError(t, emitter.Emit(Record{ReportID: id, Profile: "owner", SlotSourceMap: sources()}))
	}
	require.NoError(t, sink.Append("unrelated log line"))

	records, err := sink.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "b", records[1].ReportID)
	require.Equal(t, inject.SourceLegacy, records[0].SlotSourceMap[inject.SlotFindings].Source)
}

func TestFormatLineIsTagged(t *testing.T) {
	line, err := FormatLine(Record{ReportID: "x"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, Tag+" {"))
	require.Contains(t, line, `"reportId":"x"`)
}

func TestParseLinesRejectsCorruptPayload(t *testing.T) {
	_, err := ParseLines(strings.NewReader(Tag + " {not json"))
	require.Error(t, err)
}

func TestNilEmitterAndSink(t *testing.T) {
	var e *Emitter
	require.NoError(t, e.Emit(Record{}))
	require.NoError(t, NewEmitter().Emit(Record{ReportID: "log-only"}))
}
