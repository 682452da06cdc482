package priority

import (
	"testing"

	"github.com/kingrea/report-engine/internal/content"
)

func TestResolvePrecedence(t *testing.T) {
	cases := []struct {
		name   string
		in     Input
		want   content.Priority
		source Source
	}{
		{
			name:   "final wins over everything",
			in:     Input{Final: content.PriorityPlan, Selected: content.PriorityUrgent, Computed: content.PriorityRecommended, Justification: "client asked"},
			want:   content.PriorityPlan,
			source: SourceFinal,
		},
		{
			name:   "justified selection overrides computed",
			in:     Input{Selected: content.PriorityUrgent, Computed: content.PriorityPlan, Justification: "visible scorching"},
			want:   content.PriorityUrgent,
			source: SourceSelected,
		},
		{
			name:   "blank justification ignored",
			in:     Input{Selected: content.PriorityUrgent, Computed: content.PriorityPlan, Justification: "   "},
			want:   content.PriorityPlan,
			source: SourceComputed,
		},
		{
			name:   "selection equal to computed reports computed",
			in:     Input{Selected: content.PriorityPlan, Computed: content.PriorityPlan, Justification: "same"},
			want:   content.PriorityPlan,
			source: SourceComputed,
		},
		{
			name:   "justified selection without computed",
			in:     Input{Selected: content.PriorityRecommended, Justification: "inspector note"},
			want:   content.PriorityRecommended,
			source: SourceSelected,
		},
		{
			name:   "legacy fallback",
			in:     Input{Legacy: content.PriorityRecommended},
			want:   content.PriorityRecommended,
			source: SourceLegacy,
		},
		{
			name:   "hard default",
			in:     Input{},
			want:   content.PriorityPlan,
			source: SourceDefault,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, source := Resolve(tc.in)
			if got != tc.want || source != tc.source {
				t.Fatalf("Resolve = (%s, %s), want (%s, %s)", got, source, tc.want, tc.source)
			}
		})
	}
}
