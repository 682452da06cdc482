package signals

import "github.com/kingrea/report-engine/internal/content"

// Assets records distributed-energy assets. Nil means nothing was recorded.
type Assets struct {
	Solar        *bool            `json:"solar,omitempty"`
	Battery      *bool            `json:"battery,omitempty"`
	EV           *bool            `json:"ev,omitempty"`
	Sources      []string         `json:"sources,omitempty"`
	Coverage     content.Coverage `json:"coverage"`
	Insufficient bool             `json:"insufficient"`
}

// Count returns how many assets are explicitly present.
func (a Assets) Count() int {
	n := 0
	for _, flag := range []*bool{a.Solar, a.Battery, a.EV} {
		if flag != nil && *flag {
			n++
		}
	}
	return n
}

// EVExplicitlyAbsent reports whether the record states there is no EV.
func (a Assets) EVExplicitlyAbsent() bool {
	return a.EV != nil && !*a.EV
}

// ExtractAssets reads solar, battery and EV declarations.
func ExtractAssets(t Tree) Assets {
	a := Assets{}
	var path string
	if a.Solar, path = ResolveFlag(t, solarPaths...); path != "" {
		a.Sources = append(a.Sources, path)
	}
	if a.Battery, path = ResolveFlag(t, batteryPaths...); path != "" {
		a.Sources = append(a.Sources, path)
	}
	if a.EV, path = ResolveFlag(t, evPaths...); path != "" {
		a.Sources = append(a.Sources, path)
	}
	a.Coverage = BestOfPaths(a.Sources...)
	a.Insufficient = len(a.Sources) == 0
	return a
}
