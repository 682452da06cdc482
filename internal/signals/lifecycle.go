package signals

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// AgeBand groups construction eras that share wiring practice.
type AgeBand string

const (
	AgePre1970   AgeBand = "pre_1970"
	Age1970_1990 AgeBand = "1970_1990"
	Age1990_2010 AgeBand = "1990_2010"
	AgePost2010  AgeBand = "post_2010"
	AgeUnknown   AgeBand = "unknown"
)

// SwitchboardType is the protective-device technology on the switchboard.
type SwitchboardType string

const (
	SwitchboardRewireable SwitchboardType = "rewireable_fuse"
	SwitchboardCartridge  SwitchboardType = "cartridge_fuse"
	SwitchboardMCB        SwitchboardType = "mcb"
	SwitchboardRCBO       SwitchboardType = "rcbo"
	SwitchboardUnknown    SwitchboardType = "unknown"
)

// Fused reports whether the switchboard still relies on fuses.
func (s SwitchboardType) Fused() bool {
	return s == SwitchboardRewireable || s == SwitchboardCartridge
}

// RCDCoverage describes residual-current protection across circuits.
type RCDCoverage string

const (
	RCDNone    RCDCoverage = "none"
	RCDPartial RCDCoverage = "partial"
	RCDFull    RCDCoverage = "full"
	RCDUnknown RCDCoverage = "unknown"
)

// Lifecycle holds the classified age and equipment signals.
type Lifecycle struct {
	AgeBand         AgeBand          `json:"ageBand"`
	AgePath         string           `json:"agePath,omitempty"`
	Switchboard     SwitchboardType  `json:"switchboard"`
	SwitchboardPath string           `json:"switchboardPath,omitempty"`
	RCD             RCDCoverage      `json:"rcd"`
	RCDPath         string           `json:"rcdPath,omitempty"`
	Coverage        content.Coverage `json:"coverage"`
	Insufficient    bool             `json:"insufficient"`
}

// Classified reports whether at least one lifecycle signal was recognised.
func (l Lifecycle) Classified() bool {
	return l.AgeBand != AgeUnknown || l.Switchboard != SwitchboardUnknown || l.RCD != RCDUnknown
}

// ExtractLifecycle classifies property age, switchboard and RCD coverage.
func ExtractLifecycle(t Tree) Lifecycle {
	l := Lifecycle{AgeBand: AgeUnknown, Switchboard: SwitchboardUnknown, RCD: RCDUnknown}
	var sources []string
	if v, ok := Resolve(t, agePaths...); ok {
		if band := ClassifyAgeBand(v.Raw); band != AgeUnknown {
			l.AgeBand, l.AgePath = band, v.Path
			sources = append(sources, v.Path)
		}
	}
	if v, ok := Resolve(t, switchboardPaths...); ok {
		if kind := ClassifySwitchboard(v.String()); kind != SwitchboardUnknown {
			l.Switchboard, l.SwitchboardPath = kind, v.Path
			sources = append(sources, v.Path)
		}
	}
	if v, ok := Resolve(t, rcdPaths...); ok {
		if rcd := ClassifyRCD(v.Raw); rcd != RCDUnknown {
			l.RCD, l.RCDPath = rcd, v.Path
			sources = append(sources, v.Path)
		}
	}
	l.Coverage = BestOfPaths(sources...)
	l.Insufficient = len(sources) == 0
	return l
}

// ClassifyAgeBand accepts a year (number or text) or an era description.
func ClassifyAgeBand(raw any) AgeBand {
	if text, ok := raw.(string); ok {
		v := strings.ToLower(text)
		switch {
		case strings.Contains(v, "pre-1970"), strings.Contains(v, "pre 1970"), strings.Contains(v, "pre_1970"):
			return AgePre1970
		case strings.Contains(v, "1970_1990"), strings.Contains(v, "1970-1990"):
			return Age1970_1990
		case strings.Contains(v, "1990_2010"), strings.Contains(v, "1990-2010"):
			return Age1990_2010
		case strings.Contains(v, "post-2010"), strings.Contains(v, "post_2010"), strings.Contains(v, "new build"):
			return AgePost2010
		}
	}
	year, ok := toFloat(raw)
	if !ok || year < 1800 || year > 2200 {
		return AgeUnknown
	}
	switch {
	case year < 1970:
		return AgePre1970
	case year < 1990:
		return Age1970_1990
	case year < 2010:
		return Age1990_2010
	default:
		return AgePost2010
	}
}

// ClassifySwitchboard normalizes free-text switchboard descriptions.
func ClassifySwitchboard(text string) SwitchboardType {
	v := strings.ToLower(text)
	switch {
	case strings.Contains(v, "rcbo"):
		return SwitchboardRCBO
	case strings.Contains(v, "ceramic"), strings.Contains(v, "rewireable"), strings.Contains(v, "semi-enclosed"), strings.Contains(v, "porcelain"):
		return SwitchboardRewireable
	case strings.Contains(v, "cartridge"):
		return SwitchboardCartridge
	case strings.Contains(v, "breaker"), strings.Contains(v, "mcb"):
		return SwitchboardMCB
	case strings.Contains(v, "fuse"):
		return SwitchboardRewireable
	default:
		return SwitchboardUnknown
	}
}

// ClassifyRCD normalizes RCD coverage descriptions. Booleans map to full
// or none.
func ClassifyRCD(raw any) RCDCoverage {
	if b, ok := raw.(bool); ok {
		if b {
			return RCDFull
		}
		return RCDNone
	}
	text, ok := raw.(string)
	if !ok {
		return RCDUnknown
	}
	v := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(v, "partial"), strings.Contains(v, "some"):
		return RCDPartial
	case v == "none", v == "no", strings.Contains(v, "no rcd"), strings.Contains(v, "absent"), strings.Contains(v, "not fitted"):
		return RCDNone
	case strings.Contains(v, "full"), strings.Contains(v, "all circuits"), strings.Contains(v, "complete"), v == "yes":
		return RCDFull
	default:
		return RCDUnknown
	}
}
