package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/report-engine/internal/content"
)

// MetadataFile mirrors the finding metadata YAML document.
type MetadataFile struct {
	Findings []content.FindingMeta `yaml:"findings"`
}

var builtinMeta = map[string]content.FindingMeta{
	"SAFETY_RCD_ABSENT": {
		Title:             "No residual-current protection",
		WhyItMatters:      "Without an RCD, an earth fault can deliver a lethal shock before any fuse or breaker reacts.",
		RecommendedAction: "Install RCD protection on all final circuits.",
	},
	"SAFETY_RCD_PARTIAL": {
		Title:             "Partial residual-current protection",
		WhyItMatters:      "Circuits outside RCD protection carry the same shock risk as an unprotected installation.",
		RecommendedAction: "Extend RCD protection to every final circuit.",
	},
	"SAFETY_MAIN_SWITCH_OVERLOAD": {
		Title:             "Main switch overloaded",
		WhyItMatters:      "Sustained load above the main switch rating overheats the supply equipment.",
		RecommendedAction: "Reduce load immediately and arrange a supply capacity assessment.",
	},
	"LOAD_STRESS_TEST_RESULT": {
		Title:             "Load stress test result",
		WhyItMatters:      "Headroom on the main switch decides whether new appliances can be added without an upgrade.",
		RecommendedAction: "Review the stress level before adding large loads.",
	},
	"DER_ASSET_OVERVIEW": {
		Title:        "Distributed energy assets",
		WhyItMatters: "Generation, storage and EV charging change when the property draws from the grid.",
	},
	"EV_CHARGER_READINESS": {
		Title:             "EV charger readiness",
		WhyItMatters:      "An EV charger is the largest continuous load most homes add.",
		RecommendedAction: "Fit dynamic load management or upgrade the supply before installing a charger.",
	},
	"LOAD_MONITORING_JUSTIFICATION": {
		Title:             "Load monitoring",
		WhyItMatters:      "Continuous monitoring replaces a single reading with a record of real demand.",
		RecommendedAction: "Install a circuit-level energy monitor.",
	},
	"CIRCUIT_CONTRIBUTION_BREAKDOWN": {
		Title:        "Circuit contribution breakdown",
		WhyItMatters: "A few circuits usually dominate demand and running cost.",
	},
	"ESTIMATED_COST_BAND": {
		Title:        "Estimated monthly energy cost",
		WhyItMatters: "The band indicates the scale of running costs for budgeting.",
	},
	"UNKNOWN_HIGH_DRAW_INVESTIGATION": {
		Title:             "Unexplained high draw",
		WhyItMatters:      "Unattributed load can indicate a faulty appliance or wiring defect.",
		RecommendedAction: "Have an electrician trace the draw to its source.",
	},
	"PROPERTY_AGE_WIRING_REVIEW": {
		Title:             "Wiring age review",
		WhyItMatters:      "Insulation on older cabling degrades and can fail without warning.",
		RecommendedAction: "Arrange a wiring condition assessment.",
	},
	"SWITCHBOARD_END_OF_LIFE": {
		Title:             "Switchboard end of life",
		WhyItMatters:      "Fused switchboards offer limited fault protection and no shock protection.",
		RecommendedAction: "Replace the switchboard with circuit breakers and RCDs.",
	},
}

// BuiltinMeta returns a copy of the built-in finding copy keyed by id.
func BuiltinMeta() map[string]content.FindingMeta {
	out := make(map[string]content.FindingMeta, len(builtinMeta))
	for id, meta := range builtinMeta {
		meta.ID = id
		out[id] = meta
	}
	return out
}

// LoadMetadata reads a metadata file and layers it over the built-in copy.
// Empty fields in the file keep the built-in value. An empty path or a
// missing file yields the built-ins.
func LoadMetadata(path string) (map[string]content.FindingMeta, error) {
	out := BuiltinMeta()
	if strings.TrimSpace(path) == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed MetadataFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if errs := parsed.validate(); len(errs) > 0 {
		return nil, fmt.Errorf("config: %s: %w", path, errors.Join(errs...))
	}
	for _, entry := range parsed.Findings {
		id := strings.TrimSpace(entry.ID)
		out[id] = overlay(out[id], entry, id)
	}
	return out, nil
}

func (mf MetadataFile) validate() []error {
	var errs []error
	seen := map[string]bool{}
	for i, entry := range mf.Findings {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("findings[%d]: id is required", i))
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("findings[%d]: duplicate id %s", i, id))
		}
		seen[id] = true
		if entry.LegacyPriority != "" && content.ParsePriority(string(entry.LegacyPriority)) == content.PriorityUnranked {
			errs = append(errs, fmt.Errorf("findings[%d]: unknown legacy_priority %q", i, entry.LegacyPriority))
		}
	}
	return errs
}

func overlay(base, patch content.FindingMeta, id string) content.FindingMeta {
	base.ID = id
	if v := strings.TrimSpace(patch.Title); v != "" {
		base.Title = v
	}
	if v := strings.TrimSpace(patch.WhyItMatters); v != "" {
		base.WhyItMatters = v
	}
	if v := strings.TrimSpace(patch.RecommendedAction); v != "" {
		base.RecommendedAction = v
	}
	if p := content.ParsePriority(string(patch.LegacyPriority)); p != content.PriorityUnranked {
		base.LegacyPriority = p
	}
	return base
}

func sortedIDs(meta map[string]content.FindingMeta) []string {
	ids := make([]string, 0, len(meta))
	for id := range meta {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
