package signals

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// coverageKeywords are tested from most to least authoritative; the first
// group with a matching keyword decides the class.
var coverageKeywords = []struct {
	coverage content.Coverage
	keywords []string
}{
	{content.CoverageMeasured, []string{"measured", "stress test"}},
	{content.CoverageObserved, []string{"observed", "inspection"}},
	{content.CoverageDeclared, []string{"job", "loads", "assets"}},
}

var pathSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// ClassifyPath derives evidence coverage from the shape of a source path.
// Paths that match no keyword default to observed; an empty path is unknown.
func ClassifyPath(path string) content.Coverage {
	normalized := strings.TrimSpace(strings.ToLower(path))
	if normalized == "" {
		return content.CoverageUnknown
	}
	normalized = " " + pathSeparators.Replace(normalized) + " "
	for _, group := range coverageKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(normalized, " "+keyword+" ") {
				return group.coverage
			}
		}
	}
	return content.CoverageObserved
}

// Best returns the most authoritative class, or unknown for no input.
func Best(classes ...content.Coverage) content.Coverage {
	best := content.CoverageUnknown
	for _, c := range classes {
		if c.Rank() > best.Rank() {
			best = c
		}
	}
	return best
}

// BestOfPaths classifies each path and returns the most authoritative class.
func BestOfPaths(paths ...string) content.Coverage {
	classes := make([]content.Coverage, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		classes = append(classes, ClassifyPath(p))
	}
	return Best(classes...)
}
