package content

import (
	"regexp"
	"strings"
)

const (
	// FindingsMarker tags generated findings HTML so the renderer can verify
	// where it came from. It must appear exactly once per findings slot.
	FindingsMarker = "<!--REPORT_ENGINE_FINDINGS:v1-->"
	// SlotMarkerPrefix opens template slot markers owned by the document renderer.
	SlotMarkerPrefix = "<!--SLOT"
)

// ForbiddenLiterals are substrings that signal leaked template or missing-data
// artifacts.
var ForbiddenLiterals = []string{"[object Object]", "{{", "}}"}

// ForbiddenWords are missing-data tokens matched on word boundaries.
var ForbiddenWords = []string{"undefined", "null", "NaN"}

var forbiddenWordPattern = regexp.MustCompile(`\b(undefined|null|NaN)\b`)

// ForbiddenToken returns the first forbidden token found in text.
func ForbiddenToken(text string) (string, bool) {
	for _, literal := range ForbiddenLiterals {
		if strings.Contains(text, literal) {
			return literal, true
		}
	}
	if match := forbiddenWordPattern.FindString(text); match != "" {
		return match, true
	}
	return "", false
}

// ReservedMarker returns the first structural marker fragment found in text.
func ReservedMarker(text string) (string, bool) {
	for _, marker := range []string{FindingsMarker, SlotMarkerPrefix} {
		if strings.Contains(text, marker) {
			return marker, true
		}
	}
	return "", false
}

// Clean reports whether text is free of forbidden tokens and reserved markers.
func Clean(text string) bool {
	if _, bad := ForbiddenToken(text); bad {
		return false
	}
	if _, bad := ReservedMarker(text); bad {
		return false
	}
	return true
}
