package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/merge"
)

// Validation rule identifiers.
const (
	RuleEmpty          = "EMPTY"
	RuleMarkerCount    = "MARKER_COUNT"
	RuleNoSections     = "NO_SECTIONS"
	RuleSectionCount   = "SECTION_COUNT"
	RuleMissingHeading = "MISSING_HEADING"
	RuleMajorHeading   = "MAJOR_HEADING"
	RuleSlotMarker     = "SLOT_MARKER"
	RuleForbiddenToken = "FORBIDDEN_TOKEN"
	RuleRowShape       = "ROW_SHAPE"
	RuleRowCount       = "ROW_COUNT"
	RuleDuplicate      = "DUPLICATE"
	RuleBulletShape    = "BULLET_SHAPE"
	RuleMarkdownHeader = "MARKDOWN_HEADING"
)

// ValidationError names the first rule a rendered value broke.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "render: " + e.Rule
	}
	return "render: " + e.Rule + ": " + e.Detail
}

func fail(rule, format string, args ...any) error {
	return &ValidationError{Rule: rule, Detail: fmt.Sprintf(format, args...)}
}

const sectionOpen = `<section class="finding"`

var majorHeadingPattern = regexp.MustCompile(`(?i)<h[12][\s>]`)

// ValidateFindingsHTML checks a rendered findings slot. expected is the
// number of finding sections the caller rendered; pass a negative value to
// skip the count check.
func ValidateFindingsHTML(doc string, expected int) error {
	if strings.TrimSpace(doc) == "" {
		return fail(RuleEmpty, "findings html is empty")
	}
	if n := strings.Count(doc, content.FindingsMarker); n != 1 {
		return fail(RuleMarkerCount, "marker appears %d times", n)
	}
	if strings.Contains(doc, content.SlotMarkerPrefix) {
		return fail(RuleSlotMarker, "template slot marker present")
	}
	if tok, found := content.ForbiddenToken(doc); found {
		return fail(RuleForbiddenToken, "%q", tok)
	}
	if majorHeadingPattern.MatchString(doc) {
		return fail(RuleMajorHeading, "h1/h2 headings are reserved")
	}
	sections := strings.Split(doc, sectionOpen)[1:]
	if len(sections) == 0 {
		return fail(RuleNoSections, "no finding sections")
	}
	if expected >= 0 && len(sections) != expected {
		return fail(RuleSectionCount, "expected %d sections, found %d", expected, len(sections))
	}
	for i, section := range sections {
		for _, h := range Headings {
			if !strings.Contains(section, "<h4>"+h+"</h4>") {
				return fail(RuleMissingHeading, "section %d missing %q", i+1, h)
			}
		}
	}
	return nil
}

var capexRowPattern = regexp.MustCompile(`^\| [^|]+ \| (Urgent|Recommended|Plan|For information) \| [^|]+ \|$`)

// ValidateCapexRows checks rendered CapEx lines against the expected row
// count.
func ValidateCapexRows(text string, expected int) error {
	if strings.TrimSpace(text) == "" {
		return fail(RuleEmpty, "capex rows are empty")
	}
	if tok, found := content.ForbiddenToken(text); found {
		return fail(RuleForbiddenToken, "%q", tok)
	}
	if _, found := content.ReservedMarker(text); found {
		return fail(RuleSlotMarker, "structural marker present")
	}
	lines := strings.Split(text, "\n")
	if len(lines) != expected {
		return fail(RuleRowCount, "expected %d rows, found %d", expected, len(lines))
	}
	seen := map[string]struct{}{}
	for i, line := range lines {
		if !capexRowPattern.MatchString(line) {
			return fail(RuleRowShape, "row %d", i+1)
		}
		item := merge.Normalize(strings.SplitN(line, "|", 3)[1])
		if _, dup := seen[item]; dup {
			return fail(RuleDuplicate, "row %d repeats %q", i+1, item)
		}
		seen[item] = struct{}{}
	}
	return nil
}

// ValidateSnapshot checks the one-line CapEx snapshot.
func ValidateSnapshot(text string) error {
	if strings.TrimSpace(text) == "" {
		return fail(RuleEmpty, "snapshot is empty")
	}
	if strings.Contains(text, "\n") {
		return fail(RuleRowShape, "snapshot must be one line")
	}
	return checkText(text)
}

// ValidateExecutiveSummary checks bullet shape and duplicate lines.
func ValidateExecutiveSummary(text string) error {
	if strings.TrimSpace(text) == "" {
		return fail(RuleEmpty, "executive summary is empty")
	}
	if err := checkText(text); err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for i, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "- ") || strings.TrimSpace(line[2:]) == "" {
			return fail(RuleBulletShape, "line %d", i+1)
		}
		norm := merge.Normalize(line[2:])
		if _, dup := seen[norm]; dup {
			return fail(RuleDuplicate, "line %d", i+1)
		}
		seen[norm] = struct{}{}
	}
	return nil
}

// ValidateWhatThisMeans checks paragraph text for headings and duplicates.
func ValidateWhatThisMeans(text string) error {
	if strings.TrimSpace(text) == "" {
		return fail(RuleEmpty, "narrative is empty")
	}
	if err := checkText(text); err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for i, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) == "" {
			return fail(RuleEmpty, "paragraph %d", i+1)
		}
		norm := merge.Normalize(para)
		if _, dup := seen[norm]; dup {
			return fail(RuleDuplicate, "paragraph %d", i+1)
		}
		seen[norm] = struct{}{}
	}
	return nil
}

func checkText(text string) error {
	if tok, found := content.ForbiddenToken(text); found {
		return fail(RuleForbiddenToken, "%q", tok)
	}
	if _, found := content.ReservedMarker(text); found {
		return fail(RuleSlotMarker, "structural marker present")
	}
	for i, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return fail(RuleMarkdownHeader, "line %d", i+1)
		}
	}
	return nil
}
