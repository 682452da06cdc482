package contracts

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

var (
	riskTheme        = regexp.MustCompile(`(?i)\b(risk|urgent|safety|hazard)\b`)
	costTheme        = regexp.MustCompile(`(?i)(\bcapex\b|\bcost|\bbudget|\bquote|\$)`)
	majorHeadingHTML = regexp.MustCompile(`(?i)<h[12][\s>]`)
)

// ValidateReport checks final slot values against the report contract and
// returns every violated rule.
func ValidateReport(slots map[string]string) []error {
	var errs []error
	for _, slot := range RequiredSlots {
		contract, _ := ContractForSlot(slot)
		if contract.Required && strings.TrimSpace(slots[slot]) == "" {
			errs = append(errs, fmt.Errorf("%s is required", slot))
		}
	}

	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if tok, found := content.ForbiddenToken(slots[name]); found {
			errs = append(errs, fmt.Errorf("%s contains placeholder token %q", name, tok))
		}
	}

	for _, slot := range RequiredSlots {
		value := slots[slot]
		if strings.TrimSpace(value) == "" {
			continue
		}
		contract, _ := ContractForSlot(slot)
		for _, rule := range contract.Rules {
			if err := rule.Check(value); err != nil {
				errs = append(errs, fmt.Errorf("%s %w", slot, err))
			}
		}
	}
	return errs
}

func checkProfile(value string) error {
	if _, err := content.ParseProfile(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("has unknown profile %q", strings.TrimSpace(value))
	}
	return nil
}

func checkBullets(value string) error {
	bullets := 0
	for _, line := range strings.Split(value, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			bullets++
		}
	}
	if bullets < 2 {
		return fmt.Errorf("needs at least 2 bullets, found %d", bullets)
	}
	return nil
}

func checkTheme(pattern *regexp.Regexp, theme string) func(string) error {
	return func(value string) error {
		if !pattern.MatchString(value) {
			return fmt.Errorf("does not cover the %s theme", theme)
		}
		return nil
	}
}

func checkNoMajorHeadings(value string) error {
	if majorHeadingHTML.MatchString(value) {
		return errors.New("must not contain h1 or h2 headings")
	}
	return nil
}
