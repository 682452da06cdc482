package render

import (
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// ExecutiveSummary renders one bullet per contribution.
func ExecutiveSummary(items []content.Contribution) string {
	lines := make([]string, 0, len(items))
	for _, c := range items {
		if text := oneLine(c.Text); text != "" {
			lines = append(lines, "- "+text)
		}
	}
	return strings.Join(lines, "\n")
}

// WhatThisMeans renders blank-line separated paragraphs.
func WhatThisMeans(items []content.Contribution) string {
	paras := make([]string, 0, len(items))
	for _, c := range items {
		if text := oneLine(c.Text); text != "" {
			paras = append(paras, text)
		}
	}
	return strings.Join(paras, "\n\n")
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
