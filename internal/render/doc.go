// Package render turns merged plan sections into the exact text and HTML
// shapes the document renderer consumes, and validates those shapes before
// they are injected.
//
// Shapes:
//   - Executive summary: one "- " bullet per line.
//   - What this means: paragraphs separated by a blank line.
//   - CapEx table rows: one "| item | priority | estimate |" line per row.
//   - CapEx snapshot: a single sentence summing the costed rows.
//   - Findings: the findings marker once, then one section per finding with
//     an h3 title and the six fixed h4 headings.
//
// Every validator returns a *ValidationError whose Rule is used as the
// injection fallback reason.
package render
