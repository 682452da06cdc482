package render

import (
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/report-engine/internal/content"
)

// Headings are the six fixed h4 headings every finding section carries.
var Headings = []string{
	"Priority",
	"What we found",
	"Why it matters",
	"Recommended action",
	"Evidence",
	"Photos",
}

const (
	fallbackRationale = "Details of this item were not recorded."
	fallbackWhy       = "This item affects how the installation performs over time."
	fallbackAction    = "Discuss this item with a licensed electrician."
)

// FindingsOptions configures findings rendering. A nil Signer renders photo
// references as plain text.
type FindingsOptions struct {
	InspectionID string
	BaseURL      string
	Secret       string
	Signer       PhotoSigner
	Metadata     content.MetadataSource
	Logger       *zap.Logger
}

// SignFailure records one photo reference that could not be signed.
type SignFailure struct {
	FindingID string `json:"findingId"`
	Ref       string `json:"ref"`
	Err       string `json:"error"`
}

// FindingsHTML renders the findings slot: the marker followed by one section
// per finding. An empty list renders to the empty string.
func FindingsHTML(findings []content.Finding, opts FindingsOptions) (string, []SignFailure) {
	if len(findings) == 0 {
		return "", nil
	}
	var (
		b        strings.Builder
		failures []SignFailure
	)
	b.WriteString(content.FindingsMarker)
	b.WriteString("\n")
	for _, f := range findings {
		block, failed := FindingBlock(f, opts)
		failures = append(failures, failed...)
		b.WriteString(block)
	}
	return b.String(), failures
}

// FindingBlock renders a single finding section.
func FindingBlock(f content.Finding, opts FindingsOptions) (string, []SignFailure) {
	meta := lookupMeta(opts.Metadata, f.ID)
	title := firstNonBlank(f.Title, meta.Title, f.ID)
	var b strings.Builder
	b.WriteString(`<section class="finding" data-finding-id="` + html.EscapeString(f.ID) + `" data-module-id="` + html.EscapeString(f.ModuleID) + `">` + "\n")
	b.WriteString("<h3>" + html.EscapeString(title) + "</h3>\n")

	heading(&b, "Priority")
	b.WriteString(`<p class="priority priority-` + priorityClass(f.Priority) + `">` + f.Priority.Label() + "</p>\n")

	heading(&b, "What we found")
	paragraph(&b, firstNonBlank(f.Rationale, fallbackRationale))

	heading(&b, "Why it matters")
	paragraph(&b, firstNonBlank(meta.WhyItMatters, fallbackWhy))

	heading(&b, "Recommended action")
	paragraph(&b, firstNonBlank(meta.RecommendedAction, fallbackAction))

	heading(&b, "Evidence")
	refs := nonBlank(f.EvidenceRefs)
	if len(refs) == 0 {
		paragraph(&b, "No evidence references were recorded.")
	} else {
		b.WriteString("<ul class=\"evidence\">\n")
		for _, ref := range refs {
			b.WriteString("<li>" + html.EscapeString(ref) + "</li>\n")
		}
		b.WriteString("</ul>\n")
	}

	heading(&b, "Photos")
	var failures []SignFailure
	photos := nonBlank(f.Photos)
	if len(photos) == 0 {
		paragraph(&b, "No photos were attached.")
	} else {
		b.WriteString("<ul class=\"photos\">\n")
		for _, ref := range photos {
			link, err := signPhoto(opts, ref)
			if err != nil {
				failures = append(failures, SignFailure{FindingID: f.ID, Ref: ref, Err: err.Error()})
				logger(opts).Debug("photo signing failed", zap.String("finding", f.ID), zap.String("ref", ref), zap.Error(err))
			}
			if link == "" {
				b.WriteString("<li>" + html.EscapeString(ref) + "</li>\n")
				continue
			}
			b.WriteString(`<li><a href="` + html.EscapeString(link) + `">` + html.EscapeString(ref) + "</a></li>\n")
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</section>\n")
	return b.String(), failures
}

func signPhoto(opts FindingsOptions, ref string) (string, error) {
	if opts.Signer == nil {
		return "", nil
	}
	return opts.Signer.Sign(opts.InspectionID, ref, opts.BaseURL, opts.Secret)
}

func logger(opts FindingsOptions) *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}

func lookupMeta(src content.MetadataSource, id string) content.FindingMeta {
	if src == nil {
		return content.FindingMeta{}
	}
	meta, _ := src.FindingMeta(id)
	return meta
}

func heading(b *strings.Builder, text string) {
	b.WriteString("<h4>" + text + "</h4>\n")
}

func paragraph(b *strings.Builder, text string) {
	b.WriteString("<p>" + html.EscapeString(text) + "</p>\n")
}

func priorityClass(p content.Priority) string {
	if p == content.PriorityUnranked {
		return "info"
	}
	return string(p)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
