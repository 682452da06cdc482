package merge

import (
	"sort"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/profile"
)

func sanitizeFindings(findings []content.Finding, dropped *[]Drop) []content.Finding {
	out := make([]content.Finding, 0, len(findings))
	for _, f := range findings {
		if f.ID == "" || f.Key == "" {
			*dropped = append(*dropped, Drop{Section: SectionFindings, ModuleID: f.ModuleID, Key: f.Key, Reason: ReasonEmpty})
			continue
		}
		if reason, tok, bad := inspectFinding(f); bad {
			*dropped = append(*dropped, Drop{Section: SectionFindings, ModuleID: f.ModuleID, Key: f.Key, Reason: reason, Token: tok})
			continue
		}
		out = append(out, f)
	}
	return out
}

func inspectFinding(f content.Finding) (reason, token string, bad bool) {
	if reason, tok, bad := inspect(f.Title); bad {
		return reason, tok, true
	}
	fields := append([]string{f.Rationale, f.HTML}, f.EvidenceRefs...)
	fields = append(fields, f.Photos...)
	for _, text := range fields {
		if tok, found := content.ForbiddenToken(text); found {
			return ReasonForbiddenToken, tok, true
		}
		if tok, found := content.ReservedMarker(text); found {
			return ReasonReservedMarker, tok, true
		}
	}
	return "", "", false
}

// dedupeFindings keeps the first finding seen for each key.
func dedupeFindings(findings []content.Finding) []content.Finding {
	seen := make(map[string]struct{}, len(findings))
	out := make([]content.Finding, 0, len(findings))
	for _, f := range findings {
		if _, dup := seen[f.Key]; dup {
			continue
		}
		seen[f.Key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func tieKey(f content.Finding) string {
	if f.SortKey != "" {
		return f.SortKey
	}
	return f.Key
}

// orderFindings sorts by profile module rank, then priority rank, then the
// lexical tie-break on sort key (or key), title and id.
func orderFindings(p content.Profile, findings []content.Finding) []content.Finding {
	sort.SliceStable(findings, func(i, j int) bool {
		return lessFinding(p, findings[i], findings[j])
	})
	return findings
}

func lessFinding(p content.Profile, a, b content.Finding) bool {
	if ra, rb := profile.ModuleRank(p, a.ModuleID), profile.ModuleRank(p, b.ModuleID); ra != rb {
		return ra < rb
	}
	if pa, pb := a.Priority.Rank(), b.Priority.Rank(); pa != pb {
		return pa < pb
	}
	if ta, tb := tieKey(a), tieKey(b); ta != tb {
		return ta < tb
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}
