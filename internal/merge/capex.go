package merge

import (
	"sort"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/profile"
)

func sanitizeCapex(rows []content.Contribution, dropped *[]Drop) []content.Contribution {
	out := make([]content.Contribution, 0, len(rows))
	for _, row := range rows {
		moduleID, _, ok := module.ParseRowKey(row.RowKey)
		if !ok || (row.ModuleID != "" && row.ModuleID != moduleID) {
			*dropped = append(*dropped, Drop{Section: SectionCapexRows, ModuleID: row.ModuleID, Key: row.RowKey, Reason: ReasonInvalidRowKey})
			continue
		}
		if reason, tok, bad := inspect(row.Text); bad {
			*dropped = append(*dropped, Drop{Section: SectionCapexRows, ModuleID: row.ModuleID, Key: row.RowKey, Reason: reason, Token: tok})
			continue
		}
		if row.ModuleID == "" {
			row.ModuleID = moduleID
		}
		out = append(out, row)
	}
	return out
}

// preferRow reports whether candidate should replace current for the same
// row key: higher priority first, then the lexically earlier text.
func preferRow(candidate, current content.Contribution) bool {
	if cr, pr := candidate.Importance.Rank(), current.Importance.Rank(); cr != pr {
		return cr < pr
	}
	return candidate.Text < current.Text
}

func mergeCapex(p content.Profile, rows []content.Contribution) []content.Contribution {
	byKey := make(map[string]int, len(rows))
	out := make([]content.Contribution, 0, len(rows))
	for _, row := range rows {
		if i, ok := byKey[row.RowKey]; ok {
			if preferRow(row, out[i]) {
				out[i] = row
			}
			continue
		}
		byKey[row.RowKey] = len(out)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ra, rb := profile.ModuleRank(p, a.ModuleID), profile.ModuleRank(p, b.ModuleID); ra != rb {
			return ra < rb
		}
		if pa, pb := a.Importance.Rank(), b.Importance.Rank(); pa != pb {
			return pa < pb
		}
		return a.RowKey < b.RowKey
	})
	return out
}
