package render

import (
	"fmt"
	"strings"

	"github.com/kingrea/report-engine/internal/content"
)

// CapexRows renders one table line per row.
func CapexRows(rows []content.Contribution) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, "| "+cell(row.Text)+" | "+row.Importance.Label()+" | "+Estimate(row)+" |")
	}
	return strings.Join(lines, "\n")
}

// Estimate renders a row's cost band, falling back to amounts parsed from
// its text, then to TBD.
func Estimate(row content.Contribution) string {
	if low, high, ok := Amounts(row); ok {
		return content.FormatBand(low, high, currencyOf(row))
	}
	return "TBD"
}

// Amounts returns the explicit or text-parsed band for a row. TBD rows have
// no amounts.
func Amounts(row content.Contribution) (low, high float64, ok bool) {
	if row.AmountIsTBD {
		return 0, 0, false
	}
	switch {
	case row.AmountLow != nil && row.AmountHigh != nil:
		low, high = *row.AmountLow, *row.AmountHigh
	case row.AmountLow != nil:
		low, high = *row.AmountLow, *row.AmountLow
	case row.AmountHigh != nil:
		low, high = *row.AmountHigh, *row.AmountHigh
	default:
		return content.ParseMoneyBand(row.Text)
	}
	if high < low {
		low, high = high, low
	}
	return low, high, true
}

func currencyOf(row content.Contribution) string {
	if row.Currency != "" {
		return row.Currency
	}
	return content.DefaultCurrency
}

func cell(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return strings.ReplaceAll(text, "|", "/")
}

// Snapshot summarizes the CapEx rows.
type Snapshot struct {
	Low      float64            `json:"low"`
	High     float64            `json:"high"`
	Costed   int                `json:"costed"`
	TBD      int                `json:"tbd"`
	Currency string             `json:"currency"`
	Bias     content.BudgetBias `json:"bias"`
	Text     string             `json:"text"`
}

// CapexSnapshot sums every costed row and counts the rest as needing a quote.
// bias selects which end of the total leads the sentence.
func CapexSnapshot(rows []content.Contribution, bias content.BudgetBias) Snapshot {
	s := Snapshot{Currency: content.DefaultCurrency, Bias: content.ParseBudgetBias(string(bias))}
	if len(rows) > 0 {
		s.Currency = currencyOf(rows[0])
	}
	for _, row := range rows {
		low, high, ok := Amounts(row)
		if !ok {
			s.TBD++
			continue
		}
		s.Low += low
		s.High += high
		s.Costed++
	}
	s.Text = snapshotText(s)
	return s
}

func snapshotText(s Snapshot) string {
	if s.Costed == 0 && s.TBD == 0 {
		return "No capital expenditure items were identified."
	}
	if s.Costed == 0 {
		return fmt.Sprintf("%s require a site quote.", countItems(s.TBD))
	}
	var total string
	switch s.Bias {
	case content.BudgetConservative:
		total = "up to " + content.FormatMoney(s.High, s.Currency)
	case content.BudgetAggressive:
		total = "from " + content.FormatMoney(s.Low, s.Currency)
	default:
		total = content.FormatBand(s.Low, s.High, s.Currency)
	}
	text := fmt.Sprintf("Estimated %s across %s", total, countItems(s.Costed))
	if s.TBD > 0 {
		text += fmt.Sprintf(", plus %s requiring a site quote", countItems(s.TBD))
	}
	return text + "."
}

func countItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
