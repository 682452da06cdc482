package content

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCurrency is used when neither the row nor configuration names one.
const DefaultCurrency = "AUD"

// Float returns a pointer to v, for optional amount fields.
func Float(v float64) *float64 {
	return &v
}

func currencySymbol(currency string) string {
	switch strings.ToUpper(strings.TrimSpace(currency)) {
	case "", "AUD", "USD", "NZD", "CAD":
		return "$"
	case "GBP":
		return "£"
	case "EUR":
		return "€"
	default:
		return strings.ToUpper(strings.TrimSpace(currency)) + " "
	}
}

// FormatMoney renders a whole-unit amount with thousands separators.
func FormatMoney(amount float64, currency string) string {
	rounded := int64(math.Round(amount))
	negative := rounded < 0
	if negative {
		rounded = -rounded
	}
	digits := strconv.FormatInt(rounded, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := currencySymbol(currency) + b.String()
	if negative {
		return "-" + out
	}
	return out
}

// FormatBand renders a low–high range; equal ends collapse to one amount.
func FormatBand(low, high float64, currency string) string {
	if math.Round(low) == math.Round(high) {
		return FormatMoney(low, currency)
	}
	return FormatMoney(low, currency) + "–" + FormatMoney(high, currency)
}

var moneyPattern = regexp.MustCompile(`[$£€]\s?(\d[\d,]*(?:\.\d+)?)`)

// ParseMoneyBand extracts the first one or two money amounts from text such
// as "$1,200–$2,500" or "$800 - $1,500". A single amount yields low == high.
func ParseMoneyBand(text string) (low, high float64, ok bool) {
	matches := moneyPattern.FindAllStringSubmatch(text, 2)
	if len(matches) == 0 {
		return 0, 0, false
	}
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return 0, 0, false
		}
		values = append(values, v)
	}
	low, high = values[0], values[0]
	if len(values) == 2 {
		high = values[1]
	}
	if high < low {
		low, high = high, low
	}
	return low, high, true
}

// RoundTo rounds v to the nearest multiple of step.
func RoundTo(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
