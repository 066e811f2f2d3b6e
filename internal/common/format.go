package common

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// usd is the display currency for every amount, whatever the holding's source currency.
var usd = money.New(0, money.USD).Currency()

// cents rounds v to two decimals (half away from zero) and returns minor units.
func cents(v float64) int64 {
	return decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
}

// FormatMoney formats a float as US dollars with comma separators,
// e.g. 1234.5 -> "$1,234.50" and -20 -> "-$20.00".
func FormatMoney(v float64) string {
	return usd.Formatter().Format(cents(v))
}

// FormatPct formats a percentage value (5.25 means 5.25%) with two decimals.
func FormatPct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatSignedPct formats a percentage with a leading + for non-negative values.
func FormatSignedPct(v float64) string {
	if v >= 0 {
		return "+" + FormatPct(v)
	}
	return FormatPct(v)
}

// FormatQuantity formats a share count with two decimals.
func FormatQuantity(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatProfitLoss renders a P&L amount and its percent change as
// "$150.50 (+5.25%)". The + prefix follows the sign of the amount, not the
// percentage. positive reports whether amount >= 0.
func FormatProfitLoss(amount, pct float64) (text string, positive bool) {
	positive = amount >= 0
	var b strings.Builder
	b.WriteString(FormatMoney(amount))
	b.WriteString(" (")
	if positive {
		b.WriteString("+")
	}
	b.WriteString(FormatPct(pct))
	b.WriteString(")")
	return b.String(), positive
}
