// Package format renders amounts and chart scales for people reading them in pt-BR.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/caixa/internal/domain"
)

var (
	thousand       = decimal.NewFromInt(1000)
	boundsPadding  = decimal.RequireFromString("0.15")
	minimumPadding = decimal.NewFromInt(100)
)

// BRL formats an amount as Brazilian reais, e.g. "R$ 1.234,56" or "-R$ 10,00".
func BRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	fixed := rounded.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	return sign + "R$ " + groupThousands(intPart) + "," + frac
}

// CompactBRL renders an axis label: thousands collapse to one decimal with a
// "k" suffix, smaller values are rounded to whole reais.
func CompactBRL(amount decimal.Decimal) string {
	if amount.Abs().GreaterThanOrEqual(thousand) {
		return "R$ " + amount.Div(thousand).StringFixed(1) + "k"
	}
	return "R$ " + amount.StringFixed(0)
}

// ChartBounds returns the y-axis range for a balance series. The range spans
// the opening balance and every point, padded on both sides by 15% of its
// width, or by 100 when the series is flat.
func ChartBounds(series domain.BalanceSeries) (lo, hi decimal.Decimal) {
	lo, hi = series.OpeningBalance, series.OpeningBalance
	for _, p := range series.Points {
		lo = decimal.Min(lo, p.Balance)
		hi = decimal.Max(hi, p.Balance)
	}

	padding := hi.Sub(lo).Mul(boundsPadding)
	if padding.IsZero() {
		padding = minimumPadding
	}

	return lo.Sub(padding), hi.Add(padding)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
