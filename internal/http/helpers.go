package http

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"obras/internal/core"
	"obras/internal/i18n"
)

// formatBRL renders cents as reais with the separators of lang, e.g.
// "R$ 46.700,00" in Portuguese and "R$ 46,700.00" in English.
func formatBRL(lang string, cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	thousands, decimalSep := separators(lang)
	s := "R$ " + groupDigits(strconv.FormatInt(cents/100, 10), thousands) +
		decimalSep + twoDigits(cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// formatPercent renders a percentage with two decimals.
func formatPercent(lang string, v float64) string {
	_, decimalSep := separators(lang)
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", decimalSep, 1) + "%"
}

func formatDecimal(lang string, d decimal.Decimal) string {
	_, decimalSep := separators(lang)
	return strings.Replace(d.String(), ".", decimalSep, 1)
}

// formatDate renders a date for display. Empty dates render as "-".
func formatDate(lang string, d core.Date) string {
	if d.IsEmpty() {
		return "-"
	}
	if i18n.Normalize(lang) == i18n.EN {
		return d.Format("2006-01-02")
	}
	return d.Format("02/01/2006")
}

// inputDate is the value of an <input type="date">.
func inputDate(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.String()
}

// barWidth is part as a rounded percentage of whole, clamped to [0,100].
// Non-zero parts get at least 2 so they stay visible.
func barWidth(part, whole core.Money) int {
	if whole.Cents <= 0 || part.Cents <= 0 {
		return 0
	}
	width := int((part.Cents*100 + whole.Cents/2) / whole.Cents)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func separators(lang string) (thousands, decimalSep string) {
	if i18n.Normalize(lang) == i18n.EN {
		return ",", "."
	}
	return ".", ","
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
