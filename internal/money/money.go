package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// defaultRate is riel per US dollar; overridable from config at startup.
var rate = decimal.NewFromInt(4100)

// SetExchangeRate overrides the KHR-per-USD rate. Non-positive values are
// ignored.
func SetExchangeRate(khrPerUSD float64) {
	if khrPerUSD > 0 {
		rate = decimal.NewFromFloat(khrPerUSD)
	}
}

// ToKHR converts a USD amount to riel, rounded to whole riel.
func ToKHR(usd float64) float64 {
	v, _ := decimal.NewFromFloat(usd).Mul(rate).Round(0).Float64()
	return v
}

// ToUSD converts a riel amount to USD, rounded to cents.
func ToUSD(khr float64) float64 {
	v, _ := decimal.NewFromFloat(khr).Div(rate).Round(2).Float64()
	return v
}

// Format renders an amount with thousand separators and a currency suffix.
// USD keeps two decimals, KHR is rendered as whole riel.
func Format(amount float64, currency string) string {
	if currency == "" {
		currency = "KHR"
	}

	d := decimal.NewFromFloat(amount)
	if strings.EqualFold(currency, "USD") {
		d = d.Round(2)
		return groupThousands(d.StringFixed(2)) + " " + strings.ToUpper(currency)
	}
	return groupThousands(d.Round(0).String()) + " " + strings.ToUpper(currency)
}

// String renders a numeric value in its shortest exact decimal form, e.g.
// 20.00 as "20". Used by the receipt normalizer for item amounts.
func String(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	length := len(intPart)
	for i, digit := range intPart {
		if i > 0 && (length-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
