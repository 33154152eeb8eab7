// Package format renders currency and percentage figures for reports.
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	sign, digits := split(amount)
	return sign + "$" + digits
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "n/a"
	}
	sign, digits := split(amount)
	return sign + digits
}

// Percent renders a percentage figure such as 6.8 as "6.80%".
func Percent(percent float64) string {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(percent).StringFixed(constants.DecimalPlaces) + "%"
}

func split(amount float64) (string, string) {
	rounded := decimal.NewFromFloat(amount).Round(constants.DecimalPlaces)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	fixed := rounded.Abs().StringFixed(constants.DecimalPlaces)
	intPart, decPart, _ := strings.Cut(fixed, ".")
	return sign, group(intPart) + "." + decPart
}

func group(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
