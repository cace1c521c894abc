package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePremium parses a premium amount as submitted by the forms
// ("12,500.00", "12500", ""). Empty input is zero; negative amounts and
// non-numeric strings are rejected.
func ParsePremium(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if trimmed == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegativePremium
	}
	return d, nil
}

// PremiumValue is the lenient variant used by aggregations: anything
// unparseable contributes zero rather than failing the whole report.
func PremiumValue(s string) decimal.Decimal {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type premiumError string

func (e premiumError) Error() string { return string(e) }

const errNegativePremium = premiumError("premium must not be negative")
