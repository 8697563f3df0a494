// Package currencyutils provides the rupee amount parsing and formatting used
// throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RupeeSymbol prefixes formatted amounts.
const RupeeSymbol = "₹"

var currencyMarker = regexp.MustCompile(`(?i)^(?:rs\.?|inr|₹)`)

// ParseAmount parses a rupee amount such as "1,50,000.00", "Rs.299" or
// "INR 1,500". Commas are thousands separators in both the international and
// the lakh grouping, never decimal separators.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': empty", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips the currency marker, whitespace and grouping
// commas so the result can be parsed by decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	s = currencyMarker.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.Join(strings.Fields(s), "")
}

// FormatAmount formats an amount with two decimals and Indian digit grouping,
// e.g. "₹1,50,000.00".
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + RupeeSymbol + groupIndian(whole) + "." + frac
}

// groupIndian inserts commas after the last three digits, then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// IsPositive checks if an amount is strictly greater than zero
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero)
}
