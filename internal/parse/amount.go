// Package parse extracts amounts and dates from raw statement text.
package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches the S$ currency marker (either letter case)
// immediately followed by digits, optionally with two-digit cents.
var amountPattern = regexp.MustCompile(`[Ss]\$(\d+(?:\.\d{2})?)`)

// ExtractAmount pulls a signed decimal amount out of statement text like
// "GRAB SINGAPORE S$25.90". Text without a currency marker resolves to 0
// rather than an error: merchant-name-only rows are a normal outcome, not
// a failure. The substring "cr" anywhere in the text marks a
// credit/reversal and negates the amount.
func ExtractAmount(text string) float64 {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if lower == "" || strings.Contains(lower, "n/a") {
		return 0
	}

	m := amountPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0
	}

	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	if strings.Contains(lower, "cr") {
		amount = -amount
	}
	return amount
}
