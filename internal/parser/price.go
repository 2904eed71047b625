// Package parser implements the line-oriented heuristic engine that turns a
// messy PDF-derived text dump into normalized catalog records. The engine is
// a single state machine parameterized by a grammar.Grammar; every document
// family runs through the same transitions with its own rule table.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Turkish price shape: optional minus, digits with optional dot thousands
// separators, comma, exactly two decimal digits (355,00 / 2.250,00).
var priceShape = regexp.MustCompile(`^-?[\d.]+,\d{2}$`)

// IsPriceToken reports whether the token is a valid Turkish-format price.
// Range hyphens (0,17-0,18), dimension markers (1,50x0,50), arithmetic and
// parentheses disqualify a token outright: those are formulas or
// measurements, never prices.
func IsPriceToken(token string) bool {
	token = strings.TrimSpace(token)
	if !strings.Contains(token, ",") {
		return false
	}
	hasDigit := false
	for _, r := range token {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return false
	}
	if strings.Contains(strings.TrimPrefix(token, "-"), "-") {
		return false
	}
	if strings.ContainsAny(token, "xX+()") {
		return false
	}
	return priceShape.MatchString(token)
}

// ParsePrice converts a Turkish-format price token to a decimal amount:
// thousands-separator dots are deleted and the decimal comma becomes a dot.
// A token that does not survive the conversion is rejected, never truncated.
func ParsePrice(token string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(token), ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price token %q: %w", token, err)
	}
	return d, nil
}

// FormatPrice renders an amount back in the canonical Turkish form: two
// fixed decimals, comma decimal separator, no thousands separators.
// FormatPrice(ParsePrice("1.234,56")) == "1234,56".
func FormatPrice(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// IsDateNotCode reports whether a dotted triplet that matched the code
// pattern is actually a DD.MM.YYYY calendar date. The two shapes are
// syntactically identical; a plausible day/month/year reading wins.
// "19.03.2003" is a date; "10.100.1047" is not (100 is no month).
func IsDateNotCode(code string) bool {
	parts := strings.Split(code, ".")
	if len(parts) != 3 {
		return false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}
	return day >= 1 && day <= 31 && month >= 1 && month <= 12 && year >= 1900 && year <= 2100
}
