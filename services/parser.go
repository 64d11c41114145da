package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The detail pages render numbers in the Spanish locale: '.' as thousands
// separator, localized unit suffixes, sometimes a non-breaking space before
// the unit. Parsing is strict full-match: anything that deviates from the
// documented format is rejected, never coerced.
var (
	// priceRegexp matches e.g. "49.547 €", with either a space or NBSP before €
	priceRegexp = regexp.MustCompile(`^\s*(\d{1,3}(?:\.\d{3})*)[ \x{00A0}]+€\s*$`)
	// kmRegexp matches e.g. "8.000 km", NBSP before the unit included
	kmRegexp = regexp.MustCompile(`(?i)^\s*(\d{1,3}(?:\.\d{3})*)[\s\x{00A0}]+km\s*$`)
	// kwRegexp matches e.g. "350 kW" or "350 kW (476 cv)"; the parenthetical
	// horsepower annotation is ignored, not parsed
	kwRegexp = regexp.MustCompile(`(?i)^\s*(\d{1,3}(?:\.\d{3})*)[\s\x{00A0}]+kW(?:\s*\([^)]*\))?\s*$`)
	// minutesRegexp matches e.g. "18 Min." or "18 min"
	minutesRegexp = regexp.MustCompile(`(?i)^\s*(\d{1,3}(?:\.\d{3})*)[\s\x{00A0}]+min\.?\s*$`)
	// intRegexp matches a bare non-negative integer
	intRegexp = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

// ParseError reports a field value that did not match the expected locale
// format. It carries the offending raw string so the diagnostic is
// actionable.
type ParseError struct {
	Field string
	Raw   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: invalid value %q", e.Field, e.Raw)
}

// ParsePriceEUR converts a Spanish-formatted euro amount like "49.547 €"
// to its integer value. Comma separators, decimals, missing or misplaced
// currency markers and extra text are all rejected.
func ParsePriceEUR(s string) (int, error) {
	m := priceRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Field: "price_eur", Raw: s}
	}
	return groupedAtoi(m[1], "price_eur", s)
}

// ParseKm converts a distance like "8.000 km" to its integer value.
func ParseKm(s string) (int, error) {
	m := kmRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Field: "km", Raw: s}
	}
	return groupedAtoi(m[1], "km", s)
}

// ParseKW converts a power figure like "350 kW (476 cv)" to the integer kW
// value. Decimal values are rejected.
func ParseKW(s string) (int, error) {
	m := kwRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Field: "kw", Raw: s}
	}
	return groupedAtoi(m[1], "kw", s)
}

// ParseMinutes converts a duration like "18 Min." or "18 min" to its
// integer value. Decimals and concatenated unit abbreviations ("18mins")
// are rejected.
func ParseMinutes(s string) (int, error) {
	m := minutesRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Field: "minutes", Raw: s}
	}
	return groupedAtoi(m[1], "minutes", s)
}

// ParseInt converts a bare non-negative integer like "  3  " to its value.
// Signs, separators, units and leading zeros are rejected.
func ParseInt(s string) (int, error) {
	m := intRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, &ParseError{Field: "int", Raw: s}
	}
	digits := m[1]
	if len(digits) > 1 && digits[0] == '0' {
		return 0, &ParseError{Field: "int", Raw: s}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &ParseError{Field: "int", Raw: s}
	}
	return n, nil
}

// groupedAtoi strips the thousands dots out of an already validated digit
// group and converts it.
func groupedAtoi(digits, field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(digits, ".", ""))
	if err != nil {
		return 0, &ParseError{Field: field, Raw: raw}
	}
	return n, nil
}
