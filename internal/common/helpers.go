package common

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	ZECDecimals = 8 // ZEC has 8 decimals (zatoshi)

	// ZatoshiPerZEC is 10^ZECDecimals.
	ZatoshiPerZEC = 100_000_000

	digitsBetweenGroupSeparators = 3
)

// ErrInvalidAmount is returned for amounts that do not parse.
var ErrInvalidAmount = errors.New("invalid amount")

// MonetarySeparators are the locale's grouping and decimal characters.
type MonetarySeparators struct {
	Grouping rune
	Decimal  rune
}

// DefaultSeparators are the en-US separators.
var DefaultSeparators = MonetarySeparators{Grouping: ',', Decimal: '.'}

// Validate rejects separators that would make amounts ambiguous.
func (s MonetarySeparators) Validate() error {
	if s.Grouping == s.Decimal {
		return errors.New("grouping and decimal separators must differ")
	}
	if (s.Grouping >= '0' && s.Grouping <= '9') || (s.Decimal >= '0' && s.Decimal <= '9') {
		return errors.New("separators cannot be digits")
	}
	return nil
}

// ZatoshiToZEC converts zatoshi to ZEC string without float precision loss
func ZatoshiToZEC(zatoshi int64) string {
	if zatoshi < 0 {
		// -(MinInt64) does not fit, go through uint64.
		return "-" + formatWithDecimals(uint64(-(zatoshi+1))+1, ZECDecimals)
	}
	return formatWithDecimals(uint64(zatoshi), ZECDecimals)
}

// ZECToZatoshi parses a plain decimal ZEC string ("1.5") to zatoshi.
func ZECToZatoshi(zec string) (int64, error) {
	return ParseZec(zec, DefaultSeparators)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 8) = "0.24981836"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("0.24981836", 8) = 24981836
func parseWithDecimals(s string, decimals int) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, fmt.Errorf("invalid decimal format")
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("more than %d decimal places", decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	// Combine and parse
	combined := strings.TrimLeft(whole+frac, "0")
	if combined == "" {
		return 0, nil
	}
	return strconv.ParseUint(combined, 10, 64)
}

// ParseZec converts user input such as "1,234.5" into zatoshi. The input
// must pass FilterConfirm. Amounts that do not fit in an int64 of zatoshi
// are rejected.
func ParseZec(text string, separators MonetarySeparators) (int64, error) {
	if !FilterConfirm(separators, text) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	normalized := strings.Map(func(r rune) rune {
		switch r {
		case separators.Grouping:
			return -1
		case separators.Decimal:
			return '.'
		}
		return r
	}, text)

	v, err := parseWithDecimals(normalized, ZECDecimals)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidAmount, text)
	}
	return int64(v), nil
}

func continuousPattern(s MonetarySeparators) *regexp.Regexp {
	g := regexp.QuoteMeta(string(s.Grouping))
	d := regexp.QuoteMeta(string(s.Decimal))
	return regexp.MustCompile(
		`^([0-9]*([0-9]+(` + g + `$|` + g + `[0-9]+))*(` + d + `$|` + d + `[0-9]+)?)?$`)
}

func confirmPattern(s MonetarySeparators) *regexp.Regexp {
	g := regexp.QuoteMeta(string(s.Grouping))
	d := regexp.QuoteMeta(string(s.Decimal))
	return regexp.MustCompile(
		`^([0-9]{1,3}(?:` + g + `?[0-9]{3})*)*(?:[0-9]*` + d + `[0-9]*)?$`)
}

// FilterContinuous accepts partial input while the user is still typing,
// e.g. "123," or "1.".
func FilterContinuous(separators MonetarySeparators, text string) bool {
	return continuousPattern(separators).MatchString(text) && checkFor3Digits(separators, text)
}

// FilterConfirm accepts only complete amounts.
func FilterConfirm(separators MonetarySeparators, text string) bool {
	if strings.TrimSpace(text) == "" ||
		text == string(separators.Grouping) ||
		text == string(separators.Decimal) {
		return false
	}
	return confirmPattern(separators).MatchString(text) && checkFor3Digits(separators, text)
}

// checkFor3Digits requires exactly three digits between any two grouping
// separators.
func checkFor3Digits(separators MonetarySeparators, text string) bool {
	groups := strings.Split(text, string(separators.Grouping))
	if len(groups) < 3 {
		return true
	}
	for _, g := range groups[1 : len(groups)-1] {
		if len(g) != digitsBetweenGroupSeparators {
			return false
		}
	}
	return true
}

// CompareZecAmounts compares two ZEC decimal string amounts without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareZecAmounts(a, b string) (int, error) {
	aVal, err := ZECToZatoshi(a)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := ZECToZatoshi(b)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	switch {
	case aVal < bVal:
		return -1, nil
	case aVal > bVal:
		return 1, nil
	}
	return 0, nil
}
