package numeric

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DecodeBondPrice converts a bond price quoted as percent-of-par with
// inconsistent decimal placement into a fraction of par. The raw digits are
// taken as-is after stripping separators: digits starting with "1" mean the
// bond trades at or above par, so the decimal point goes after the first
// digit; anything else trades below par and the digits become the fractional
// part.
//
//	"99.875"  -> 0.99875
//	"101500"  -> 1.015
//	"1023/8"  -> decode fails, caller falls back to plain parsing
func DecodeBondPrice(raw string) (decimal.Decimal, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, stripNoise(raw))

	if digits == "" {
		return decimal.Zero, fmt.Errorf("%w: %q has no digits", ErrNotNumeric, raw)
	}
	if strings.ContainsAny(stripNoise(raw), "/") {
		// Fractional quotes (e.g. "102 3/8") cannot be decoded positionally.
		return decimal.Zero, fmt.Errorf("%w: fractional bond quote %q", ErrNotNumeric, raw)
	}

	var normalized string
	if digits[0] == '1' {
		if len(digits) == 1 {
			normalized = "1"
		} else {
			normalized = digits[:1] + "." + digits[1:]
		}
	} else {
		normalized = "0." + digits
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	return d, nil
}
