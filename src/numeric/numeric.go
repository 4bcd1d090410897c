// Package numeric normalizes the numeric formats found across custodian
// statements into decimal values. Custodians use one of two conventions:
// decimal-point ("1,234.56") or decimal-comma ("1.234,56"), with the
// reciprocal character as thousands separator, plus assorted currency
// symbols, percent signs, parenthesized negatives and dash-as-zero cells.
package numeric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Convention identifies which character a source uses as decimal separator.
type Convention int

const (
	// ConventionUnknown triggers per-value detection.
	ConventionUnknown Convention = iota
	// ConventionPoint is "1,234.56" (US statements).
	ConventionPoint
	// ConventionComma is "1.234,56" (European and Chilean statements).
	ConventionComma
)

var ErrNotNumeric = errors.New("cell is not numeric")

// currencyTokens are stripped before parsing. Symbols first, then alphabetic
// codes which must be whole tokens so security names are never mangled.
var currencySymbols = []string{"$", "€", "£", "¥", "US$", "CLP$"}
var currencyCodes = []string{"USD", "EUR", "GBP", "CHF", "CLP", "BRL"}

// DetectConvention inspects sample values from one column and decides which
// convention the source uses. The deciding signal is the rightmost separator:
// whichever of '.' and ',' appears last in a value with both is the decimal
// separator. With only one separator present, a group of exactly three
// trailing digits is ambiguous and does not vote.
func DetectConvention(samples []string) Convention {
	pointVotes, commaVotes := 0, 0
	for _, s := range samples {
		s = stripNoise(s)
		lastPoint := strings.LastIndex(s, ".")
		lastComma := strings.LastIndex(s, ",")
		switch {
		case lastPoint >= 0 && lastComma >= 0:
			if lastPoint > lastComma {
				pointVotes++
			} else {
				commaVotes++
			}
		case lastPoint >= 0:
			if len(s)-lastPoint-1 != 3 {
				pointVotes++
			}
		case lastComma >= 0:
			if len(s)-lastComma-1 != 3 {
				commaVotes++
			}
		}
	}
	if commaVotes > pointVotes {
		return ConventionComma
	}
	if pointVotes > 0 {
		return ConventionPoint
	}
	return ConventionUnknown
}

func stripNoise(s string) string {
	s = strings.TrimSpace(s)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	for _, code := range currencyCodes {
		s = strings.TrimPrefix(s, code+" ")
		s = strings.TrimSuffix(s, " "+code)
		s = strings.TrimPrefix(s, code)
		s = strings.TrimSuffix(s, code)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	return strings.TrimSpace(s)
}

// Parse converts one raw cell into a decimal under the given convention.
// Empty cells and the assorted dash placeholders decode to zero. A
// parenthesized value is negative.
func Parse(raw string, conv Convention) (decimal.Decimal, error) {
	s := stripNoise(raw)
	if s == "" || s == "-" || s == "--" || s == "—" || strings.EqualFold(s, "n/a") {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		s = strings.TrimSpace(s)
	}

	if conv == ConventionUnknown {
		conv = DetectConvention([]string{s})
		if conv == ConventionUnknown {
			conv = ConventionPoint
		}
	}

	switch conv {
	case ConventionComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
		s = strings.ReplaceAll(s, " ", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseAuto parses with per-value convention detection. Used for sources that
// mix conventions between columns.
func ParseAuto(raw string) (decimal.Decimal, error) {
	return Parse(raw, ConventionUnknown)
}
