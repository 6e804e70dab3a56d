// Package money converts locale formatted numbers into exact decimals and
// performs the fee/tax reconciliation arithmetic on them.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedNumber is returned when a token cannot be read as a number.
var ErrMalformedNumber = errors.New("malformed number")

// Locale selects the decimal and thousands separators of a number token.
type Locale int

const (
	// German uses a comma as decimal separator and a dot for thousands: 1.234,56
	German Locale = iota
	// English uses a dot as decimal separator and a comma for thousands: 1,234.56
	English
)

func (l Locale) separators() (decimalSep, thousandsSep string) {
	if l == English {
		return ".", ","
	}
	return ",", "."
}

// Surrounding ISO currency codes, e.g. "EUR 1.234,56" or "1.234,56 USD".
var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}[\s\x{00a0}]*|[\s\x{00a0}]*[A-Z]{3}$`)

var symbolReplacer = strings.NewReplacer(
	"\u00a0", "",
	" ", "",
	"€", "",
	"$", "",
	"£", "",
	"%", "",
)

// Normalize reads a German formatted number (comma decimal separator).
func Normalize(raw string) (decimal.Decimal, error) {
	return Parse(raw, German)
}

// Parse converts raw into an exact decimal using the separators of loc.
// A trailing minus, as printed on many settlement notes ("4,29-"), negates
// the value just like a leading one does.
func Parse(raw string, loc Locale) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = currencyCodePattern.ReplaceAllString(s, "")
	s = symbolReplacer.Replace(s)

	negative := false
	switch {
	case strings.HasSuffix(s, "-"):
		negative = true
		s = strings.TrimSuffix(s, "-")
	case strings.HasSuffix(s, "+"):
		s = strings.TrimSuffix(s, "+")
	}
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = strings.TrimPrefix(s, "-")
	case strings.HasPrefix(s, "+"):
		s = strings.TrimPrefix(s, "+")
	}

	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
		}
	}

	decimalSep, thousandsSep := loc.separators()
	s = strings.ReplaceAll(s, thousandsSep, "")
	if strings.Count(s, decimalSep) > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	s = strings.Replace(s, decimalSep, ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedNumber, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Optional normalizes raw and reports an undefined value instead of an error.
func Optional(raw string) decimal.NullDecimal {
	d, err := Normalize(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Format renders d in the canonical form of loc, without thousands separators.
func Format(d decimal.Decimal, loc Locale) string {
	s := d.String()
	if loc == German {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}
