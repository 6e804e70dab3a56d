package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/datetime"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/money"
)

// Field helpers. Lookups never fail hard: a missing value becomes an empty
// string or an undefined decimal and is reported by the validator.

var (
	datePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
	timePattern = regexp.MustCompile(`\b\d{2}:\d{2}(:\d{2})?\b`)
)

// text returns v, or "" when the lookup failed.
func text(v string, err error) string {
	if err != nil {
		return ""
	}
	return v
}

// number normalizes a located token.
func number(v string, err error) decimal.NullDecimal {
	if err != nil {
		return decimal.NullDecimal{}
	}
	return money.Optional(v)
}

// optionalNumber is like number but reads an absent line as zero. A line
// that is present and malformed still yields an undefined value.
func optionalNumber(v string, err error) decimal.NullDecimal {
	if err != nil {
		return decimal.NewNullDecimal(decimal.Zero)
	}
	return money.Optional(v)
}

// field returns the i-th whitespace separated token of line.
func field(line string, i int) string {
	fields := strings.Fields(line)
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

// firstField narrows a located line to its first token and keeps the
// lookup error.
func firstField(v string, err error) (string, error) {
	return field(v, 0), err
}

// afterLast returns the trimmed text after the last sep in line.
func afterLast(line, sep string) string {
	idx := strings.LastIndex(line, sep)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+len(sep):])
}

func findDate(line string) string {
	return datePattern.FindString(line)
}

func findTime(line string) string {
	return timePattern.FindString(line)
}

func abs(n decimal.NullDecimal) decimal.NullDecimal {
	if !n.Valid {
		return n
	}
	return decimal.NewNullDecimal(n.Decimal.Abs())
}

// sum adds values; the result is undefined when any value is.
func sum(values ...decimal.NullDecimal) decimal.NullDecimal {
	ds := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		if !v.Valid {
			return decimal.NullDecimal{}
		}
		ds = append(ds, v.Decimal)
	}
	return decimal.NewNullDecimal(money.Sum(ds...))
}

// fee is |statedTotal - net|, undefined when either side is.
func fee(statedTotal, net decimal.NullDecimal) decimal.NullDecimal {
	if !statedTotal.Valid || !net.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(money.Fee(statedTotal.Decimal, net.Decimal))
}

// dividendTax is gross - net, undefined when either side is.
func dividendTax(gross, net decimal.NullDecimal) decimal.NullDecimal {
	if !gross.Valid || !net.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(money.DividendTax(gross.Decimal, net.Decimal))
}

// sumMatching adds, for every line matching anchor, the first amount found
// at one of offsets. Lines without a readable value are skipped.
func sumMatching(p locator.Page, anchor locator.Matcher, offsets []int) decimal.NullDecimal {
	total := decimal.Zero
	for i := p.Index(anchor); i >= 0; i = p.IndexFrom(i+1, anchor) {
		for _, off := range offsets {
			line, ok := p.At(i + off)
			if !ok || !locator.IsAmount.Match(line) {
				continue
			}
			if v := money.Optional(line); v.Valid {
				total = total.Add(v.Decimal.Abs())
			}
			break
		}
	}
	return decimal.NewNullDecimal(total)
}

// setDate composes date and time tokens into c. An unusable date fails the
// block.
func setDate(c *activity.Candidate, dateToken, timeToken string) error {
	r, err := datetime.Compose(dateToken, timeToken, datetime.GermanDate, datetime.GermanDateTime)
	if err != nil {
		return err
	}
	c.SetDate(r)
	return nil
}
