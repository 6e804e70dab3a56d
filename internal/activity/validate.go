// Package activity assembles validated activity records from the values a
// parser located in one transaction block.
package activity

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/trade-import/internal/datetime"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/money"
)

// ErrInvalidRecord is returned when a candidate is incomplete or inconsistent.
var ErrInvalidRecord = errors.New("invalid activity record")

// RecordError lists every problem found on a candidate.
type RecordError struct {
	Broker   models.Broker
	Problems []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRecord, e.Broker, strings.Join(e.Problems, ", "))
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

// Candidate collects located values before validation. An invalid
// NullDecimal means the value was not found, which is different from zero.
type Candidate struct {
	Broker   models.Broker
	Type     models.ActivityType
	Date     string
	DateTime *time.Time

	ISIN    string
	WKN     string
	Company string

	Shares decimal.NullDecimal
	Price  decimal.NullDecimal
	Amount decimal.NullDecimal
	Fee    decimal.NullDecimal
	Tax    decimal.NullDecimal

	FXRate          decimal.NullDecimal
	ForeignCurrency string
}

// NewCandidate starts a candidate with fee and tax set to zero, which is what
// a note without fee or tax lines states.
func NewCandidate(broker models.Broker, typ models.ActivityType) *Candidate {
	return &Candidate{
		Broker: broker,
		Type:   typ,
		Fee:    decimal.NewNullDecimal(decimal.Zero),
		Tax:    decimal.NewNullDecimal(decimal.Zero),
	}
}

// SetDate copies a composed date into the candidate.
func (c *Candidate) SetDate(r datetime.Result) {
	c.Date = r.Date
	c.DateTime = r.DateTime
}

// DerivePrice sets Price to Amount/Shares when both are known.
func (c *Candidate) DerivePrice() error {
	if !c.Amount.Valid || !c.Shares.Valid {
		return nil
	}
	price, err := money.PerShare(c.Amount.Decimal, c.Shares.Decimal)
	if err != nil {
		return err
	}
	c.Price = decimal.NewNullDecimal(price)
	return nil
}

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{10}$`)
var allLetters = regexp.MustCompile(`^[A-Z]+$`)

// ValidISIN reports whether s has the shape of an ISIN.
func ValidISIN(s string) bool {
	return isinPattern.MatchString(s) && !allLetters.MatchString(s)
}

var (
	minTolerance   = decimal.RequireFromString("0.01")
	shareTolerance = decimal.RequireFromString("0.005")
)

// Validate checks c and converts it into a models.Activity. Every problem
// found is reported in one *RecordError.
func Validate(c Candidate) (models.Activity, error) {
	var problems []string
	fail := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !c.Broker.Known() {
		fail("unknown broker %q", c.Broker)
	}
	if !c.Type.Valid() {
		fail("unknown type %q", c.Type)
	}
	if c.Date == "" {
		fail("date undefined")
	} else if _, err := time.Parse(datetime.OutputDate, c.Date); err != nil {
		fail("date %q is not YYYY-MM-DD", c.Date)
	}
	if strings.TrimSpace(c.Company) == "" {
		fail("company undefined")
	}

	for _, f := range []struct {
		name string
		v    decimal.NullDecimal
	}{
		{"shares", c.Shares},
		{"price", c.Price},
		{"amount", c.Amount},
		{"fee", c.Fee},
		{"tax", c.Tax},
	} {
		if !f.v.Valid {
			fail("%s undefined", f.name)
		}
	}

	if c.Shares.Valid && !c.Shares.Decimal.IsPositive() {
		fail("shares %s not positive", c.Shares.Decimal)
	}
	if c.Price.Valid && c.Price.Decimal.IsNegative() {
		fail("price %s negative", c.Price.Decimal)
	}
	if c.Fee.Valid && c.Fee.Decimal.IsNegative() {
		fail("fee %s negative", c.Fee.Decimal)
	}
	if c.Tax.Valid && c.Tax.Decimal.IsNegative() {
		fail("tax %s negative", c.Tax.Decimal)
	}

	if c.FXRate.Valid != (c.ForeignCurrency != "") {
		fail("fxRate and foreignCurrency must be set together")
	}
	if c.FXRate.Valid && !c.FXRate.Decimal.IsPositive() {
		fail("fxRate %s not positive", c.FXRate.Decimal)
	}

	if c.ISIN != "" && !ValidISIN(c.ISIN) {
		fail("isin %q malformed", c.ISIN)
	}

	trade := c.Type == models.ActivityBuy || c.Type == models.ActivitySell
	if trade && c.ISIN == "" && c.WKN == "" {
		fail("isin or wkn required")
	}
	if trade && c.Shares.Valid && c.Price.Valid && c.Amount.Valid {
		tolerance := decimal.Max(minTolerance, c.Shares.Decimal.Mul(shareTolerance))
		diff := c.Price.Decimal.Mul(c.Shares.Decimal).Sub(c.Amount.Decimal).Abs()
		if diff.GreaterThan(tolerance) {
			fail("price*shares differs from amount by %s", diff)
		}
	}

	if len(problems) > 0 {
		return models.Activity{}, &RecordError{Broker: c.Broker, Problems: problems}
	}

	a := models.Activity{
		Broker:          c.Broker,
		Type:            c.Type,
		Date:            c.Date,
		DateTime:        c.DateTime,
		ISIN:            c.ISIN,
		WKN:             c.WKN,
		Company:         strings.TrimSpace(c.Company),
		Shares:          money.ToFloat(c.Shares.Decimal),
		Price:           money.ToFloat(c.Price.Decimal),
		Amount:          money.ToFloat(c.Amount.Decimal),
		Fee:             money.ToFloat(c.Fee.Decimal),
		Tax:             money.ToFloat(c.Tax.Decimal),
		ForeignCurrency: c.ForeignCurrency,
	}
	if c.FXRate.Valid {
		rate := money.ToFloat(c.FXRate.Decimal)
		a.FXRate = &rate
	}
	return a, nil
}
