package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/money"
)

var (
	ingMarker     = locator.Contains("BIC: INGDDEFFXX")
	ingSettlement = locator.Contains("Wertpapierabrechnung")
	ingBuy        = locator.Contains("Kauf")
	ingSell       = locator.Contains("Verkauf")
	ingDividend   = locator.Any(locator.Contains("Dividendengutschrift"), locator.Contains("Ertragsgutschrift"))

	ingISIN          = locator.Rule{Anchor: locator.Contains("ISIN"), Offsets: []int{1}}
	ingCompany       = locator.Rule{Anchor: locator.Contains("Wertpapierbezeichnung"), Offsets: []int{1}}
	ingShares        = locator.Rule{Anchor: locator.Equals("Stück"), Offsets: []int{1}, Shape: locator.IsAmount}
	ingNominal       = locator.Rule{Anchor: locator.Contains("Nominale"), Offsets: []int{1}}
	ingExecution     = locator.Rule{Anchor: locator.Contains("Ausführungstag"), Offsets: []int{2, 1}, Shape: locator.Pattern(`^\d{2}\.\d{2}\.\d{4}`)}
	ingPayDate       = locator.Rule{Anchor: locator.Contains("Zahltag"), Offsets: []int{1}, Shape: locator.IsDate}
	ingPrice         = locator.Rule{Anchor: locator.Equals("Kurs"), Offsets: []int{1, 2}, Shape: locator.IsAmount}
	ingKurswert      = locator.Rule{Anchor: locator.Equals("Kurswert"), Offsets: []int{1, 2}, Shape: locator.IsAmount}
	ingProvision     = locator.Rule{Anchor: locator.Contains("Provision"), Offsets: []int{1, 2}, Shape: locator.IsAmount}
	ingPayout        = locator.Rule{Anchor: locator.Contains("Gesamtbetrag zu Ihren Gunsten"), Offsets: []int{1, 2}, Shape: locator.IsAmount}
	ingDividendRate  = locator.Rules{
		{Anchor: locator.Contains("Zins-/Dividendensatz"), Offsets: []int{1}},
		// ETF payouts
		{Anchor: locator.Contains("Ertragsausschüttung per Stück"), Offsets: []int{1}},
	}
	ingExchangeRate = locator.Rule{Anchor: locator.Contains("Umg. z. Dev.-Kurs"), Offsets: []int{1}}

	// "QuSt 15,00 % (EUR 0,41)" states the withholding tax in EUR in parentheses.
	ingParenAmount = regexp.MustCompile(`\(.*?([\d.,]+)\)`)
)

// INGParser handles ING (ING-DiBa) settlement notes and dividend advices.
// Only the first page carries data.
type INGParser struct {
	base
}

func NewINGParser(log logrus.FieldLogger) *INGParser {
	return &INGParser{base{log: log}}
}

func (p *INGParser) Broker() models.Broker { return models.BrokerING }

func (p *INGParser) Identify(doc locator.Document, extension string) bool {
	return supportedExtension(extension) &&
		doc.Has(ingMarker) &&
		classifyING(doc.Flatten()) != KindUnrecognized
}

func (p *INGParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     SingleTransaction,
		log:      p.logger(),
		classify: classifyING,
		extract:  p.extractBlock,
	}.run(doc)
}

func classifyING(block locator.Page) Kind {
	if block.Has(ingSettlement) {
		switch {
		case block.Has(ingSell):
			return KindSell
		case block.Has(ingBuy):
			return KindBuy
		}
	}
	if block.Has(ingDividend) {
		return KindDividend
	}
	return KindUnrecognized
}

func (p *INGParser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := activity.NewCandidate(p.Broker(), kind.ActivityType())

	isinLine := text(ingISIN.Read(block))
	if isin := field(isinLine, 0); activity.ValidISIN(isin) {
		c.ISIN = isin
	}
	if wkn := strings.Trim(field(isinLine, 1), "()"); locator.IsWKN.Match(wkn) {
		c.WKN = wkn
	}
	c.Company = strings.TrimSpace(strings.SplitN(text(ingCompany.Read(block)), " -", 2)[0])

	switch kind {
	case KindBuy, KindSell:
		execution := text(ingExecution.Read(block))
		if err := setDate(c, findDate(execution), findTime(execution)); err != nil {
			return nil, err
		}
		c.Shares = number(ingShares.Read(block))
		c.Amount = number(ingKurswert.Read(block))
		c.Price = number(ingPrice.Read(block))
		c.Fee = abs(optionalNumber(ingProvision.Read(block)))
		if kind == KindSell {
			c.Tax = ingTaxes(block)
		}
	case KindDividend:
		if err := setDate(c, text(ingPayDate.Read(block)), ""); err != nil {
			return nil, err
		}
		c.Shares = money.Optional(field(text(ingNominal.Read(block)), 0))
		c.Tax = ingTaxes(block)
		c.Amount = sum(number(ingPayout.Read(block)), c.Tax)
		if err := p.dividendRate(c, block); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// dividendRate sets the price from the per share payout. Payouts in a
// foreign currency are converted with the stated exchange rate.
func (p *INGParser) dividendRate(c *activity.Candidate, block locator.Page) error {
	line := text(ingDividendRate.Read(block))
	rate := money.Optional(field(line, 0))
	currency := field(line, 1)
	if !rate.Valid || currency == "" || currency == "EUR" {
		c.Price = rate
		return nil
	}

	m := ingParenAmount.FindStringSubmatch(text(ingExchangeRate.Read(block)))
	if m == nil {
		c.Price = rate
		return nil
	}
	fx, err := money.Normalize(m[1])
	if err != nil {
		return err
	}
	converted, err := money.ConvertByRate(rate.Decimal, fx)
	if err != nil {
		return err
	}
	c.Price = decimal.NewNullDecimal(converted)
	c.FXRate = decimal.NewNullDecimal(fx)
	c.ForeignCurrency = currency
	return nil
}

// ingTaxes adds withholding tax, capital gains tax and surcharges. Rate
// lines ending in "%" carry their value two lines below, others three.
func ingTaxes(block locator.Page) decimal.NullDecimal {
	total := decimal.Zero
	for i := 0; i < len(block); i++ {
		line := strings.ToLower(block[i])

		if strings.Contains(line, "qust") {
			if m := ingParenAmount.FindStringSubmatch(line); m != nil {
				if v := money.Optional(m[1]); v.Valid {
					total = total.Add(v.Decimal.Abs())
				}
				continue
			}
			if v, ok := block.At(i + 2); ok {
				if d := money.Optional(v); d.Valid {
					total = total.Add(d.Decimal.Abs())
				}
			}
			i += 2
			continue
		}

		if !strings.Contains(line, "steuer ") && !strings.Contains(line, "zuschlag ") {
			continue
		}
		offset := 3
		if strings.HasSuffix(line, "%") {
			offset = 2
		}
		v, ok := block.At(i + offset)
		if !ok || !strings.Contains(v, ",") {
			i += offset
			continue
		}
		if d := money.Optional(v); d.Valid {
			total = total.Add(d.Decimal.Abs())
		}
	}
	return decimal.NewNullDecimal(total)
}
