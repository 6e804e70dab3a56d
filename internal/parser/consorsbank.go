package parser

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/money"
)

var (
	consorsMarker   = locator.ContainsFold("consorsbank")
	consorsHeadline = locator.Any(locator.EqualsFold("Orderabrechnung"), locator.EqualsFold("Wertpapierabrechnung"))
	consorsDividend = locator.Any(locator.EqualsFold("Ertragsgutschrift"), locator.EqualsFold("Dividendengutschrift"))

	// Notes before 12/2015 print "am" and the date on separate lines.
	consorsTradeDate = locator.Rule{
		Anchor:  consorsHeadline,
		Offsets: []int{2, 3},
		Shape:   locator.Pattern(`^(am )?\d{2}\.\d{2}\.\d{4}$`),
	}
	consorsTradeTime = locator.Rule{Anchor: consorsHeadline, Offsets: []int{4, 5}, Shape: locator.IsTime}
	consorsShares    = locator.Rule{Anchor: locator.EqualsFold("Umsatz"), Offsets: []int{2, 1}, Shape: locator.IsAmount}
	// Older notes put the currency on its own line between anchor and value.
	consorsKurswert = locator.Rules{
		{Anchor: locator.Equals("Kurswert"), Offsets: []int{1, 2, 3}, Shape: locator.IsAmount},
		{Anchor: locator.Equals("Nettoinventarwert"), Offsets: []int{1, 2, 3}, Shape: locator.IsAmount},
	}
	consorsFeeRules = []locator.Rule{
		{Anchor: locator.ContainsFold("provision"), Offsets: []int{1, 2}, Shape: locator.IsAmount},
		{Anchor: locator.ContainsFold("grundgebühr"), Offsets: []int{1, 2}, Shape: locator.IsAmount},
		{
			Anchor:  locator.All(locator.ContainsFold("ausgabegebühr"), locator.Not(locator.Contains("0,00%"))),
			Offsets: []int{1, 2},
			Shape:   locator.IsAmount,
		},
	}
	consorsTaxRules = []locator.Rule{
		{Anchor: locator.EqualsFold("KapSt"), Offsets: []int{3, 1, 2}, Shape: locator.IsAmount},
		{Anchor: locator.EqualsFold("SolZ"), Offsets: []int{3, 1, 2}, Shape: locator.IsAmount},
		{Anchor: locator.EqualsFold("KiSt"), Offsets: []int{3, 1, 2}, Shape: locator.IsAmount},
	}

	consorsDividendDate = locator.Rules{
		{Anchor: locator.ContainsFold("valuta"), Offsets: []int{0}},
		{Anchor: locator.Contains("EX-TAG"), Offsets: []int{0}},
	}
	consorsHolding = locator.Rule{Anchor: locator.EqualsFold("Bestand"), Offsets: []int{1}}
	// "Brutto in EUR" only exists for payouts in a foreign currency.
	consorsGross = locator.Rules{
		{Anchor: locator.Equals("Brutto in EUR"), Offsets: []int{1}},
		{Anchor: locator.Equals("Brutto"), Offsets: []int{1}},
	}
	consorsNet = locator.Rule{
		Anchor:  locator.Any(locator.Equals("Netto zugunsten"), locator.Equals("Netto zulasten")),
		Offsets: []int{4},
	}
	consorsFX = locator.Rule{Anchor: locator.Contains("Devisenkurs"), Offsets: []int{1}}
)

// ConsorsbankParser handles Consorsbank order settlements and dividend
// advices. Only the first page carries data.
type ConsorsbankParser struct {
	base
}

func NewConsorsbankParser(log logrus.FieldLogger) *ConsorsbankParser {
	return &ConsorsbankParser{base{log: log}}
}

func (p *ConsorsbankParser) Broker() models.Broker { return models.BrokerConsorsbank }

func (p *ConsorsbankParser) Identify(doc locator.Document, extension string) bool {
	if !supportedExtension(extension) || !doc.Has(consorsMarker) {
		return false
	}
	for _, page := range doc {
		if classifyConsorsbank(page) != KindUnrecognized {
			return true
		}
	}
	return false
}

func (p *ConsorsbankParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     SingleTransaction,
		log:      p.logger(),
		classify: classifyConsorsbank,
		extract:  p.extractBlock,
	}.run(doc)
}

// classifyConsorsbank reads the transaction type from the line below the
// headline.
func classifyConsorsbank(block locator.Page) Kind {
	if idx := block.Index(consorsHeadline); idx >= 0 {
		next, _ := block.At(idx + 1)
		switch strings.ToLower(next) {
		case "kauf":
			return KindBuy
		case "verkauf":
			return KindSell
		}
	}
	if block.Has(consorsDividend) {
		return KindDividend
	}
	return KindUnrecognized
}

func (p *ConsorsbankParser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := activity.NewCandidate(p.Broker(), kind.ActivityType())
	c.ISIN = text(block.ReadAt(locator.IsISIN, 0))
	c.WKN = consorsWKN(block)
	c.Company = consorsCompany(block)

	switch kind {
	case KindBuy, KindSell:
		date := strings.TrimPrefix(text(consorsTradeDate.Read(block)), "am ")
		if err := setDate(c, date, text(consorsTradeTime.Read(block))); err != nil {
			return nil, err
		}
		c.Shares = number(consorsShares.Read(block))
		c.Amount = number(consorsKurswert.Read(block))
		c.Fee = sumRules(block, consorsFeeRules)
		if kind == KindSell {
			c.Tax = sumRules(block, consorsTaxRules)
		}
	case KindDividend:
		if err := setDate(c, findDate(text(consorsDividendDate.Read(block))), ""); err != nil {
			return nil, err
		}
		c.Shares = money.Optional(field(text(consorsHolding.Read(block)), 0))
		c.Amount = money.Optional(field(text(consorsGross.Read(block)), 0))
		net := money.Optional(field(text(consorsNet.Read(block)), 0))
		c.Tax = dividendTax(c.Amount, net)

		if line, err := consorsFX.Read(block); err == nil {
			c.FXRate = money.Optional(field(line, 0))
			c.ForeignCurrency = field(line, 1)
		}
	}

	if err := c.DerivePrice(); err != nil {
		return nil, err
	}
	return c, nil
}

// consorsCompany reads the name below the "ISIN" header. A name broken over
// two lines pushes the ISIN more than three lines down.
func consorsCompany(block locator.Page) string {
	idx := block.Index(locator.Equals("ISIN"))
	if idx < 0 {
		return ""
	}
	name, _ := block.At(idx + 1)
	isinIdx := block.IndexFrom(idx, locator.IsISIN)
	if isinIdx-idx > 3 {
		rest, _ := block.At(idx + 2)
		name = name + " " + rest
	}
	return name
}

// consorsWKN is the line right above the first ISIN after the "WKN" header.
func consorsWKN(block locator.Page) string {
	idx := block.Index(locator.Equals("WKN"))
	if idx < 0 {
		return ""
	}
	isinIdx := block.IndexFrom(idx, locator.IsISIN)
	wkn, ok := block.At(isinIdx - 1)
	if isinIdx < 0 || !ok || !locator.IsWKN.Match(wkn) {
		return ""
	}
	return wkn
}

// sumRules adds the absolute values of every rule that resolves.
func sumRules(block locator.Page, rules []locator.Rule) decimal.NullDecimal {
	values := make([]decimal.NullDecimal, 0, len(rules))
	for _, r := range rules {
		values = append(values, abs(optionalNumber(r.Read(block))))
	}
	return sum(values...)
}
