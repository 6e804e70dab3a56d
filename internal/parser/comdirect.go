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
	comdirectMarker   = locator.Contains("comdirect bank")
	comdirectBuy      = locator.Contains("Wertpapierkauf")
	comdirectSell     = locator.Contains("Wertpapierverkauf")
	comdirectDividend = locator.Any(locator.Contains("Ertragsgutschrift"), locator.Contains("Dividendengutschrift"))

	comdirectISINHeader = locator.Contains("/ISIN")
	// Trade notes print "<company> <WKN>" right below the header and the
	// ISIN one line further; dividend notes shift both by one line.
	comdirectTradeCompany    = locator.Rule{Anchor: comdirectISINHeader, Offsets: []int{1}}
	comdirectTradeISIN       = locator.Rule{Anchor: comdirectISINHeader, Offsets: []int{2}}
	comdirectDividendCompany = locator.Rule{Anchor: comdirectISINHeader, Offsets: []int{2}}
	comdirectDividendISIN    = locator.Rule{Anchor: comdirectISINHeader, Offsets: []int{3}}

	comdirectShares         = locator.Rule{Anchor: locator.Contains("Nennwert"), Offsets: []int{1}}
	comdirectDividendShares = locator.Rule{Anchor: locator.HasPrefix("STK"), Offsets: []int{0}}
	comdirectTradeDay       = locator.Rule{Anchor: locator.Contains("Geschäftstag"), Offsets: []int{0}}
	comdirectTradeTime      = locator.Rule{Anchor: locator.Contains("Handelszeit"), Offsets: []int{0}}
	comdirectValuta         = locator.Rule{Anchor: locator.Contains("Valuta"), Offsets: []int{1}}
	comdirectTotal          = locator.Rule{Anchor: locator.Contains("Zu Ihren"), Offsets: []int{1}}
	comdirectPayout         = locator.Rule{Anchor: locator.Contains("Gunsten"), Offsets: []int{1}}
	comdirectPayDate        = locator.Rule{Anchor: locator.Contains("zahlbar ab"), Offsets: []int{0}}
	comdirectReduction      = locator.Contains("Reduktion Kaufaufschlag")
)

// ComdirectParser handles comdirect bank settlement notes and dividend
// advices. Only the first page carries data.
type ComdirectParser struct {
	base
}

func NewComdirectParser(log logrus.FieldLogger) *ComdirectParser {
	return &ComdirectParser{base{log: log}}
}

func (p *ComdirectParser) Broker() models.Broker { return models.BrokerComdirect }

func (p *ComdirectParser) Identify(doc locator.Document, extension string) bool {
	return supportedExtension(extension) &&
		doc.Has(comdirectMarker) &&
		doc.Has(locator.Any(comdirectBuy, comdirectSell, comdirectDividend))
}

func (p *ComdirectParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     SingleTransaction,
		log:      p.logger(),
		classify: classifyComdirect,
		extract:  p.extractBlock,
	}.run(doc)
}

func classifyComdirect(block locator.Page) Kind {
	switch {
	case block.Has(comdirectBuy):
		return KindBuy
	case block.Has(comdirectSell):
		return KindSell
	case block.Has(comdirectDividend):
		return KindDividend
	}
	return KindUnrecognized
}

func (p *ComdirectParser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := activity.NewCandidate(p.Broker(), kind.ActivityType())

	if kind == KindDividend {
		c.ISIN = lastN(text(comdirectDividendISIN.Read(block)), 12)
		c.Company = text(comdirectDividendCompany.Read(block))
		c.Shares = money.Optional(field(text(comdirectDividendShares.Read(block)), 1))
		payDate := afterLast(text(comdirectPayDate.Read(block)), "zahlbar ab")
		if err := setDate(c, findDate(payDate), ""); err != nil {
			return nil, err
		}
		c.Amount = money.Optional(afterLast(text(comdirectPayout.Read(block)), "EUR"))
		if err := c.DerivePrice(); err != nil {
			return nil, err
		}
		return c, nil
	}

	companyLine := text(comdirectTradeCompany.Read(block))
	c.Company, c.WKN = splitCompanyWKN(companyLine)
	c.ISIN = lastN(text(comdirectTradeISIN.Read(block)), 12)
	c.Shares = comdirectPieces(text(comdirectShares.Read(block)))

	if err := setDate(c, comdirectDate(block), findTime(text(comdirectTradeTime.Read(block)))); err != nil {
		return nil, err
	}

	amount := comdirectKurswert(block)
	total := money.Optional(afterLast(text(comdirectTotal.Read(block)), "EUR"))
	c.Amount = amount
	c.Fee = fee(total, amount)

	if kind == KindBuy && block.Has(comdirectReduction) && c.Amount.Valid && c.Fee.Valid {
		reduction, err := comdirectReductionValue(block)
		if err != nil {
			return nil, err
		}
		a, f := money.ApplyReduction(c.Amount.Decimal, c.Fee.Decimal, reduction)
		c.Amount = decimal.NewNullDecimal(a)
		c.Fee = decimal.NewNullDecimal(f)
	}

	if err := c.DerivePrice(); err != nil {
		return nil, err
	}
	return c, nil
}

// comdirectDate prefers the trade day and falls back to the value date,
// which is the third last token of the line below the "Valuta" header.
func comdirectDate(block locator.Page) string {
	if d := findDate(text(comdirectTradeDay.Read(block))); d != "" {
		return d
	}
	fields := strings.Fields(text(comdirectValuta.Read(block)))
	if len(fields) < 3 {
		return ""
	}
	return fields[len(fields)-3]
}

// comdirectPieces reads the share count that follows the "St." token.
func comdirectPieces(line string) decimal.NullDecimal {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.Contains(f, "St.") && i+1 < len(fields) {
			return money.Optional(fields[i+1])
		}
	}
	return decimal.NullDecimal{}
}

// comdirectKurswert reads the first EUR amount at or below "Kurswert".
func comdirectKurswert(block locator.Page) decimal.NullDecimal {
	start := block.Index(locator.Contains("Kurswert"))
	if start < 0 {
		return decimal.NullDecimal{}
	}
	line, ok := block.At(block.IndexFrom(start, locator.Contains("EUR")))
	if !ok {
		return decimal.NullDecimal{}
	}
	return money.Optional(afterLast(line, "EUR"))
}

// comdirectReductionValue returns the surcharge reduction in EUR. Without an
// EUR marker on its line the value is in fund currency and the rate is the
// fourth token of the line above.
func comdirectReductionValue(block locator.Page) (decimal.Decimal, error) {
	idx := block.Index(comdirectReduction)
	line := block[idx]
	value, err := money.Normalize(field(line, len(strings.Fields(line))-1))
	if err != nil {
		return decimal.Zero, err
	}
	if strings.Contains(line, "EUR") {
		return value.Abs(), nil
	}
	prev, _ := block.At(idx - 1)
	rate, err := money.Normalize(field(prev, 3))
	if err != nil {
		return decimal.Zero, err
	}
	converted, err := money.ConvertByRate(value.Abs(), rate)
	if err != nil {
		return decimal.Zero, err
	}
	return converted, nil
}

// splitCompanyWKN splits "<company> <WKN>" as printed below the ISIN header.
func splitCompanyWKN(line string) (string, string) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !locator.IsWKN.Match(fields[len(fields)-1]) {
		return strings.TrimSpace(line), ""
	}
	wkn := fields[len(fields)-1]
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), wkn)), wkn
}

func lastN(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
