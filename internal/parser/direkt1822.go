package parser

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/money"
)

var (
	direkt1822Marker = locator.Contains("1822direkt")
	direkt1822Buy    = locator.Any(
		locator.Contains("Wertpapier Abrechnung Kauf"),
		locator.Contains("Wertpapier Abrechnung Ausgabe Investmentfonds"),
	)
	direkt1822Sell     = locator.Contains("Wertpapier Abrechnung Verkauf")
	direkt1822Dividend = locator.Contains("Ausschüttung Investmentfonds")

	direkt1822ISIN     = locator.Rule{Anchor: locator.Contains("ISIN"), Offsets: []int{5, 1, 2, 3, 4}, Shape: locator.IsISIN}
	direkt1822Pieces   = locator.Rule{Anchor: locator.Contains("Stück"), Offsets: []int{0}}
	direkt1822Company  = locator.Rule{Anchor: locator.Contains("Stück"), Offsets: []int{1}}
	direkt1822Date     = locator.Rule{Anchor: locator.Contains("Schlusstag"), Offsets: []int{1}}
	direkt1822PayDate  = locator.Rule{Anchor: locator.Contains("Zahlbarkeitstag"), Offsets: []int{1}}
	direkt1822Kurswert = locator.Rule{Anchor: locator.Contains("Kurswert"), Offsets: []int{1}}
	direkt1822Total    = locator.Rule{Anchor: locator.Contains("Ausmachender Betrag"), Offsets: []int{1}}
	// The gross payout is the first amount under "Ausschüttung" that is
	// followed by an EUR line.
	direkt1822Payout = locator.Rule{Anchor: locator.Equals("Ausschüttung"), Offsets: []int{1, 3, 5}, Shape: locator.IsAmount}
)

// Direkt1822Parser handles 1822direkt settlement notes. A file may bundle
// several notes, one per page.
type Direkt1822Parser struct {
	base
}

func NewDirekt1822Parser(log logrus.FieldLogger) *Direkt1822Parser {
	return &Direkt1822Parser{base{log: log}}
}

func (p *Direkt1822Parser) Broker() models.Broker { return models.Broker1822direkt }

func (p *Direkt1822Parser) Identify(doc locator.Document, extension string) bool {
	return supportedExtension(extension) &&
		doc.Has(direkt1822Marker) &&
		doc.Has(locator.Any(direkt1822Buy, direkt1822Sell, direkt1822Dividend))
}

func (p *Direkt1822Parser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     MultiTransaction,
		log:      p.logger(),
		classify: classifyDirekt1822,
		extract:  p.extractBlock,
	}.run(doc)
}

func classifyDirekt1822(block locator.Page) Kind {
	switch {
	case block.Has(direkt1822Buy):
		return KindBuy
	case block.Has(direkt1822Sell):
		return KindSell
	case block.Has(direkt1822Dividend):
		return KindDividend
	}
	return KindUnrecognized
}

func (p *Direkt1822Parser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := activity.NewCandidate(p.Broker(), kind.ActivityType())
	c.ISIN = text(direkt1822ISIN.Read(block))
	c.Company = text(direkt1822Company.Read(block))
	c.Shares = money.Optional(field(text(direkt1822Pieces.Read(block)), 1))

	// Amounts are printed with a trailing minus on debits.
	total := abs(number(direkt1822Total.Read(block)))

	switch kind {
	case KindBuy, KindSell:
		if err := setDate(c, field(text(direkt1822Date.Read(block)), 0), ""); err != nil {
			return nil, err
		}
		c.Amount = abs(number(direkt1822Kurswert.Read(block)))
		c.Fee = fee(total, c.Amount)
	case KindDividend:
		if err := setDate(c, field(text(direkt1822PayDate.Read(block)), 0), ""); err != nil {
			return nil, err
		}
		c.Amount = direkt1822GrossPayout(block)
		c.Tax = dividendTax(c.Amount, total)
	}

	if err := c.DerivePrice(); err != nil {
		return nil, err
	}
	return c, nil
}

func direkt1822GrossPayout(block locator.Page) decimal.NullDecimal {
	idx := block.Index(direkt1822Payout.Anchor)
	if idx < 0 {
		return decimal.NullDecimal{}
	}
	for _, off := range direkt1822Payout.Offsets {
		line, ok := block.At(idx + off)
		next, _ := block.At(idx + off + 1)
		if ok && direkt1822Payout.Shape.Match(line) && next == "EUR" {
			return abs(money.Optional(line))
		}
	}
	return decimal.NullDecimal{}
}
