package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
	"github.com/insightdelivered/trade-import/internal/money"
)

var (
	postbankMarker = locator.Contains("BIC PBNKDEFFXXX")
	postbankBuy    = locator.Any(
		locator.Contains("Wertpapier Abrechnung Kauf"),
		locator.Contains("Wertpapier Abrechnung Ausgabe Investmentfonds"),
	)
	postbankSell     = locator.Contains("Wertpapier Abrechnung Verkauf")
	postbankDividend = locator.Any(
		locator.Contains("Dividendengutschrift"),
		locator.Contains("Ausschüttung Investmentfonds"),
	)

	// The position table starts at the "Stück" line: shares on it, the
	// name one line below, the ISIN three lines below.
	postbankTable     = locator.Contains("Stück")
	postbankShares    = locator.Rule{Anchor: postbankTable, Offsets: []int{0}}
	postbankCompany   = locator.Rule{Anchor: postbankTable, Offsets: []int{1}}
	postbankISIN      = locator.Rule{Anchor: postbankTable, Offsets: []int{3, 2}, Shape: locator.IsISIN}
	postbankTradeDate = locator.Rule{Anchor: locator.Contains("Schlusstag"), Offsets: []int{1}}
	postbankPrice     = locator.Rule{Anchor: locator.Contains("Ausführungskurs"), Offsets: []int{1}}
	postbankKurswert  = locator.Rule{Anchor: locator.Contains("Kurswert"), Offsets: []int{1}}
	postbankProvision = locator.Rule{Anchor: locator.Contains("Provision"), Offsets: []int{1}}
	postbankPayDate   = locator.Rule{Anchor: locator.Contains("Zahlbarkeitstag"), Offsets: []int{1}}
	postbankPayout    = locator.Rule{Anchor: locator.Contains("Ausmachender Betrag"), Offsets: []int{1}}
)

// PostbankParser handles Postbank settlement notes and dividend advices.
// Only the first page carries data.
type PostbankParser struct {
	base
}

func NewPostbankParser(log logrus.FieldLogger) *PostbankParser {
	return &PostbankParser{base{log: log}}
}

func (p *PostbankParser) Broker() models.Broker { return models.BrokerPostbank }

func (p *PostbankParser) Identify(doc locator.Document, extension string) bool {
	return supportedExtension(extension) &&
		doc.Has(postbankMarker) &&
		doc.Has(locator.Any(postbankBuy, postbankSell, postbankDividend))
}

func (p *PostbankParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     SingleTransaction,
		log:      p.logger(),
		classify: classifyPostbank,
		extract:  p.extractBlock,
	}.run(doc)
}

func classifyPostbank(block locator.Page) Kind {
	switch {
	case block.Has(postbankBuy):
		return KindBuy
	case block.Has(postbankSell):
		return KindSell
	case block.Has(postbankDividend):
		return KindDividend
	}
	return KindUnrecognized
}

func (p *PostbankParser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := activity.NewCandidate(p.Broker(), kind.ActivityType())
	c.Shares = money.Optional(field(text(postbankShares.Read(block)), 1))
	c.Company = text(postbankCompany.Read(block))
	if isin := text(postbankISIN.Read(block)); activity.ValidISIN(isin) {
		c.ISIN = isin
	}

	switch kind {
	case KindBuy, KindSell:
		if err := setDate(c, field(text(postbankTradeDate.Read(block)), 0), ""); err != nil {
			return nil, err
		}
		c.Price = money.Optional(field(text(postbankPrice.Read(block)), 0))
		c.Amount = abs(number(postbankKurswert.Read(block)))
		c.Fee = abs(optionalNumber(firstField(postbankProvision.Read(block))))
	case KindDividend:
		if err := setDate(c, field(text(postbankPayDate.Read(block)), 0), ""); err != nil {
			return nil, err
		}
		c.Amount = money.Optional(field(text(postbankPayout.Read(block)), 0))
		if err := c.DerivePrice(); err != nil {
			return nil, err
		}
	}
	return c, nil
}
