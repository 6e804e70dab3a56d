package parser

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
)

var (
	smartbrokerTaxRules = []locator.Rule{
		{Anchor: locator.Contains("Kapitalertragsteuer"), Offsets: []int{2}, Shape: locator.IsAmount},
		{Anchor: locator.Contains("Solidaritätszuschlag"), Offsets: []int{2}, Shape: locator.IsAmount},
		{Anchor: locator.Contains("Kirchensteuer"), Offsets: []int{2}, Shape: locator.IsAmount},
		{Anchor: locator.Contains("-Quellensteuer"), Offsets: []int{5}, Shape: locator.IsAmount},
	}
	smartbrokerTaxLine = locator.Any(
		locator.Contains("Kapitalertragsteuer"),
		locator.Contains("Solidaritätszuschlag"),
		locator.Contains("Kirchensteuer"),
	)
	smartbrokerPayout = locator.Rules{
		{Anchor: locator.Equals("Steuerpflichtiger Ausschüttungsbetrag"), Offsets: []int{2, 1}, Shape: locator.IsAmount},
		{Anchor: locator.Equals("ausländische Dividende"), Offsets: []int{2, 1}, Shape: locator.IsAmount},
	}
)

// SmartbrokerParser handles Smartbroker notes, which are printed by onvista
// and share its layout. Only the first page carries data.
type SmartbrokerParser struct {
	base
}

func NewSmartbrokerParser(log logrus.FieldLogger) *SmartbrokerParser {
	return &SmartbrokerParser{base{log: log}}
}

func (p *SmartbrokerParser) Broker() models.Broker { return models.BrokerSmartbroker }

func (p *SmartbrokerParser) Identify(doc locator.Document, extension string) bool {
	return supportedExtension(extension) &&
		doc.Has(smartbrokerMarker) &&
		doc.Has(locator.Any(onvistaBuy, onvistaSell, onvistaDividend))
}

func (p *SmartbrokerParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     SingleTransaction,
		log:      p.logger(),
		classify: classifyOnvista,
		extract:  p.extractBlock,
	}.run(doc)
}

func (p *SmartbrokerParser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := onvistaCommon(block, p.Broker(), kind)

	switch kind {
	case KindBuy, KindSell:
		if err := onvistaTrade(c, block); err != nil {
			return nil, err
		}
		if kind == KindSell {
			c.Tax = smartbrokerTaxes(block)
		}
		c.Fee = onvistaFee(block, c.Amount, c.Tax, smartbrokerTaxLine)
	case KindDividend:
		if err := setDate(c, text(onvistaPayDate.Read(block)), ""); err != nil {
			return nil, err
		}
		c.Amount = number(smartbrokerPayout.Read(block))
		c.Tax = smartbrokerTaxes(block)
		if err := c.DerivePrice(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func smartbrokerTaxes(block locator.Page) decimal.NullDecimal {
	return sumRules(block, smartbrokerTaxRules)
}
