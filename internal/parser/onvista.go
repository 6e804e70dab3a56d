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

// onvista and Smartbroker print the same settlement layout. Smartbroker
// notes are told apart by the address and branch lines below.
var (
	onvistaMarker     = locator.Contains("BELEGDRUCK=J")
	smartbrokerMarker = locator.Any(
		locator.Contains("Landsberger Straße 300"),
		locator.Contains("BNP Paribas S.A. Niederlassung Deutschland"),
	)

	onvistaBuy      = locator.Contains("Wir haben für Sie gekauft")
	onvistaSell     = locator.Contains("Wir haben für Sie verkauft")
	onvistaDividend = locator.Any(locator.Contains("Erträgnisgutschrift"), locator.Contains("Dividendengutschrift"))
)

var (
	onvistaISIN    = locator.Rule{Anchor: locator.Contains("ISIN"), Offsets: []int{1}, Shape: locator.IsISIN}
	onvistaCompany = locator.Rule{
		Anchor:  locator.Contains("ISIN"),
		Offsets: []int{-1, -2},
		Shape:   locator.Not(locator.Equals("Gattungsbezeichnung")),
	}
	onvistaShares    = locator.Rule{Anchor: locator.HasPrefix("STK "), Offsets: []int{0}}
	onvistaPrice     = locator.Rule{Anchor: locator.Equals("Kurs"), Offsets: []int{1, 2}, Shape: locator.IsAmount}
	onvistaKurswert  = locator.Rule{Anchor: locator.Equals("Kurswert"), Offsets: []int{1, 2}, Shape: locator.IsAmount}
	onvistaTradeDate = locator.Rule{Anchor: locator.Contains("Handelstag"), Offsets: []int{1, -1}, Shape: locator.IsDate}
	onvistaTradeTime = locator.Rule{Anchor: locator.Contains("Handelszeit"), Offsets: []int{1, -1}, Shape: locator.IsTime}
	onvistaPayDate   = locator.Rule{Anchor: locator.Contains("Zahltag"), Offsets: []int{1}, Shape: locator.IsDate}
	// The settled total follows the anchor after a value date and a currency line.
	onvistaTotal = locator.Rule{Anchor: locator.Contains("Betrag zu Ihren "), Offsets: []int{1, 2, 3, 4}, Shape: locator.IsAmount}

	onvistaWithheldPrefix = locator.Any(
		locator.HasPrefix("einbehaltene "),
		locator.HasPrefix("einbehaltener "),
	)
	onvistaWithheld = locator.Any(onvistaWithheldPrefix, locator.Contains("davon anrechenbare"))

	// Any tax or surcharge position, but not the "Steuer..." section headers.
	onvistaTaxLine = locator.Func("tax or surcharge line", func(line string) bool {
		l := strings.ToLower(line)
		return (strings.Contains(l, "steuer") || strings.Contains(l, "zuschlag")) &&
			!strings.HasPrefix(l, "steuer")
	})
)

// OnvistaParser handles onvista bank settlement notes. A file may hold
// several notes, one per page.
type OnvistaParser struct {
	base
}

func NewOnvistaParser(log logrus.FieldLogger) *OnvistaParser {
	return &OnvistaParser{base{log: log}}
}

func (p *OnvistaParser) Broker() models.Broker { return models.BrokerOnvista }

func (p *OnvistaParser) Identify(doc locator.Document, extension string) bool {
	return supportedExtension(extension) &&
		doc.Has(onvistaMarker) &&
		!doc.Has(smartbrokerMarker) &&
		doc.Has(locator.Any(onvistaBuy, onvistaSell, onvistaDividend))
}

func (p *OnvistaParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     MultiTransaction,
		log:      p.logger(),
		classify: classifyOnvista,
		extract:  p.extractBlock,
	}.run(doc)
}

func classifyOnvista(block locator.Page) Kind {
	switch {
	case block.Has(onvistaBuy):
		return KindBuy
	case block.Has(onvistaSell):
		return KindSell
	case block.Has(onvistaDividend):
		return KindDividend
	}
	return KindUnrecognized
}

func (p *OnvistaParser) extractBlock(block locator.Page, kind Kind) (*activity.Candidate, error) {
	c := onvistaCommon(block, p.Broker(), kind)

	switch kind {
	case KindBuy, KindSell:
		if err := onvistaTrade(c, block); err != nil {
			return nil, err
		}
		if kind == KindSell {
			c.Tax = onvistaTaxes(block)
		}
		c.Fee = onvistaFee(block, c.Amount, c.Tax, onvistaTaxLine)
	case KindDividend:
		if err := setDate(c, text(onvistaPayDate.Read(block)), ""); err != nil {
			return nil, err
		}
		net := number(onvistaTotal.Read(block))
		c.Tax = onvistaTaxes(block)
		c.Amount = sum(net, c.Tax)
		if err := c.DerivePrice(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// onvistaCommon reads the instrument block shared by every note type.
func onvistaCommon(block locator.Page, broker models.Broker, kind Kind) *activity.Candidate {
	c := activity.NewCandidate(broker, kind.ActivityType())
	c.ISIN = text(onvistaISIN.Read(block))
	c.Company = text(onvistaCompany.Read(block))
	c.Shares = money.Optional(field(text(onvistaShares.Read(block)), 1))
	return c
}

// onvistaTrade fills date, amount and price of a buy or sell note.
func onvistaTrade(c *activity.Candidate, block locator.Page) error {
	if err := setDate(c, text(onvistaTradeDate.Read(block)), text(onvistaTradeTime.Read(block))); err != nil {
		return err
	}
	c.Amount = number(onvistaKurswert.Read(block))
	c.Price = number(onvistaPrice.Read(block))
	return nil
}

// onvistaTaxes sums the withheld tax lines; the value sits two lines below
// each of them, after a currency line. Older notes have no "einbehaltene"
// lines and list their taxes between Kurswert and Handelstag instead.
func onvistaTaxes(block locator.Page) decimal.NullDecimal {
	if !block.Has(onvistaWithheldPrefix) && block.Has(onvistaTradeDate.Anchor) {
		return onvistaPositionTaxes(block)
	}
	return sumMatching(block, onvistaWithheld, []int{2, 1})
}

// onvistaPositionTaxes walks the four line positions (name, currency, value,
// sign) that follow the market value and adds those naming a tax or a
// surcharge.
func onvistaPositionTaxes(block locator.Page) decimal.NullDecimal {
	total := decimal.NewNullDecimal(decimal.Zero)
	start := block.Index(locator.Contains("Kurswert"))
	end := block.Index(onvistaTradeDate.Anchor)
	if start < 0 {
		return total
	}
	for i := start + 3; i < end; i += 4 {
		name, _ := block.At(i)
		if l := strings.ToLower(name); !strings.Contains(l, "steuer") && !strings.Contains(l, "zuschlag") {
			continue
		}
		value, _ := block.At(i + 2)
		total = sum(total, abs(money.Optional(value)))
	}
	return total
}

// onvistaFee derives the fee from the settled total. Older notes list the
// taxes above the total, which then already has them deducted.
func onvistaFee(block locator.Page, amount, tax decimal.NullDecimal, taxLine locator.Matcher) decimal.NullDecimal {
	total := number(onvistaTotal.Read(block))
	taxIdx := block.Index(taxLine)
	if taxIdx >= 0 && taxIdx < block.Index(onvistaTotal.Anchor) {
		total = sum(total, tax)
	}
	return fee(total, amount)
}
