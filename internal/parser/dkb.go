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
	dkbMarker = locator.Contains("BIC BYLADEM1001")
	// Older notes carry no BIC but start with the postal address.
	dkbAddress = locator.Equals("10919 Berlin")

	dkbBuy = locator.Any(
		locator.Contains("Wertpapier Abrechnung Kauf"),
		locator.Contains("Wertpapier Abrechnung Ausgabe Investmentfonds"),
	)
	dkbSell = locator.Any(
		locator.Contains("Wertpapier Abrechnung Verkauf"),
		locator.Contains("Wertpapier Abrechnung Rücknahme"),
	)
	dkbDividend = locator.Any(
		locator.Contains("Dividendengutschrift"),
		locator.Contains("Ausschüttung Investmentfonds"),
	)
	// Order confirmations, cancellations and execution notices are not
	// settlements.
	dkbIgnored = locator.Any(
		locator.Contains("Auftragsbestätigung"),
		locator.Contains("Streichungsbestätigung"),
		locator.Contains("Ausführungsanzeige"),
	)

	dkbPieces   = locator.Contains("Stück")
	dkbKurswert = locator.Rule{Anchor: locator.Contains("Kurswert"), Offsets: []int{1}}
	dkbPrice    = locator.Rules{
		{Anchor: locator.Contains("Ausführungskurs"), Offsets: []int{1}},
		{Anchor: locator.Contains("Abrech.-Preis"), Offsets: []int{1}},
	}
	dkbTime    = locator.Rule{Anchor: locator.Contains("-Zeit"), Offsets: []int{1}}
	dkbPayDate = locator.Rule{Anchor: locator.Contains("Zahlbarkeitstag"), Offsets: []int{1}}

	dkbFeeRules = []locator.Rule{
		{Anchor: locator.Contains("Provision"), Offsets: []int{1}},
		{Anchor: locator.Contains("Abwicklungskosten Börse"), Offsets: []int{1}},
		{Anchor: locator.Contains("Transaktionsentgelt Börse"), Offsets: []int{1}},
		{Anchor: locator.Contains("Übertragungs-/Liefergebühr"), Offsets: []int{1}},
	}
	// "Kapitalertragsteuer " with a trailing space skips the
	// "Berechnungsgrundlage für die Kapitalertragsteuer" line.
	dkbTaxRules = []locator.Rule{
		{Anchor: locator.Contains("Kapitalertragsteuer "), Offsets: []int{1}},
		{Anchor: locator.Contains("Solidaritätszuschlag"), Offsets: []int{1}},
		{Anchor: locator.Contains("Kirchensteuer"), Offsets: []int{1}},
	}
	dkbWithholding = locator.All(locator.HasPrefix("Anrechenbare Quellensteuer"), locator.HasSuffix("EUR"))
)

// DKBParser handles DKB settlement notes and dividend advices. Order
// confirmations are recognized and skipped with a dedicated status.
type DKBParser struct {
	base
}

func NewDKBParser(log logrus.FieldLogger) *DKBParser {
	return &DKBParser{base{log: log}}
}

func (p *DKBParser) Broker() models.Broker { return models.BrokerDKB }

func (p *DKBParser) Identify(doc locator.Document, extension string) bool {
	if !supportedExtension(extension) || len(doc) == 0 {
		return false
	}
	first := doc.FirstPage()
	if !first.Has(dkbMarker) && (len(first) == 0 || !dkbAddress.Match(first[0])) {
		return false
	}
	return classifyDKB(first) != KindUnrecognized
}

func (p *DKBParser) ExtractPages(doc locator.Document) models.Result {
	return extraction{
		broker:   p.Broker(),
		mode:     SingleTransaction,
		log:      p.logger(),
		classify: classifyDKB,
		extract: func(block locator.Page, kind Kind) (*activity.Candidate, error) {
			return p.extractBlock(block, kind, doc)
		},
	}.run(doc)
}

func classifyDKB(block locator.Page) Kind {
	switch {
	case block.Has(dkbIgnored):
		return KindKnownButUnsupported
	case block.Has(dkbBuy):
		return KindBuy
	case block.Has(dkbSell):
		return KindSell
	case block.Has(dkbDividend):
		return KindDividend
	}
	return KindUnrecognized
}

// extractBlock reads the first page. Fees and taxes may continue on later
// pages, so they are summed over the whole document.
func (p *DKBParser) extractBlock(block locator.Page, kind Kind, doc locator.Document) (*activity.Candidate, error) {
	c := activity.NewCandidate(p.Broker(), kind.ActivityType())

	pieceIdx := block.Index(dkbPieces)
	if pieceIdx >= 0 {
		c.Shares = money.Optional(field(block[pieceIdx], 1))
		isinIdx := block.IndexFrom(pieceIdx, locator.IsISIN)
		if isinIdx >= 0 {
			c.ISIN = block[isinIdx]
			c.Company = strings.Join(block[pieceIdx+1:isinIdx], " ")
			if wkn, ok := block.At(isinIdx + 1); ok {
				if wkn = strings.Trim(wkn, "()"); locator.IsWKN.Match(wkn) {
					c.WKN = wkn
				}
			}
		}
	}

	c.Fee = dkbSum(doc, dkbFeeRules)
	c.Tax = sum(dkbSum(doc, dkbTaxRules), dkbWithholdingTax(doc))

	fx := dkbForeignInfo(block)

	switch kind {
	case KindBuy, KindSell:
		if err := setDate(c, dkbTradeDate(block), field(text(dkbTime.Read(block)), 1)); err != nil {
			return nil, err
		}
		c.Amount = abs(number(dkbKurswert.Read(block)))
		priceLine := text(dkbPrice.Read(block))
		c.Price = money.Optional(field(priceLine, 0))
		if fx.convertible() && field(priceLine, 1) == fx.foreign && c.Price.Valid {
			converted, err := money.ConvertByRate(c.Price.Decimal, fx.rate.Decimal)
			if err != nil {
				return nil, err
			}
			c.Price = decimal.NewNullDecimal(converted)
		}
	case KindDividend:
		if err := setDate(c, field(text(dkbPayDate.Read(block)), 0), ""); err != nil {
			return nil, err
		}
		c.Amount = dkbPayout(block)
		if err := c.DerivePrice(); err != nil {
			return nil, err
		}
	}

	if fx.convertible() {
		c.FXRate = fx.rate
		c.ForeignCurrency = fx.foreign
	}
	return c, nil
}

// dkbTradeDate walks the date sources from most to least precise. The
// document date is a last resort and not the real order date.
func dkbTradeDate(block locator.Page) string {
	for _, anchor := range []string{"Schlusstag", "Devisenkursdatum"} {
		if d := findDate(text(block.ReadAt(locator.Contains(anchor), 1))); d != "" {
			return d
		}
	}
	if d := findDate(text(block.ReadAt(locator.Contains("Devisenkurs "), 0))); d != "" {
		return d
	}
	return findDate(text(block.ReadAt(locator.Contains("Datum"), 1)))
}

// dkbPayout reads the EUR payout. For foreign currency payouts the EUR
// value follows the foreign amount and its currency.
func dkbPayout(block locator.Page) decimal.NullDecimal {
	idx := block.Index(locator.Equals("Ausschüttung"))
	if idx < 0 {
		idx = block.LastIndex(locator.Contains("Dividendengutschrift"))
	}
	if idx < 0 {
		return decimal.NullDecimal{}
	}
	offset := 3
	if currency, _ := block.At(idx + 2); currency == "EUR" {
		offset = 1
	}
	line, _ := block.At(idx + offset)
	return money.Optional(field(line, 0))
}

func dkbSum(doc locator.Document, rules []locator.Rule) decimal.NullDecimal {
	total := decimal.Zero
	for _, page := range doc {
		for _, r := range rules {
			line, err := r.Read(page)
			if err != nil {
				continue
			}
			if v := money.Optional(field(line, 0)); v.Valid {
				total = total.Add(v.Decimal.Abs())
			}
		}
	}
	return decimal.NewNullDecimal(total)
}

// dkbWithholdingTax only counts withholding tax that was actually deducted,
// i.e. when its value is followed by a currency line.
func dkbWithholdingTax(doc locator.Document) decimal.NullDecimal {
	total := decimal.Zero
	for _, page := range doc {
		idx := page.Index(dkbWithholding)
		if idx < 0 {
			continue
		}
		if currency, _ := page.At(idx + 2); currency != "EUR" {
			continue
		}
		line, _ := page.At(idx + 1)
		if v := money.Optional(line); v.Valid {
			total = total.Add(v.Decimal.Abs())
		}
	}
	return decimal.NewNullDecimal(total)
}

type dkbFX struct {
	rate    decimal.NullDecimal
	foreign string
	base    string
}

// convertible reports whether a rate into a different currency was stated.
func (f dkbFX) convertible() bool {
	return f.rate.Valid && f.foreign != "" && f.foreign != f.base
}

// dkbForeignInfo reads either
//
//	Devisenkurs
//	EUR / USD
//	1,1011
//
// or the single line form "Devisenkurs (EUR/CAD) 1,5268 vom 14.04.2020".
func dkbForeignInfo(block locator.Page) dkbFX {
	var fx dkbFX
	if idx := block.Index(locator.Equals("Devisenkurs")); idx > 0 {
		pair, _ := block.At(idx + 1)
		rate, _ := block.At(idx + 2)
		if parts := strings.Split(pair, "/"); len(parts) == 2 {
			fx.foreign = strings.TrimSpace(parts[1])
		}
		fx.rate = money.Optional(rate)
	} else if idx := block.Index(locator.Contains("Devisenkurs (")); idx > 0 {
		line := block[idx]
		if parts := strings.SplitN(line, "/", 2); len(parts) == 2 && len(parts[1]) >= 3 {
			fx.foreign = parts[1][:3]
		}
		fx.rate = money.Optional(field(line, 2))
	}
	fx.base = "EUR"
	if idx := block.Index(locator.Equals("Ausmachender Betrag")); idx >= 0 {
		if base, ok := block.At(idx + 2); ok && locator.IsCurrencyCode.Match(base) {
			fx.base = base
		}
	}
	if fx.rate.Valid && !fx.rate.Decimal.IsPositive() {
		fx.rate = decimal.NullDecimal{}
	}
	return fx
}
