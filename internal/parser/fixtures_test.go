package parser

import (
	"github.com/insightdelivered/trade-import/internal/locator"
)

// Tokenized sample notes, one slice of lines per page.

func doc(pages ...[]string) locator.Document {
	return locator.NewDocument(pages)
}

var onvistaBuyPage = []string{
	"onvista bank",
	"BELEGDRUCK=J",
	"Wertpapierabrechnung",
	"Wir haben für Sie gekauft",
	"Apple Inc. Registered Shares o.N.",
	"Gattungsbezeichnung",
	"ISIN",
	"US0378331005",
	"STK 10,000",
	"Kurs",
	"EUR 123,456",
	"Handelstag",
	"16.12.2019",
	"Handelszeit",
	"09:04",
	"Kurswert",
	"EUR",
	"1.234,56",
	"Orderprovision",
	"EUR",
	"5,90",
	"Betrag zu Ihren Lasten",
	"18.12.2019",
	"EUR",
	"1.240,46",
}

// Older layout: the withheld tax is listed above the settled total.
var onvistaSellPage = []string{
	"onvista bank",
	"BELEGDRUCK=J",
	"Wir haben für Sie verkauft",
	"iShsIII-Core MSCI World U.ETF Registered Shs USD (Acc) o.N.",
	"ISIN",
	"IE00B4L5Y983",
	"STK 38,000",
	"Kurs",
	"EUR 56,991",
	"Handelstag",
	"27.12.2019",
	"Kurswert",
	"EUR",
	"2.165,66",
	"Orderprovision",
	"EUR",
	"7,00",
	"einbehaltene Kapitalertragsteuer",
	"EUR",
	"10,00",
	"Betrag zu Ihren Gunsten",
	"EUR",
	"2.148,66",
}

// Oldest layout: tax and surcharge positions sit between the market value
// and the trade day, without an "einbehaltene" prefix.
var onvistaPositionTaxSellPage = []string{
	"onvista bank",
	"BELEGDRUCK=J",
	"Wir haben für Sie verkauft",
	"iShsIII-Core MSCI World U.ETF Registered Shs USD (Acc) o.N.",
	"ISIN",
	"IE00B4L5Y983",
	"STK 38,000",
	"Kurs",
	"EUR 56,991",
	"Kurswert",
	"EUR",
	"2.165,66",
	"Orderprovision",
	"EUR",
	"5,00",
	"-",
	"Kapitalertragsteuer",
	"EUR",
	"10,00",
	"-",
	"Solidaritätszuschlag",
	"EUR",
	"0,55",
	"-",
	"Handelstag",
	"27.12.2019",
	"Betrag zu Ihren Gunsten",
	"EUR",
	"2.150,11",
}

var onvistaDividendPage = []string{
	"onvista bank",
	"BELEGDRUCK=J",
	"Erträgnisgutschrift",
	"Vanguard FTSE All-World U.ETF Registered Shares USD Dis.oN",
	"ISIN",
	"IE00B3RBWM25",
	"STK 222,9756",
	"Zahltag",
	"08.04.2020",
	"einbehaltene Kapitalertragsteuer",
	"EUR",
	"10,00",
	"Betrag zu Ihren Gunsten",
	"08.04.2020",
	"EUR",
	"83,80",
}

// A sell note whose market value line is missing.
var onvistaBrokenPage = []string{
	"onvista bank",
	"BELEGDRUCK=J",
	"Wir haben für Sie verkauft",
	"iShsIII-Core MSCI World U.ETF Registered Shs USD (Acc) o.N.",
	"ISIN",
	"IE00B4L5Y983",
	"STK 38,000",
	"Handelstag",
	"27.12.2019",
	"Betrag zu Ihren Gunsten",
	"EUR",
	"2.148,66",
}

var smartbrokerBuyPage = []string{
	"DAB BNP Paribas",
	"Landsberger Straße 300",
	"80687 München",
	"BELEGDRUCK=J",
	"Wir haben für Sie gekauft",
	"Microsoft Corp. Registered Shares DL-,00000625",
	"ISIN",
	"US5949181045",
	"STK 5,000",
	"Kurs",
	"EUR 160,00",
	"Handelstag",
	"04.05.2020",
	"Kurswert",
	"EUR",
	"800,00",
	"Provision",
	"EUR",
	"4,00",
	"Betrag zu Ihren Lasten",
	"06.05.2020",
	"EUR",
	"804,00",
}

var smartbrokerSellPage = []string{
	"DAB BNP Paribas",
	"Landsberger Straße 300",
	"BELEGDRUCK=J",
	"Wir haben für Sie verkauft",
	"Tesla Inc. Registered Shares DL-,001",
	"ISIN",
	"US88160R1014",
	"STK 2,000",
	"Kurs",
	"EUR 700,00",
	"Handelstag",
	"10.06.2020",
	"Kurswert",
	"EUR",
	"1.400,00",
	"Provision",
	"EUR",
	"4,00",
	"Betrag zu Ihren Gunsten",
	"12.06.2020",
	"EUR",
	"1.396,00",
	"Kapitalertragsteuer",
	"EUR",
	"50,00",
	"Solidaritätszuschlag",
	"EUR",
	"2,75",
}

var comdirectBuyPage = []string{
	"comdirect bank",
	"Wertpapierkauf",
	"Geschäftstag : 02.01.2020 Handelszeit : 09:04 Uhr (MEZ/MESZ)",
	"Wertpapier-Bezeichnung WPKNR/ISIN",
	"iShares Core DAX UCITS ETF DE 593397",
	"DE0005933931",
	"Nennwert Zum Kurs von",
	"St. 10 EUR 101,00",
	"Kurswert : EUR 1.000,00",
	"Reduktion Kaufaufschlag EUR 10,00-",
	"Provision : EUR 20,00",
	"Konto-Nr. Valuta Zu Ihren Lasten vor Steuern",
	"1234567 EUR 06.01.2020 EUR 1.020,00",
}

// Fund purchase whose surcharge reduction exceeds the commission.
var comdirectFundBuyPage = []string{
	"comdirect bank",
	"Wertpapierkauf",
	"Geschäftstag : 03.02.2020 Handelszeit : 10:15 Uhr (MEZ/MESZ)",
	"Wertpapier-Bezeichnung WPKNR/ISIN",
	"Deka-Europa Aktien Spezial CF 974978",
	"LU0062624245",
	"Nennwert Zum Kurs von",
	"St. 10 EUR 105,00",
	"Kurswert : EUR 1.000,00",
	"Reduktion Kaufaufschlag EUR 50,00-",
	"Provision : EUR 9,90",
	"Konto-Nr. Valuta Zu Ihren Lasten vor Steuern",
	"1234567 EUR 05.02.2020 EUR 1.009,90",
}

var comdirectSellPage = []string{
	"comdirect bank",
	"Wertpapierverkauf",
	"Wertpapier-Bezeichnung WPKNR/ISIN",
	"Daimler AG Namens-Aktien o.N. 710000",
	"DE0007100000",
	"Nennwert Zum Kurs von",
	"St. 20 EUR 45,50",
	"Kurswert : EUR 910,00",
	"Provision : EUR 9,90",
	"Konto-Nr. Valuta Zu Ihren Gunsten vor Steuern",
	"1234567 EUR 15.05.2020 EUR 900,10",
}

var comdirectDividendPage = []string{
	"comdirect bank",
	"Dividendengutschrift",
	"zahlbar ab 14.05.2020",
	"Wertpapier-Bezeichnung WPKNR/ISIN",
	"per 08.05.2020",
	"Microsoft Corp.",
	"US5949181045",
	"STK 12,000",
	"Zu Ihren Gunsten vor Steuern",
	"08.05.2020 EUR 4,76",
}

var consorsBuyPage = []string{
	"Consorsbank",
	"Wertpapier",
	"WKN",
	"ISIN",
	"Apple Inc.",
	"Registered Shares o.N.",
	"865985",
	"US0378331005",
	"Orderabrechnung",
	"KAUF",
	"am",
	"02.01.2020",
	"um",
	"09:04:11",
	"Umsatz",
	"St.",
	"10",
	"Kurswert",
	"EUR",
	"1.234,56",
	"Provision",
	"EUR",
	"5,90",
	"Betrag zu Ihren Lasten",
	"EUR",
	"1.240,46",
}

var consorsSellPage = []string{
	"Consorsbank",
	"WKN",
	"ISIN",
	"BASF SE",
	"BASF11",
	"DE000BASF111",
	"Wertpapierabrechnung",
	"Verkauf",
	"am 03.02.2020",
	"um",
	"10:00:00",
	"Umsatz",
	"St.",
	"20",
	"Kurswert",
	"EUR",
	"1.200,00",
	"Provision",
	"EUR",
	"9,95",
	"KapSt",
	"25,00 %",
	"EUR",
	"30,00",
	"SolZ",
	"5,50 %",
	"EUR",
	"1,65",
	"Betrag zu Ihren Gunsten",
	"EUR",
	"1.158,40",
}

var consorsDividendPage = []string{
	"Consorsbank",
	"DIVIDENDENGUTSCHRIFT",
	"Wertpapier",
	"WKN",
	"ISIN",
	"Microsoft Corp.",
	"870747",
	"US5949181045",
	"Bestand",
	"12 St.",
	"Valuta 08.05.2020",
	"Brutto",
	"USD 109,20",
	"Devisenkurs",
	"1,0920 USD",
	"Brutto in EUR",
	"100,00 EUR",
	"Netto zugunsten",
	"IBAN",
	"DE12 3456 7890 1234 5678 90",
	"EUR",
	"85,00 EUR",
}

var ingBuyPage = []string{
	"ING-DiBa AG · Theodor-Heuss-Allee 2 · 60486 Frankfurt am Main · BIC: INGDDEFFXX",
	"Wertpapierabrechnung Kauf",
	"ISIN (WKN)",
	"DE0005140008 (514000)",
	"Wertpapierbezeichnung",
	"Deutsche Bank AG - Namens-Aktien o.N.",
	"Stück",
	"100",
	"Ausführungstag / -zeit",
	"02.01.2020 um 09:04:11 Uhr",
	"Kurs",
	"EUR",
	"7,123",
	"Kurswert",
	"EUR",
	"712,30",
	"Provision",
	"EUR",
	"4,90",
	"Endbetrag zu Ihren Lasten",
	"EUR",
	"717,20",
}

var ingDividendPage = []string{
	"ING-DiBa AG · Theodor-Heuss-Allee 2 · 60486 Frankfurt am Main · BIC: INGDDEFFXX",
	"Dividendengutschrift",
	"ISIN (WKN)",
	"US5949181045 (870747)",
	"Wertpapierbezeichnung",
	"Microsoft Corp. - Registered Shares DL-,00000625",
	"Nominale",
	"12 Stück",
	"Zahltag",
	"14.05.2020",
	"Zins-/Dividendensatz",
	"0,51 USD",
	"Brutto",
	"USD",
	"6,12",
	"Umg. z. Dev.-Kurs",
	"(1,0920)",
	"QuSt 15,00 % (EUR 0,84)",
	"Gesamtbetrag zu Ihren Gunsten",
	"EUR",
	"4,76",
}

var dkbBuyPage = []string{
	"10919 Berlin",
	"Wertpapier Abrechnung Kauf",
	"Nominale Wertpapierbezeichnung ISIN (WKN)",
	"Stück 10",
	"APPLE INC.",
	"REGISTERED SHARES O.N.",
	"US0378331005",
	"(865985)",
	"Schlusstag/-Zeit",
	"02.01.2020 09:04:11",
	"Ausführungskurs",
	"123,456 EUR",
	"Kurswert",
	"1.234,56- EUR",
	"Provision",
	"10,00- EUR",
	"Ausmachender Betrag",
	"1.244,56- EUR",
}

var dkbDividendPage = []string{
	"Deutsche Kreditbank AG · BIC BYLADEM1001",
	"Dividendengutschrift",
	"Nominale Wertpapierbezeichnung ISIN (WKN)",
	"Stück 50",
	"REALTY INCOME CORP.",
	"REGISTERED SHARES DL 1",
	"US7561091049",
	"(899744)",
	"Zahlbarkeitstag",
	"15.05.2020",
	"Devisenkurs",
	"EUR / USD",
	"1,0900",
	"Dividendengutschrift",
	"11,63",
	"USD",
	"10,67 EUR",
	"Anrechenbare Quellensteuer 15 % auf 10,67 EUR",
	"1,60",
	"EUR",
	"Ausmachender Betrag",
	"9,07",
	"EUR",
}

var dkbOrderConfirmationPage = []string{
	"Deutsche Kreditbank AG · BIC BYLADEM1001",
	"Auftragsbestätigung",
	"Stück 10",
	"APPLE INC.",
	"US0378331005",
}

var postbankBuyPage = []string{
	"Postbank · BIC PBNKDEFFXXX",
	"Wertpapier Abrechnung Kauf",
	"Stück 10",
	"BASF SE NAMENS-AKTIEN O.N.",
	"(BASF11)",
	"DE000BASF111",
	"Schlusstag",
	"02.01.2020 09:04:11",
	"Ausführungskurs",
	"67,15 EUR",
	"Kurswert",
	"671,50- EUR",
	"Provision",
	"9,95- EUR",
	"Ausmachender Betrag",
	"681,45- EUR",
}

var postbankDividendPage = []string{
	"Postbank · BIC PBNKDEFFXXX",
	"Dividendengutschrift",
	"Stück 10",
	"BASF SE NAMENS-AKTIEN O.N.",
	"(BASF11)",
	"DE000BASF111",
	"Zahlbarkeitstag",
	"05.05.2020",
	"Ausmachender Betrag",
	"33,00 EUR",
}

var direkt1822BuyPage = []string{
	"1822direkt",
	"Wertpapier Abrechnung Kauf",
	"Nominale Wertpapierbezeichnung ISIN (WKN)",
	"Stück 25",
	"Deka-GlobalChampions CF",
	"Inhaber-Anteile",
	"(DK0EC7)",
	"DE000DK0EC75",
	"Schlusstag",
	"02.01.2020",
	"Kurswert",
	"4.000,00- EUR",
	"Ausmachender Betrag",
	"4.040,00- EUR",
}

var direkt1822SellPage = []string{
	"1822direkt",
	"Wertpapier Abrechnung Verkauf",
	"Nominale Wertpapierbezeichnung ISIN (WKN)",
	"Stück 10",
	"iShares Core MSCI World UCITS ETF",
	"Registered Shares USD (Acc) o.N.",
	"(A0RPWH)",
	"IE00B4L5Y983",
	"Schlusstag",
	"03.02.2020 10:00:00",
	"Kurswert",
	"600,00 EUR",
	"Provision",
	"5,00- EUR",
	"Ausmachender Betrag",
	"595,00 EUR",
}

var direkt1822DividendPage = []string{
	"1822direkt",
	"Ausschüttung Investmentfonds",
	"Nominale Wertpapierbezeichnung ISIN (WKN)",
	"Stück 25",
	"Deka-GlobalChampions CF",
	"Inhaber-Anteile",
	"(DK0EC7)",
	"DE000DK0EC75",
	"Zahlbarkeitstag",
	"15.12.2020",
	"Ausschüttung",
	"50,00",
	"EUR",
	"Kapitalertragsteuer",
	"7,91-",
	"EUR",
	"Ausmachender Betrag",
	"42,09 EUR",
}
