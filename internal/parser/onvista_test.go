package parser

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
)

const delta = 1e-9

func TestOnvistaParser_Buy(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaBuyPage))

	require.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	a := res.Activities[0]

	assert.Equal(t, models.BrokerOnvista, a.Broker)
	assert.Equal(t, models.ActivityBuy, a.Type)
	assert.Equal(t, "US0378331005", a.ISIN)
	assert.Equal(t, "Apple Inc. Registered Shares o.N.", a.Company)
	assert.Equal(t, "2019-12-16", a.Date)
	require.NotNil(t, a.DateTime)
	assert.Equal(t, time.Date(2019, 12, 16, 9, 4, 0, 0, time.UTC), *a.DateTime)
	assert.InDelta(t, 10, a.Shares, delta)
	assert.InDelta(t, 1234.56, a.Amount, delta)
	assert.InDelta(t, 123.456, a.Price, delta)
	assert.InDelta(t, 5.90, a.Fee, delta)
	assert.InDelta(t, 0, a.Tax, delta)
	assert.InDelta(t, 1240.46, a.Amount+a.Fee, 1e-6)
}

func TestOnvistaParser_SellWithTaxAboveTotal(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaSellPage))

	require.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	a := res.Activities[0]

	assert.Equal(t, models.ActivitySell, a.Type)
	assert.Equal(t, "IE00B4L5Y983", a.ISIN)
	assert.Equal(t, "2019-12-27", a.Date)
	assert.Nil(t, a.DateTime)
	assert.InDelta(t, 38, a.Shares, delta)
	assert.InDelta(t, 56.991, a.Price, delta)
	assert.InDelta(t, 2165.66, a.Amount, delta)
	assert.InDelta(t, 7, a.Fee, delta)
	assert.InDelta(t, 10, a.Tax, delta)
	assert.InDelta(t, 2148.66, a.Amount-a.Fee-a.Tax, 1e-6)
}

func TestOnvistaParser_SellWithPositionTaxes(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaPositionTaxSellPage))

	require.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	a := res.Activities[0]

	assert.Equal(t, models.ActivitySell, a.Type)
	assert.Equal(t, "2019-12-27", a.Date)
	assert.InDelta(t, 2165.66, a.Amount, delta)
	// Kapitalertragsteuer and Solidaritätszuschlag are tax, not fee.
	assert.InDelta(t, 10.55, a.Tax, delta)
	assert.InDelta(t, 5, a.Fee, delta)
	assert.InDelta(t, 2150.11, a.Amount-a.Fee-a.Tax, 1e-6)
}

func TestOnvistaTaxes(t *testing.T) {
	tests := []struct {
		name string
		page []string
		want string
	}{
		{"withheld lines", onvistaSellPage, "10"},
		{"positions before trade day", onvistaPositionTaxSellPage, "10.55"},
		{"dividend", onvistaDividendPage, "10"},
		{"no taxes", onvistaBuyPage, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := onvistaTaxes(locator.NewPage(tt.page))
			require.True(t, got.Valid)
			assert.True(t, got.Decimal.Equal(dec(tt.want).Decimal), "got %s", got.Decimal)
		})
	}
}

func TestOnvistaParser_Dividend(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaDividendPage))

	require.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	a := res.Activities[0]

	assert.Equal(t, models.ActivityDividend, a.Type)
	assert.Equal(t, "IE00B3RBWM25", a.ISIN)
	assert.Equal(t, "2020-04-08", a.Date)
	assert.InDelta(t, 222.9756, a.Shares, delta)
	assert.InDelta(t, 93.80, a.Amount, delta)
	assert.InDelta(t, 10, a.Tax, delta)
	assert.InDelta(t, 0, a.Fee, delta)
	assert.InDelta(t, 93.80/222.9756, a.Price, 1e-9)
}

func TestOnvistaParser_MultiplePages(t *testing.T) {
	log, hook := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaBuyPage, onvistaSellPage, onvistaDividendPage))

	assert.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 3)
	assert.Equal(t, models.ActivityBuy, res.Activities[0].Type)
	assert.Equal(t, models.ActivitySell, res.Activities[1].Type)
	assert.Equal(t, models.ActivityDividend, res.Activities[2].Type)
	assert.Empty(t, hook.AllEntries())
}

func TestOnvistaParser_BrokenBlockIsSkipped(t *testing.T) {
	log, hook := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaBuyPage, onvistaBrokenPage))

	assert.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	assert.Equal(t, models.ActivityBuy, res.Activities[0].Type)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "could not extract transaction block", entry.Message)
	assert.Equal(t, models.BrokerOnvista, entry.Data["broker"])
	assert.Equal(t, 2, entry.Data["block"])
	assert.Equal(t, "multi", entry.Data["mode"])
	assert.Equal(t, []string(onvistaBrokenPage), entry.Data["lines"])
	assert.NotNil(t, entry.Data[logrus.ErrorKey])
}

func TestOnvistaParser_AllBlocksBroken(t *testing.T) {
	log, hook := test.NewNullLogger()
	res := NewOnvistaParser(log).ExtractPages(doc(onvistaBrokenPage))

	assert.Equal(t, models.StatusExtractionFailed, res.Status)
	assert.Empty(t, res.Activities)
	assert.Len(t, hook.AllEntries(), 1)
}

func TestOnvistaParser_Identify(t *testing.T) {
	p := NewOnvistaParser(nil)

	tests := []struct {
		name  string
		pages [][]string
		ext   string
		want  bool
	}{
		{"settlement note", [][]string{onvistaBuyPage}, "pdf", true},
		{"smartbroker note", [][]string{smartbrokerBuyPage}, "pdf", false},
		{"no transaction marker", [][]string{{"BELEGDRUCK=J", "Depotauszug"}}, "pdf", false},
		{"wrong extension", [][]string{onvistaBuyPage}, "csv", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Identify(doc(tt.pages...), tt.ext))
		})
	}
}

func TestSmartbrokerParser_Buy(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewSmartbrokerParser(log).ExtractPages(doc(smartbrokerBuyPage))

	require.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	a := res.Activities[0]

	assert.Equal(t, models.BrokerSmartbroker, a.Broker)
	assert.Equal(t, models.ActivityBuy, a.Type)
	assert.Equal(t, "US5949181045", a.ISIN)
	assert.Equal(t, "Microsoft Corp. Registered Shares DL-,00000625", a.Company)
	assert.Equal(t, "2020-05-04", a.Date)
	assert.InDelta(t, 5, a.Shares, delta)
	assert.InDelta(t, 160, a.Price, delta)
	assert.InDelta(t, 800, a.Amount, delta)
	assert.InDelta(t, 4, a.Fee, delta)
	assert.InDelta(t, 0, a.Tax, delta)
}

func TestSmartbrokerParser_SellWithTaxBelowTotal(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewSmartbrokerParser(log).ExtractPages(doc(smartbrokerSellPage))

	require.Equal(t, models.StatusSuccess, res.Status)
	require.Len(t, res.Activities, 1)
	a := res.Activities[0]

	assert.Equal(t, models.ActivitySell, a.Type)
	assert.Equal(t, "US88160R1014", a.ISIN)
	assert.InDelta(t, 1400, a.Amount, delta)
	assert.InDelta(t, 4, a.Fee, delta)
	assert.InDelta(t, 52.75, a.Tax, delta)
}

func TestSmartbrokerParser_OnlyFirstPage(t *testing.T) {
	log, _ := test.NewNullLogger()
	res := NewSmartbrokerParser(log).ExtractPages(doc(smartbrokerBuyPage, smartbrokerSellPage))

	require.Len(t, res.Activities, 1)
	assert.Equal(t, models.ActivityBuy, res.Activities[0].Type)
}
