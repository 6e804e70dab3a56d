package models

import "time"

// ActivityType classifies a transaction block.
type ActivityType string

const (
	ActivityBuy      ActivityType = "Buy"
	ActivitySell     ActivityType = "Sell"
	ActivityDividend ActivityType = "Dividend"
)

// Valid reports whether t is one of the supported activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityBuy, ActivitySell, ActivityDividend:
		return true
	}
	return false
}

// Broker identifies the institution that produced a document.
type Broker string

const (
	BrokerComdirect   Broker = "comdirect"
	BrokerOnvista     Broker = "onvista"
	BrokerSmartbroker Broker = "smartbroker"
	BrokerConsorsbank Broker = "consorsbank"
	BrokerING         Broker = "ing"
	BrokerDKB         Broker = "dkb"
	BrokerPostbank    Broker = "postbank"
	Broker1822direkt  Broker = "1822direkt"
)

// Brokers lists every supported institution id.
var Brokers = []Broker{
	BrokerComdirect,
	BrokerOnvista,
	BrokerSmartbroker,
	BrokerConsorsbank,
	BrokerING,
	BrokerDKB,
	BrokerPostbank,
	Broker1822direkt,
}

// Known reports whether b is a registered institution id.
func (b Broker) Known() bool {
	for _, known := range Brokers {
		if b == known {
			return true
		}
	}
	return false
}

// Activity is a validated trading activity extracted from one transaction block.
// Money values are exact decimals up to the point the record is assembled.
type Activity struct {
	Broker          Broker       `json:"broker"`
	Type            ActivityType `json:"type"`
	Date            string       `json:"date"`               // YYYY-MM-DD
	DateTime        *time.Time   `json:"datetime,omitempty"` // only when a time token was found
	ISIN            string       `json:"isin,omitempty"`
	WKN             string       `json:"wkn,omitempty"`
	Company         string       `json:"company"`
	Shares          float64      `json:"shares"`
	Price           float64      `json:"price"`
	Amount          float64      `json:"amount"`
	Fee             float64      `json:"fee"`
	Tax             float64      `json:"tax"`
	FXRate          *float64     `json:"fxRate,omitempty"`
	ForeignCurrency string       `json:"foreignCurrency,omitempty"`
}

// Status is the outcome code of a parse.
type Status int

const (
	// StatusSuccess means the activities list holds every recognized transaction.
	StatusSuccess Status = 0
	// StatusExtractionFailed means the only transaction block of a document could not be extracted.
	StatusExtractionFailed Status = 1
	// StatusIgnoredDocument marks a recognized document shape that is deliberately not
	// extracted, e.g. order confirmations that are not settlement statements.
	StatusIgnoredDocument Status = 7
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusExtractionFailed:
		return "extraction failed"
	case StatusIgnoredDocument:
		return "ignored document"
	}
	return "unknown"
}

// Result holds the activities of one document plus its status.
type Result struct {
	Broker     Broker     `json:"broker"`
	Activities []Activity `json:"activities"`
	Status     Status     `json:"status"`
}
