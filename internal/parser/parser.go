package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
)

var (
	// ErrUnsupportedDocument is returned when no registered parser recognizes a document.
	ErrUnsupportedDocument = errors.New("no supported broker found for document")
	// ErrAmbiguousDocument is returned when more than one parser recognizes a document.
	ErrAmbiguousDocument = errors.New("document matches more than one broker")
	// ErrUnsupportedExtension is returned for source files that are not PDFs.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrUnrecognizedBlock is returned for a block that carries no transaction type marker.
	ErrUnrecognizedBlock = errors.New("block matches no transaction type")
)

// SupportedExtension is the only source format the parsers accept.
const SupportedExtension = "pdf"

// Parser defines the interface every broker parser satisfies.
type Parser interface {
	// Broker returns the institution id written to every activity.
	Broker() models.Broker
	// Identify is a cheap structural check: an institution marker plus at
	// least one transaction type marker.
	Identify(doc locator.Document, extension string) bool
	// ExtractPages extracts the activities of every transaction block.
	ExtractPages(doc locator.Document) models.Result
}

// Mode tells how the pages of a document map to transaction blocks.
type Mode int

const (
	// SingleTransaction documents carry their data on the first page only.
	SingleTransaction Mode = iota
	// MultiTransaction documents hold one independent transaction per page.
	MultiTransaction
)

func (m Mode) String() string {
	if m == MultiTransaction {
		return "multi"
	}
	return "single"
}

// Kind is the pre-classification of a block.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindBuy
	KindSell
	KindDividend
	// KindKnownButUnsupported marks document shapes that are recognized and
	// deliberately not extracted.
	KindKnownButUnsupported
)

// ActivityType maps a transaction kind to the activity type it produces.
func (k Kind) ActivityType() models.ActivityType {
	switch k {
	case KindBuy:
		return models.ActivityBuy
	case KindSell:
		return models.ActivitySell
	case KindDividend:
		return models.ActivityDividend
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case KindBuy, KindSell, KindDividend:
		return string(k.ActivityType())
	case KindKnownButUnsupported:
		return "KnownButUnsupported"
	}
	return "Unrecognized"
}

// base carries what every broker parser shares.
type base struct {
	log logrus.FieldLogger
}

func (b base) logger() logrus.FieldLogger {
	if b.log == nil {
		return logrus.StandardLogger()
	}
	return b.log
}

func supportedExtension(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(ext), "."), SupportedExtension)
}

// CheckExtension returns ErrUnsupportedExtension for any source format the
// parsers do not read. Callers use it before extracting text at all.
func CheckExtension(ext string) error {
	if !supportedExtension(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
	return nil
}
