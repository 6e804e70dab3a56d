package parser

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
)

// Registry dispatches documents to the one parser that recognizes them.
// It never looks at broker specific internals.
type Registry struct {
	parsers []Parser
	log     logrus.FieldLogger
}

// NewRegistry returns a registry over parsers, evaluated in the given order.
func NewRegistry(log logrus.FieldLogger, parsers ...Parser) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{parsers: parsers, log: log}
}

// Default returns a registry holding every supported broker parser.
func Default(log logrus.FieldLogger) *Registry {
	return NewRegistry(log,
		NewComdirectParser(log),
		NewOnvistaParser(log),
		NewSmartbrokerParser(log),
		NewConsorsbankParser(log),
		NewINGParser(log),
		NewDKBParser(log),
		NewPostbankParser(log),
		NewDirekt1822Parser(log),
	)
}

// Parsers returns the registered parsers.
func (r *Registry) Parsers() []Parser {
	return r.parsers
}

// Lookup returns the parser registered for broker.
func (r *Registry) Lookup(broker models.Broker) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Broker() == broker {
			return p, true
		}
	}
	return nil, false
}

// Matches returns every parser whose Identify holds for doc.
func (r *Registry) Matches(doc locator.Document, extension string) []Parser {
	var matched []Parser
	for _, p := range r.parsers {
		if p.Identify(doc, extension) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Identify returns the single parser that recognizes doc.
func (r *Registry) Identify(doc locator.Document, extension string) (Parser, error) {
	matched := r.Matches(doc, extension)
	switch len(matched) {
	case 0:
		return nil, ErrUnsupportedDocument
	case 1:
		return matched[0], nil
	}
	names := make([]string, len(matched))
	for i, p := range matched {
		names[i] = string(p.Broker())
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousDocument, strings.Join(names, ", "))
}

// Parse identifies the broker of doc and extracts its activities. Only PDF
// sources are accepted; the matched parser receives every page.
func (r *Registry) Parse(doc locator.Document, extension string) (models.Result, error) {
	if err := CheckExtension(extension); err != nil {
		return models.Result{}, err
	}

	p, err := r.Identify(doc, SupportedExtension)
	if err != nil {
		r.log.WithError(err).WithField("pages", len(doc)).Warn("could not identify document")
		return models.Result{}, err
	}

	log := r.log.WithFields(logrus.Fields{"broker": p.Broker(), "pages": len(doc)})
	log.Debug("identified document")

	res := p.ExtractPages(doc)
	log.WithFields(logrus.Fields{
		"status":     res.Status.String(),
		"activities": len(res.Activities),
	}).Info("parsed document")
	return res, nil
}
