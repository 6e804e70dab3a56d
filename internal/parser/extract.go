package parser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/trade-import/internal/activity"
	"github.com/insightdelivered/trade-import/internal/locator"
	"github.com/insightdelivered/trade-import/internal/models"
)

// classifyFunc pre-classifies one block.
type classifyFunc func(block locator.Page) Kind

// blockFunc locates the fields of one classified block.
type blockFunc func(block locator.Page, kind Kind) (*activity.Candidate, error)

// extraction runs a broker's block functions over a document according to
// its mode.
type extraction struct {
	broker   models.Broker
	mode     Mode
	log      logrus.FieldLogger
	classify classifyFunc
	extract  blockFunc
}

func (e extraction) run(doc locator.Document) models.Result {
	res := models.Result{Broker: e.broker, Activities: []models.Activity{}, Status: models.StatusSuccess}
	if len(doc) == 0 {
		res.Status = models.StatusExtractionFailed
		return res
	}

	if e.mode == SingleTransaction {
		if e.classify(doc.Flatten()) == KindKnownButUnsupported {
			e.log.WithField("broker", e.broker).Info("document type is recognized but not supported")
			res.Status = models.StatusIgnoredDocument
			return res
		}
		a, err := e.block(doc[0])
		if err != nil {
			e.logFailure(0, doc[0], err)
			res.Status = models.StatusExtractionFailed
			return res
		}
		res.Activities = append(res.Activities, a)
		return res
	}

	var failed, ignored int
	for i, block := range doc {
		if e.classify(block) == KindKnownButUnsupported {
			ignored++
			e.log.WithFields(logrus.Fields{"broker": e.broker, "block": i + 1}).Info("skipping unsupported block")
			continue
		}
		a, err := e.block(block)
		if err != nil {
			failed++
			e.logFailure(i, block, err)
			continue
		}
		res.Activities = append(res.Activities, a)
	}

	if len(res.Activities) == 0 {
		switch {
		case failed > 0:
			res.Status = models.StatusExtractionFailed
		case ignored > 0:
			res.Status = models.StatusIgnoredDocument
		}
	}
	return res
}

// block extracts and validates one block. A panic inside the broker code is
// turned into an error so sibling blocks still get processed.
func (e extraction) block(block locator.Page) (a models.Activity, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while extracting block: %v", r)
		}
	}()

	kind := e.classify(block)
	if kind == KindUnrecognized || kind == KindKnownButUnsupported {
		return models.Activity{}, fmt.Errorf("%w: %s", ErrUnrecognizedBlock, kind)
	}
	c, err := e.extract(block, kind)
	if err != nil {
		return models.Activity{}, err
	}
	return activity.Validate(*c)
}

func (e extraction) logFailure(idx int, block locator.Page, err error) {
	e.log.WithFields(logrus.Fields{
		"broker": e.broker,
		"block":  idx + 1,
		"mode":   e.mode.String(),
		"lines":  []string(block),
	}).WithError(err).Error("could not extract transaction block")
}
