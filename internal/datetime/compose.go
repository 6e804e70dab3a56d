// Package datetime merges the separately printed date and time tokens of a
// settlement note into a calendar date and an optional timestamp.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidDate is returned when the mandatory date token does not parse.
var ErrInvalidDate = errors.New("invalid date")

// Layouts used by German brokers.
const (
	GermanDate         = "02.01.2006"
	GermanDateTime     = "02.01.2006 15:04"
	GermanDateTimeSecs = "02.01.2006 15:04:05"
	// OutputDate is the format of models.Activity.Date.
	OutputDate = "2006-01-02"
)

var timeTokenPattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// Result is a composed date. DateTime is nil unless a usable time token was given.
type Result struct {
	Date     string
	DateTime *time.Time
}

// Compose interprets the tokens in UTC. See ComposeIn.
func Compose(dateToken, timeToken, dateLayout, dateTimeLayout string) (Result, error) {
	return ComposeIn(dateToken, timeToken, dateLayout, dateTimeLayout, time.UTC)
}

// ComposeIn parses dateToken with dateLayout. If timeToken looks like HH:mm or
// HH:mm:ss and "date time" parses with dateTimeLayout, the timestamp is set as
// well. A missing or unusable time never fails the call and is never guessed.
func ComposeIn(dateToken, timeToken, dateLayout, dateTimeLayout string, loc *time.Location) (Result, error) {
	if loc == nil {
		loc = time.UTC
	}
	dateToken = strings.TrimSpace(dateToken)
	d, err := time.ParseInLocation(dateLayout, dateToken, loc)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q does not match %q", ErrInvalidDate, dateToken, dateLayout)
	}

	res := Result{Date: d.Format(OutputDate)}

	timeToken = strings.TrimSpace(timeToken)
	if timeToken == "" || !timeTokenPattern.MatchString(timeToken) || dateTimeLayout == "" {
		return res, nil
	}
	layout := dateTimeLayout
	// A layout without seconds still accepts a token that carries them.
	if strings.Count(timeToken, ":") == 2 && !strings.Contains(layout, ":05") {
		layout += ":05"
	}
	ts, err := time.ParseInLocation(layout, dateToken+" "+timeToken, loc)
	if err != nil {
		return res, nil
	}
	res.DateTime = &ts
	return res, nil
}
