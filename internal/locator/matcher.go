package locator

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher is a line predicate with a printable description used in errors
// and log fields.
type Matcher struct {
	desc string
	fn   func(line string) bool
}

// Match reports whether line satisfies the predicate. The zero Matcher
// matches nothing.
func (m Matcher) Match(line string) bool {
	if m.fn == nil {
		return false
	}
	return m.fn(line)
}

// IsZero reports whether m was never initialized.
func (m Matcher) IsZero() bool {
	return m.fn == nil
}

func (m Matcher) String() string {
	return m.desc
}

// Func wraps an arbitrary predicate.
func Func(desc string, fn func(line string) bool) Matcher {
	return Matcher{desc: desc, fn: fn}
}

// Contains matches lines that contain s.
func Contains(s string) Matcher {
	return Matcher{
		desc: fmt.Sprintf("contains(%q)", s),
		fn:   func(line string) bool { return strings.Contains(line, s) },
	}
}

// ContainsFold is the case-insensitive variant of Contains.
func ContainsFold(s string) Matcher {
	lower := strings.ToLower(s)
	return Matcher{
		desc: fmt.Sprintf("containsFold(%q)", s),
		fn:   func(line string) bool { return strings.Contains(strings.ToLower(line), lower) },
	}
}

// Equals matches lines equal to s.
func Equals(s string) Matcher {
	return Matcher{
		desc: fmt.Sprintf("equals(%q)", s),
		fn:   func(line string) bool { return line == s },
	}
}

// EqualsFold matches lines equal to s under Unicode case folding.
func EqualsFold(s string) Matcher {
	return Matcher{
		desc: fmt.Sprintf("equalsFold(%q)", s),
		fn:   func(line string) bool { return strings.EqualFold(line, s) },
	}
}

// HasPrefix matches lines starting with s.
func HasPrefix(s string) Matcher {
	return Matcher{
		desc: fmt.Sprintf("hasPrefix(%q)", s),
		fn:   func(line string) bool { return strings.HasPrefix(line, s) },
	}
}

// HasSuffix matches lines ending with s.
func HasSuffix(s string) Matcher {
	return Matcher{
		desc: fmt.Sprintf("hasSuffix(%q)", s),
		fn:   func(line string) bool { return strings.HasSuffix(line, s) },
	}
}

// Pattern matches lines against a regular expression. It panics on an
// invalid expression, so it is meant for package level declarations.
func Pattern(expr string) Matcher {
	re := regexp.MustCompile(expr)
	return Matcher{
		desc: fmt.Sprintf("pattern(%s)", expr),
		fn:   re.MatchString,
	}
}

// Any matches when at least one of ms matches.
func Any(ms ...Matcher) Matcher {
	return Matcher{
		desc: "any(" + join(ms) + ")",
		fn: func(line string) bool {
			for _, m := range ms {
				if m.Match(line) {
					return true
				}
			}
			return false
		},
	}
}

// All matches when every one of ms matches.
func All(ms ...Matcher) Matcher {
	return Matcher{
		desc: "all(" + join(ms) + ")",
		fn: func(line string) bool {
			for _, m := range ms {
				if !m.Match(line) {
					return false
				}
			}
			return len(ms) > 0
		},
	}
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return Matcher{
		desc: "not(" + m.desc + ")",
		fn:   func(line string) bool { return !m.Match(line) },
	}
}

func join(ms []Matcher) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.desc
	}
	return strings.Join(parts, ", ")
}

// Value shapes found on German settlement notes.
var (
	// dd.MM.yyyy
	IsDate = Pattern(`^\d{2}\.\d{2}\.\d{4}$`)
	// HH:mm or HH:mm:ss
	IsTime = Pattern(`^\d{2}:\d{2}(:\d{2})?$`)
	// 1.234,56 / 1234,56 / 4,29- with an optional ISO code on either side
	IsAmount = Pattern(`^(?:[A-Z]{3}\s*)?[+-]?(?:\d{1,3}(?:\.\d{3})+|\d+)(?:,\d+)?-?(?:\s*[A-Z]{3})?$`)
	// EUR, USD, ...
	IsCurrencyCode = Pattern(`^[A-Z]{3}$`)
	IsISIN         = Pattern(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)
	IsWKN          = Pattern(`^[A-Z0-9]{6}$`)
)
