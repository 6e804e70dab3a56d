package locator

import (
	"fmt"
	"strings"
)

// Rule locates a field as "anchor plus offset". Offsets are tried in order
// and the first line that satisfies Shape wins. A zero Shape accepts any line.
type Rule struct {
	Anchor  Matcher
	Offsets []int
	Shape   Matcher
}

// Read applies the rule to p.
func (r Rule) Read(p Page) (string, error) {
	idx := p.Index(r.Anchor)
	if idx < 0 {
		return "", fmt.Errorf("%w: anchor %s", ErrFieldNotFound, r.Anchor)
	}
	for _, off := range r.Offsets {
		line, ok := p.At(idx + off)
		if !ok {
			continue
		}
		if r.Shape.IsZero() || r.Shape.Match(line) {
			return line, nil
		}
	}
	return "", fmt.Errorf("%w: no line at %s%s matches %s", ErrFieldNotFound, r.Anchor, formatOffsets(r.Offsets), r.Shape)
}

func formatOffsets(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = fmt.Sprintf("%+d", off)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Rules are alternative anchors for the same field, tried in order.
type Rules []Rule

// Read returns the value of the first rule that resolves.
func (rs Rules) Read(p Page) (string, error) {
	lastErr := fmt.Errorf("%w: no rules", ErrFieldNotFound)
	for _, r := range rs {
		v, err := r.Read(p)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return "", lastErr
}
