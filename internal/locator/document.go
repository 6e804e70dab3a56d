// Package locator finds values in tokenized documents relative to anchor
// lines. A document is an ordered list of pages and a page is an ordered
// list of trimmed, non-empty text lines.
package locator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFieldNotFound is returned when an anchor or the line it points at is absent.
var ErrFieldNotFound = errors.New("field not found")

// Page is one page worth of text lines, top to bottom.
type Page []string

// Document is the ordered set of pages of one source file.
type Document []Page

// NewPage trims every line and drops the empty ones.
func NewPage(lines []string) Page {
	page := make(Page, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\u00a0", " "))
		if line == "" {
			continue
		}
		page = append(page, line)
	}
	return page
}

// NewDocument builds a document from raw page lines. Pages that hold no text
// after trimming are dropped.
func NewDocument(pages [][]string) Document {
	doc := make(Document, 0, len(pages))
	for _, lines := range pages {
		page := NewPage(lines)
		if len(page) == 0 {
			continue
		}
		doc = append(doc, page)
	}
	return doc
}

// FirstPage returns the first page, or an empty page for an empty document.
func (d Document) FirstPage() Page {
	if len(d) == 0 {
		return Page{}
	}
	return d[0]
}

// Flatten concatenates all pages into a single page.
func (d Document) Flatten() Page {
	var all Page
	for _, p := range d {
		all = append(all, p...)
	}
	return all
}

// Has reports whether any page holds a line matching m.
func (d Document) Has(m Matcher) bool {
	for _, p := range d {
		if p.Has(m) {
			return true
		}
	}
	return false
}

// Index returns the index of the first line matching m, or -1.
func (p Page) Index(m Matcher) int {
	return p.IndexFrom(0, m)
}

// IndexFrom is like Index but starts scanning at line start.
func (p Page) IndexFrom(start int, m Matcher) int {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(p); i++ {
		if m.Match(p[i]) {
			return i
		}
	}
	return -1
}

// LastIndex returns the index of the last line matching m, or -1.
func (p Page) LastIndex(m Matcher) int {
	for i := len(p) - 1; i >= 0; i-- {
		if m.Match(p[i]) {
			return i
		}
	}
	return -1
}

// Has reports whether a line matching m exists.
func (p Page) Has(m Matcher) bool {
	return p.Index(m) >= 0
}

// At returns line i when it exists.
func (p Page) At(i int) (string, bool) {
	if i < 0 || i >= len(p) {
		return "", false
	}
	return p[i], true
}

// ReadAt returns the line offset lines away from the first line matching
// anchor. Negative offsets read upwards.
func (p Page) ReadAt(anchor Matcher, offset int) (string, error) {
	idx := p.Index(anchor)
	if idx < 0 {
		return "", fmt.Errorf("%w: anchor %s", ErrFieldNotFound, anchor)
	}
	line, ok := p.At(idx + offset)
	if !ok {
		return "", fmt.Errorf("%w: %s%+d is out of range", ErrFieldNotFound, anchor, offset)
	}
	return line, nil
}

// ReadUntil returns the lines after anchor up to, not including, the first
// line matching stop. Without a stop line the rest of the page is returned.
func (p Page) ReadUntil(anchor, stop Matcher) ([]string, error) {
	idx := p.Index(anchor)
	if idx < 0 {
		return nil, fmt.Errorf("%w: anchor %s", ErrFieldNotFound, anchor)
	}
	end := p.IndexFrom(idx+1, stop)
	if end < 0 {
		end = len(p)
	}
	return p[idx+1 : end], nil
}

// String joins the page lines with newlines.
func (p Page) String() string {
	return strings.Join(p, "\n")
}
