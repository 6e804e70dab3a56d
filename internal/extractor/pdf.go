// Package extractor turns PDF settlement notes into tokenized documents: one
// page per PDF page, one trimmed line per text row.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/trade-import/internal/locator"
)

// ErrNoText is returned when no method yields readable text, e.g. for
// scanned notes without a text layer.
var ErrNoText = errors.New("no readable text in PDF")

// ExtractDocument reads the PDF at path.
func ExtractDocument(path string) (locator.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadDocument(f, info.Size())
}

// ExtractBytes reads an in-memory PDF, as received by the upload endpoint.
func ExtractBytes(data []byte) (locator.Document, error) {
	return ReadDocument(bytes.NewReader(data), int64(len(data)))
}

// ReadDocument tries row based extraction first and falls back to grouping
// the raw text pieces by their coordinates.
func ReadDocument(ra io.ReaderAt, size int64) (doc locator.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrNoText)
	}

	// Method 1: GetTextByRow keeps the reading order of most notes.
	pages := extractByRow(r, numPages)
	if isReadable(pages) {
		return locator.NewDocument(pages), nil
	}

	// Method 2: Page.Content() grouped into rows by Y coordinate.
	pages = extractByContent(r, numPages)
	if isReadable(pages) {
		return locator.NewDocument(pages), nil
	}

	return nil, ErrNoText
}

// Tokenize splits page texts into lines. It is the entry point for text that
// was extracted elsewhere.
func Tokenize(pages []string) locator.Document {
	lines := make([][]string, len(pages))
	for i, p := range pages {
		lines[i] = strings.Split(strings.ReplaceAll(p, "\r\n", "\n"), "\n")
	}
	return locator.NewDocument(lines)
}

func extractByRow(r *pdf.Reader, numPages int) [][]string {
	var pages [][]string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			lines = append(lines, splitCells(row.Content)...)
		}
		pages = append(pages, lines)
	}
	return pages
}

func extractByContent(r *pdf.Reader, numPages int) [][]string {
	var pages [][]string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		rows := make(map[int][]pdf.Text)
		for _, t := range content.Text {
			if t.S == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], t)
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		// PDF coordinates grow bottom to top.
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		var lines []string
		for _, y := range ys {
			lines = append(lines, splitCells(rows[y])...)
		}
		pages = append(pages, lines)
	}
	return pages
}

// Horizontal distances in points: a wordGap between two pieces is a space,
// a columnGap starts a new cell.
const (
	wordGap   = 1.5
	columnGap = 15
)

// splitCells orders the pieces of one row by X and cuts the row into cells.
// Settlement notes print label and value in separate columns, and each cell
// becomes a line of its own.
func splitCells(row []pdf.Text) []string {
	items := make([]pdf.Text, len(row))
	copy(items, row)
	sort.SliceStable(items, func(a, b int) bool { return items[a].X < items[b].X })

	var cells []string
	var cell strings.Builder
	var end float64
	for j, it := range items {
		if j > 0 {
			switch gap := it.X - end; {
			case gap > columnGap:
				cells = appendCell(cells, cell.String())
				cell.Reset()
			case gap > wordGap:
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(it.S)
		end = it.X + it.W
	}
	return appendCell(cells, cell.String())
}

func appendCell(cells []string, s string) []string {
	if s = strings.Join(strings.Fields(s), " "); s != "" {
		cells = append(cells, s)
	}
	return cells
}

// vocabulary holds words found on virtually every settlement note or
// dividend advice. Text without any of them is most likely undecoded glyphs.
var vocabulary = []string{
	"isin", "wkn", "wertpapier", "depot", "betrag", "stück", "kurs",
	"dividende", "ausschüttung", "abrechnung", "valuta", "eur",
}

// isReadable requires some text, mostly printable characters and at least
// one word of the vocabulary.
func isReadable(pages [][]string) bool {
	var total, printable int
	var b strings.Builder
	for _, p := range pages {
		for _, line := range p {
			b.WriteString(strings.ToLower(line))
			b.WriteByte('\n')
			for _, r := range line {
				total++
				if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
					printable++
				}
			}
		}
	}
	if total <= 50 || float64(printable)/float64(total) <= 0.6 {
		return false
	}
	text := b.String()
	for _, w := range vocabulary {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
