// Package writer renders parse results as CSV or JSON.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/insightdelivered/trade-import/internal/models"
)

// Writer renders one parse result.
type Writer interface {
	Write(out io.Writer, res models.Result) error
}

// New returns the writer for format, "csv" or "json".
func New(format string, includeHeader bool) (Writer, error) {
	switch format {
	case "csv":
		return &CSVWriter{IncludeHeader: includeHeader}, nil
	case "json":
		return &JSONWriter{Indent: true}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// WriteToFile renders res into a new file at path.
func WriteToFile(w Writer, path string, res models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CSVWriter writes activities to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

var csvColumns = []string{
	"Broker", "Type", "Date", "DateTime", "ISIN", "WKN", "Company",
	"Shares", "Price", "Amount", "Fee", "Tax", "FXRate", "ForeignCurrency",
}

// Write writes activities in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res models.Result) error {
	writer := csv.NewWriter(out)

	// Result metadata as comment rows
	if w.IncludeHeader {
		if res.Broker != "" {
			writer.Write([]string{"# Broker", string(res.Broker)})
		}
		writer.Write([]string{"# Status", strconv.Itoa(int(res.Status)), res.Status.String()})
	}

	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, a := range res.Activities {
		row := []string{
			string(a.Broker),
			string(a.Type),
			a.Date,
			formatTime(a.DateTime),
			a.ISIN,
			a.WKN,
			a.Company,
			formatNumber(a.Shares),
			formatNumber(a.Price),
			formatAmount(a.Amount),
			formatAmount(a.Fee),
			formatAmount(a.Tax),
			formatRate(a.FXRate),
			a.ForeignCurrency,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// formatNumber keeps every significant digit; share counts and per share
// prices are often fractional.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func formatRate(rate *float64) string {
	if rate == nil {
		return ""
	}
	return formatNumber(*rate)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
