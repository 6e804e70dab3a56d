package writer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/insightdelivered/trade-import/internal/models"
)

// JSONWriter writes the whole result, activities and status, as one JSON
// object.
type JSONWriter struct {
	Indent bool
}

func (w *JSONWriter) Write(out io.Writer, res models.Result) error {
	if res.Activities == nil {
		res.Activities = []models.Activity{}
	}
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
