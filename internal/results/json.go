package results

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/qc-pdfreader/constants"
	"github.com/joseph-ayodele/qc-pdfreader/internal/entity"
)

// JSONWriter writes results as a JSON list of {category, name, val} objects.
type JSONWriter struct {
	Path string
}

func NewJSONWriter(path string) *JSONWriter { return &JSONWriter{Path: path} }

func (w *JSONWriter) Name() string { return "json" }

type jsonResult struct {
	Category constants.ResultCategory `json:"category"`
	Name     string                   `json:"name"`
	Val      any                      `json:"val"`
}

func (w *JSONWriter) WriteResults(_ context.Context, _ uuid.UUID, results []entity.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		var val any = r.Value()
		switch {
		case r.Category == constants.ResultDateTime:
			val = r.Text()
		case r.Category == constants.ResultFloat && (math.IsNaN(r.Float) || math.IsInf(r.Float, 0)):
			// encoding/json rejects non-finite floats; write them as text.
			val = r.Text()
		}
		out = append(out, jsonResult{Category: r.Category, Name: r.Name, Val: val})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(w.Path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.Path, err)
	}
	return nil
}
