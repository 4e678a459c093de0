package report

import (
	"encoding/json"
	"io"

	"skinscan/models"
)

// JSONWriter outputs results as JSON.
type JSONWriter struct {
	baseWriter
	indent string
}

type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint indents the output by two spaces.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) { w.indent = "  " }
}

func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type noData struct {
	Status string `json:"status"`
}

func (w *JSONWriter) Write(result *models.AnalysisResult) (int, error) {
	var v any = result
	if result == nil {
		v = noData{Status: "no_data"}
	}
	return w.encode(v)
}

// WriteBatch writes several results as one JSON array.
func (w *JSONWriter) WriteBatch(results []*models.AnalysisResult) (int, error) {
	if results == nil {
		results = []*models.AnalysisResult{}
	}
	return w.encode(results)
}

func (w *JSONWriter) encode(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent != "" {
		data, err = json.MarshalIndent(v, "", w.indent)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
