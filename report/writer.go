package report

import (
	"io"

	"skinscan/models"
)

// Writer renders one analysis result. A nil result renders the "no data"
// state instead of failing.
type Writer interface {
	Write(result *models.AnalysisResult) (int, error)
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
