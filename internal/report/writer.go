package report

import (
	"io"

	"github.com/urlscope/urlscope/internal/model"
)

// Writer renders analysis records to a configured destination.
// Write emits a single record; WriteAll emits a batch, which lets
// formats choose between per-record output (text, markdown) and an
// aggregate (JSON array, deduplicated domain list).
type Writer interface {
	// Write outputs one record.
	// Returns the number of bytes written and any error encountered.
	Write(analysis *model.Analysis) (int, error)

	// WriteAll outputs a batch of records.
	WriteAll(analyses []*model.Analysis) (int, error)
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
