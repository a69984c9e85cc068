package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/urlscope/urlscope/internal/model"
)

// TextWriter outputs human-readable text reports.
// Plain ASCII formatting keeps the output pipeable and readable in any
// terminal.
type TextWriter struct {
	baseWriter

	// verbose enables additional detail (performed steps).
	verbose bool

	// caser title-cases section labels derived from identifiers.
	caser cases.Caser
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		caser:      cases.Title(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one record in human-readable form.
func (w *TextWriter) Write(analysis *model.Analysis) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, analysis)
	w.writeComponents(&sb, analysis)
	w.writeClassification(&sb, analysis)
	w.writeQueryParams(&sb, analysis)
	w.writePathSegments(&sb, analysis)
	w.writeNested(&sb, analysis)
	w.writeFieldErrors(&sb, analysis)

	if w.verbose && len(analysis.PerformedSteps) > 0 {
		fmt.Fprintf(&sb, "Steps: %s\n", strings.Join(analysis.PerformedSteps, ", "))
	}
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteAll outputs each record in turn.
func (w *TextWriter) WriteAll(analyses []*model.Analysis) (int, error) {
	var total int
	for _, analysis := range analyses {
		n, err := w.Write(analysis)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// writeHeader writes the record header.
func (w *TextWriter) writeHeader(sb *strings.Builder, analysis *model.Analysis) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "URL: %s\n", analysis.OriginalURL)
	fmt.Fprintf(sb, "Analyzed: %s\n\n", analysis.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
}

// writeComponents writes the structural URL components.
func (w *TextWriter) writeComponents(sb *strings.Builder, analysis *model.Analysis) {
	c := analysis.URLComponents

	sb.WriteString("Components:\n")
	fmt.Fprintf(sb, "  Scheme:   %s\n", c.Scheme)
	if c.Username != "" {
		fmt.Fprintf(sb, "  Username: %s\n", c.Username)
	}
	if c.Password != nil {
		// Never print credentials from the input URL.
		sb.WriteString("  Password: (redacted)\n")
	}
	fmt.Fprintf(sb, "  Host:     %s\n", orAbsent(c.Host))
	if c.Port != nil {
		fmt.Fprintf(sb, "  Port:     %d\n", *c.Port)
	}
	fmt.Fprintf(sb, "  Path:     %s\n", c.Path)
	if c.Query != nil {
		fmt.Fprintf(sb, "  Query:    %s\n", *c.Query)
	}
	if c.Fragment != nil {
		fmt.Fprintf(sb, "  Fragment: %s\n", *c.Fragment)
	}
	sb.WriteString("\n")
}

// writeClassification writes the host classification section.
func (w *TextWriter) writeClassification(sb *strings.Builder, analysis *model.Analysis) {
	tc := analysis.TLDComponents
	if tc.Domain == nil && tc.Suffix == nil {
		return
	}

	sb.WriteString("Host classification:\n")
	fmt.Fprintf(sb, "  Subdomain: %s\n", orAbsent(tc.Subdomain))
	fmt.Fprintf(sb, "  Domain:    %s\n", orAbsent(tc.Domain))
	fmt.Fprintf(sb, "  Suffix:    %s\n", orAbsent(tc.Suffix))
	if tc.Guessed {
		sb.WriteString("  Note: no suffix rule matched; this is a best-effort guess\n")
	}
	sb.WriteString("\n")
}

// writeQueryParams writes the decoded query parameters in order.
func (w *TextWriter) writeQueryParams(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.URLComponents.QueryParams) == 0 {
		return
	}

	sb.WriteString("Query parameters:\n")
	for _, param := range analysis.URLComponents.QueryParams {
		fmt.Fprintf(sb, "  %s = %s\n", param.Key, param.Value)
	}
	sb.WriteString("\n")
}

// writePathSegments writes the decoded path segments in order.
func (w *TextWriter) writePathSegments(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.URLComponents.PathSegments) == 0 {
		return
	}

	fmt.Fprintf(sb, "Path segments: %s\n\n", strings.Join(analysis.URLComponents.PathSegments, " / "))
}

// writeNested writes the auxiliary nested URL findings.
func (w *TextWriter) writeNested(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.NestedURLs) == 0 {
		return
	}

	sb.WriteString("Nested URLs:\n")
	for _, nested := range analysis.NestedURLs {
		label := w.caser.String(nested.Source)
		if nested.Key != "" {
			fmt.Fprintf(sb, "  [%s %q] %s\n", label, nested.Key, nested.URL)
		} else {
			fmt.Fprintf(sb, "  [%s] %s\n", label, nested.URL)
		}
	}
	sb.WriteString("\n")
}

// writeFieldErrors writes non-fatal per-field failures.
func (w *TextWriter) writeFieldErrors(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.FieldErrors) == 0 {
		return
	}

	sb.WriteString("Field errors:\n")
	for _, fieldErr := range analysis.FieldErrors {
		fmt.Fprintf(sb, "  %s\n", fieldErr)
	}
	sb.WriteString("\n")
}

// orAbsent renders an optional string, using "(absent)" for nil.
func orAbsent(s *string) string {
	if s == nil {
		return "(absent)"
	}
	return *s
}
