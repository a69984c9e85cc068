package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/urlscope/urlscope/internal/model"
)

// MarkdownWriter outputs records in Markdown format.
// This format is designed for documentation and sharing; the
// nao1215/markdown library gives type-safe tables and GFM alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one record in Markdown format.
func (w *MarkdownWriter) Write(analysis *model.Analysis) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, analysis)
	w.writeComponents(md, analysis)
	w.writeClassification(md, analysis)
	w.writeQueryParams(md, analysis)
	w.writePathSegments(md, analysis)
	w.writeNested(md, analysis)
	w.writeFieldErrors(md, analysis)

	return len(md.String()), md.Build()
}

// WriteAll outputs each record in turn.
func (w *MarkdownWriter) WriteAll(analyses []*model.Analysis) (int, error) {
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
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, analysis *model.Analysis) {
	md.H1("URL Analysis")
	md.PlainText("")
	md.PlainText("`" + analysis.OriginalURL + "`")
	md.PlainText("")
}

// writeComponents writes the structural components table.
func (w *MarkdownWriter) writeComponents(md *markdown.Markdown, analysis *model.Analysis) {
	c := analysis.URLComponents

	rows := [][]string{
		{"Scheme", c.Scheme},
	}
	if c.Username != "" {
		rows = append(rows, []string{"Username", c.Username})
	}
	if c.Password != nil {
		// Never render credentials from the input URL.
		rows = append(rows, []string{"Password", "(redacted)"})
	}
	rows = append(rows, []string{"Host", mdOrDash(c.Host)})
	if c.Port != nil {
		rows = append(rows, []string{"Port", strconv.Itoa(*c.Port)})
	}
	rows = append(rows, []string{"Path", c.Path})
	if c.Query != nil {
		rows = append(rows, []string{"Query", *c.Query})
	}
	if c.Fragment != nil {
		rows = append(rows, []string{"Fragment", *c.Fragment})
	}

	md.H2("Components")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Component", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeClassification writes the host classification table.
func (w *MarkdownWriter) writeClassification(md *markdown.Markdown, analysis *model.Analysis) {
	tc := analysis.TLDComponents
	if tc.Domain == nil && tc.Suffix == nil {
		return
	}

	md.H2("Host Classification")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Part", "Value"},
		Rows: [][]string{
			{"Subdomain", mdOrDash(tc.Subdomain)},
			{"Domain", mdOrDash(tc.Domain)},
			{"Suffix", mdOrDash(tc.Suffix)},
		},
	})
	if tc.Guessed {
		md.Note("No suffix rule matched this host; the classification is a best-effort guess.")
	}
	md.PlainText("")
}

// writeQueryParams writes the query parameter table in source order.
func (w *MarkdownWriter) writeQueryParams(md *markdown.Markdown, analysis *model.Analysis) {
	params := analysis.URLComponents.QueryParams
	if len(params) == 0 {
		return
	}

	rows := make([][]string, 0, len(params))
	for _, param := range params {
		rows = append(rows, []string{param.Key, param.Value})
	}

	md.H2("Query Parameters")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Key", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePathSegments writes the path segments as a list.
func (w *MarkdownWriter) writePathSegments(md *markdown.Markdown, analysis *model.Analysis) {
	segments := analysis.URLComponents.PathSegments
	if len(segments) == 0 {
		return
	}

	md.H2("Path Segments")
	md.PlainText("")
	md.BulletList(segments...)
	md.PlainText("")
}

// writeNested writes the auxiliary nested URL findings.
func (w *MarkdownWriter) writeNested(md *markdown.Markdown, analysis *model.Analysis) {
	if len(analysis.NestedURLs) == 0 {
		return
	}

	rows := make([][]string, 0, len(analysis.NestedURLs))
	for _, nested := range analysis.NestedURLs {
		rows = append(rows, []string{nested.Source, nested.Key, "`" + nested.URL + "`"})
	}

	md.H2("Nested URLs")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Key", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFieldErrors writes non-fatal per-field failures as a warning.
func (w *MarkdownWriter) writeFieldErrors(md *markdown.Markdown, analysis *model.Analysis) {
	for _, fieldErr := range analysis.FieldErrors {
		md.Warningf("%s", fieldErr)
	}
}

// mdOrDash renders an optional string, using "-" for nil.
func mdOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
