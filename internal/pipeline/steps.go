package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/urlscope/urlscope/internal/model"
	"github.com/urlscope/urlscope/internal/parser"
	"github.com/urlscope/urlscope/internal/suffix"
)

// ParseStep decomposes the input URL into its structural components.
// It must run first: every later step reads the components it fills in.
// A grammar parse failure is fatal for the record.
type ParseStep struct{}

// NewParseStep creates the grammar parsing step.
func NewParseStep() *ParseStep { return &ParseStep{} }

// Name returns the step name.
func (s *ParseStep) Name() string { return "parse" }

// Do parses the original URL into the record's URLComponents.
func (s *ParseStep) Do(_ context.Context, analysis *model.Analysis) error {
	components, err := parser.Parse(analysis.OriginalURL)
	if err != nil {
		return err
	}
	analysis.URLComponents = components
	return nil
}

// QueryStep tokenizes the raw query string into ordered pairs.
// A malformed percent escape makes the query field unrecoverable: the
// failure is recorded on the record and the rest still emits.
type QueryStep struct {
	logger *slog.Logger
}

// NewQueryStep creates the query tokenization step.
func NewQueryStep(logger *slog.Logger) *QueryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryStep{logger: logger}
}

// Name returns the step name.
func (s *QueryStep) Name() string { return "query" }

// Do fills in the record's QueryParams from its raw query.
func (s *QueryStep) Do(_ context.Context, analysis *model.Analysis) error {
	rawQuery := ""
	if analysis.URLComponents.Query != nil {
		rawQuery = *analysis.URLComponents.Query
	}

	params, err := parser.TokenizeQuery(rawQuery)
	if err != nil {
		s.logger.Warn("query field dropped",
			"url", analysis.OriginalURL,
			"error", err,
		)
		analysis.FieldErrors = append(analysis.FieldErrors, err.Error())
		analysis.URLComponents.QueryParams = make([]model.QueryParam, 0)
		return nil
	}
	analysis.URLComponents.QueryParams = params
	return nil
}

// PathStep segments the escaped path into decoded non-empty segments.
// Like QueryStep, decode failures are recorded, not fatal.
type PathStep struct {
	logger *slog.Logger
}

// NewPathStep creates the path segmentation step.
func NewPathStep(logger *slog.Logger) *PathStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathStep{logger: logger}
}

// Name returns the step name.
func (s *PathStep) Name() string { return "path" }

// Do fills in the record's PathSegments from its escaped path.
func (s *PathStep) Do(_ context.Context, analysis *model.Analysis) error {
	segments, err := parser.SegmentPath(analysis.URLComponents.RawPath)
	if err != nil {
		s.logger.Warn("path segments dropped",
			"url", analysis.OriginalURL,
			"error", err,
		)
		analysis.FieldErrors = append(analysis.FieldErrors, err.Error())
		analysis.URLComponents.PathSegments = make([]string, 0)
		return nil
	}
	analysis.URLComponents.PathSegments = segments
	return nil
}

// SuffixStep classifies the host against the public-suffix rule set.
// Classification never fails: an unmatched host degrades to the
// last-label fallback, and hosts without an authority are skipped.
type SuffixStep struct {
	source suffix.Source
	logger *slog.Logger
}

// NewSuffixStep creates the host classification step.
func NewSuffixStep(source suffix.Source, logger *slog.Logger) *SuffixStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuffixStep{source: source, logger: logger}
}

// Name returns the step name.
func (s *SuffixStep) Name() string { return "suffix" }

// Do fills in the record's TLDComponents from its host.
func (s *SuffixStep) Do(_ context.Context, analysis *model.Analysis) error {
	if analysis.URLComponents.Host == nil {
		return nil
	}

	analysis.TLDComponents = suffix.Classify(*analysis.URLComponents.Host, s.source)
	if analysis.TLDComponents.Guessed {
		s.logger.Debug("no suffix rule matched, using last-label fallback",
			"host", *analysis.URLComponents.Host,
		)
	}
	return nil
}

// NestedStep scans decoded query values and path segments for embedded
// URLs that independently parse as absolute URLs with a host. Matches
// are reported as auxiliary findings, not as part of the primary record.
type NestedStep struct{}

// NewNestedStep creates the nested URL detection step.
func NewNestedStep() *NestedStep { return &NestedStep{} }

// Name returns the step name.
func (s *NestedStep) Name() string { return "nested" }

// Do scans the decoded components for embedded URLs.
func (s *NestedStep) Do(_ context.Context, analysis *model.Analysis) error {
	for _, param := range analysis.URLComponents.QueryParams {
		if embedded := extractEmbeddedURL(param.Value); embedded != "" {
			analysis.NestedURLs = append(analysis.NestedURLs, model.NestedURL{
				Source: model.NestedSourceQuery,
				Key:    param.Key,
				URL:    embedded,
			})
		}
	}
	for _, segment := range analysis.URLComponents.PathSegments {
		if embedded := extractEmbeddedURL(segment); embedded != "" {
			analysis.NestedURLs = append(analysis.NestedURLs, model.NestedURL{
				Source: model.NestedSourcePath,
				URL:    embedded,
			})
		}
	}
	return nil
}

// extractEmbeddedURL returns the absolute URL embedded in s, or "" when
// s contains none. The candidate starts at the scheme preceding the
// first "://" and must parse with both a scheme and a host.
func extractEmbeddedURL(s string) string {
	i := strings.Index(s, "://")
	if i <= 0 {
		return ""
	}

	start := i
	for start > 0 && isSchemeChar(s[start-1]) {
		start--
	}
	candidate := s[start:]

	u, err := url.Parse(candidate)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return candidate
}

// isSchemeChar reports whether c may appear in a URL scheme.
func isSchemeChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '+' || c == '-' || c == '.':
		return true
	}
	return false
}

// DefaultPipelineOption configures DefaultPipeline.
type DefaultPipelineOption func(*defaultPipelineConfig)

// defaultPipelineConfig holds the configuration for DefaultPipeline.
type defaultPipelineConfig struct {
	nested bool
	logger *slog.Logger
}

// WithNestedScan enables the nested URL detection step.
func WithNestedScan(enabled bool) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.nested = enabled
	}
}

// WithStepLogger sets the logger passed to the individual steps.
func WithStepLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.logger = logger
	}
}

// DefaultPipeline assembles the standard analysis pipeline:
// parse, query, path, suffix, and optionally nested URL detection.
func DefaultPipeline(source suffix.Source, opts []Option, cfgOpts ...DefaultPipelineOption) *Pipeline {
	cfg := defaultPipelineConfig{}
	for _, opt := range cfgOpts {
		opt(&cfg)
	}

	p := New(opts...)
	p.AddSteps(
		NewParseStep(),
		NewQueryStep(cfg.logger),
		NewPathStep(cfg.logger),
		NewSuffixStep(source, cfg.logger),
	)
	if cfg.nested {
		p.AddStep(NewNestedStep())
	}
	return p
}
