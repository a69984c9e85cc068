package report

import (
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/urlscope/urlscope/internal/model"
	"github.com/urlscope/urlscope/internal/suffix"
)

// DomainsWriter outputs a whois-style list of unique registrable
// domains, one per line, sorted. Domains are collected from the primary
// host, from embedded URLs in query values, and from domain-looking
// query values and path segments. This is the format to feed into bulk
// whois lookups.
type DomainsWriter struct {
	baseWriter

	// includeSubdomains keeps the full host instead of reducing it to
	// the registrable domain.
	includeSubdomains bool

	// source classifies candidate hosts found inside components.
	source suffix.Source
}

// DomainsWriterOption configures a DomainsWriter.
type DomainsWriterOption func(*DomainsWriter)

// WithSubdomains keeps full hosts instead of registrable domains.
func WithSubdomains() DomainsWriterOption {
	return func(w *DomainsWriter) {
		w.includeSubdomains = true
	}
}

// NewDomainsWriter creates a DomainsWriter that outputs to the given
// writer, classifying candidates against the given rule source.
func NewDomainsWriter(output io.Writer, source suffix.Source, opts ...DomainsWriterOption) *DomainsWriter {
	w := &DomainsWriter{
		baseWriter: newBaseWriter(output),
		source:     source,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the domains found in one record.
func (w *DomainsWriter) Write(analysis *model.Analysis) (int, error) {
	return w.WriteAll([]*model.Analysis{analysis})
}

// WriteAll outputs the unique sorted domains across the whole batch.
func (w *DomainsWriter) WriteAll(analyses []*model.Analysis) (int, error) {
	domains := make(map[string]struct{})

	for _, analysis := range analyses {
		w.collect(domains, analysis)
	}

	sorted := make([]string, 0, len(domains))
	for domain := range domains {
		sorted = append(sorted, domain)
	}
	sort.Strings(sorted)

	if len(sorted) == 0 {
		return 0, nil
	}
	return w.output.Write([]byte(strings.Join(sorted, "\n") + "\n"))
}

// collect gathers domains from one record into the set.
func (w *DomainsWriter) collect(domains map[string]struct{}, analysis *model.Analysis) {
	// The primary host.
	if analysis.URLComponents.Host != nil {
		w.addHost(domains, *analysis.URLComponents.Host, &analysis.TLDComponents)
	}

	// Embedded URLs reported by nested scanning.
	for _, nested := range analysis.NestedURLs {
		if u, err := url.Parse(nested.URL); err == nil && u.Hostname() != "" {
			w.addHost(domains, strings.ToLower(u.Hostname()), nil)
		}
	}

	// Query values and path segments that look like bare domains.
	for _, param := range analysis.URLComponents.QueryParams {
		w.addCandidate(domains, param.Value)
	}
	for _, segment := range analysis.URLComponents.PathSegments {
		w.addCandidate(domains, segment)
	}
}

// addCandidate classifies a free-form value and records it when it
// looks like a domain: it must contain a dot and match a suffix rule.
func (w *DomainsWriter) addCandidate(domains map[string]struct{}, value string) {
	if !strings.Contains(value, ".") || strings.ContainsAny(value, "/ %") {
		return
	}

	tc := suffix.Classify(value, w.source)
	if tc.Guessed || tc.RegistrableDomain() == "" {
		return
	}

	if w.includeSubdomains {
		domains[tc.Host()] = struct{}{}
	} else {
		domains[tc.RegistrableDomain()] = struct{}{}
	}
}

// addHost records a known hostname, classifying it when the record does
// not already carry a classification.
func (w *DomainsWriter) addHost(domains map[string]struct{}, host string, tc *model.TLDComponents) {
	if w.includeSubdomains {
		domains[host] = struct{}{}
		return
	}

	if tc == nil {
		classified := suffix.Classify(host, w.source)
		tc = &classified
	}
	if registrable := tc.RegistrableDomain(); registrable != "" {
		domains[registrable] = struct{}{}
	} else {
		// Fall back to the full host when no suffix was derivable
		// (IP literals, single-label hosts).
		domains[host] = struct{}{}
	}
}
