package model

import (
	"net/url"
	"strconv"
	"time"
)

// Analysis is the complete decomposition of a single URL.
// It is created once per input, filled in by the pipeline steps, and
// treated as immutable after assembly. The JSON shape is the public
// output contract of the tool: exactly original_url, url_components and
// tld_components, plus nested_urls only when nested scanning found
// embedded URLs.
type Analysis struct {
	// OriginalURL is the input string exactly as supplied.
	OriginalURL string `json:"original_url"`

	// URLComponents holds the structural parts of the URL.
	URLComponents URLComponents `json:"url_components"`

	// TLDComponents holds the suffix-based host classification.
	TLDComponents TLDComponents `json:"tld_components"`

	// NestedURLs contains embedded URLs discovered inside decoded query
	// values and path segments. This is an auxiliary finding: the key is
	// omitted entirely unless nested scanning is enabled and matched.
	NestedURLs []NestedURL `json:"nested_urls,omitempty"`

	// AnalyzedAt is the timestamp when the analysis was performed.
	// Not part of the output record; used by the history database.
	AnalyzedAt time.Time `json:"-"`

	// Error contains the fatal error that aborted the analysis, if any.
	// A record with a non-nil Error is not emitted.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for storage and display.
	ErrorMessage string `json:"-"`

	// FieldErrors lists non-fatal per-field failures (malformed percent
	// escapes in the query or path). The record is still emitted with
	// the remaining fields populated.
	FieldErrors []string `json:"-"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"-"`
}

// NewAnalysis creates an empty Analysis for the given input URL.
func NewAnalysis(rawURL string) *Analysis {
	return &Analysis{
		OriginalURL: rawURL,
		AnalyzedAt:  time.Now(),
	}
}

// URLComponents holds the structural parts of a parsed URL.
// Optional parts are pointers so that absent values serialize as JSON
// null rather than empty strings, distinguishing "no query" from "?".
type URLComponents struct {
	// Scheme is the URL scheme, always present and lowercase.
	Scheme string `json:"scheme"`

	// Username is the userinfo username, empty when absent.
	Username string `json:"username"`

	// Password is the userinfo password, nil when absent.
	Password *string `json:"password"`

	// Host is the hostname without brackets or port, nil for schemes
	// that carry no authority (e.g. mailto).
	Host *string `json:"host"`

	// Port is the explicit port number, nil when the URL has none.
	Port *int `json:"port"`

	// Path is the percent-decoded path.
	Path string `json:"path"`

	// Query is the raw (still encoded) query string, nil when the URL
	// has no "?" at all.
	Query *string `json:"query"`

	// Fragment is the decoded fragment, nil when the URL has no "#".
	Fragment *string `json:"fragment"`

	// QueryParams are the decoded query pairs in source order.
	// Duplicate keys are retained as separate entries.
	QueryParams []QueryParam `json:"query_params"`

	// PathSegments are the decoded non-empty path segments in order.
	PathSegments []string `json:"path_segments"`

	// RawPath is the path in escaped form, kept for the segmenter.
	RawPath string `json:"-"`
}

// Reassemble reconstructs a URL string from the components using the
// standard URL construction rules. For valid inputs the result is
// equivalent to the original under the grammar's normalization.
func (c *URLComponents) Reassemble() string {
	u := url.URL{
		Scheme:   c.Scheme,
		Path:     c.Path,
		RawPath:  c.RawPath,
		Fragment: strValue(c.Fragment),
	}
	if c.Query != nil {
		u.RawQuery = *c.Query
		if *c.Query == "" {
			u.ForceQuery = true
		}
	}
	if c.Host != nil {
		u.Host = *c.Host
		if c.Port != nil {
			u.Host = u.Host + ":" + strconv.Itoa(*c.Port)
		}
		switch {
		case c.Password != nil:
			u.User = url.UserPassword(c.Username, *c.Password)
		case c.Username != "":
			u.User = url.User(c.Username)
		}
	} else if c.Scheme != "" {
		// No authority: reassemble as an opaque URL (e.g. mailto:addr).
		u.Opaque = c.Path
		u.Path = ""
		u.RawPath = ""
	}
	return u.String()
}

// TLDComponents is the suffix-based classification of a hostname.
// Absent parts are nil: a single-label host has no suffix, an IP
// literal has neither suffix nor subdomain.
type TLDComponents struct {
	// Domain is the registrable domain label immediately preceding the
	// matched public suffix. Never empty when a suffix match succeeds.
	Domain *string `json:"domain"`

	// Subdomain is the dot-joined labels preceding the domain, nil when
	// no labels remain.
	Subdomain *string `json:"subdomain"`

	// Suffix is the matched public suffix (possibly multi-label such as
	// "co.uk"), nil for IP literals and single-label hosts.
	Suffix *string `json:"suffix"`

	// Guessed is true when no suffix rule matched and the classification
	// fell back to treating the last label as the suffix. It marks a
	// lower-confidence result and is not part of the output record.
	Guessed bool `json:"-"`
}

// RegistrableDomain returns "domain.suffix" when both parts are present,
// otherwise the empty string.
func (t *TLDComponents) RegistrableDomain() string {
	if t.Domain == nil || t.Suffix == nil {
		return ""
	}
	return *t.Domain + "." + *t.Suffix
}

// Host reconstructs the full hostname from the classification parts.
func (t *TLDComponents) Host() string {
	host := strValue(t.Domain)
	if t.Suffix != nil {
		host += "." + *t.Suffix
	}
	if t.Subdomain != nil {
		host = *t.Subdomain + "." + host
	}
	return host
}

// Nested URL sources.
const (
	// NestedSourceQuery marks a URL found inside a decoded query value.
	NestedSourceQuery = "query"
	// NestedSourcePath marks a URL found inside a decoded path segment.
	NestedSourcePath = "path"
)

// NestedURL is an embedded URL discovered inside a component of the
// primary URL, reported as an auxiliary finding.
type NestedURL struct {
	// Source identifies where the URL was found (query or path).
	Source string `json:"source"`

	// Key is the query parameter key when Source is query.
	Key string `json:"key,omitempty"`

	// URL is the embedded URL as found after percent-decoding.
	URL string `json:"url"`
}

// strValue returns the pointed-to string or "" for nil.
func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
