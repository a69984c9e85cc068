package suffix

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Source supplies public-suffix lookups for Classify.
// Implementations must be safe for concurrent use; the classifier never
// mutates a Source after construction.
type Source interface {
	// PublicSuffix returns the public suffix of host and whether it was
	// produced by an actual rule. When no rule matches, implementations
	// return the last label of host with matched=false so the caller
	// can degrade to a best-effort classification.
	PublicSuffix(host string) (suffix string, matched bool)
}

// embeddedSource wraps the compiled-in list from
// golang.org/x/net/publicsuffix.
type embeddedSource struct{}

// PublicSuffix implements Source using the embedded list.
func (embeddedSource) PublicSuffix(host string) (string, bool) {
	s, icann := publicsuffix.PublicSuffix(host)
	// Private-registry rules (e.g. github.io) report icann=false but are
	// genuine matches. An unmatched host falls back to its bare last
	// label, which is the only icann=false single-label outcome.
	matched := icann || strings.Contains(s, ".")
	return s, matched
}

// Default returns the Source backed by the embedded public-suffix list.
func Default() Source { return embeddedSource{} }
