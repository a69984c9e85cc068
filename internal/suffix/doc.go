// Package suffix classifies hostnames against a public-suffix rule set.
//
// Classify partitions a host into subdomain, registrable domain, and
// public suffix using a longest-match lookup, so multi-label suffixes
// such as "co.uk" are handled correctly. Rules come from a Source:
// either the list embedded in golang.org/x/net/publicsuffix (the
// default) or a user-supplied file in the publicsuffix.org list format.
//
// The rule set is loaded once at startup and never mutated afterwards,
// so a Source is safe for concurrent readers.
package suffix
