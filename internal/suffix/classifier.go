package suffix

import (
	"net/netip"
	"strings"

	"golang.org/x/net/idna"

	"github.com/urlscope/urlscope/internal/model"
)

// Classify partitions host into subdomain, registrable domain, and
// public suffix using the given rule source.
//
// Edge cases follow the classification contract:
//   - an IP literal (IPv4 or bracketed/bare IPv6) bypasses suffix
//     matching: the literal becomes the domain, suffix and subdomain
//     stay absent;
//   - a single-label host becomes the domain with no suffix;
//   - a host that is itself a public suffix has no registrable domain;
//   - when no rule matches, the last label is treated as the suffix and
//     the result is marked Guessed (lower confidence).
//
// Classify is a pure function: the same host and source always yield
// the same result, and the source is never mutated.
func Classify(host string, src Source) model.TLDComponents {
	var tc model.TLDComponents

	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return tc
	}

	// IP literals bypass suffix matching entirely.
	bare := strings.Trim(host, "[]")
	if _, err := netip.ParseAddr(bare); err == nil {
		tc.Domain = &bare
		return tc
	}

	// Unicode hosts are looked up in their IDNA (punycode) form, the
	// form the rule sets are stored in.
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}

	if !strings.Contains(host, ".") {
		tc.Domain = &host
		return tc
	}

	sfx, matched := src.PublicSuffix(host)
	tc.Guessed = !matched
	tc.Suffix = &sfx

	if sfx == host {
		// The host is itself a public suffix; nothing is registrable.
		return tc
	}

	rest := strings.TrimSuffix(host, "."+sfx)
	if i := strings.LastIndexByte(rest, '.'); i >= 0 {
		domain := rest[i+1:]
		subdomain := rest[:i]
		tc.Domain = &domain
		tc.Subdomain = &subdomain
	} else {
		tc.Domain = &rest
	}
	return tc
}
