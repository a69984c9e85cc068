package parser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/urlscope/urlscope/internal/model"
)

// maxPort is the highest valid TCP/UDP port number.
const maxPort = 65535

// Parse decomposes rawURL into its structural components.
// The input must be an absolute URL; scheme-less and otherwise
// malformed inputs return a ParseError. Optional components that are
// absent from the input stay nil so they serialize as JSON null.
//
// Query parameters and path segments are not filled in here; they are
// derived from the returned components by TokenizeQuery and SegmentPath
// so that per-field decode failures do not discard the whole record.
func Parse(rawURL string) (model.URLComponents, error) {
	var c model.URLComponents

	if strings.TrimSpace(rawURL) == "" {
		return c, &ParseError{URL: rawURL, Err: ErrEmptyURL}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return c, &ParseError{URL: rawURL, Err: err}
	}
	if u.Scheme == "" {
		return c, &ParseError{URL: rawURL, Err: ErrMissingScheme}
	}

	// net/url lowercases the scheme during parsing, satisfying the
	// invariant that the scheme is always present and lowercase.
	c.Scheme = u.Scheme

	if u.Opaque != "" {
		// Opaque URLs (mailto:user@example.com) carry no authority;
		// the opaque part stands in for the path.
		c.Path = u.Opaque
	} else {
		c.Path = u.Path
		c.RawPath = u.EscapedPath()

		if u.Host != "" {
			host := strings.ToLower(u.Hostname())
			c.Host = &host

			if p := u.Port(); p != "" {
				port, err := strconv.Atoi(p)
				if err != nil || port < 0 || port > maxPort {
					return model.URLComponents{}, &ParseError{URL: rawURL, Err: ErrInvalidPort}
				}
				c.Port = &port
			}
		}

		if u.User != nil {
			c.Username = u.User.Username()
			if password, ok := u.User.Password(); ok {
				c.Password = &password
			}
		}
	}

	if u.RawQuery != "" || u.ForceQuery {
		query := u.RawQuery
		c.Query = &query
	}

	if u.Fragment != "" || strings.Contains(rawURL, "#") {
		fragment := u.Fragment
		c.Fragment = &fragment
	}

	return c, nil
}
