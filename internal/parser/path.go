package parser

import (
	"net/url"
	"strings"
)

// SegmentPath splits an escaped path into its ordered non-empty
// segments, percent-decoding each one. Leading, trailing, and repeated
// slashes collapse away. A malformed percent escape returns a
// DecodeError; the path segments field is then unrecoverable.
func SegmentPath(escapedPath string) ([]string, error) {
	segments := make([]string, 0)

	for _, raw := range strings.Split(escapedPath, "/") {
		if raw == "" {
			continue
		}
		segment, err := url.PathUnescape(raw)
		if err != nil {
			return nil, &DecodeError{Field: "path", Value: raw, Err: err}
		}
		segments = append(segments, segment)
	}

	return segments, nil
}
