package parser

import (
	"net/url"
	"strings"

	"github.com/urlscope/urlscope/internal/model"
)

// TokenizeQuery splits a raw query string into ordered (key, value)
// pairs with percent-decoding applied to each side independently.
//
// Unlike url.ParseQuery, which collects values into a map, this keeps
// source order and retains duplicate keys as separate entries. Segments
// without "=" yield an empty value. A malformed percent escape returns
// a DecodeError; the query field as a whole is then unrecoverable.
func TokenizeQuery(rawQuery string) ([]model.QueryParam, error) {
	params := make([]model.QueryParam, 0)
	if rawQuery == "" {
		return params, nil
	}

	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(segment, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &DecodeError{Field: "query", Value: rawKey, Err: err}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, &DecodeError{Field: "query", Value: rawValue, Err: err}
		}

		params = append(params, model.QueryParam{Key: key, Value: value})
	}

	return params, nil
}
