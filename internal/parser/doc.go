// Package parser extracts the structural components of a URL string.
//
// It wraps net/url for the URL grammar itself and adds the pieces the
// grammar parser does not provide: an order-preserving query tokenizer
// that retains duplicate keys, and a path segmenter that collapses empty
// segments. Host classification lives in the suffix package.
package parser
