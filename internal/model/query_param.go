package model

import (
	"encoding/json"
	"fmt"
)

// QueryParam is an ordered (key, value) pair from the query string.
// It serializes as a 2-element JSON array (["key", "value"]) rather
// than an object, so that a sequence of parameters round-trips without
// collapsing duplicate keys.
type QueryParam struct {
	// Key is the percent-decoded parameter name.
	Key string

	// Value is the percent-decoded parameter value, empty when the
	// source segment had no "=".
	Value string
}

// MarshalJSON encodes the pair as ["key", "value"].
func (p QueryParam) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Key, p.Value})
}

// UnmarshalJSON decodes a 2-element JSON array into the pair.
func (p *QueryParam) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("query param must be a 2-element array: %w", err)
	}
	p.Key = pair[0]
	p.Value = pair[1]
	return nil
}

// String returns the pair in "key=value" form for display.
func (p QueryParam) String() string {
	return p.Key + "=" + p.Value
}
