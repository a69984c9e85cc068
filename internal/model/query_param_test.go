package model

import (
	"encoding/json"
	"testing"
)

func TestQueryParamJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals as 2-element array", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(QueryParam{Key: "a", Value: "1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `["a","1"]` {
			t.Errorf(`expected ["a","1"], got %s`, data)
		}
	})

	t.Run("unmarshals from 2-element array", func(t *testing.T) {
		t.Parallel()
		var p QueryParam
		if err := json.Unmarshal([]byte(`["key","value"]`), &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Key != "key" || p.Value != "value" {
			t.Errorf("expected key/value, got %s/%s", p.Key, p.Value)
		}
	})

	t.Run("rejects non-array input", func(t *testing.T) {
		t.Parallel()
		var p QueryParam
		if err := json.Unmarshal([]byte(`{"key":"a"}`), &p); err == nil {
			t.Error("expected error for object input, got nil")
		}
	})

	t.Run("duplicate keys survive a slice round trip", func(t *testing.T) {
		t.Parallel()
		in := []QueryParam{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "a", Value: "3"}}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var out []QueryParam
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 3 {
			t.Fatalf("expected 3 params, got %d", len(out))
		}
		for i := range in {
			if out[i] != in[i] {
				t.Errorf("param %d: expected %v, got %v", i, in[i], out[i])
			}
		}
	})
}
