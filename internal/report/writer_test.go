package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/urlscope/urlscope/internal/model"
	"github.com/urlscope/urlscope/internal/suffix"
)

func strPtr(s string) *string { return &s }

// sampleAnalysis builds a representative record for writer tests.
func sampleAnalysis() *model.Analysis {
	a := model.NewAnalysis("https://user:pw@www.example.co.uk:8443/a/b?q=1&q=2#frag")
	a.URLComponents = model.URLComponents{
		Scheme:   "https",
		Username: "user",
		Password: strPtr("pw"),
		Host:     strPtr("www.example.co.uk"),
		Path:     "/a/b",
		Query:    strPtr("q=1&q=2"),
		Fragment: strPtr("frag"),
		QueryParams: []model.QueryParam{
			{Key: "q", Value: "1"},
			{Key: "q", Value: "2"},
		},
		PathSegments: []string{"a", "b"},
	}
	a.TLDComponents = model.TLDComponents{
		Domain:    strPtr("example"),
		Subdomain: strPtr("www"),
		Suffix:    strPtr("co.uk"),
	}
	return a
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("single record is one JSON object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		if _, err := w.Write(sampleAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		for _, key := range []string{"original_url", "url_components", "tld_components"} {
			if _, ok := decoded[key]; !ok {
				t.Errorf("expected key %q in output", key)
			}
		}
	})

	t.Run("batch output is a JSON array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		if _, err := w.WriteAll([]*model.Analysis{sampleAnalysis(), sampleAnalysis()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded []json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not a JSON array: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 records, got %d", len(decoded))
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		if _, err := w.Write(sampleAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"original_url\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})
}

func TestTextWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewTextWriter(&buf)
	a := sampleAnalysis()
	a.NestedURLs = []model.NestedURL{
		{Source: model.NestedSourceQuery, Key: "next", URL: "https://nested.example.net/"},
	}
	a.FieldErrors = []string{"cannot decode query token"}

	if _, err := w.Write(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"URL: https://user:pw@www.example.co.uk:8443/a/b?q=1&q=2#frag",
		"Host:     www.example.co.uk",
		"Subdomain: www",
		"Domain:    example",
		"Suffix:    co.uk",
		"q = 1",
		"a / b",
		`[Query "next"] https://nested.example.net/`,
		"cannot decode query token",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	// The password from the input must never be printed as a value.
	if strings.Contains(out, "Password: pw") {
		t.Error("expected password to be redacted in component listing")
	}
	if !strings.Contains(out, "Password: (redacted)") {
		t.Error("expected redaction marker for password")
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)
	if _, err := w.Write(sampleAnalysis()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# URL Analysis",
		"## Components",
		"## Host Classification",
		"## Query Parameters",
		"## Path Segments",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDomainsWriter(t *testing.T) {
	t.Parallel()

	t.Run("collects unique sorted registrable domains", func(t *testing.T) {
		t.Parallel()

		first := sampleAnalysis()
		second := sampleAnalysis()
		second.URLComponents.Host = strPtr("other.example.com")
		second.TLDComponents = model.TLDComponents{
			Domain:    strPtr("example"),
			Subdomain: strPtr("other"),
			Suffix:    strPtr("com"),
		}
		second.NestedURLs = []model.NestedURL{
			{Source: model.NestedSourceQuery, Key: "next", URL: "https://deep.nested.org/x"},
		}

		var buf bytes.Buffer
		w := NewDomainsWriter(&buf, suffix.Default())
		if _, err := w.WriteAll([]*model.Analysis{first, second, first}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := strings.Split(strings.TrimSpace(buf.String()), "\n")
		want := []string{"example.co.uk", "example.com", "nested.org"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("line %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("include subdomains keeps full hosts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewDomainsWriter(&buf, suffix.Default(), WithSubdomains())
		if _, err := w.Write(sampleAnalysis()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "www.example.co.uk" {
			t.Errorf("expected full host, got %s", got)
		}
	})

	t.Run("bare domain query values are picked up", func(t *testing.T) {
		t.Parallel()

		a := sampleAnalysis()
		a.URLComponents.QueryParams = append(a.URLComponents.QueryParams,
			model.QueryParam{Key: "domain", Value: "sub.lookup.example.org"})

		var buf bytes.Buffer
		w := NewDomainsWriter(&buf, suffix.Default())
		if _, err := w.Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "example.org") {
			t.Errorf("expected example.org in output, got %s", buf.String())
		}
	})

	t.Run("IP literal host falls back to the literal", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("http://192.0.2.7/")
		a.URLComponents = model.URLComponents{Scheme: "http", Host: strPtr("192.0.2.7"), Path: "/"}
		a.TLDComponents = model.TLDComponents{Domain: strPtr("192.0.2.7")}

		var buf bytes.Buffer
		w := NewDomainsWriter(&buf, suffix.Default())
		if _, err := w.Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "192.0.2.7" {
			t.Errorf("expected IP literal, got %s", got)
		}
	})
}
