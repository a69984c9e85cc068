package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/urlscope/urlscope/internal/database"
	"github.com/urlscope/urlscope/internal/model"
)

// seedHistory creates a database in dir with a few saved records.
func seedHistory(t *testing.T, dir string) {
	t.Helper()

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, target := range []struct{ url, host, domain, sfx string }{
		{"https://www.example.co.uk/", "www.example.co.uk", "example", "co.uk"},
		{"https://api.example.com/v1", "api.example.com", "example", "com"},
	} {
		a := model.NewAnalysis(target.url)
		host := target.host
		domain := target.domain
		sfx := target.sfx
		a.URLComponents = model.URLComponents{Scheme: "https", Host: &host, Path: "/"}
		a.TLDComponents = model.TLDComponents{Domain: &domain, Suffix: &sfx}

		if _, err := db.SaveAnalysis(ctx, a); err != nil {
			t.Fatalf("failed to save analysis: %v", err)
		}
	}
}

// TestHistoryCmd tests querying saved records.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists saved records", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedHistory(t, dir)

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "https://www.example.co.uk/") {
			t.Errorf("expected first record in output, got: %s", out)
		}
		if !strings.Contains(out, "example.com") {
			t.Errorf("expected registrable domain in output, got: %s", out)
		}
	})

	t.Run("filters by host", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedHistory(t, dir)

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir, "api.example.com"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if strings.Contains(out, "www.example.co.uk") {
			t.Errorf("expected only the filtered host, got: %s", out)
		}
		if !strings.Contains(out, "https://api.example.com/v1") {
			t.Errorf("expected matching record, got: %s", out)
		}
	})

	t.Run("json output is a JSON array of records", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedHistory(t, dir)

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir, "--json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var records []map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
			t.Fatalf("output is not a JSON array: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected 2 records, got %d", len(records))
		}
	})

	t.Run("list-hosts shows distinct hosts", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedHistory(t, dir)

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir, "--list-hosts"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := strings.Split(strings.TrimSpace(buf.String()), "\n")
		want := []string{"api.example.com", "www.example.co.uk"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("host %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("missing database errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error when no database exists")
		}
	})
}
