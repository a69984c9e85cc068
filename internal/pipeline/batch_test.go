package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/urlscope/urlscope/internal/model"
	"github.com/urlscope/urlscope/internal/suffix"
)

func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	factory := func() *Pipeline {
		return DefaultPipeline(suffix.Default(), nil)
	}

	t.Run("results keep input order", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://a.example.com/",
			"https://b.example.org/",
			"https://c.example.net/",
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		results, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), len(results))
		}
		for i, rawURL := range urls {
			if results[i] == nil || results[i].OriginalURL != rawURL {
				t.Errorf("result %d: expected %s, got %+v", i, rawURL, results[i])
			}
		}
	})

	t.Run("one parse failure does not abort the batch", func(t *testing.T) {
		t.Parallel()

		urls := []string{
			"https://good.example.com/",
			"%%%not-a-url",
			"https://also-good.example.com/",
		}

		bp := NewBatchProcessor(factory, WithConcurrency(3))
		results, err := bp.ProcessBatch(context.Background(), urls)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if results[1].Error == nil {
			t.Error("expected the malformed input to carry an error")
		}
		if results[0].Error != nil || results[2].Error != nil {
			t.Error("expected the valid inputs to succeed")
		}
	})

	t.Run("callback receives every record", func(t *testing.T) {
		t.Parallel()

		urls := []string{"https://a.example.com/", "https://b.example.com/"}

		var mu sync.Mutex
		seen := make(map[int]string)

		bp := NewBatchProcessor(factory)
		err := bp.ProcessBatchWithCallback(context.Background(), urls,
			func(analysis *model.Analysis, index int) {
				mu.Lock()
				defer mu.Unlock()
				seen[index] = analysis.OriginalURL
			},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(seen) != len(urls) {
			t.Fatalf("expected %d callbacks, got %d", len(urls), len(seen))
		}
		for i, rawURL := range urls {
			if seen[i] != rawURL {
				t.Errorf("callback %d: expected %s, got %s", i, rawURL, seen[i])
			}
		}
	})
}
