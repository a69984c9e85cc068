package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/urlscope/urlscope/internal/model"
)

// BatchProcessor analyzes multiple URLs concurrently.
// Each URL gets a fresh pipeline from the factory; inputs are fully
// independent, so the only shared state is the read-only suffix rule
// source inside the steps.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each URL.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed records indexed by input position.
	results []*model.Analysis
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
// Default is 8 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// The factory is called once per URL so pipeline state never leaks
// between inputs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     8,
		results:         make([]*model.Analysis, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes all URLs and returns the records in input
// order. Records for inputs that failed to parse carry the error; one
// failure never aborts the other analyses.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.Analysis, error) {
	startTime := time.Now()

	bp.logger.Debug("starting batch analysis",
		"total", len(urls),
		"concurrency", bp.concurrency,
	)

	bp.results = make([]*model.Analysis, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			analysis := model.NewAnalysis(rawURL)
			p := bp.pipelineFactory()
			if err := p.Execute(ctx, analysis); err != nil {
				// The error is recorded on the record; keep going so the
				// remaining URLs are still analyzed.
				bp.logger.Warn("analysis failed",
					"url", rawURL,
					"error", err,
				)
			}

			bp.mu.Lock()
			bp.results[i] = analysis
			bp.mu.Unlock()

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch analysis complete",
		"total", len(urls),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback analyzes all URLs and calls the callback for
// each completed record with its input index. The callback runs on the
// goroutine that finished the analysis and must be safe for concurrent
// use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(analysis *model.Analysis, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, rawURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			analysis := model.NewAnalysis(rawURL)
			p := bp.pipelineFactory()
			_ = p.Execute(ctx, analysis) //nolint:errcheck // Error is stored on the record

			callback(analysis, i)

			return nil
		})
	}

	return g.Wait()
}
