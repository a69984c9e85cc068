// Package pipeline orchestrates the per-URL analysis steps.
//
// Each input URL is processed by a Pipeline of Steps: grammar parsing,
// query tokenization, path segmentation, suffix classification, and
// optional nested-URL scanning. A failed grammar parse aborts the
// record; per-field decode failures are recorded on the record and the
// remaining steps still run.
//
// BatchProcessor runs independent pipelines for multiple URLs
// concurrently; the suffix rule source is read-only, so no further
// synchronization is needed.
package pipeline
