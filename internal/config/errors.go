package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoTarget is returned when no URL is given to analyze.
	// This error occurs when neither positional arguments nor stdin provide input.
	ErrNoTarget = errors.New("no target specified: provide a URL or pipe input on stdin")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no workers, effectively stopping
	// all processing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --markdown, --text, and --domains is specified. Only one output
	// format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --markdown, --text, and --domains cannot be combined")

	// ErrCompactWithNonJSON is returned when --compact is combined with a
	// non-JSON output format. Compact rendering only applies to JSON.
	ErrCompactWithNonJSON = errors.New("--compact only applies to JSON output")

	// ErrArrayWithNonJSON is returned when --array is combined with a
	// non-JSON output format. Array batching only applies to JSON.
	ErrArrayWithNonJSON = errors.New("--array only applies to JSON output")

	// ErrSubdomainsWithoutDomains is returned when --include-subdomains is
	// used without --domains. The flag only affects the domain list format.
	ErrSubdomainsWithoutDomains = errors.New("--include-subdomains requires --domains")
)
