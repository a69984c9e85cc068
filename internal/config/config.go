package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize of 8 concurrent analyses balances throughput with
	// resource usage when processing large URL lists. Analysis is CPU-light,
	// so a moderate worker count is sufficient.
	DefaultBatchSize = 8

	// AppName is the application name used for XDG directory paths.
	AppName = "urlscope"
)

// Config holds all configuration options for urlscope.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., OutputConfig, HistoryConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of URL strings to analyze.
	// Must contain at least one entry; it is populated from positional
	// arguments or from stdin when no arguments are given.
	Targets []string

	// Compact disables pretty-printing of JSON output.
	// Only meaningful for the default JSON format.
	Compact bool

	// Array emits batch results as a single JSON array instead of one
	// JSON object per line. Only meaningful for the default JSON format.
	Array bool

	// MarkdownReport enables Markdown report output instead of JSON.
	// Mutually exclusive with TextReport and DomainsReport.
	MarkdownReport bool

	// TextReport enables human-readable text output instead of JSON.
	// Mutually exclusive with MarkdownReport and DomainsReport.
	TextReport bool

	// DomainsReport enables the whois-style registrable domain list
	// instead of JSON. Mutually exclusive with the other report formats.
	DomainsReport bool

	// IncludeSubdomains keeps full hosts in the domain list instead of
	// reducing them to registrable domains. Requires DomainsReport.
	IncludeSubdomains bool

	// Nested enables scanning query values and path segments for embedded
	// URLs. Off by default because it adds an auxiliary key to the output.
	Nested bool

	// Save persists analysis records to the history database.
	// When false (default), nothing is written to disk.
	Save bool

	// BatchSize is the number of concurrent analyses when processing
	// multiple targets.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .urlscope in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SuffixListPath is the path to a public suffix list file in the
	// standard publicsuffix.org format. When empty, the embedded list
	// compiled into the binary is used.
	SuffixListPath string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite history database.
	// Defaults to the XDG data directory (~/.local/share/urlscope on Linux).
	DBDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because some defaults are non-zero (batch size, DB directory).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for urlscope.
// On Linux: ~/.local/share/urlscope
// On macOS: ~/Library/Application Support/urlscope
// On Windows: %LOCALAPPDATA%\urlscope
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for urlscope.
// On Linux: ~/.config/urlscope
// On macOS: ~/Library/Application Support/urlscope
// On Windows: %APPDATA%\urlscope
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any analysis begins.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one URL to analyze
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// BatchSize must be positive; zero would mean no workers
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// At most one non-JSON report format may be selected
	formats := 0
	for _, enabled := range []bool{c.MarkdownReport, c.TextReport, c.DomainsReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	// Compact and Array shape JSON output only
	if c.Compact && formats > 0 {
		return ErrCompactWithNonJSON
	}
	if c.Array && formats > 0 {
		return ErrArrayWithNonJSON
	}

	// IncludeSubdomains only affects the domain list
	if c.IncludeSubdomains && !c.DomainsReport {
		return ErrSubdomainsWithoutDomains
	}

	return nil
}
