package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/urlscope/urlscope/internal/config"
	"github.com/urlscope/urlscope/internal/database"
	"github.com/urlscope/urlscope/internal/log"
	"github.com/urlscope/urlscope/internal/model"
	"github.com/urlscope/urlscope/internal/pipeline"
	"github.com/urlscope/urlscope/internal/report"
	"github.com/urlscope/urlscope/internal/suffix"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [url]...",
		Short: "Decompose URLs and classify their hostnames",
		Long: `Analyze decomposes each URL into its structural components and
classifies the hostname into subdomain, registrable domain, and public
suffix using longest-match suffix rules.

Each input produces one JSON record on stdout. Inputs that fail to parse
are reported on stderr; the remaining inputs are still processed.

When no URLs are given as arguments, input is read from stdin, one URL
per line. Blank lines and lines starting with '#' are skipped.

Examples:
  # Analyze a single URL
  urlscope analyze "https://www.example.co.uk/path?q=1"

  # Analyze a list of URLs from a file
  cat urls.txt | urlscope analyze

  # Emit one JSON array instead of one object per input
  urlscope analyze --array url1 url2 url3

  # Human-readable text output
  urlscope analyze --text "https://www.example.co.uk/"

  # Extract unique registrable domains for bulk whois lookups
  cat urls.txt | urlscope analyze --domains

  # Scan query values and path segments for embedded URLs
  urlscope analyze --nested "https://proxy.example.com/?next=https%3A%2F%2Fother.org%2F"

  # Use a custom public suffix list file
  urlscope analyze --suffix-list ./public_suffix_list.dat example.com

  # Save records to the history database
  urlscope analyze --save "https://example.com/"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	// Output format flags
	cmd.Flags().Bool("compact", false,
		"Emit compact single-line JSON instead of pretty-printed output")
	cmd.Flags().BoolP("array", "a", false,
		"Emit all records as a single JSON array")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report instead of JSON")
	cmd.Flags().BoolP("text", "t", false,
		"Output human-readable text instead of JSON")
	cmd.Flags().BoolP("domains", "d", false,
		"Output a sorted list of unique registrable domains instead of JSON")
	cmd.Flags().Bool("include-subdomains", false,
		"Keep full hosts in the domain list (requires --domains)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")

	// Analysis behavior flags
	cmd.Flags().BoolP("nested", "n", false,
		"Scan query values and path segments for embedded URLs")
	cmd.Flags().String("suffix-list", "",
		"Path to a public suffix list file (default: embedded list)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent analyses for multiple inputs")

	// Persistence flags
	cmd.Flags().BoolP("save", "s", false,
		"Save records to the history database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .urlscope in current or home directory)")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential masking
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runAnalyze(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// Values from the configuration file fill in flags the user did not set
// explicitly; an explicit flag always wins over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Compact, err = cmd.Flags().GetBool("compact")
	if err != nil {
		return nil, err
	}
	cfg.Array, err = cmd.Flags().GetBool("array")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.TextReport, err = cmd.Flags().GetBool("text")
	if err != nil {
		return nil, err
	}
	cfg.DomainsReport, err = cmd.Flags().GetBool("domains")
	if err != nil {
		return nil, err
	}
	cfg.IncludeSubdomains, err = cmd.Flags().GetBool("include-subdomains")
	if err != nil {
		return nil, err
	}
	cfg.Nested, err = cmd.Flags().GetBool("nested")
	if err != nil {
		return nil, err
	}
	cfg.Save, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}
	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}
	cfg.SuffixListPath, err = cmd.Flags().GetString("suffix-list")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Load defaults from the config file.
	// If the user explicitly specified a config file path, error if not found.
	// If no path was specified, silently continue when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		applyFileDefaults(cmd, cfg, &cf.Defaults)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Positional arguments, or stdin when none are given
	if len(args) > 0 {
		cfg.Targets = args
	} else {
		cfg.Targets, err = readTargets(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read URLs from stdin: %w", err)
		}
	}

	return cfg, nil
}

// applyFileDefaults copies file settings into the config for every flag
// the user did not set explicitly on the command line.
func applyFileDefaults(cmd *cobra.Command, cfg *config.Config, defaults *config.Settings) {
	changed := cmd.Flags().Changed

	if !changed("compact") && defaults.Compact {
		cfg.Compact = true
	}
	if !changed("array") && defaults.Array {
		cfg.Array = true
	}
	if !changed("nested") && defaults.Nested {
		cfg.Nested = true
	}
	if !changed("markdown") && defaults.Markdown {
		cfg.MarkdownReport = true
	}
	if !changed("text") && defaults.Text {
		cfg.TextReport = true
	}
	if !changed("domains") && defaults.Domains {
		cfg.DomainsReport = true
	}
	if !changed("include-subdomains") && defaults.IncludeSubdomains {
		cfg.IncludeSubdomains = true
	}
	if !changed("save") && defaults.Save {
		cfg.Save = true
	}
	if !changed("batch") && defaults.BatchSize > 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if !changed("suffix-list") && defaults.SuffixList != "" {
		cfg.SuffixListPath = defaults.SuffixList
	}
	if defaults.DBDir != "" {
		cfg.DBDir = defaults.DBDir
	}
}

// readTargets reads URLs from the reader, one per line.
// Blank lines and lines starting with '#' are skipped.
func readTargets(r io.Reader) ([]string, error) {
	var targets []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}

	return targets, scanner.Err()
}

// runAnalyze executes the analysis.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug("starting analysis",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"nested", cfg.Nested,
		"save", cfg.Save,
	)

	// Select the suffix rule source
	source, err := newSuffixSource(cfg)
	if err != nil {
		return err
	}

	// Open the history database only when saving is requested
	var db *database.HistoryDB
	if cfg.Save {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Debug("history database opened", "dir", cfg.DBDir)
	}

	// Analyze all inputs; results stay in input order
	records, failed := collectRecords(ctx, cfg, source, logger)
	if err := ctx.Err(); err != nil {
		return err
	}

	// Save successful records before emitting output
	if db != nil {
		for _, analysis := range records {
			if _, err := db.SaveAnalysis(ctx, analysis); err != nil {
				logger.Error("failed to save record",
					"url", analysis.OriginalURL,
					"error", err,
				)
			}
		}
	}

	if err := emitRecords(cfg, source, records); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URLs failed to parse", failed, len(cfg.Targets))
	}
	return nil
}

// newSuffixSource selects the suffix rule source from the configuration.
func newSuffixSource(cfg *config.Config) (suffix.Source, error) {
	if cfg.SuffixListPath == "" {
		return suffix.Default(), nil
	}

	list, err := suffix.LoadListFile(cfg.SuffixListPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load suffix list %s: %w", cfg.SuffixListPath, err)
	}
	return list, nil
}

// collectRecords analyzes every target and returns the successful
// records in input order plus the number of fatal parse failures.
// Parse failures and per-field decode failures are reported on stderr.
func collectRecords(ctx context.Context, cfg *config.Config, source suffix.Source, logger *slog.Logger) ([]*model.Analysis, int) {
	pipelineOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	cfgOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithNestedScan(cfg.Nested),
		pipeline.WithStepLogger(logger),
	}

	var results []*model.Analysis
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		bp := pipeline.NewBatchProcessor(
			func() *pipeline.Pipeline {
				return pipeline.DefaultPipeline(source, pipelineOpts, cfgOpts...)
			},
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)

		results, _ = bp.ProcessBatch(ctx, cfg.Targets)
	} else {
		p := pipeline.DefaultPipeline(source, pipelineOpts, cfgOpts...)
		for _, target := range cfg.Targets {
			select {
			case <-ctx.Done():
				return nil, 0
			default:
			}

			analysis := model.NewAnalysis(target)
			_ = p.Execute(ctx, analysis) //nolint:errcheck // Error is stored on the record
			results = append(results, analysis)
		}
	}

	records := make([]*model.Analysis, 0, len(results))
	failed := 0
	for _, analysis := range results {
		if analysis == nil {
			continue
		}
		if analysis.Error != nil {
			// Fatal parse failure: report on stderr, emit no record
			fmt.Fprintf(os.Stderr, "urlscope: %s: %s\n",
				log.MaskURLPassword(analysis.OriginalURL), analysis.ErrorMessage)
			failed++
			continue
		}
		for _, fieldErr := range analysis.FieldErrors {
			fmt.Fprintf(os.Stderr, "urlscope: %s: %s\n",
				log.MaskURLPassword(analysis.OriginalURL), fieldErr)
		}
		records = append(records, analysis)
	}

	return records, failed
}

// emitRecords writes the records in the configured output format.
func emitRecords(cfg *config.Config, source suffix.Source, records []*model.Analysis) error {
	output, closer, err := openOutput(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	writer := newWriter(cfg, output, source)

	// The domain list and JSON array formats aggregate the whole batch;
	// the others emit one report per record.
	if cfg.DomainsReport || cfg.Array {
		_, err := writer.WriteAll(records)
		return err
	}

	for _, analysis := range records {
		if _, err := writer.Write(analysis); err != nil {
			return err
		}
	}
	return nil
}

// openOutput resolves the output destination from the configuration.
// The returned closer is nil when writing to stdout.
func openOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return os.Stdout, nil, nil
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Records may contain credentials embedded in the input URLs, so the
	// file is only readable by the owner
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newWriter selects the report writer for the configured output format.
func newWriter(cfg *config.Config, output io.Writer, source suffix.Source) report.Writer {
	switch {
	case cfg.DomainsReport:
		var opts []report.DomainsWriterOption
		if cfg.IncludeSubdomains {
			opts = append(opts, report.WithSubdomains())
		}
		return report.NewDomainsWriter(output, source, opts...)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	case cfg.TextReport:
		return report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	case cfg.Compact:
		return report.NewJSONWriter(output)
	default:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	}
}
