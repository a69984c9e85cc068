package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/urlscope/urlscope/internal/config"
	"github.com/urlscope/urlscope/internal/database"
	"github.com/urlscope/urlscope/internal/model"
	"github.com/urlscope/urlscope/internal/report"
)

// NewHistoryCmd creates the history command.
// This command queries analysis records saved with 'analyze --save'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [host]",
		Short: "Show saved analysis records",
		Long: `History displays analysis records previously saved with 'analyze --save'.

Records are shown newest first. When a host is given, only records for
that exact host are shown.

Examples:
  # Show the most recent records
  urlscope history

  # Show records for a specific host
  urlscope history www.example.co.uk

  # Show the last 5 records as JSON
  urlscope history --json --limit 5

  # List all hosts with saved records
  urlscope history --list-hosts`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of records to show (0 for no limit)")
	cmd.Flags().BoolP("json", "j", false,
		"Output records as a JSON array")
	cmd.Flags().BoolP("list-hosts", "L", false,
		"List all hosts with saved records")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	listHosts, err := cmd.Flags().GetBool("list-hosts")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// The database must already exist; history never creates one
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no saved records (run 'urlscope analyze --save' first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if listHosts {
		hosts, err := db.ListHosts(ctx)
		if err != nil {
			return err
		}
		for _, host := range hosts {
			fmt.Fprintln(cmd.OutOrStdout(), host)
		}
		return nil
	}

	var host string
	if len(args) > 0 {
		host = strings.ToLower(args[0])
	}

	entries, err := db.ListAnalyses(ctx, host, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no matching records")
		return nil
	}

	if asJSON {
		records := make([]*model.Analysis, 0, len(entries))
		for _, entry := range entries {
			records = append(records, entry.Analysis)
		}
		writer := report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
		_, err := writer.WriteAll(records)
		return err
	}

	for _, entry := range entries {
		domain := entry.RegistrableDomain
		if domain == "" {
			domain = "-"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s  %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			domain,
			entry.OriginalURL,
		)
	}
	return nil
}
