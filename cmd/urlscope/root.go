// Package main provides the entry point for the urlscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for urlscope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlscope",
		Short: "Decompose URLs and classify hostnames",
		Long: `urlscope decomposes URL strings into scheme, authority, path, query,
and fragment components, and classifies each hostname into subdomain,
registrable domain, and public suffix using longest-match suffix rules.

Results are emitted as JSON records by default. Alternative formats
include Markdown, human-readable text, and a whois-style domain list.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
