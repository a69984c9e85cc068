// Package report renders analysis records for output.
//
// Writers implement the Writer interface so formats are interchangeable:
//   - JSONWriter: structured JSON, the primary output contract
//   - MarkdownWriter: GitHub Flavored Markdown for documentation
//   - TextWriter: human-readable text for terminal display
//   - DomainsWriter: whois-style list of unique registrable domains
package report
