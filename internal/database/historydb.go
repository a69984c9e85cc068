package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/urlscope/urlscope/internal/model"
)

// HistoryDB provides SQLite-based storage for analysis records.
// It manages connection pooling and provides methods for saving and
// querying past analyses.
//
// Design decision: We store the full record as JSON and duplicate the
// host and registrable domain into indexed columns. This keeps the
// schema stable as the record shape evolves while still allowing
// efficient host lookups.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "urlscope.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses URI-style mode parameters.
	// mode=rw prevents creating new files; mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Analysis records store complete decomposition results as JSON,
	-- with host and domain duplicated into indexed columns for queries
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_url TEXT NOT NULL,
		host TEXT,
		registrable_domain TEXT,
		suffix TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		record_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_host ON analyses(host);
	CREATE INDEX IF NOT EXISTS idx_analyses_domain ON analyses(registrable_domain);
	CREATE INDEX IF NOT EXISTS idx_analyses_timestamp ON analyses(timestamp);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is a stored analysis record with its database metadata.
type Entry struct {
	// ID is the unique identifier of the record in the database.
	ID int64

	// OriginalURL is the exact input string that was analyzed.
	OriginalURL string

	// Host is the lowercased hostname, empty for host-less URLs.
	Host string

	// RegistrableDomain is the domain plus suffix, empty when not derivable.
	RegistrableDomain string

	// Suffix is the matched public suffix, empty when not derivable.
	Suffix string

	// Timestamp is when the analysis was saved.
	Timestamp time.Time

	// Analysis is the full decomposition record.
	Analysis *model.Analysis
}

// SaveAnalysis persists one analysis record.
func (hdb *HistoryDB) SaveAnalysis(ctx context.Context, analysis *model.Analysis) (int64, error) {
	recordJSON, err := json.Marshal(analysis)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize record: %w", err)
	}

	var host string
	if analysis.URLComponents.Host != nil {
		host = *analysis.URLComponents.Host
	}
	var sfx string
	if analysis.TLDComponents.Suffix != nil {
		sfx = *analysis.TLDComponents.Suffix
	}

	query := `
	INSERT INTO analyses (original_url, host, registrable_domain, suffix, record_json)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		analysis.OriginalURL,
		host,
		analysis.TLDComponents.RegistrableDomain(),
		sfx,
		string(recordJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	return result.LastInsertId()
}

// ListAnalyses retrieves stored records, newest first.
// When host is non-empty only records for that host are returned.
// A limit of 0 means no limit.
func (hdb *HistoryDB) ListAnalyses(ctx context.Context, host string, limit int) ([]Entry, error) {
	query := `
	SELECT id, original_url, host, registrable_domain, suffix, timestamp, record_json
	FROM analyses
	WHERE 1=1
	`
	args := make([]any, 0, 2)

	if host != "" {
		query += " AND host = ?"
		args = append(args, host)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var entry Entry
		var timestamp string
		var recordJSON string

		err := rows.Scan(
			&entry.ID,
			&entry.OriginalURL,
			&entry.Host,
			&entry.RegistrableDomain,
			&entry.Suffix,
			&timestamp,
			&recordJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		entry.Timestamp = parseTimestamp(timestamp)

		var analysis model.Analysis
		if err := json.Unmarshal([]byte(recordJSON), &analysis); err != nil {
			continue // Skip malformed records
		}
		entry.Analysis = &analysis

		results = append(results, entry)
	}

	return results, rows.Err()
}

// ListHosts returns the distinct hosts with stored records, sorted.
func (hdb *HistoryDB) ListHosts(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT host FROM analyses
	WHERE host != ''
	ORDER BY host
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}

	return hosts, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
