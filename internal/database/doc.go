// Package database provides SQLite-based persistence for analysis history.
// Records are stored as JSON alongside indexed host and domain columns so
// past analyses can be queried by host without re-parsing every record.
package database
