package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS journals (
			journal TEXT PRIMARY KEY,
			fingerprint_json TEXT NOT NULL,
			similar_json TEXT NOT NULL,
			abstract_count INTEGER NOT NULL,
			median_year INTEGER NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// Returns the number of records loaded.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM journals"); err != nil {
		return 0, fmt.Errorf("clearing journals table: %w", err)
	}

	stmt, err := d.db.Prepare(`
		INSERT INTO journals (journal, fingerprint_json, similar_json, abstract_count, median_year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		fingerprintJSON, err := json.Marshal(rec.Fingerprint)
		if err != nil {
			return 0, fmt.Errorf("marshaling fingerprint for %s: %w", rec.Journal, err)
		}
		similarJSON, err := json.Marshal(rec.Similar)
		if err != nil {
			return 0, fmt.Errorf("marshaling terms for %s: %w", rec.Journal, err)
		}

		if _, err := stmt.Exec(rec.Journal, string(fingerprintJSON), string(similarJSON), rec.AbstractCount, rec.MedianYear); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", rec.Journal, err)
		}
	}

	return len(records), nil
}

// GetByJournal retrieves a record by canonical journal name. Returns nil
// without error if the journal is not present.
func (d *DB) GetByJournal(journal string) (*JournalRecord, error) {
	row := d.db.QueryRow(`
		SELECT journal, fingerprint_json, similar_json, abstract_count, median_year
		FROM journals WHERE journal = ?
	`, journal)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying journal %s: %w", journal, err)
	}
	return rec, nil
}

// All returns every journal record ordered by journal name, the same fixed
// ordering the matrix builder uses.
func (d *DB) All() ([]JournalRecord, error) {
	rows, err := d.db.Query(`
		SELECT journal, fingerprint_json, similar_json, abstract_count, median_year
		FROM journals ORDER BY journal
	`)
	if err != nil {
		return nil, fmt.Errorf("querying journals: %w", err)
	}
	defer rows.Close()

	var records []JournalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

// Count returns the number of journal records.
func (d *DB) Count() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM journals").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting journals: %w", err)
	}
	return count, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one journals row into a JournalRecord.
func scanRecord(s scanner) (*JournalRecord, error) {
	var rec JournalRecord
	var fingerprintJSON, similarJSON string

	if err := s.Scan(&rec.Journal, &fingerprintJSON, &similarJSON, &rec.AbstractCount, &rec.MedianYear); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(fingerprintJSON), &rec.Fingerprint); err != nil {
		return nil, fmt.Errorf("parsing fingerprint for %s: %w", rec.Journal, err)
	}
	if err := json.Unmarshal([]byte(similarJSON), &rec.Similar); err != nil {
		return nil, fmt.Errorf("parsing terms for %s: %w", rec.Journal, err)
	}

	return &rec, nil
}
