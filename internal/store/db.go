// Package store keeps the ground-truth postal code list in SQLite.
package store

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	dropTables = `DROP TABLE IF EXISTS postal_codes;`

	createTables = `
		CREATE TABLE IF NOT EXISTS postal_codes (
			pin INTEGER NOT NULL,
			state TEXT NOT NULL,
			PRIMARY KEY (pin, state)
		);
	`
)

// InitDB initializes and returns a SQLite database connection
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// CreateSchema creates the postal_codes table if it does not exist.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(createTables); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// ResetSchema drops and recreates the postal_codes table.
func ResetSchema(db *sql.DB) error {
	if _, err := db.Exec(dropTables); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return CreateSchema(db)
}

// SeedFromCSV inserts the rows of a CSV with "State" and "Pin" columns.
// Columns are located by header name, case-insensitively, so extra columns
// are allowed. Rows already present are skipped. It returns the number of
// rows inserted.
func SeedFromCSV(db *sql.DB, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return 0, errors.New("csv is empty: header with State and Pin columns is required")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	stateCol, pinCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "state":
			stateCol = i
		case "pin":
			pinCol = i
		}
	}
	if stateCol < 0 || pinCol < 0 {
		return 0, fmt.Errorf("csv header must contain State and Pin columns, got %v", header)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO postal_codes (pin, state) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}
		if len(record) <= stateCol || len(record) <= pinCol {
			return 0, fmt.Errorf("csv line %d: expected at least %d columns, got %d",
				line, max(stateCol, pinCol)+1, len(record))
		}

		pin, err := strconv.Atoi(strings.TrimSpace(record[pinCol]))
		if err != nil {
			return 0, fmt.Errorf("csv line %d: invalid pin %q: %w", line, record[pinCol], err)
		}
		state := strings.TrimSpace(record[stateCol])

		res, err := stmt.Exec(pin, state)
		if err != nil {
			return 0, fmt.Errorf("failed to insert pin %d: %w", pin, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// LoadPostalCodes returns every distinct pin in ascending order.
func LoadPostalCodes(db *sql.DB) ([]int, error) {
	return queryPins(db, `SELECT DISTINCT pin FROM postal_codes ORDER BY pin`)
}

// LoadPostalCodesByState returns the distinct pins of one state in
// ascending order. State names are compared case-insensitively.
func LoadPostalCodesByState(db *sql.DB, state string) ([]int, error) {
	return queryPins(db,
		`SELECT DISTINCT pin FROM postal_codes WHERE state = ? COLLATE NOCASE ORDER BY pin`, state)
}

// States returns the distinct state names in alphabetical order.
func States(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT state FROM postal_codes ORDER BY state`)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating states: %w", err)
	}

	return states, nil
}

func queryPins(db *sql.DB, query string, args ...any) ([]int, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query postal codes: %w", err)
	}
	defer rows.Close()

	var pins []int
	for rows.Next() {
		var pin int
		if err := rows.Scan(&pin); err != nil {
			return nil, fmt.Errorf("failed to scan postal code: %w", err)
		}
		pins = append(pins, pin)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating postal codes: %w", err)
	}

	return pins, nil
}
