// Package replay is an in-process, in-memory audit trail of every
// successful phase advancement, grounded on the teacher's
// transaction_log/daily_snapshots tables (db.go) but backed by a
// ":memory:" SQLite database: nothing survives process restart, which
// matches this module's no-cross-restart-persistence Non-goal while
// still giving IllegalAction post-mortems and tests a queryable
// history for the lifetime of one server.
package replay

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded phase advancement.
type Entry struct {
	Turn        int
	Phase       string
	Actions     string
	Outcomes    string
	StateDigest string
}

// Log wraps an in-memory SQLite database holding the append-only
// advancement history of one game session.
type Log struct {
	db *sql.DB
}

// Open creates a fresh in-memory replay log and its schema.
func Open() (*Log, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("replay: open: %w", err)
	}
	const schema = `
	CREATE TABLE transaction_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER,
		phase TEXT,
		actions_json TEXT,
		outcomes_json TEXT,
		state_digest TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("replay: create schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying in-memory database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append records one successful phase advancement. actions and
// outcomes are marshalled to JSON for storage; digest is a caller-
// supplied state fingerprint (e.g. a hash of the post-step state).
func (l *Log) Append(turn int, phase string, actions, outcomes interface{}, digest string) error {
	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("replay: marshal actions: %w", err)
	}
	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		return fmt.Errorf("replay: marshal outcomes: %w", err)
	}
	_, err = l.db.Exec(
		`INSERT INTO transaction_log (turn, phase, actions_json, outcomes_json, state_digest) VALUES (?, ?, ?, ?, ?)`,
		turn, phase, string(actionsJSON), string(outcomesJSON), digest,
	)
	if err != nil {
		return fmt.Errorf("replay: append: %w", err)
	}
	return nil
}

// Turns returns every recorded entry in turn order.
func (l *Log) Turns() ([]Entry, error) {
	rows, err := l.db.Query(`SELECT turn, phase, actions_json, outcomes_json, state_digest FROM transaction_log ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("replay: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Turn, &e.Phase, &e.Actions, &e.Outcomes, &e.StateDigest); err != nil {
			return nil, fmt.Errorf("replay: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
