package store

import (
	"database/sql"
	"fmt"
)

const (
	tableAssessments = "assessments"
	tableAnswers     = "answers"
	tableResults     = "results"
	tableSequence    = "global_sequence"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL,
		state TEXT NOT NULL,
		abort_reason TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS assessments_state ON assessments (state)`,
	`CREATE TABLE IF NOT EXISTS answers (
		sequence INTEGER PRIMARY KEY,
		assessment_id TEXT NOT NULL REFERENCES assessments (id) ON DELETE CASCADE,
		challenge_id TEXT NOT NULL,
		result TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (assessment_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		assessment_id TEXT NOT NULL REFERENCES assessments (id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL UNIQUE,
		capacity REAL NOT NULL,
		error_rate REAL NOT NULL,
		score INTEGER NOT NULL,
		status TEXT NOT NULL,
		competence_marks TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS results_assessment ON results (assessment_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
}

// migrate creates missing tables. Statements are idempotent.
func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
