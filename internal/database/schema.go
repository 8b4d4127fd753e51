package database

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all tables if they do not exist. Safe to run on every
// startup from both the API server and the worker.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		role TEXT DEFAULT 'user',
		email_confirmed BOOLEAN DEFAULT 0,
		confirmation_token TEXT,
		reset_token TEXT,
		reset_token_expires_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		filename TEXT NOT NULL,
		original_filename TEXT NOT NULL,
		file_size INTEGER,
		content_type TEXT,
		status TEXT DEFAULT 'uploaded',
		analysis_results TEXT,
		extracted_text TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id);
	CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		entity_type TEXT NOT NULL,
		entity_value TEXT NOT NULL,
		context TEXT,
		confidence REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (document_id) REFERENCES documents (id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_entities_document ON entities(document_id);

	CREATE TABLE IF NOT EXISTS compliance_issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		issue_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		description TEXT NOT NULL,
		recommendation TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (document_id) REFERENCES documents (id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_issues_document ON compliance_issues(document_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
