package sqlite

import "database/sql"

// schema sets up the database. It runs on startup and is idempotent.
// created_at holds Unix nanoseconds; rowid breaks ties between records
// written in the same instant.
const schema = `
CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    amount REAL NOT NULL CHECK (amount > 0),
    category TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS shared_expenses (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    amount REAL NOT NULL CHECK (amount > 0),
    payer TEXT NOT NULL,
    payee TEXT NOT NULL,
    description TEXT NOT NULL,
    split INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_owner_created ON expenses(owner_id, created_at);
CREATE INDEX IF NOT EXISTS idx_shared_expenses_owner_created ON shared_expenses(owner_id, created_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
