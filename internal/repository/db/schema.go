package db

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaUsersPostgres = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

const schemaTasksPostgres = `
CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    text TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT false,
    user_id INTEGER NOT NULL REFERENCES users(id)
);
`

const schemaUsersSQLite = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

const schemaTasksSQLite = `
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT 0,
    user_id INTEGER NOT NULL REFERENCES users(id)
);
`

const schemaTasksUserIndex = `CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);`

// schemaFor returns the DDL statements for a driver, in dependency order.
func schemaFor(driver string) ([]string, error) {
	switch driver {
	case DriverPostgres:
		return []string{schemaUsersPostgres, schemaTasksPostgres, schemaTasksUserIndex}, nil
	case DriverSQLite:
		return []string{schemaUsersSQLite, schemaTasksSQLite, schemaTasksUserIndex}, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// ensureSchema creates missing tables. Safe to run on every start.
func ensureSchema(ctx context.Context, db *sql.DB, driver string) error {
	stmts, err := schemaFor(driver)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
