package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported values of Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// driver names registered with database/sql by the blank imports above.
const (
	pgxDriverName    = "pgx"
	sqliteDriverName = "sqlite"
)

const initTimeout = 10 * time.Second

// Config describes how to reach the credential store.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the database file used by the sqlite driver.
	Path string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// InitDB opens the pool for cfg.Driver, applies pool limits and ensures tables exist.
func InitDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	configurePool(db, cfg)

	ctx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	// Fail fast if the DB cannot be reached
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if err := ensureSchema(ctx, db, cfg.Driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func dataSource(cfg Config) (driverName, dsn string, err error) {
	switch cfg.Driver {
	case DriverPostgres:
		return pgxDriverName, postgresDSN(cfg), nil
	case DriverSQLite:
		return sqliteDriverName, sqliteDSN(cfg.Path), nil
	default:
		return "", "", fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

// postgresDSN builds a URL-style connection string; credentials are escaped.
func postgresDSN(cfg Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// sqliteDSN turns on the pragmas every connection needs. foreign_keys is
// per-connection in SQLite, so it has to live in the DSN.
func sqliteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

func configurePool(db *sql.DB, cfg Config) {
	if cfg.Driver == DriverSQLite {
		// SQLite is not great with many writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
