package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds the MariaDB connection settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MultiStatements bool
}

// Database holds the SQL connection pool.
type Database struct {
	*sql.DB
}

// New creates, configures, and verifies a MariaDB connection pool.
// It returns an error if the DSN is invalid or pinging the database fails.
func New(cfg Config) (*Database, error) {
	dsn, err := normaliseDSN(cfg.DSN, cfg.MultiStatements)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		if cErr := db.Close(); cErr != nil {
			return nil, cErr
		}
		return nil, err
	}
	return &Database{db}, nil
}

// normaliseDSN forces parseTime so DATETIME columns scan into time.Time, and stores times in UTC.
func normaliseDSN(dsn string, multiStatements bool) (string, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	parsed.ParseTime = true
	parsed.Loc = time.UTC
	if multiStatements {
		parsed.MultiStatements = true
	}
	return parsed.FormatDSN(), nil
}
