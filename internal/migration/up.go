package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not create source driver: %w", err)
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize migration: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration. A dirty schema is forced back to the
// previous version and retried once.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	err = m.Up()
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}

	var dirtyErr migrate.ErrDirty
	if !errors.As(err, &dirtyErr) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	prev, err := previousVersion(dirtyErr.Version)
	if err != nil {
		return err
	}
	logger.Warnf(ctx, "database dirty at version %d, forcing back to %d", dirtyErr.Version, prev)
	if ferr := m.Force(int(prev)); ferr != nil {
		return fmt.Errorf("failed to force to version %d: %w", prev, ferr)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed after force: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations.
func MigrateDown(db *sql.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

func previousVersion(dirtyVersion int) (uint64, error) {
	entries, readErr := migrationsFS.ReadDir("migrations")
	if readErr != nil {
		return 0, fmt.Errorf("dirty at %d but failed to read migrations directory: %w", dirtyVersion, readErr)
	}

	// filename format: <version>_<description>.up.sql
	var versions []uint64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		v, parseErr := strconv.ParseUint(strings.SplitN(name, "_", 2)[0], 10, 64)
		if parseErr != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	for i, v := range versions {
		if v == uint64(dirtyVersion) && i > 0 {
			return versions[i-1], nil
		}
	}
	return 0, fmt.Errorf("could not determine previous version before %d", dirtyVersion)
}
