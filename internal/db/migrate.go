package db

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mongodb"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies the JSON command migrations found in migrationsPath to
// the given database.
func RunMigrations(uri, database, migrationsPath string) error {
	if uri == "" {
		return errors.New("mongo uri for migrations must not be empty")
	}
	if migrationsPath == "" {
		return errors.New("migrations path must not be empty")
	}

	target, err := MigrationURL(uri, database)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+migrationsPath, target)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty, fix it manually", version)
	}

	return nil
}

// MigrationURL points uri at database, which the mongodb migration driver
// reads from the URL path.
func MigrationURL(uri, database string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongo uri: %w", err)
	}
	if database == "" {
		return "", errors.New("database name must not be empty")
	}
	u.Path = "/" + database
	return u.String(), nil
}
