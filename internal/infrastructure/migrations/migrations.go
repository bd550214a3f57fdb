// Package migrations applies the run-history schema to a SQLite database.
//
// golang-migrate's own sqlite3 driver imports github.com/mattn/go-sqlite3,
// which registers the "sqlite3" driver name and collides with the CGO-free
// ncruces driver bbh uses. ncruces_driver.go provides a database.Driver that
// works on any *sql.DB instead.
//
//	db, _ := sql.Open("sqlite3", "file:history.db")
//	err := migrations.RunMigrations(db)
package migrations

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var embeddedMigrationsFS embed.FS

// RunMigrations applies every pending migration. An already up-to-date
// database is not an error.
func RunMigrations(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// CurrentVersion returns the applied schema version and whether the last
// migration left the database dirty. A fresh database reports version 0.
func CurrentVersion(db *sql.DB) (uint, bool, error) {
	m, err := newMigrate(db)
	if err != nil {
		return 0, false, err
	}
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(embeddedMigrationsFS, ".")
	if err != nil {
		return nil, err
	}
	driver, err := WithInstance(db, &Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", source, "sqlite3", driver)
}
