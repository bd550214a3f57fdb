package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// DefaultMigrationsTable tracks the applied schema version.
const DefaultMigrationsTable = "schema_migrations"

// ErrNilConfig indicates WithInstance was called without a config.
var ErrNilConfig = errors.New("no config")

// Config holds configuration for the migration driver.
type Config struct {
	MigrationsTable string
	NoTxWrap        bool // run each migration outside a transaction
}

// Driver is a golang-migrate database.Driver over a pre-opened *sql.DB.
// Locking is in-process only; bbh never migrates from two processes at once
// against the same file without SQLite's own busy handling.
type Driver struct {
	db     *sql.DB
	cfg    Config
	locked atomic.Bool
}

// WithInstance wraps db and makes sure the version table exists.
func WithInstance(db *sql.DB, cfg *Config) (database.Driver, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	d := &Driver{db: db, cfg: *cfg}
	if d.cfg.MigrationsTable == "" {
		d.cfg.MigrationsTable = DefaultMigrationsTable
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (version uint64, dirty bool);
CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_version_unique ON %[1]s (version);`, d.cfg.MigrationsTable)
	if _, err := db.Exec(stmt); err != nil {
		return nil, fmt.Errorf("creating %s: %w", d.cfg.MigrationsTable, err)
	}
	return d, nil
}

// Open is unsupported; use WithInstance.
func (d *Driver) Open(string) (database.Driver, error) {
	return nil, errors.New("migrations: Open not supported, use WithInstance")
}

// Close closes the underlying connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Lock takes the in-process migration lock.
func (d *Driver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

// Unlock releases the in-process migration lock.
func (d *Driver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file.
func (d *Driver) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	if d.cfg.NoTxWrap {
		if _, err := d.db.Exec(string(body)); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(body)); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	})
}

// SetVersion records version as the current schema version.
func (d *Driver) SetVersion(version int, dirty bool) error {
	return d.inTx(func(tx *sql.Tx) error {
		del := "DELETE FROM " + d.cfg.MigrationsTable //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(del); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(del)}
		}
		// A dirty NilVersion must still be written so a failed first
		// migration is detectable (golang-migrate issue #330).
		if version < 0 && !(version == database.NilVersion && dirty) {
			return nil
		}
		ins := "INSERT INTO " + d.cfg.MigrationsTable + " (version, dirty) VALUES (?, ?)" //nolint:gosec // table name comes from Config
		if _, err := tx.Exec(ins, version, dirty); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(ins)}
		}
		return nil
	})
}

// Version returns the recorded schema version, or NilVersion if none.
func (d *Driver) Version() (int, bool, error) {
	var version int
	var dirty bool
	q := "SELECT version, dirty FROM " + d.cfg.MigrationsTable + " LIMIT 1" //nolint:gosec // table name comes from Config
	if err := d.db.QueryRow(q).Scan(&version, &dirty); err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every table.
func (d *Driver) Drop() error {
	rows, err := d.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return err
	}

	for _, name := range tables {
		stmt := "DROP TABLE " + name
		if _, err := d.db.Exec(stmt); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(stmt)}
		}
	}
	if len(tables) > 0 {
		if _, err := d.db.Exec("VACUUM"); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}
