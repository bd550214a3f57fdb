package migrations

import (
	"database/sql"
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err, "ncruces driver should open :memory: database")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestRunMigrations_FreshDB verifies all migrations apply to an empty :memory: database.
func TestRunMigrations_FreshDB(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, RunMigrations(db), "RunMigrations should succeed on fresh database")

	var tableName string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='runs'`).Scan(&tableName)
	require.NoError(t, err, "runs table should exist")
	require.Equal(t, "runs", tableName)

	v, dirty, err := CurrentVersion(db)
	require.NoError(t, err)
	require.Equal(t, uint(1), v)
	require.False(t, dirty)
}

// TestRunMigrations_Idempotent verifies calling RunMigrations twice doesn't error.
func TestRunMigrations_Idempotent(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, RunMigrations(db), "first migration run should succeed")
	require.NoError(t, RunMigrations(db), "second migration run should not error")
}

// TestMigrations_Schema verifies the runs table has the expected columns.
func TestMigrations_Schema(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	rows, err := db.Query(`PRAGMA table_info(runs)`)
	require.NoError(t, err)
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull, pk int
		var dflt any
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk))
		columns[name] = true
	}
	require.NoError(t, rows.Err())

	for _, col := range []string{"id", "guid", "org_a", "org_b", "fasta_a", "fasta_b", "out_dir", "status", "pairs", "error", "started_at", "finished_at"} {
		require.True(t, columns[col], "runs should have column %s", col)
	}
}

func TestMigrations_StatusCheckConstraint(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	_, err := db.Exec(`INSERT INTO runs (guid, org_a, org_b, fasta_a, fasta_b, out_dir, status, started_at)
		VALUES ('g', 'a', 'b', 'a.faa', 'b.faa', 'out', 'exploded', 0)`)
	require.Error(t, err)
}

func TestCurrentVersion_FreshDB(t *testing.T) {
	db := openMemory(t)

	v, dirty, err := CurrentVersion(db)
	require.NoError(t, err)
	require.Zero(t, v)
	require.False(t, dirty)
}

func TestDriver_LockUnlock(t *testing.T) {
	db := openMemory(t)
	d, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	require.NoError(t, d.Lock())
	require.ErrorIs(t, d.Lock(), database.ErrLocked)
	require.NoError(t, d.Unlock())
	require.ErrorIs(t, d.Unlock(), database.ErrNotLocked)
}

func TestDriver_SetVersion(t *testing.T) {
	db := openMemory(t)
	d, err := WithInstance(db, &Config{MigrationsTable: "custom_migrations"})
	require.NoError(t, err)

	v, dirty, err := d.Version()
	require.NoError(t, err)
	require.Equal(t, database.NilVersion, v)
	require.False(t, dirty)

	require.NoError(t, d.SetVersion(3, true))
	v, dirty, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, 3, v)
	require.True(t, dirty)

	require.NoError(t, d.SetVersion(database.NilVersion, false))
	v, _, err = d.Version()
	require.NoError(t, err)
	require.Equal(t, database.NilVersion, v)
}

func TestWithInstance_NilConfig(t *testing.T) {
	db := openMemory(t)
	_, err := WithInstance(db, nil)
	require.ErrorIs(t, err, ErrNilConfig)
}
