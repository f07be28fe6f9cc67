// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"

	"github.com/codr1/Courtbook/internal/config"
	dbgen "github.com/codr1/Courtbook/internal/db/generated"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DriverName is go-sqlite3 with a Unicode fold(text) SQL function registered
// on every connection. SQLite's LOWER only folds ASCII.
const DriverName = "sqlite3_fold"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", foldText, true)
		},
	})
}

func foldText(s string) string {
	return cases.Fold().String(s)
}

type DB struct {
	*sql.DB
	Queries *dbgen.Queries
}

// New opens a SQLite database for the given data source name, ensures the DSN
// enables foreign keys and immediate write transactions, applies embedded
// migrations, and returns a DB with generated queries bound to the connection.
func New(dataSourceName string) (*DB, error) {
	return open(sqliteDSN(dataSourceName, 0))
}

// NewFromConfig creates the directory for the configured database file, then
// opens it like New with the configured busy timeout.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	if cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Filename), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}
	return open(sqliteDSN(cfg.Database.Filename, cfg.Database.BusyTimeout))
}

func open(dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open(DriverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Run migrations
	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:      sqlDB,
		Queries: dbgen.New(sqlDB),
	}, nil
}

// sqliteDSN adds the go-sqlite3 parameters the booking engine relies on:
// `_fk=1`, `_txlock=immediate` so BEGIN takes the write lock, and
// `_busy_timeout` in milliseconds. Parameters already present are kept.
func sqliteDSN(dataSourceName string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	params := url.Values{}
	if !strings.Contains(dataSourceName, "_fk=") {
		params.Set("_fk", "1")
	}
	if !strings.Contains(dataSourceName, "_txlock=") {
		params.Set("_txlock", "immediate")
	}
	if !strings.Contains(dataSourceName, "_timeout=") {
		params.Set("_busy_timeout", fmt.Sprint(busyTimeout.Milliseconds()))
	}
	if len(params) == 0 {
		return dataSourceName
	}
	if strings.Contains(dataSourceName, "?") {
		return dataSourceName + "&" + params.Encode()
	}
	return dataSourceName + "?" + params.Encode()
}

// NewMigrator builds a golang-migrate instance over the embedded migrations.
// Closing it closes db.
func NewMigrator(db *sql.DB) (*migrate.Migrate, error) {
	// Create migrate instance
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migrate driver: %w", err)
	}

	// Create source instance
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs", source,
		"sqlite3", driver,
	)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// runMigrations applies the embedded SQL migrations from migrationsFS to the provided database.
// A "no change" result is not treated as an error.
func runMigrations(db *sql.DB) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}

	// Run migrations
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// WithTx creates a new DB instance with the given transaction
func (db *DB) WithTx(tx *sql.Tx) *DB {
	return &DB{
		DB:      db.DB,
		Queries: dbgen.New(tx),
	}
}

// BeginTx starts a transaction
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	return tx, nil
}

// RunInTx runs the given function in a transaction
func (db *DB) RunInTx(ctx context.Context, fn func(*DB) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txDB := db.WithTx(tx)
	if err := fn(txDB); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	return nil
}

// IsBusy reports whether err is SQLite refusing a lock within the busy timeout.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
