// Package migrations embeds the relation store schema for both backends and
// applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Run applies every migration of dialect in the given direction. dsn is a
// lib/pq connection string for Postgres or a file path for SQLite. Running
// with nothing left to apply is not an error.
func Run(dialect Dialect, dsn string, dir Direction) error {
	m, closeDB, err := open(dialect, dsn)
	if err != nil {
		return err
	}
	defer closeDB()

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Debug("[Migrations] Schema already up to date", "dialect", dialect)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s %s: %w", dialect, dir, err)
	}

	version, dirty, _ := m.Version()
	logger.Info("[Migrations] Schema migrated", "dialect", dialect, "direction", dir, "version", version, "dirty", dirty)
	return nil
}

// RunSQLite applies all up migrations on an already open SQLite handle.
func RunSQLite(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migration driver: %w", err)
	}
	m, err := newMigrate(SQLite, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate sqlite up: %w", err)
	}
	return nil
}

func open(dialect Dialect, dsn string) (*migrate.Migrate, func(), error) {
	var (
		db     *sql.DB
		driver database.Driver
		err    error
	)
	switch dialect {
	case Postgres:
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, nil, err
		}
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case SQLite:
		db, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, nil, err
		}
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, nil, fmt.Errorf("unknown dialect %q", dialect)
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%s migration driver: %w", dialect, err)
	}

	m, err := newMigrate(dialect, driver)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() { _ = db.Close() }, nil
}

func newMigrate(dialect Dialect, driver database.Driver) (*migrate.Migrate, error) {
	src, err := iofs.New(files, string(dialect))
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", dialect, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		return nil, fmt.Errorf("init %s migrations: %w", dialect, err)
	}
	return m, nil
}
