package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/fairyhunter13/item-registry-service/internal/model"
	"github.com/fairyhunter13/item-registry-service/internal/obs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite stores items in a private in-memory SQLite database.
// The pool is pinned to one connection: the database lives only as long as it.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database and applies the embedded migrations.
func OpenSQLite(ctx context.Context) (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// RunMigrations applies every pending migration from the embedded set.
func RunMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	// m.Close would also close db, so only the source is released here.
	defer src.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	v, _, _ := m.Version()
	obs.Logger.Debug("store_migrated", "backend", BackendSQLite, "version", v)
	return nil
}

func (s *SQLite) Insert(ctx context.Context, it model.Item) error {
	var desc sql.NullString
	if it.Description != nil {
		desc = sql.NullString{String: *it.Description, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, name, description, price, quantity, total) VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.Name, desc, it.Price, it.Quantity, it.Total,
	)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return fmt.Errorf("insert item %d: %w", it.ID, ErrDuplicateID)
		}
		return fmt.Errorf("insert item %d: %w", it.ID, err)
	}
	return nil
}

func (s *SQLite) Lookup(ctx context.Context, id int64) (model.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, quantity, total FROM items WHERE id = ?`, id,
	)
	var (
		it   model.Item
		desc sql.NullString
	)
	if err := row.Scan(&it.ID, &it.Name, &desc, &it.Price, &it.Quantity, &it.Total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("lookup item %d: %w", id, err)
	}
	if desc.Valid {
		d := desc.String
		it.Description = &d
	}
	return it, nil
}

// Close releases the database; its contents are discarded.
func (s *SQLite) Close() error {
	return s.db.Close()
}
