package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver the bloglist app runs on.
const DriverName = "sqlite3"

// Open connects to the SQLite database at dsn, enables foreign keys and
// applies the schema. SQLite serialises writers, so the pool is pinned to a
// single connection; this also keeps shared in-memory databases alive.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", DriverName, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", DriverName, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// MemoryDSN returns a DSN for a private shared-cache in-memory database.
// An empty name picks a random one.
func MemoryDSN(name string) string {
	if name == "" {
		name = uuid.NewString()
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}
