package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-nametags/internal/database/migrations"
	"ms-nametags/internal/models"
)

// DB is the SQL-backed KV; the kv_entries table holds one row per key.
type DB struct {
	Bun *bun.DB
}

// OpenSQLite opens (or creates) a SQLite database and its kv_entries table.
// The table is created from the KVEntry model; Postgres uses migrations instead.
func OpenSQLite(ctx context.Context, dsn string) (*DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite serialises writers anyway; one connection also keeps :memory: databases shared.
	sqldb.SetMaxOpenConns(1)
	return initDB(ctx, bun.NewDB(sqldb, sqlitedialect.New()))
}

// OpenPostgres connects to Postgres and applies the schema migrations.
func OpenPostgres(ctx context.Context, dsn string, maxOpen, maxIdle int, lifetime time.Duration) (*DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	sqldb.SetMaxOpenConns(maxOpen)
	sqldb.SetMaxIdleConns(maxIdle)
	sqldb.SetConnMaxLifetime(lifetime)
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := migrations.Up(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}
	return &DB{Bun: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func initDB(ctx context.Context, bunDB *bun.DB) (*DB, error) {
	d := &DB{Bun: bunDB}
	if err := d.CreateSchema(ctx); err != nil {
		bunDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) CreateSchema(ctx context.Context) error {
	_, err := d.Bun.NewCreateTable().
		Model((*models.KVEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return nil
}

func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := d.Bun.NewSelect().
		Model(&entry).
		Where("name = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (d *DB) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := d.Bun.NewInsert().
		Model(&entry).
		On("CONFLICT (name) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (d *DB) Close() error {
	return d.Bun.Close()
}
