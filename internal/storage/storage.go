// Package storage opens the bun database handle and creates the schema.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-padel/internal/catalog"
	"github.com/goliatone/go-padel/internal/translations"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrDriverUnsupported = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Config captures how the database handle is opened.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	Debug        bool
}

// Open connects to the configured database and wraps it with the matching bun
// dialect.
func Open(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var db *bun.DB
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverSQLite, "sqlite3", "":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
		// sqlite serializes writers; a single connection also keeps
		// in-memory databases alive across queries.
		db.SetMaxOpenConns(1)
	case DriverPostgres, "pg", "pgx":
		sqlDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}

// Models lists every table managed by Migrate.
func Models() []any {
	return append(catalog.Models(), (*translations.ContentTranslation)(nil))
}

type index struct {
	model   any
	name    string
	columns []string
	unique  bool
}

var indexes = []index{
	{(*catalog.Brand)(nil), "brands_slug_uidx", []string{"slug"}, true},
	{(*catalog.Author)(nil), "authors_slug_uidx", []string{"slug"}, true},
	{(*catalog.Racket)(nil), "rackets_slug_uidx", []string{"slug"}, true},
	{(*catalog.Racket)(nil), "rackets_brand_idx", []string{"brand_id"}, false},
	{(*catalog.Guide)(nil), "guides_slug_uidx", []string{"slug"}, true},
	{(*catalog.BlogPost)(nil), "blog_posts_slug_uidx", []string{"slug"}, true},
	{(*translations.ContentTranslation)(nil), "content_translations_entity_locale_uidx", []string{"entity_type", "entity_id", "locale"}, true},
	{(*translations.ContentTranslation)(nil), "content_translations_type_locale_idx", []string{"entity_type", "locale"}, false},
}

// Migrate creates missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
