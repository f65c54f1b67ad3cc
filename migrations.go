package padel

import (
	"context"

	"github.com/goliatone/go-padel/internal/storage"
	"github.com/uptrace/bun"
)

// Migrate creates the catalog and translation tables and their unique
// indexes on db. It is idempotent.
func Migrate(ctx context.Context, db *bun.DB) error {
	return storage.Migrate(ctx, db)
}

// Migrate runs the schema migration against the module database. It is a
// no-op for in-memory storage.
func (m *Module) Migrate(ctx context.Context) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	db := m.container.DB()
	if db == nil {
		return nil
	}
	return storage.Migrate(ctx, db)
}
