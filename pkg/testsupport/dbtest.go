package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-padel/internal/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

var dbSeq atomic.Int64

// NewSQLiteMemoryDB opens a private shared-cache in-memory sqlite database.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", memoryDSN("testsupport"))
}

// NewBunDB returns a migrated in-memory database that is closed when t ends.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()

	db, err := storage.Open(storage.Config{
		Driver: storage.DriverSQLite,
		DSN:    memoryDSN(t.Name()),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func memoryDSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
}
