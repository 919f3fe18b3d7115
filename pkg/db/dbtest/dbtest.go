// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/educateagirl/storefront-api/pkg/config"
	"github.com/educateagirl/storefront-api/pkg/db"
	"github.com/educateagirl/storefront-api/pkg/migrate"
	"gorm.io/driver/sqlite"
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// New returns a client over a private in-memory database with every migration applied.
func New(t testing.TB) *db.Client {
	t.Helper()
	return NewWithConfig(t, config.DBConfig{Driver: config.DBDriverSQLite})
}

// NewWithConfig is New with explicit pool settings.
func NewWithConfig(t testing.TB, cfg config.DBConfig) *db.Client {
	t.Helper()

	cfg.Driver = config.DBDriverSQLite
	cfg.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", unsafeNameRe.ReplaceAllString(t.Name(), "_"))

	ctx := context.Background()
	client, err := db.Open(ctx, sqlite.Open(cfg.DSN), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Run(ctx, sqlDB, cfg.Driver, "", "up"); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}
