package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/educateagirl/storefront-api/pkg/config"
	"gorm.io/driver/sqlite"
)

var testNameRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

type widget struct {
	ID   int64  `gorm:"column:id"`
	Name string `gorm:"column:name"`
}

func newTestClient(t *testing.T, cfg config.DBConfig) *Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", testNameRe.ReplaceAllString(t.Name(), "_"))
	client, err := Open(context.Background(), sqlite.Open(dsn), cfg, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().Exec(`CREATE TABLE widgets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`).Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return client
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := newTestClient(t, config.DBConfig{})
	ctx := context.Background()

	if err := client.WithTx(ctx, func(tx *Client) error {
		_, err := tx.Execute(ctx, "INSERT INTO widgets (name) VALUES (?)", "committed")
		return err
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	err := client.WithTx(ctx, func(tx *Client) error {
		if _, err := tx.Execute(ctx, "INSERT INTO widgets (name) VALUES (?)", "rolled"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}

	var count int64
	if _, err := client.QueryOne(ctx, &count, "SELECT COUNT(*) FROM widgets"); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, config.DBConfig{})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Dialect() != "sqlite" {
		t.Fatalf("unexpected dialect %q", client.Dialect())
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing DSN error")
	}
}

func TestErrorClassifiers(t *testing.T) {
	if !IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "products_pkey"`), "") {
		t.Fatal("expected postgres unique violation")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: products.id"), "") {
		t.Fatal("expected sqlite unique violation")
	}
	if !IsUniqueViolation(errors.New(`violates unique constraint "products_pkey"`), "products_pkey") {
		t.Fatal("expected named constraint match")
	}
	if IsUniqueViolation(nil, "") || IsUniqueViolation(errors.New("boom"), "") {
		t.Fatal("unexpected unique violation match")
	}
	if !IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")) {
		t.Fatal("expected sqlite fk violation")
	}
	if !IsForeignKeyViolation(errors.New(`insert or update on table "reviews" violates foreign key constraint "reviews_product_id_fkey"`)) {
		t.Fatal("expected postgres fk violation")
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	client := newTestClient(t, config.DBConfig{})
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(ctx, func(tx *Client) error {
			if _, err := tx.Execute(ctx, "INSERT INTO widgets (name) VALUES (?)", "doomed"); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	var count int64
	if _, err := client.QueryOne(ctx, &count, "SELECT COUNT(*) FROM widgets"); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected panic to roll back, got %d rows", count)
	}
}
