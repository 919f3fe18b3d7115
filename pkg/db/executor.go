package db

import (
	"context"
	"reflect"
	"strings"
)

// Querier is the data-access contract shared by every repository: one
// positional statement per call, one pooled connection per statement.
type Querier interface {
	QueryMany(ctx context.Context, dest any, stmt string, args ...any) error
	QueryOne(ctx context.Context, dest any, stmt string, args ...any) (bool, error)
	Execute(ctx context.Context, stmt string, args ...any) (Result, error)
}

// Result reports the outcome of a write statement.
type Result struct {
	// GeneratedID is set when the statement carries a RETURNING id clause.
	GeneratedID *int64
	Affected    int64
}

type identityRow struct {
	ID int64 `gorm:"column:id"`
}

var _ Querier = (*Client)(nil)

// QueryMany scans every row produced by stmt into dest, a pointer to a slice.
// An empty result leaves dest as an empty, non-nil slice.
func (c *Client) QueryMany(ctx context.Context, dest any, stmt string, args ...any) error {
	if err := c.conn.WithContext(ctx).Raw(stmt, args...).Scan(dest).Error; err != nil {
		return err
	}
	ensureEmptySlice(dest)
	return nil
}

// QueryOne scans the first row produced by stmt into dest and reports whether a row existed.
func (c *Client) QueryOne(ctx context.Context, dest any, stmt string, args ...any) (bool, error) {
	tx := c.conn.WithContext(ctx).Raw(stmt, args...).Scan(dest)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Execute runs a write statement. Statements with a RETURNING clause are read
// back so the first returned id is surfaced as GeneratedID.
func (c *Client) Execute(ctx context.Context, stmt string, args ...any) (Result, error) {
	if hasReturning(stmt) {
		var rows []identityRow
		tx := c.conn.WithContext(ctx).Raw(stmt, args...).Scan(&rows)
		if tx.Error != nil {
			return Result{}, tx.Error
		}
		res := Result{Affected: int64(len(rows))}
		if len(rows) > 0 {
			id := rows[0].ID
			res.GeneratedID = &id
		}
		return res, nil
	}

	tx := c.conn.WithContext(ctx).Exec(stmt, args...)
	if tx.Error != nil {
		return Result{}, tx.Error
	}
	return Result{Affected: tx.RowsAffected}, nil
}

func hasReturning(stmt string) bool {
	for _, word := range strings.Fields(strings.ToUpper(stmt)) {
		if word == "RETURNING" {
			return true
		}
	}
	return false
}

func ensureEmptySlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	elem := v.Elem()
	if elem.Kind() == reflect.Slice && elem.IsNil() {
		elem.Set(reflect.MakeSlice(elem.Type(), 0, 0))
	}
}
