// Package wishlist stores per-session saved products for anonymous visitors.
package wishlist

import (
	"context"
	"strings"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/types"
	"gorm.io/datatypes"
)

type Entry struct {
	ID        int64  `json:"id" gorm:"column:id"`
	SessionID string `json:"session_id" gorm:"column:session_id"`
	ProductID string `json:"product_id" gorm:"column:product_id"`
}

// Item is a wishlist entry joined with the product it points at.
type Item struct {
	ID          int64          `json:"id" gorm:"column:id"`
	ProductID   string         `json:"product_id" gorm:"column:product_id"`
	Name        string         `json:"name" gorm:"column:name"`
	Price       types.Money    `json:"price" gorm:"column:price"`
	Description string         `json:"description" gorm:"column:description"`
	Images      datatypes.JSON `json:"images" gorm:"column:images"`
	Stock       int            `json:"stock" gorm:"column:stock"`
	Category    string         `json:"category" gorm:"column:category"`
}

type Input struct {
	SessionID string `json:"session_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]Item, error) {
	var rows []Item
	err := r.db.QueryMany(ctx, &rows, `
SELECT w.id, w.product_id, p.name, p.price, p.description, p.images, p.stock, p.category
FROM wishlist w
JOIN products p ON w.product_id = p.id
WHERE w.session_id = ?
ORDER BY w.id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert adds the pair unless it already exists. The bool is false when the
// row was already present, in which case no entry is returned.
func (r *Repository) Insert(ctx context.Context, sessionID, productID string) (*Entry, bool, error) {
	var e Entry
	inserted, err := r.db.QueryOne(ctx, &e, `
INSERT INTO wishlist (session_id, product_id) VALUES (?, ?)
ON CONFLICT (session_id, product_id) DO NOTHING
RETURNING id, session_id, product_id`, sessionID, productID)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		return nil, false, nil
	}
	return &e, true, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM wishlist WHERE id = ?`, id)
	return err
}

type Service interface {
	List(ctx context.Context, sessionID string) ([]Item, error)
	// Add is insert-or-ignore. A nil entry means the pair was already saved.
	Add(ctx context.Context, in Input) (*Entry, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]Item, error) {
	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist")
	}
	return rows, nil
}

func (s *service) Add(ctx context.Context, in Input) (*Entry, error) {
	if strings.TrimSpace(in.SessionID) == "" || strings.TrimSpace(in.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id and product_id are required")
	}
	entry, _, err := s.repo.Insert(ctx, in.SessionID, in.ProductID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist entry")
	}
	return entry, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wishlist entry")
	}
	return nil
}
