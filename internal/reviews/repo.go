package reviews

import (
	"context"

	"github.com/educateagirl/storefront-api/pkg/db"
	"github.com/educateagirl/storefront-api/pkg/types"
	"gorm.io/gorm"
)

const reviewColumns = "id, product_id, rating, comment, author, status, date"

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// ListByStatus returns reviews newest first. An empty productID matches every product.
func (r *Repository) ListByStatus(ctx context.Context, productID string, status Status) ([]Review, error) {
	var rows []Review
	var err error
	if productID == "" {
		err = r.db.QueryMany(ctx, &rows,
			`SELECT `+reviewColumns+` FROM reviews WHERE status = ? ORDER BY date DESC, id DESC`, status)
	} else {
		err = r.db.QueryMany(ctx, &rows,
			`SELECT `+reviewColumns+` FROM reviews WHERE product_id = ? AND status = ? ORDER BY date DESC, id DESC`, productID, status)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input, at types.Timestamp) (*Review, error) {
	var rv Review
	_, err := r.db.QueryOne(ctx, &rv,
		`INSERT INTO reviews (product_id, rating, comment, author, status, date) VALUES (?, ?, ?, ?, ?, ?) RETURNING `+reviewColumns,
		in.ProductID, in.rating(), in.Comment, in.AuthorName(), StatusPending, at,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// SetStatus returns gorm.ErrRecordNotFound when no review has the id.
func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) (*Review, error) {
	var rv Review
	found, err := r.db.QueryOne(ctx, &rv, `UPDATE reviews SET status = ? WHERE id = ? RETURNING `+reviewColumns, status, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &rv, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}
