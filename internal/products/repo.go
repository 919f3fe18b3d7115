package products

import (
	"context"

	"github.com/educateagirl/storefront-api/pkg/db"
	"gorm.io/gorm"
)

const productColumns = "id, name, price, offer_price, category, rating, reviews, description, material, dimensions, origin, impact, details, story, images, stock"

// Repository encapsulates product persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a product repository bound to the provided querier.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns every product ordered by name, then id.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	var rows []Product
	if err := r.db.QueryMany(ctx, &rows, `SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC`); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID returns gorm.ErrRecordNotFound when the product does not exist.
func (r *Repository) FindByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	found, err := r.db.QueryOne(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p Product) (*Product, error) {
	var created Product
	_, err := r.db.QueryOne(ctx, &created, `
INSERT INTO products (`+productColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING `+productColumns,
		p.ID, p.Name, p.Price, p.OfferPrice, p.Category, p.Rating, p.Reviews,
		p.Description, p.Material, p.Dimensions, p.Origin, p.Impact,
		p.Details, p.Story, p.Images, p.Stock,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces every mutable column of the product identified by p.ID.
func (r *Repository) Update(ctx context.Context, p Product) (*Product, error) {
	var updated Product
	found, err := r.db.QueryOne(ctx, &updated, `
UPDATE products SET
  name = ?, price = ?, offer_price = ?, category = ?, rating = ?, reviews = ?,
  description = ?, material = ?, dimensions = ?, origin = ?, impact = ?,
  details = ?, story = ?, images = ?, stock = ?
WHERE id = ?
RETURNING `+productColumns,
		p.Name, p.Price, p.OfferPrice, p.Category, p.Rating, p.Reviews,
		p.Description, p.Material, p.Dimensions, p.Origin, p.Impact,
		p.Details, p.Story, p.Images, p.Stock,
		p.ID,
	)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Execute(ctx, `DELETE FROM products WHERE id = ?`, id)
	return err
}

// Count reports how many products exist.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if _, err := r.db.QueryOne(ctx, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, err
	}
	return count, nil
}
