package stories

import (
	"context"

	"github.com/educateagirl/storefront-api/pkg/db"
	"gorm.io/gorm"
)

const storyColumns = "id, name, role, image, quote, featured"

// Repository encapsulates story persistence.
type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) List(ctx context.Context) ([]Story, error) {
	var rows []Story
	if err := r.db.QueryMany(ctx, &rows, `SELECT `+storyColumns+` FROM stories ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (*Story, error) {
	var s Story
	_, err := r.db.QueryOne(ctx, &s,
		`INSERT INTO stories (name, role, image, quote, featured) VALUES (?, ?, ?, ?, ?) RETURNING `+storyColumns,
		in.Name, in.Role, in.Image, in.Quote, in.Featured,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update returns gorm.ErrRecordNotFound when no story has the id.
func (r *Repository) Update(ctx context.Context, id int64, in Input) (*Story, error) {
	var s Story
	found, err := r.db.QueryOne(ctx, &s,
		`UPDATE stories SET name = ?, role = ?, image = ?, quote = ?, featured = ? WHERE id = ? RETURNING `+storyColumns,
		in.Name, in.Role, in.Image, in.Quote, in.Featured, id,
	)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM stories WHERE id = ?`, id)
	return err
}
