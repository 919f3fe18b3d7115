package journey

import (
	"context"

	"github.com/educateagirl/storefront-api/pkg/db"
	"gorm.io/gorm"
)

// Entry is one milestone on the organisation timeline.
type Entry struct {
	ID          int64  `json:"id" gorm:"column:id"`
	Year        string `json:"year" gorm:"column:year"`
	Title       string `json:"title" gorm:"column:title"`
	Description string `json:"description" gorm:"column:description"`
}

type Input struct {
	Year        string `json:"year" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns the timeline in chronological order.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	var rows []Entry
	if err := r.db.QueryMany(ctx, &rows, `SELECT id, year, title, description FROM journey ORDER BY year ASC, id ASC`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (*Entry, error) {
	var e Entry
	_, err := r.db.QueryOne(ctx, &e,
		`INSERT INTO journey (year, title, description) VALUES (?, ?, ?) RETURNING id, year, title, description`,
		in.Year, in.Title, in.Description,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in Input) (*Entry, error) {
	var e Entry
	found, err := r.db.QueryOne(ctx, &e,
		`UPDATE journey SET year = ?, title = ?, description = ? WHERE id = ? RETURNING id, year, title, description`,
		in.Year, in.Title, in.Description, id,
	)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM journey WHERE id = ?`, id)
	return err
}
