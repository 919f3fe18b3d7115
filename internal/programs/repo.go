package programs

import (
	"context"

	"github.com/educateagirl/storefront-api/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Program is an initiative card. Features is an opaque JSON list.
type Program struct {
	ID          int64          `json:"id" gorm:"column:id"`
	Title       string         `json:"title" gorm:"column:title"`
	Description string         `json:"description" gorm:"column:description"`
	Image       string         `json:"image" gorm:"column:image"`
	Features    datatypes.JSON `json:"features" gorm:"column:features"`
}

type Input struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Features    datatypes.JSON `json:"features"`
}

const programColumns = "id, title, description, image, features"

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) List(ctx context.Context) ([]Program, error) {
	var rows []Program
	if err := r.db.QueryMany(ctx, &rows, `SELECT `+programColumns+` FROM programs ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (*Program, error) {
	var p Program
	_, err := r.db.QueryOne(ctx, &p,
		`INSERT INTO programs (title, description, image, features) VALUES (?, ?, ?, ?) RETURNING `+programColumns,
		in.Title, in.Description, in.Image, in.Features,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in Input) (*Program, error) {
	var p Program
	found, err := r.db.QueryOne(ctx, &p,
		`UPDATE programs SET title = ?, description = ?, image = ?, features = ? WHERE id = ? RETURNING `+programColumns,
		in.Title, in.Description, in.Image, in.Features, id,
	)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM programs WHERE id = ?`, id)
	return err
}
