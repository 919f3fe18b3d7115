package gallery

import (
	"context"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
)

type Item struct {
	ID      int64  `json:"id" gorm:"column:id"`
	URL     string `json:"url" gorm:"column:url"`
	Caption string `json:"caption" gorm:"column:caption"`
}

type Input struct {
	URL     string `json:"url" validate:"required"`
	Caption string `json:"caption"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns the newest items first.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	var rows []Item
	if err := r.db.QueryMany(ctx, &rows, `SELECT id, url, caption FROM gallery ORDER BY id DESC`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (*Item, error) {
	var item Item
	if _, err := r.db.QueryOne(ctx, &item, `INSERT INTO gallery (url, caption) VALUES (?, ?) RETURNING id, url, caption`, in.URL, in.Caption); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM gallery WHERE id = ?`, id)
	return err
}

type Service interface {
	List(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, in Input) (*Item, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gallery repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Item, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list gallery")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Item, error) {
	item, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create gallery item")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete gallery item")
	}
	return nil
}
