package team

import (
	"context"
	"errors"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"gorm.io/gorm"
)

type Member struct {
	ID    int64  `json:"id" gorm:"column:id"`
	Name  string `json:"name" gorm:"column:name"`
	Role  string `json:"role" gorm:"column:role"`
	Image string `json:"image" gorm:"column:image"`
}

type Input struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role"`
	Image string `json:"image"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) List(ctx context.Context) ([]Member, error) {
	var rows []Member
	if err := r.db.QueryMany(ctx, &rows, `SELECT id, name, role, image FROM team ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (*Member, error) {
	var m Member
	if _, err := r.db.QueryOne(ctx, &m, `INSERT INTO team (name, role, image) VALUES (?, ?, ?) RETURNING id, name, role, image`, in.Name, in.Role, in.Image); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Update(ctx context.Context, id int64, in Input) (*Member, error) {
	var m Member
	found, err := r.db.QueryOne(ctx, &m, `UPDATE team SET name = ?, role = ?, image = ? WHERE id = ? RETURNING id, name, role, image`, in.Name, in.Role, in.Image, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM team WHERE id = ?`, id)
	return err
}

type Service interface {
	List(ctx context.Context) ([]Member, error)
	Create(ctx context.Context, in Input) (*Member, error)
	Update(ctx context.Context, id int64, in Input) (*Member, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Member, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list team")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Member, error) {
	m, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create team member")
	}
	return m, nil
}

func (s *service) Update(ctx context.Context, id int64, in Input) (*Member, error) {
	m, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Team member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update team member")
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete team member")
	}
	return nil
}
