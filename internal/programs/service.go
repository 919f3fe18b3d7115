package programs

import (
	"context"
	"errors"

	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context) ([]Program, error)
	Create(ctx context.Context, in Input) (*Program, error)
	Update(ctx context.Context, id int64, in Input) (*Program, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "program repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Program, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list programs")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Program, error) {
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create program")
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id int64, in Input) (*Program, error) {
	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Program not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update program")
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete program")
	}
	return nil
}
