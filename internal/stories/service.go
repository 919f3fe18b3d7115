package stories

import (
	"context"
	"errors"

	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context) ([]Story, error)
	Create(ctx context.Context, in Input) (*Story, error)
	Update(ctx context.Context, id int64, in Input) (*Story, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "story repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Story, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stories")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Story, error) {
	story, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create story")
	}
	return story, nil
}

func (s *service) Update(ctx context.Context, id int64, in Input) (*Story, error) {
	story, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Story not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update story")
	}
	return story, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete story")
	}
	return nil
}
