package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/types"
	"gorm.io/gorm"
)

// Service covers public review submission and moderation.
type Service interface {
	// ListApproved returns the reviews visible on a product page.
	ListApproved(ctx context.Context, productID string) ([]Review, error)
	// ListPending returns the moderation queue across all products.
	ListPending(ctx context.Context) ([]Review, error)
	Create(ctx context.Context, in Input) (*Review, error)
	Approve(ctx context.Context, id int64) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

type ServiceParams struct {
	Repo *Repository
	Now  func() time.Time
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) ListApproved(ctx context.Context, productID string) ([]Review, error) {
	rows, err := s.repo.ListByStatus(ctx, productID, StatusApproved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product reviews")
	}
	return rows, nil
}

func (s *service) ListPending(ctx context.Context) ([]Review, error) {
	rows, err := s.repo.ListByStatus(ctx, "", StatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending reviews")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Review, error) {
	review, err := s.repo.Create(ctx, in, types.NewTimestamp(s.now()))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	return review, nil
}

func (s *service) Approve(ctx context.Context, id int64) (*Review, error) {
	review, err := s.repo.SetStatus(ctx, id, StatusApproved)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approve review")
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
	}
	return nil
}
