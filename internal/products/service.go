package products

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, input Input) (*Product, error)
	Update(ctx context.Context, id string, input Input) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo *Repository
	// Now is the clock used to derive generated ids. Defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) List(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return p, nil
}

// Create stores a product. A blank id is replaced with the current Unix time in milliseconds.
func (s *service) Create(ctx context.Context, input Input) (*Product, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	p, err := s.repo.Create(ctx, input.toProduct(id))
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product "+id+" already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*Product, error) {
	p, err := s.repo.Update(ctx, input.toProduct(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return p, nil
}

// Delete succeeds whether or not the product existed.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}
