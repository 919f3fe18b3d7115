package orders

import (
	"bytes"
	"context"
	"errors"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const orderColumns = "id, items, total, customer_info, created_at"

// Order is an immutable purchase record. Items and CustomerInfo are opaque JSON.
type Order struct {
	ID           int64           `json:"id" gorm:"column:id"`
	Items        datatypes.JSON  `json:"items" gorm:"column:items"`
	Total        types.Money     `json:"total" gorm:"column:total"`
	CustomerInfo datatypes.JSON  `json:"customer_info" gorm:"column:customer_info"`
	CreatedAt    types.Timestamp `json:"created_at" gorm:"column:created_at"`
}

type Input struct {
	Items              datatypes.JSON `json:"items"`
	Total              types.Money    `json:"total"`
	CustomerInfo       datatypes.JSON `json:"customerInfo"`
	CustomerInfoLegacy datatypes.JSON `json:"customer_info"`
}

// customerInfo prefers customerInfo over customer_info.
func (in Input) customerInfo() datatypes.JSON {
	if isPresent(in.CustomerInfo) {
		return in.CustomerInfo
	}
	if isPresent(in.CustomerInfoLegacy) {
		return in.CustomerInfoLegacy
	}
	return nil
}

func isPresent(raw datatypes.JSON) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) Create(ctx context.Context, in Input) (*Order, error) {
	var o Order
	_, err := r.db.QueryOne(ctx, &o,
		`INSERT INTO orders (items, total, customer_info) VALUES (?, ?, ?) RETURNING `+orderColumns,
		in.Items, in.Total, in.customerInfo(),
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	found, err := r.db.QueryOne(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &o, nil
}

// Service records orders. There is deliberately no update operation.
type Service interface {
	Create(ctx context.Context, in Input) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Order, error) {
	if !isPresent(in.Items) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items is required")
	}
	if in.Total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total must not be negative")
	}
	order, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}
