package journey

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, in Input) (*Entry, error)
	Update(ctx context.Context, id int64, in Input) (*Entry, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "journey repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list journey")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Entry, error) {
	e, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create journey entry")
	}
	return e, nil
}

func (s *service) Update(ctx context.Context, id int64, in Input) (*Entry, error) {
	e, err := s.repo.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Journey entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update journey entry")
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete journey entry")
	}
	return nil
}

// UnmarshalJSON accepts the year as either a string or a number.
func (in *Input) UnmarshalJSON(b []byte) error {
	type alias Input
	var raw struct {
		alias
		Year json.RawMessage `json:"year"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*in = Input(raw.alias)

	year := strings.TrimSpace(string(raw.Year))
	if year == "" || year == "null" {
		in.Year = ""
		return nil
	}
	if strings.HasPrefix(year, `"`) {
		return json.Unmarshal(raw.Year, &in.Year)
	}
	if _, err := strconv.ParseFloat(year, 64); err != nil {
		return errors.New("year must be a string or a number")
	}
	in.Year = year
	return nil
}
