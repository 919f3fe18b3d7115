package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"gorm.io/datatypes"
)

// Setting is a keyed opaque JSON value.
type Setting struct {
	Key   string         `json:"key" gorm:"column:key"`
	Value datatypes.JSON `json:"value" gorm:"column:value"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// Find reports false when the key was never written.
func (r *Repository) Find(ctx context.Context, key string) (*Setting, bool, error) {
	var s Setting
	found, err := r.db.QueryOne(ctx, &s, `SELECT key, value FROM settings WHERE key = ?`, key)
	if err != nil || !found {
		return nil, false, err
	}
	return &s, true, nil
}

// Upsert writes value under key, replacing any previous value.
func (r *Repository) Upsert(ctx context.Context, key string, value datatypes.JSON) (*Setting, error) {
	var s Setting
	_, err := r.db.QueryOne(ctx, &s, `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
RETURNING key, value`, key, value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type Service interface {
	// Get returns the stored value, or JSON null when key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, body []byte) (*Setting, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings repo is required")
	}
	return &service{repo: repo}, nil
}

var jsonNull = json.RawMessage("null")

func (s *service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	setting, found, err := s.repo.Find(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load setting")
	}
	if !found || len(setting.Value) == 0 {
		return jsonNull, nil
	}
	return json.RawMessage(setting.Value), nil
}

// Put stores the "value" member of body, or the whole body when it has none.
func (s *service) Put(ctx context.Context, key string, body []byte) (*Setting, error) {
	if strings.TrimSpace(key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	value, err := ExtractValue(body)
	if err != nil {
		return nil, err
	}
	setting, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save setting")
	}
	return setting, nil
}

// ExtractValue unwraps {"value": X} to X. Any other JSON document is returned as-is.
func ExtractValue(body []byte) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	}
	if !json.Valid(trimmed) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request body must be valid JSON")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		if value, ok := envelope["value"]; ok {
			return datatypes.JSON(value), nil
		}
	}
	return datatypes.JSON(trimmed), nil
}
