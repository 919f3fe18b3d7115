package messages

import (
	"context"
	"errors"
	"time"

	"github.com/educateagirl/storefront-api/pkg/db"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/types"
	"gorm.io/gorm"
)

const messageColumns = "id, name, email, message, date, read"

// Message is a contact-form submission.
type Message struct {
	ID      int64           `json:"id" gorm:"column:id"`
	Name    string          `json:"name" gorm:"column:name"`
	Email   string          `json:"email" gorm:"column:email"`
	Message string          `json:"message" gorm:"column:message"`
	Date    types.Timestamp `json:"date" gorm:"column:date"`
	Read    bool            `json:"read" gorm:"column:read"`
}

type Input struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

type Repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func (r *Repository) List(ctx context.Context) ([]Message, error) {
	var rows []Message
	if err := r.db.QueryMany(ctx, &rows, `SELECT `+messageColumns+` FROM messages ORDER BY date DESC, id DESC`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, in Input, at types.Timestamp) (*Message, error) {
	var m Message
	_, err := r.db.QueryOne(ctx, &m,
		`INSERT INTO messages (name, email, message, date, read) VALUES (?, ?, ?, ?, ?) RETURNING `+messageColumns,
		in.Name, in.Email, in.Message, at, false,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SetRead returns gorm.ErrRecordNotFound when no message has the id.
func (r *Repository) SetRead(ctx context.Context, id int64, read bool) (*Message, error) {
	var m Message
	found, err := r.db.QueryOne(ctx, &m, `UPDATE messages SET read = ? WHERE id = ? RETURNING `+messageColumns, read, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `DELETE FROM messages WHERE id = ?`, id)
	return err
}

type Service interface {
	List(ctx context.Context) ([]Message, error)
	Create(ctx context.Context, in Input) (*Message, error)
	MarkRead(ctx context.Context, id int64) (*Message, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds the inbox service. A nil clock defaults to time.Now.
func NewService(repo *Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message repo is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) List(ctx context.Context) ([]Message, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list messages")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, in Input) (*Message, error) {
	msg, err := s.repo.Create(ctx, in, types.NewTimestamp(s.now()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create message")
	}
	return msg, nil
}

func (s *service) MarkRead(ctx context.Context, id int64) (*Message, error) {
	msg, err := s.repo.SetRead(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Message not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark message read")
	}
	return msg, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete message")
	}
	return nil
}
