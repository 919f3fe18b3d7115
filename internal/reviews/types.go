package reviews

import (
	"strings"

	"github.com/educateagirl/storefront-api/pkg/types"
)

// Status is the moderation state of a review. Transitions only go from pending to approved.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

const DefaultRating = 5

type Review struct {
	ID        int64           `json:"id" gorm:"column:id"`
	ProductID string          `json:"product_id" gorm:"column:product_id"`
	Rating    int             `json:"rating" gorm:"column:rating"`
	Comment   string          `json:"comment" gorm:"column:comment"`
	Author    string          `json:"author" gorm:"column:author"`
	Status    Status          `json:"status" gorm:"column:status"`
	Date      types.Timestamp `json:"date" gorm:"column:date"`
}

// Input is the public review submission. Status is accepted for compatibility but never honoured.
type Input struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment   string `json:"comment"`
	Author    string `json:"author"`
	UserName  string `json:"user_name"`
	Status    string `json:"status"`
}

// AuthorName prefers user_name over author when both are supplied.
func (in Input) AuthorName() string {
	if name := strings.TrimSpace(in.UserName); name != "" {
		return in.UserName
	}
	return in.Author
}

func (in Input) rating() int {
	if in.Rating == nil {
		return DefaultRating
	}
	return *in.Rating
}
