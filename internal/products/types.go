package products

import (
	"github.com/educateagirl/storefront-api/pkg/types"
	"gorm.io/datatypes"
)

const (
	DefaultRating  = 5.0
	DefaultReviews = 0
	DefaultStock   = 0
)

// Product is a catalog entry. Details, Story and Images are stored as opaque JSON.
type Product struct {
	ID          string         `json:"id" gorm:"column:id"`
	Name        string         `json:"name" gorm:"column:name"`
	Price       types.Money    `json:"price" gorm:"column:price"`
	OfferPrice  *types.Money   `json:"offer_price" gorm:"column:offer_price"`
	Category    string         `json:"category" gorm:"column:category"`
	Rating      float64        `json:"rating" gorm:"column:rating"`
	Reviews     int            `json:"reviews" gorm:"column:reviews"`
	Description string         `json:"description" gorm:"column:description"`
	Material    string         `json:"material" gorm:"column:material"`
	Dimensions  string         `json:"dimensions" gorm:"column:dimensions"`
	Origin      string         `json:"origin" gorm:"column:origin"`
	Impact      string         `json:"impact" gorm:"column:impact"`
	Details     datatypes.JSON `json:"details" gorm:"column:details"`
	Story       datatypes.JSON `json:"story" gorm:"column:story"`
	Images      datatypes.JSON `json:"images" gorm:"column:images"`
	Stock       int            `json:"stock" gorm:"column:stock"`
}

// Input is the create/update payload. Update is a full replacement, so omitted
// optional fields fall back to the same defaults as create.
type Input struct {
	ID               string         `json:"id" validate:"omitempty,max=64"`
	Name             string         `json:"name" validate:"required"`
	Price            types.Money    `json:"price"`
	OfferPrice       *types.Money   `json:"offerPrice"`
	OfferPriceLegacy *types.Money   `json:"offer_price"`
	Category         string         `json:"category"`
	Rating           *float64       `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Reviews          *int           `json:"reviews" validate:"omitempty,gte=0"`
	Description      string         `json:"description"`
	Material         string         `json:"material"`
	Dimensions       string         `json:"dimensions"`
	Origin           string         `json:"origin"`
	Impact           string         `json:"impact"`
	Details          datatypes.JSON `json:"details"`
	Story            datatypes.JSON `json:"story"`
	Images           datatypes.JSON `json:"images"`
	Stock            *int           `json:"stock" validate:"omitempty,gte=0"`
}

// toProduct applies defaults. offerPrice wins over offer_price when both are sent.
func (in Input) toProduct(id string) Product {
	p := Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		OfferPrice:  in.OfferPrice,
		Category:    in.Category,
		Rating:      DefaultRating,
		Reviews:     DefaultReviews,
		Description: in.Description,
		Material:    in.Material,
		Dimensions:  in.Dimensions,
		Origin:      in.Origin,
		Impact:      in.Impact,
		Details:     in.Details,
		Story:       in.Story,
		Images:      in.Images,
		Stock:       DefaultStock,
	}
	if p.OfferPrice == nil {
		p.OfferPrice = in.OfferPriceLegacy
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Reviews != nil {
		p.Reviews = *in.Reviews
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p
}
