package stories

// Story is a testimonial shown on the site.
type Story struct {
	ID       int64  `json:"id" gorm:"column:id"`
	Name     string `json:"name" gorm:"column:name"`
	Role     string `json:"role" gorm:"column:role"`
	Image    string `json:"image" gorm:"column:image"`
	Quote    string `json:"quote" gorm:"column:quote"`
	Featured bool   `json:"featured" gorm:"column:featured"`
}

type Input struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role"`
	Image    string `json:"image"`
	Quote    string `json:"quote"`
	Featured bool   `json:"featured"`
}
