package models

import "github.com/google/uuid"

// Product is a listing created by a user. The owner is set at creation
// time and never reassigned by updates.
type Product struct {
	BaseModel
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Owner       *User     `json:"owner,omitempty"`
	Reviews     []Review  `json:"reviews,omitempty"`
}

// Review is a user-authored rating of a product.
type Review struct {
	BaseModel
	Text      string    `json:"text"`
	Stars     int       `json:"stars"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
}
