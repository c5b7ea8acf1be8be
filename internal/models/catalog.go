package models

// Category groups products. Platform-owned: only superusers may mutate.
type Category struct {
	BaseModel
	Name     string    `json:"name"`
	Products []Product `json:"products,omitempty"`
}
