package entities

import (
	"github.com/google/uuid"
)

type Category struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"uniqueIndex;not null" json:"name"`
	Image string    `json:"image"`

	Timestamp
}

type Area struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`

	Timestamp
}

type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `json:"type"`
	Image       string    `json:"image,omitempty"`

	Timestamp
}

type Testimonial struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `json:"name"`
	Avatar  string    `json:"avatar"`
	Comment string    `gorm:"type:text" json:"comment"`

	Timestamp
}
