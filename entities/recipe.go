package entities

import (
	"github.com/google/uuid"
	"time"
)

type Recipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Category     string    `gorm:"index" json:"category"`
	Area         string    `gorm:"index" json:"area"`
	Instructions string    `gorm:"type:text" json:"instructions"`
	Time         int       `json:"time"`
	ImageURL     string    `json:"image_url"`
	ThumbURL     string    `json:"thumb_url"`
	VideoURL     string    `json:"video_url,omitempty"`
	Popularity   int       `gorm:"not null;default:0;index" json:"popularity"`

	Owner       *User               `gorm:"foreignKey:OwnerID"`
	Ingredients []*RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index" json:"ingredient_id"`
	Measure      string    `json:"measure"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

type RecipeFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_favorite_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_favorite_pair;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}
