package models

import "time"

type Recipe struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	AuthorID    uint   `json:"author_id" gorm:"not null;index"`
	Author      User   `json:"author" gorm:"foreignKey:AuthorID"`
	Name        string `json:"name" gorm:"size:256;not null"`
	Image       string `json:"image" gorm:"not null"`
	Text        string `json:"text" gorm:"type:text;not null"`
	CookingTime int    `json:"cooking_time" gorm:"not null"`
	// CreatedAt is set once on publication and never updated; lists are
	// ordered newest first on this column.
	CreatedAt time.Time `json:"created_at"`

	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;"`
}

// RecipeIngredient attaches an ingredient to a recipe with its amount.
type RecipeIngredient struct {
	ID           uint       `json:"id" gorm:"primarykey"`
	RecipeID     uint       `json:"recipe_id" gorm:"not null;index"`
	IngredientID uint       `json:"ingredient_id" gorm:"not null;index"`
	Ingredient   Ingredient `json:"ingredient" gorm:"foreignKey:IngredientID"`
	Amount       int        `json:"amount" gorm:"not null"`
}

type RecipeTag struct {
	RecipeID uint `json:"recipe_id" gorm:"primaryKey"`
	TagID    uint `json:"tag_id" gorm:"primaryKey"`
}

type Favorite struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	CreatedAt time.Time `json:"created_at"`
}

type ShoppingCartEntry struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_pair"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_pair"`
	CreatedAt time.Time `json:"created_at"`
}

// CartIngredient is one row of the shopping-cart join used by the
// shopping-list aggregation.
type CartIngredient struct {
	Name            string
	MeasurementUnit string
	Amount          int
}
