package models

import "time"

// Tag labels a user's recipes. Tags are owned by exactly one user and are
// never shared across accounts.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
}

// Ingredient follows the same ownership model as Tag.
type Ingredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
}

// Recipe is the central domain record. Image holds the storage path of the
// uploaded picture, not a URL; the storage layer resolves it.
type Recipe struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	User        User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	TimeMinutes int          `gorm:"not null;check:time_minutes >= 0" json:"time_minutes"`
	Price       float64      `gorm:"type:decimal(5,2);not null" json:"price"`
	Link        string       `gorm:"size:255" json:"link"`
	Image       string       `gorm:"size:255" json:"image"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}
