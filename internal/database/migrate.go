package database

import (
	"gorm.io/gorm"

	"github.com/donovan-vargas/recipe-app-api/internal/models"
)

// RunMigrations brings the schema up to date for all domain models,
// including the two many-to-many join tables.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
}
