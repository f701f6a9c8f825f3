package database

import (
	"github.com/tastebook/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all application models.
// Ingredient and Tag are migrated before Recipe so the join tables can
// reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.Bookmark{},
	)
}
