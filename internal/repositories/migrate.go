package repositories

import (
	"github.com/anonto42/blogfeed/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
