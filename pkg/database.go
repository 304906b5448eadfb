package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/coursekit/platform-service/internal/config"
	"github.com/coursekit/platform-service/internal/models"
)

// InitDatabase opens the Postgres connection and migrates the schema.
// TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Folder{},
		&models.Media{},
		&models.Course{},
		&models.Enrollment{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
