package config

import (
	"fmt"

	"cafe-api/logging"
	"cafe-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// OpenDB opens the SQLite file at cfg.Path and creates the cafes table on
// first run.
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:         logging.GormLogger(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Cafe{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("Database connected and migrated")
	return db, nil
}
