package database

import (
	"fmt"

	"bakery-backend/internal/config"
	"bakery-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to postgres and runs the schema migration. The returned handle
// is passed explicitly to everything that needs the store; there is no
// package-level connection.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database connect: %w", err)
	}

	if err := db.AutoMigrate(&models.SaleRecord{}); err != nil {
		return nil, fmt.Errorf("database migrate: %w", err)
	}
	return db, nil
}
