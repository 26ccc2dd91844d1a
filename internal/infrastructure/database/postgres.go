package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AyushS-03/IndieMentor-AI/internal/infrastructure/repositories"
)

// Open creates a new database connection against the hosted Postgres.
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for all hosted tables plus the
// Casbin policy tables for RBAC.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBProfile{},
		&repositories.DBMentor{},
		&repositories.DBSubscription{},
		&repositories.DBConversation{},
	); err != nil {
		return fmt.Errorf("failed to migrate hosted tables: %w", err)
	}

	// The adapter creates the casbin_rules table if it doesn't exist.
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}
	_ = adapter

	return nil
}
