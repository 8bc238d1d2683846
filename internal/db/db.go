package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardswipe/cardswipe/internal/config"
)

// NewDB initializes the database connection using DSN from config.
//
// TranslateError is required: the swipe ledger and match table rely on
// unique-index violations surfacing as gorm.ErrDuplicatedKey.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate ensures the schema is in sync with the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Card{},
		&UserCard{},
		&WishlistEntry{},
		&Swipe{},
		&Match{},
		&Message{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
