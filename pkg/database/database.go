package database

import (
	"fmt"
	"log"

	"github.com/pleky/nyx-gym-admin/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// InitDB initializes the database connection with configuration
func InitDB(dbConfig *config.DBConfig) (*gorm.DB, error) {
	var err error

	// Configure Postgres options
	pgConfig := postgres.Config{
		DSN:                  dbConfig.GetDSN(),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	// Open connection
	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(dbConfig.LogLevel),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return nil, err
	}

	// Get generic database object SQL
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database object: %v", err)
		return nil, err
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return DB, nil
}

// MigrateModels runs migrations for the provided models
func MigrateModels(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// partialUniqueIndexes are Postgres partial unique indexes that plain GORM
// tags cannot express: uniqueness must hold among live rows only, so a
// tombstoned member's phone or email can be reused. Member identity is
// unique per gym; staff emails are login identifiers and stay global.
var partialUniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_phone_live ON members (gym_id, phone) WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_email_live ON members (gym_id, email) WHERE deleted_at IS NULL AND email <> ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_staff_users_email_live ON staff_users (email) WHERE deleted_at IS NULL`,
}

// CreatePartialIndexes installs the live-row uniqueness indexes. Postgres
// only; the sqlite test databases rely on the service-layer checks instead.
func CreatePartialIndexes() error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}

	for _, stmt := range partialUniqueIndexes {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create partial index: %w", err)
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
