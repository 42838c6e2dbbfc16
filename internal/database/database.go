// internal/database/database.go
package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"jobtrack-back/internal/models"
)

// InitDB opens the Postgres connection described by the DB_* environment
// variables. TranslateError is on so unique-index violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func InitDB() (*gorm.DB, error) {
	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	dbname := getenv("DB_NAME", "jobtrack")
	sslmode := getenv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// MigrateDB runs auto-migration and creates the partial unique index that
// enforces one live application per (user, company, position). The condition
// cannot be expressed in a gorm index tag, so it is created directly; the
// statement is valid on both Postgres and SQLite.
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.JobApplication{},
		&models.Interview{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	stmt := `CREATE UNIQUE INDEX IF NOT EXISTS uniq_user_application
		ON job_applications (user_id, company, position)
		WHERE status IN ('Applied', 'Interviewing', 'Assessment', 'Offered')`
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create unique application index: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
