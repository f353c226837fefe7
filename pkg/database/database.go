package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"github.com/Solomon-mithra/CRM-backend/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB is the global database instance
var DB *gorm.DB

// Initialize opens the database connection (PostgreSQL or SQLite depending
// on configuration) and migrates the CRM models.
func Initialize(cfg *config.DBConfig) error {
	var err error

	switch cfg.Driver {
	case "sqlite":
		DB, err = OpenSQLite(cfg.SQLitePath, cfg.LogLevel)
		if err != nil {
			return err
		}
	default:
		pgConfig := postgres.Config{
			DSN:                  cfg.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		}

		DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
			Logger:         logger.Default.LogMode(cfg.LogLevel),
			TranslateError: true,
		})
		if err != nil {
			log.Printf("Failed to connect to database: %v", err)
			return err
		}

		sqlDB, err := DB.DB()
		if err != nil {
			log.Printf("Failed to get database object: %v", err)
			return err
		}

		// Connection pool settings apply to PostgreSQL only
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

// OpenSQLite opens a SQLite database at the given path through the pure Go
// driver. The pool is capped at one connection so that an in-memory database
// is not silently duplicated per connection.
func OpenSQLite(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
		Conn:       sqlDB,
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate runs migrations for the CRM models
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database is not initialized")
	}

	if err := db.AutoMigrate(&model.User{}, &model.Lead{}, &model.Activity{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// HealthCheck pings the underlying connection
func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
