package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/logger"
	"github.com/Galinha2/super-nova-2177/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection of the API server
var DB *gorm.DB

// Drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database. driver is "postgres" or "sqlite"; for
// postgres an empty dsn is assembled from DB_* environment variables.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverSQLite:
		if dsn == "" {
			dsn = "supernova.db"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres, "postgresql", "":
		if dsn == "" {
			dsn = postgresDSNFromEnv()
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if db.Dialector.Name() == DriverSQLite {
		// one writer; also keeps :memory: databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Initialize opens the server's global connection
func Initialize(driver, dsn string) error {
	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}
	DB = db
	logger.Log.Info("Database connected", zap.String("driver", db.Dialector.Name()))
	return nil
}

// Migrate runs auto-migration for all models on db
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := db.AutoMigrate(&models.Proposal{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	logger.Log.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	return db.Exec("CREATE INDEX IF NOT EXISTS idx_proposals_title_lower ON proposals (LOWER(title))").Error
}

// Ping checks the connection is alive
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the global connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func postgresDSNFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "supernova")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
