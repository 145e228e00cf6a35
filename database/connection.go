package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Ananth-NQI/loanverse-backend/internal/config"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
)

var DB *gorm.DB

// Connect opens the PostgreSQL connection described by cfg. Cloud SQL is
// reached through its unix socket when an instance connection name is set.
func Connect(cfg config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		log.Info("Connecting to Cloud SQL via socket", map[string]interface{}{"instance": cfg.InstanceConnectionName})
	} else {
		log.Info("Connecting to PostgreSQL", map[string]interface{}{"host": cfg.Host, "port": cfg.Port, "database": cfg.Name})
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	DB = db
	log.Info("Database connected", nil)
	return db, nil
}

// Close releases the connection pool.
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
