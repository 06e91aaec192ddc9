package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/models"
)

// DB is the process-wide database handle. Nil when the gateway runs without
// persistence (no DSN configured).
var DB *gorm.DB

// InitDB connects to Postgres and migrates the flow tables. Returns nil DB
// without error when no DSN is configured, so the gateway can run stateless.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		log.Println("⚠️ No database DSN configured, flow history disabled")
		return nil, nil
	}

	database, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := database.AutoMigrate(&models.FlowRecord{}, &models.SettlementRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("✅ Database connected and migrated")
	DB = database
	return database, nil
}
