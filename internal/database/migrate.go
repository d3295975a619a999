package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/Subasree2717/agropredictor/internal/models"
)

// forecastRunsDDL creates the append-only forecast log written through sqlx
const forecastRunsDDL = `
	CREATE TABLE IF NOT EXISTS forecast_runs (
		id BIGSERIAL PRIMARY KEY,
		request_id TEXT NOT NULL,
		observation JSONB NOT NULL,
		steps JSONB NOT NULL,
		recorded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`

// RunMigrations creates or updates the history tables
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Prediction{}, &models.ChatMessage{}); err != nil {
		return fmt.Errorf("failed to migrate history tables: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
		return nil
	}

	if err := db.Exec(forecastRunsDDL).Error; err != nil {
		return fmt.Errorf("failed to create forecast_runs table: %w", err)
	}
	log.Printf("Applied migrations")
	return nil
}

// ExpectedTables lists the tables RunMigrations creates for db's dialect
func ExpectedTables(db *gorm.DB) []string {
	tables := []string{"predictions", "chat_history"}
	if db.Dialector.Name() != "sqlite" {
		tables = append(tables, "forecast_runs")
	}
	return tables
}

// MissingTables reports which expected tables do not exist yet
func MissingTables(db *gorm.DB) []string {
	var missing []string
	for _, table := range ExpectedTables(db) {
		if !db.Migrator().HasTable(table) {
			missing = append(missing, table)
		}
	}
	return missing
}
