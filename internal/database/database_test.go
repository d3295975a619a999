package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Subasree2717/agropredictor/config"
	"github.com/Subasree2717/agropredictor/internal/models"
)

func TestNewSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "history.db")}

	db, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"predictions", "chat_history"}, MissingTables(db))
	require.NoError(t, RunMigrations(db))
	assert.Empty(t, MissingTables(db))

	assert.True(t, db.Migrator().HasTable(&models.Prediction{}))
	assert.True(t, db.Migrator().HasTable(&models.ChatMessage{}))
	assert.False(t, db.Migrator().HasTable("forecast_runs"))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestNewSQLXRequiresPostgres(t *testing.T) {
	_, err := NewSQLX(&config.Config{DBDriver: "sqlite"})
	assert.Error(t, err)
}
