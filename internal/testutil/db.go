// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite returns an empty in-memory database closed with the test.
func OpenSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Disable logs during tests
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would get its own :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// NewDB returns an in-memory database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := OpenSQLite(t)
	require.NoError(t, db.AutoMigrate(&models.QueuedWebhook{}, &models.Lead{}, &models.Setting{}))
	return db
}
