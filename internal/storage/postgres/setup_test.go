package postgres

import (
	"testing"

	"github.com/joshu-sajeev/stepform/internal/models"
	"github.com/joshu-sajeev/stepform/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	db := testutil.OpenSQLite(t)

	err := MigrateModels(db, &models.QueuedWebhook{}, &models.Lead{}, &models.Setting{})
	require.NoError(t, err)

	return db
}
