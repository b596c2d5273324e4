package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/outfitting-go/internal/adapters/persistence"
	"github.com/andrescamacho/outfitting-go/internal/infrastructure/database"
)

// NewTestDB opens a private migrated in-memory build store, closed when t ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "open in-memory build store")
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewTestBuildRepository returns a repository over a fresh NewTestDB
func NewTestBuildRepository(t *testing.T) (*persistence.GormBuildRepository, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return persistence.NewGormBuildRepository(db), db
}
