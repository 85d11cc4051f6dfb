// Package testutil provides an in-memory store and identity fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"maidmatch_backend/database"
	"maidmatch_backend/internal/config"
	"maidmatch_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a private in-memory SQLite database with all tables migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := TestConfig()
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := database.Open(cfg)
	require.NoError(t, err, "open test database")
	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// TestConfig returns a config suitable for tests.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = "test-secret"
	cfg.Defaults()
	return cfg
}

// CreateUser inserts an identity with the given role.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:                 uuid.NewString(),
		Name:               string(role) + "-" + uuid.NewString()[:8],
		Role:               role,
		VerificationStatus: models.VerificationVerified,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateRequester(t *testing.T, db *gorm.DB) *models.User {
	return CreateUser(t, db, models.UserRoleRequester)
}

func CreateProvider(t *testing.T, db *gorm.DB) *models.User {
	return CreateUser(t, db, models.UserRoleProvider)
}

func CreateAdmin(t *testing.T, db *gorm.DB) *models.User {
	return CreateUser(t, db, models.UserRoleAdmin)
}

// ReloadUser reads the identity back from the store.
func ReloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}
