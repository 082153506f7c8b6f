// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"zamar-backend/config"
	"zamar-backend/internal/database"
	"zamar-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory sqlite database with roles seeded. Each
// call gets its own database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.ConnectDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	require.NoError(t, database.SeedRBAC(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts an active user with the given role and password
// "password123". referredBy may be nil.
func CreateUser(t testing.TB, db *gorm.DB, email, roleName string, referredBy *uint) *model.User {
	t.Helper()

	var role model.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Name:         email,
		Email:        email,
		Password:     string(hash),
		RoleID:       role.ID,
		ReferralCode: strings.ToUpper(uuid.NewString()[:8]),
		ReferredByID: referredBy,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	user.Role = role
	return user
}
