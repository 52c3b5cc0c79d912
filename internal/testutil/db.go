// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB returns a migrated in-memory database private to the test.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Each connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a verified normal-login user with the given password hash.
func CreateUser(t testing.TB, db *gorm.DB, username, email, passwordHash string) *models.User {
	t.Helper()
	user := &models.User{
		Fullname:   username,
		Username:   username,
		Email:      email,
		Password:   &passwordHash,
		LoginType:  models.LoginTypeNormal,
		IsActive:   true,
		IsVerified: true,
		Step:       1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCategory inserts an active category.
func CreateCategory(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreatePost inserts a live post owned by authorID.
func CreatePost(t testing.TB, db *gorm.DB, authorID, categoryID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      title,
		Content:    title + " content",
		AuthorID:   authorID,
		CategoryID: &categoryID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
