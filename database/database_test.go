package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"goTwitter/domain"
)

// testDB opens a fresh in-memory sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Tweet{},
		domain.Follow{},
		domain.Like{},
	))
	return db
}

func createTestUser(t *testing.T, us *UserService, name, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: "secret1",
	}
	require.NoError(t, us.Create(user))
	return user
}

func createTestTweet(t *testing.T, db *gorm.DB, userID int, content string, parentID *int, createdAt time.Time) *domain.Tweet {
	t.Helper()
	tweet := &domain.Tweet{
		UserID:    userID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(tweet).Error)
	return tweet
}
