package models

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	// A named shared-cache DB keeps gorm's pooled connections on the same
	// in-memory database while isolating tests from each other.
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	require.NoError(err)

	err = db.AutoMigrate(AllTables()...)
	require.NoError(err)

	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}

// MockUser creates a user in the database.
func MockUser(t *testing.T, db *gorm.DB, username string, perms ...string) *User {
	t.Helper()
	require := require.New(t)

	user := &User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "x",
	}
	require.NoError(db.Create(user).Error)
	require.NoError(user.Grant(db, perms...))
	return user
}

// MockPost creates a post owned by user.
func MockPost(t *testing.T, db *gorm.DB, user *User, title string) *Post {
	t.Helper()
	require := require.New(t)

	post := &Post{UserID: user.ID, Title: title, Content: "body"}
	require.NoError(db.Create(post).Error)
	return post
}

// MockAttachment pins a stored file to entity on behalf of user.
func MockAttachment(t *testing.T, db *gorm.DB, user *User, entity Entity, filePath string, opts ...func(*Attachment)) *Attachment {
	t.Helper()
	require := require.New(t)

	creatorID := user.ID
	attachment := &Attachment{
		ContentType: entity.EntityType(),
		ObjectID:    entity.EntityID(),
		CreatorID:   &creatorID,
		FilePath:    filePath,
	}
	for _, opt := range opts {
		opt(attachment)
	}
	require.NoError(db.Create(attachment).Error)
	return attachment
}
