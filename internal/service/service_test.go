package service

import (
	"context"
	"errors"
	"testing"

	"plume/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		FullName: "Test " + username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// assetStoreStub records calls and can be told to fail.
type assetStoreStub struct {
	stored   [][]byte
	removed  []string
	ref      string
	storeErr error
	remErr   error
}

func (s *assetStoreStub) Store(_ context.Context, data []byte) (string, error) {
	if s.storeErr != nil {
		return "", s.storeErr
	}
	s.stored = append(s.stored, data)
	if s.ref == "" {
		return "/media/stub.png", nil
	}
	return s.ref, nil
}

func (s *assetStoreStub) Remove(_ context.Context, ref string) error {
	if s.remErr != nil {
		return s.remErr
	}
	s.removed = append(s.removed, ref)
	return nil
}

var errStoreDown = errors.New("object store unreachable")
