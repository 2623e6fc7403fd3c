package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veldtrade/procurement-backend/pkg/db/models"
	"github.com/veldtrade/procurement-backend/pkg/enums"
	pkgerrors "github.com/veldtrade/procurement-backend/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT,
  email TEXT,
  role TEXT,
  is_active INTEGER DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, name string, active bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    name + "@example.test",
		Role:     enums.UserRolePurchasingManager,
		IsActive: active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestGetUser(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)
	ctx := context.Background()

	created := newUser(t, db, "ines", true)

	user, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "ines", user.Name)

	_, err = svc.GetUser(ctx, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListUsersReturnsActiveOrderedByName(t *testing.T) {
	db := setupUsersTestDB(t)
	svc, err := NewService(NewRepository(db), nil)
	require.NoError(t, err)

	newUser(t, db, "zoe", true)
	newUser(t, db, "alvaro", true)
	newUser(t, db, "former", false)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alvaro", users[0].Name)
	assert.Equal(t, "zoe", users[1].Name)
}
