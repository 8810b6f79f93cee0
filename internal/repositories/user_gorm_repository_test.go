package repositories_test

import (
	"fmt"
	"testing"

	"partspicker/internal/models"
	"partspicker/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newUserRepo(t *testing.T) *repositories.GORMUserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return repositories.NewGORMUserRepository(db)
}

func TestGORMUserRepository_CreateAndLookup(t *testing.T) {
	repo := newUserRepo(t)

	user := &models.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	require.NoError(t, repo.Create(user))
	require.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)

	byName, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail("alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// A duplicate insert that slips past the service's pre-checks must still
// report which unique column it collided on.
func TestGORMUserRepository_DuplicateColumnIsDistinguished(t *testing.T) {
	repo := newUserRepo(t)

	require.NoError(t, repo.Create(&models.User{
		Username: "alice", Email: "alice@x.com", Password: "hash",
	}))

	// Same username, different email.
	err := repo.Create(&models.User{
		Username: "alice", Email: "other@x.com", Password: "hash",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)

	// Same email, different username.
	err = repo.Create(&models.User{
		Username: "bob", Email: "alice@x.com", Password: "hash",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestGORMUserRepository_UpdateRole(t *testing.T) {
	repo := newUserRepo(t)

	user := &models.User{Username: "alice", Email: "alice@x.com", Password: "hash"}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.UpdateRole(user.ID, models.RoleAdmin))
	updated, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	err = repo.UpdateRole("missing-id", models.RoleAdmin)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
