package services_test

import (
	"fmt"
	"testing"
	"time"

	"partspicker/internal/models"
	"partspicker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(id string, role string) error {
	args := m.Called(id, role)
	return args.Error(0)
}

func newAuthService(repo *MockUserRepository) *services.AuthService {
	tokens := services.NewTokenService("test_jwt_secret")
	return services.NewAuthService(repo, tokens, 30*time.Minute, "admin123")
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	user := &models.User{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw123456",
	}

	mockRepo.On("GetByUsername", "alice").Return(nil, models.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "alice@x.com").Return(nil, models.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.Register(user)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", user.Password, "password must be stored hashed")
	assert.Equal(t, models.RoleUser, user.Role)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByUsername", "alice").Return(&models.User{ID: "1"}, nil).Once()

	err := authService.Register(&models.User{Username: "alice", Email: "other@x.com", Password: "pw123456"})
	assert.ErrorIs(t, err, models.ErrDuplicateUsername)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByUsername", "bob").Return(nil, models.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "alice@x.com").Return(&models.User{ID: "1"}, nil).Once()

	err := authService.Register(&models.User{Username: "bob", Email: "alice@x.com", Password: "pw123456"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	hashed, err := services.HashPassword("pw123")
	require.NoError(t, err)
	user := &models.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "alice@x.com",
		Password: hashed,
	}

	// Successful login issues a token whose subject resolves back to alice.
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	token, err := authService.Login("alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	tokens := services.NewTokenService("test_jwt_secret")
	subject, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	mockRepo.AssertExpectations(t)

	// Wrong password collapses to invalid credentials.
	mockRepo.On("GetByUsername", "alice").Return(user, nil).Once()
	_, err = authService.Login("alice", "wrongpw")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown user yields the same error as a wrong password.
	mockRepo.On("GetByUsername", "nobody").Return(nil, fmt.Errorf("user with username nobody: %w", models.ErrNotFound)).Once()
	_, err = authService.Login("nobody", "pw123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_CheckAdminCode(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	assert.True(t, authService.CheckAdminCode("admin123"))
	assert.False(t, authService.CheckAdminCode("admin124"))
	assert.False(t, authService.CheckAdminCode(""))

	// An empty configured code disables the gate entirely.
	disabled := services.NewAuthService(mockRepo, services.NewTokenService("s"), time.Minute, "")
	assert.False(t, disabled.CheckAdminCode(""))
	assert.False(t, disabled.CheckAdminCode("anything"))
}

func TestAuthService_SetRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("UpdateRole", "user-123", models.RoleAdmin).Return(nil).Once()
	require.NoError(t, authService.SetRole("user-123", models.RoleAdmin))
	mockRepo.AssertExpectations(t)

	err := authService.SetRole("user-123", "superadmin")
	assert.Error(t, err)

	mockRepo.On("UpdateRole", "ghost", models.RoleUser).
		Return(fmt.Errorf("user with ID ghost: %w", models.ErrNotFound)).Once()
	err = authService.SetRole("ghost", models.RoleUser)
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
