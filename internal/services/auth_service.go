package services

import (
	"crypto/subtle"
	"fmt"
	"log"
	"time"

	"partspicker/internal/models"
	"partspicker/internal/repositories"
)

// AuthService handles registration, credential verification and token
// issuance, plus the two separate admin gates (static code and role).
type AuthService struct {
	userRepo  repositories.UserRepository
	tokens    *TokenService
	tokenTTL  time.Duration
	adminCode string
}

// NewAuthService creates a new AuthService. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, ttl time.Duration, adminCode string) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		tokenTTL:  ttl,
		adminCode: adminCode,
	}
}

// TokenTTL returns the configured session token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Register registers a new user, hashes their password and saves them.
// Duplicate usernames and emails are rejected before the insert so the
// caller gets a specific conflict error.
func (s *AuthService) Register(user *models.User) error {
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return fmt.Errorf("register %s: %w", user.Username, models.ErrDuplicateUsername)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("register %s: %w", user.Email, models.ErrDuplicateEmail)
	}

	hashed, err := HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// Login verifies the username/password pair and issues a session token.
// Every failure collapses to models.ErrInvalidCredentials so the response
// never reveals which field was wrong.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}

	ok, err := VerifyPassword(password, user.Password)
	if err != nil {
		// A corrupt stored hash is a server-side problem, but the caller
		// still only learns that the login failed.
		log.Printf("password verify error for user %s: %v", username, err)
		return "", models.ErrInvalidCredentials
	}
	if !ok {
		return "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// CheckAdminCode compares the supplied code against the operator-configured
// admin code in constant time. This is the legacy shared-secret gate used by
// destructive catalog operations; it is deliberately kept separate from the
// role gate.
func (s *AuthService) CheckAdminCode(code string) bool {
	if s.adminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.adminCode)) == 1
}

// SetRole changes a user's role. Callers are expected to guard this with the
// role gate; the service only validates the target role value.
func (s *AuthService) SetRole(userID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}
	if err := s.userRepo.UpdateRole(userID, role); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}
