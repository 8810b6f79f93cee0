package handlers

import (
	"log"
	"time"

	"partspicker/internal/middleware"
	"partspicker/internal/models"
	"partspicker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and account
// administration.
type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     validator.New(),
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers the authentication routes. session must be the
// session-resolver middleware; it guards /auth/me and the role endpoint.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", session, h.HandleMe)

	// Role changes use the role gate, not the legacy admin code.
	router.Patch("/users/:id/role", session, middleware.RequireAdmin(), h.HandleSetRole)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if err := h.authService.Register(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Registration failed",
			"error":   err.Error(),
		})
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates the user and hands the session token back both
// ways the clients expect: as an HttpOnly access_token cookie and in a JSON
// bearer body.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Authentication failed",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.authService.TokenTTL()),
	})
	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// HandleMe returns the identity resolved from the session token.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Could not validate credentials",
		})
	}
	sanitized := *user
	sanitized.Password = ""
	return c.JSON(sanitized)
}

// SetRoleRequest represents the request body for a role change.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// HandleSetRole changes a user's role. Guarded by RequireAdmin.
func (h *AuthHandler) HandleSetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := c.Params("id")
	if err := h.authService.SetRole(userID, req.Role); err != nil {
		log.Printf("Error setting role for user %s: %v", userID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not update role",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
	})
}
