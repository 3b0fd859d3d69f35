package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"tradejoy/internal/delivery/http/dto"
	"tradejoy/internal/domain"
	"tradejoy/internal/middleware"
)

// AuthHandler handles account registration and session management
type AuthHandler struct {
	userRepo domain.UserRepository
	logger   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo domain.UserRepository, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a new trading account with the starting balance
// POST /api/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest(c, "Invalid request payload")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return BadRequest(c, "Username, email and password are required")
	}
	if len(req.Password) < 6 {
		return BadRequest(c, "Password must be at least 6 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to hash password")
		return InternalServerError(c, "Failed to create account")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Balance:      domain.StartingBalance,
		CreatedAt:    time.Now(),
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return BadRequest(c, "Username or email already exists")
		}
		h.logger.Error().Err(err).Msg("failed to create user")
		return InternalServerError(c, "Failed to create account")
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate token")
		return InternalServerError(c, "Failed to create session")
	}
	h.setSessionCookie(c, token, 86400)

	return Created(c, echo.Map{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"balance":  user.Balance,
		"message":  "Registration successful",
	})
}

// Login verifies credentials and opens a session
// POST /api/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest(c, "Invalid request payload")
	}
	if req.Username == "" || req.Password == "" {
		return BadRequest(c, "Username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return Unauthorized(c, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Unauthorized(c, "Invalid credentials")
	}

	token, err := middleware.GenerateJWT(user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate token")
		return InternalServerError(c, "Failed to create session")
	}
	h.setSessionCookie(c, token, 86400)

	return Success(c, echo.Map{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"balance":  user.Balance,
		"token":    token,
	})
}

// Logout clears the session cookie
// POST /api/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	h.setSessionCookie(c, "", -1)
	return Success(c, echo.Map{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}
