package handler

import (
	"errors"
	"net/http"

	"apex-tracker/internal/core/logger"
	"apex-tracker/internal/core/validation"
	"apex-tracker/internal/features/accounts/domain"
	"apex-tracker/internal/features/accounts/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccountHandler handles login and user management requests.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler creates a new instance of AccountHandler.
func NewAccountHandler(s *service.AccountService) *AccountHandler {
	return &AccountHandler{
		service: s,
	}
}

// LoginResponse carries an admin session token.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// Login checks the admin credentials.
// @Summary Admin login
// @Description Exchanges the admin username and password for a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	if err := req.Validate(); err != nil {
		return h.fail(c, err)
	}

	token, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.service.TokenTTL().Seconds()),
	})
}

// SessionResponse describes the current admin session.
type SessionResponse struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// Me returns the session of the authenticated admin.
// @Summary Current admin session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	claims := AdminClaims(c)
	if claims == nil {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Not authenticated",
			RayID:   rayID(c),
		})
	}

	resp := SessionResponse{
		Username: claims.Subject,
		Name:     claims.Name,
		Role:     string(claims.Role),
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// ListUsers returns every stored user.
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.User
// @Failure 401 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AccountHandler) ListUsers(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.service.ListUsers(c.UserContext()))
}

// CreateUser handles the admin add-user form.
// @Summary Add user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body domain.AddUserRequest true "New user"
// @Success 201 {object} domain.User
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/users [post]
func (h *AccountHandler) CreateUser(c *fiber.Ctx) error {
	var req domain.AddUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	user, err := h.service.CreateUser(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(user)
}

func (h *AccountHandler) fail(c *fiber.Ctx, err error) error {
	id := rayID(c)

	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
			Message: "Validation failed",
			RayID:   id,
			Errors:  verr.Fields,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		logger.Get().Warn("Rejected admin login", zap.String("ray_id", id))
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Message: "Invalid username or password",
			RayID:   id,
		})
	}

	logger.Get().Error("Account request failed", zap.String("ray_id", id), zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal Server Error",
		RayID:   id,
	})
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// ValidationErrorResponse is returned when a form fails validation.
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	RayID   string            `json:"ray_id"`
	Errors  map[string]string `json:"errors"`
}
