package handler

import (
	"net/http"
	"strings"

	"apex-tracker/internal/features/accounts/service"

	"github.com/gofiber/fiber/v2"
)

// AdminLocalsKey is the fiber Locals key holding the verified *service.Claims.
const AdminLocalsKey = "admin"

// TokenVerifier validates admin session tokens.
type TokenVerifier interface {
	VerifyToken(token string) (*service.Claims, error)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer" admin token.
func RequireAdmin(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Missing bearer token",
				RayID:   rayID(c),
			})
		}

		claims, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Invalid or expired token",
				RayID:   rayID(c),
			})
		}

		c.Locals(AdminLocalsKey, claims)
		return c.Next()
	}
}

// AdminClaims returns the claims stored by RequireAdmin, or nil.
func AdminClaims(c *fiber.Ctx) *service.Claims {
	claims, _ := c.Locals(AdminLocalsKey).(*service.Claims)
	return claims
}
