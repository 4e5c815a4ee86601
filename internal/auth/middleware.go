package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/quickstop/cafebot/pkg/util"
)

// SecretMiddleware guards the admin surface with a shared secret, passed
// either as the X-Admin-Key header or the key query parameter.
type SecretMiddleware struct {
	secret string
}

// NewSecretMiddleware constructs middleware around the configured secret.
func NewSecretMiddleware(secret string) *SecretMiddleware {
	return &SecretMiddleware{secret: secret}
}

// Handle enforces the shared secret for protected routes.
func (m *SecretMiddleware) Handle(c *fiber.Ctx) error {
	if m.secret == "" {
		return apperrors.NewUnauthorized("admin key not configured")
	}

	provided := c.Get("X-Admin-Key")
	if provided == "" {
		provided = c.Query("key")
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(m.secret)) != 1 {
		return apperrors.NewUnauthorized("invalid admin key")
	}
	return c.Next()
}
